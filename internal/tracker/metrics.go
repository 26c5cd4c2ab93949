package tracker

import "github.com/prometheus/client_golang/prometheus"

var (
	computationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "days_sober_computations_total",
		Help: "Total number of days-sober derivations",
	})
	midnightRefreshes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "days_sober_midnight_refreshes_total",
		Help: "Recomputations triggered by a local-midnight tick",
	})
	staleFetchesDiscarded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "days_sober_stale_fetches_discarded_total",
		Help: "Fetch results discarded because a newer fetch superseded them",
	})
	fetchErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "days_sober_fetch_errors_total",
		Help: "Profile or slip-up fetches that failed",
	})
)

func init() {
	prometheus.MustRegister(computationsTotal, midnightRefreshes, staleFetchesDiscarded, fetchErrors)
}
