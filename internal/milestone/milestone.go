package milestone

import "fmt"

type Tier string

const (
	TierStart    Tier = "start"
	TierDayOne   Tier = "day_one"
	TierWeek     Tier = "week"
	TierMonth    Tier = "month"
	TierQuarter  Tier = "quarter"
	TierHalfYear Tier = "half_year"
	TierYear     Tier = "year"
	TierYears    Tier = "years"
)

type Milestone struct {
	Label     string `json:"label"`
	Tier      Tier   `json:"tier"`
	Threshold int    `json:"threshold"`
}

// ForDays maps a current-streak day count to its milestone badge.
// Thresholds are evaluated in descending order; the first match wins,
// so exactly 365 days is "1 Year", not "90 Days".
func ForDays(days int) Milestone {
	switch {
	case days >= 730:
		return Milestone{Label: fmt.Sprintf("%d Years", days/365), Tier: TierYears, Threshold: 730}
	case days >= 365:
		return Milestone{Label: "1 Year", Tier: TierYear, Threshold: 365}
	case days >= 180:
		return Milestone{Label: "6 Months", Tier: TierHalfYear, Threshold: 180}
	case days >= 90:
		return Milestone{Label: "90 Days", Tier: TierQuarter, Threshold: 90}
	case days >= 30:
		return Milestone{Label: "30 Days", Tier: TierMonth, Threshold: 30}
	case days >= 7:
		return Milestone{Label: "1 Week", Tier: TierWeek, Threshold: 7}
	case days >= 1:
		return Milestone{Label: "24 Hours", Tier: TierDayOne, Threshold: 1}
	default:
		return Milestone{Label: "< 24 Hours", Tier: TierStart, Threshold: 0}
	}
}
