package tracker

import (
	"context"
	"log"
	"sync"

	"soberPathAPI/internal/datemath"
	"soberPathAPI/internal/types/sobriety"
)

// Source is the storage collaborator the tracker reads from. A missing
// profile or slip-up is (nil, nil), not an error.
type Source interface {
	FetchProfile(ctx context.Context, userID string) (*sobriety.Profile, error)
	FetchMostRecentSlipUp(ctx context.Context, userID string) (*sobriety.SlipUp, error)
}

// Tracker keeps a DaysSoberResult fresh for one consuming context
// (a mounted screen, a websocket connection). It refetches when the
// target user changes, recomputes at every device-local midnight while
// started, and guards against stale fetch results overwriting newer
// ones. Stop cancels the pending midnight timer; after Stop the result
// is never mutated again.
type Tracker struct {
	source   Source
	clock    Clock
	deviceTZ string

	// sessionUserID identifies the caller's own user; sessionProfile,
	// when set, avoids a profile fetch for that user.
	sessionUserID  string
	sessionProfile *sobriety.Profile

	onUpdate func(sobriety.DaysSoberResult)

	mu           sync.Mutex
	targetUserID string
	profile      *sobriety.Profile
	slipUp       *sobriety.SlipUp
	result       sobriety.DaysSoberResult
	fetchSeq     uint64
	timer        Timer
	stopped      bool
}

// New builds a tracker for the given session user. clock may be nil,
// in which case the system clock is used. onUpdate, when non-nil, is
// invoked with a snapshot after every recomputation; it runs with the
// tracker's lock held and must not call back into the tracker.
func New(source Source, clock Clock, deviceTZ string, sessionUserID string, onUpdate func(sobriety.DaysSoberResult)) *Tracker {
	if clock == nil {
		clock = NewClock()
	}
	return &Tracker{
		source:        source,
		clock:         clock,
		deviceTZ:      deviceTZ,
		sessionUserID: sessionUserID,
		onUpdate:      onUpdate,
	}
}

// SetSessionProfile caches the session user's own profile so tracking
// the session user skips the profile fetch.
func (t *Tracker) SetSessionProfile(p *sobriety.Profile) {
	t.mu.Lock()
	t.sessionProfile = p
	t.mu.Unlock()
}

// SetTargetUser switches the tracker to userID (empty means the session
// user) and fetches that user's data. Loading is true while the fetch
// is outstanding. Fetch failures land in the result's Error field; the
// slip-up-derived fields fall back to their defaults for that cycle. A
// fetch that resolves after a newer one was issued is discarded.
func (t *Tracker) SetTargetUser(ctx context.Context, userID string) {
	if userID == "" {
		userID = t.sessionUserID
	}

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.targetUserID = userID
	t.fetchSeq++
	seq := t.fetchSeq
	t.result.Loading = true
	t.result.Error = ""
	sessionProfile := t.sessionProfile
	t.mu.Unlock()

	var profile *sobriety.Profile
	var fetchErr error
	if userID == t.sessionUserID && sessionProfile != nil {
		profile = sessionProfile
	} else {
		profile, fetchErr = t.source.FetchProfile(ctx, userID)
	}

	var slipUp *sobriety.SlipUp
	if fetchErr == nil {
		slipUp, fetchErr = t.source.FetchMostRecentSlipUp(ctx, userID)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || seq != t.fetchSeq {
		staleFetchesDiscarded.Inc()
		return
	}

	errMsg := ""
	if fetchErr != nil {
		fetchErrors.Inc()
		log.Printf("Tracker: fetch for user %s failed: %v", userID, fetchErr)
		errMsg = fetchErr.Error()
		slipUp = nil
	}
	t.profile = profile
	t.slipUp = slipUp
	t.applyLocked(errMsg)
	t.notifyLocked()
}

// Refresh recomputes the result from the cached inputs with a fresh
// instant. It does not refetch.
func (t *Tracker) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.applyLocked(t.result.Error)
	t.notifyLocked()
}

// Start arms the self-rescheduling midnight timer. At most one timer is
// pending at any time.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.timer != nil {
		return
	}
	t.scheduleLocked()
}

// Stop cancels the pending midnight timer and freezes the result.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Result returns a snapshot of the current projection.
func (t *Tracker) Result() sobriety.DaysSoberResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

func (t *Tracker) scheduleLocked() {
	now := t.clock.Now()
	t.timer = t.clock.AfterFunc(datemath.NextMidnight(now).Sub(now), t.onMidnight)
}

func (t *Tracker) onMidnight() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	midnightRefreshes.Inc()
	t.applyLocked(t.result.Error)
	t.scheduleLocked()
	t.notifyLocked()
	t.mu.Unlock()
}

// applyLocked rebuilds the result from the cached profile and slip-up,
// carrying the given error message. Loading is always cleared.
func (t *Tracker) applyLocked(errMsg string) {
	var slipUps []sobriety.SlipUp
	if t.slipUp != nil {
		slipUps = append(slipUps, *t.slipUp)
	}
	res := ComputeDaysSober(t.profile, slipUps, t.clock.Now(), t.deviceTZ)
	res.Error = errMsg
	t.result = res
}

func (t *Tracker) notifyLocked() {
	if t.onUpdate != nil {
		t.onUpdate(t.result)
	}
}
