package client

import (
	"context"
	"sync"
	"time"
)

// State is the tracker's local UI state.
type State string

const (
	StateSelecting  State = "selecting"
	StateSearching  State = "searching"
	StateFound      State = "found"
	StateInProgress State = "in_progress"
	StateRating     State = "rating"
)

// DefaultPollInterval is how often the tracker reconciles against the feed.
const DefaultPollInterval = 2500 * time.Millisecond

// feedMissLimit is how many consecutive polls may fail to find the tracked
// ride before it is treated as cancelled elsewhere. The feed is the only
// signal a client gets, and a single miss can be transient (cache
// generation bump mid-poll), so one miss is tolerated.
const feedMissLimit = 2

// Notifier receives one human-readable message per observed status change.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

// Notify calls f(message).
func (f NotifierFunc) Notify(message string) { f(message) }

// Tracker reconciles the server-side ride lifecycle into a local UI state
// machine by polling the feed on a fixed interval.
//
// The tracker is the sole writer of its state; views read it through
// Snapshot. Each server status change drives exactly one local transition
// and one notification, no matter how many polls observe it. Transient
// fetch failures are swallowed and retried on the next tick.
type Tracker struct {
	api      *Client
	actorID  string
	role     string
	interval time.Duration
	notifier Notifier

	mu            sync.Mutex
	trackedRideID string
	state         State
	lastStatus    string
	feedMisses    int
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithPollInterval overrides the polling interval.
func WithPollInterval(d time.Duration) TrackerOption {
	return func(t *Tracker) { t.interval = d }
}

// WithNotifier sets the notification sink.
func WithNotifier(n Notifier) TrackerOption {
	return func(t *Tracker) { t.notifier = n }
}

// NewTracker creates a tracker for the given actor.
func NewTracker(api *Client, actorID, role string, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		api:      api,
		actorID:  actorID,
		role:     role,
		interval: DefaultPollInterval,
		state:    StateSelecting,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Snapshot is a read-only projection of the tracker state.
type Snapshot struct {
	RideID string
	State  State
	Status string
}

// Snapshot returns the current tracker state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{RideID: t.trackedRideID, State: t.state, Status: t.lastStatus}
}

// Request creates a ride and starts tracking it. On failure the tracker
// stays in selecting and the error is surfaced once through the notifier.
func (t *Tracker) Request(ctx context.Context, params CreateRideParams) (*Ride, error) {
	ride, err := t.api.CreateRide(ctx, params)
	if err != nil {
		t.notify("Could not create request, please try again")
		return nil, err
	}

	t.mu.Lock()
	t.trackedRideID = ride.ID
	t.state = StateSearching
	t.lastStatus = StatusPending
	t.feedMisses = 0
	t.mu.Unlock()

	return ride, nil
}

// Accept claims a ride for a volunteer and starts tracking it. Losing the
// accept race is surfaced once and leaves the tracker in selecting.
func (t *Tracker) Accept(ctx context.Context, rideID, volunteerName string) (*Ride, error) {
	ride, err := t.api.Accept(ctx, rideID, t.actorID, volunteerName)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.Conflict() {
			t.notify("Ride already taken")
		} else {
			t.notify("Could not accept ride, please try again")
		}
		return nil, err
	}

	t.mu.Lock()
	t.trackedRideID = ride.ID
	t.state = StateFound
	t.lastStatus = StatusAccepted
	t.feedMisses = 0
	t.mu.Unlock()

	return ride, nil
}

// Run polls until the context is cancelled. Safe to run in its own
// goroutine; ticks where no ride is tracked are no-ops.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.pollOnce(ctx)
		}
	}
}

// Cancel resets the tracker and notifies the server best-effort. The local
// reset does not depend on the server call succeeding: the user must never
// be stuck waiting on a cancel.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	rideID := t.trackedRideID
	t.trackedRideID = ""
	t.state = StateSelecting
	t.lastStatus = ""
	t.feedMisses = 0
	t.mu.Unlock()

	if rideID == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = t.api.Cancel(ctx, rideID)
	}()
}

// pollOnce fetches the feed and applies at most one state transition.
func (t *Tracker) pollOnce(ctx context.Context) {
	t.mu.Lock()
	rideID := t.trackedRideID
	t.mu.Unlock()

	if rideID == "" {
		return
	}

	feed, err := t.api.Feed(ctx, t.actorID, t.role)
	if err != nil {
		// Transient failure: retry on the next tick.
		return
	}

	var observed *Ride
	for i := range feed {
		if feed[i].ID == rideID {
			observed = &feed[i]
			break
		}
	}
	if observed == nil {
		// The ride fell out of the feed: cancelled by the other party or
		// pruned. Volunteers never see the cancelled row, so disappearance
		// is their only cancellation signal.
		t.mu.Lock()
		if t.trackedRideID != rideID {
			t.mu.Unlock()
			return
		}
		t.feedMisses++
		misses := t.feedMisses
		t.mu.Unlock()

		if misses >= feedMissLimit {
			t.apply(StatusCancelled)
		}
		return
	}

	t.mu.Lock()
	t.feedMisses = 0
	t.mu.Unlock()

	t.apply(observed.Status)
}

// apply transitions the local state machine for a newly observed status.
// Observing the same status again is a no-op.
func (t *Tracker) apply(status string) {
	t.mu.Lock()

	if status == t.lastStatus {
		t.mu.Unlock()
		return
	}
	t.lastStatus = status

	var message string
	switch status {
	case StatusPending:
		t.state = StateSearching
	case StatusAccepted:
		t.state = StateFound
		message = "Volunteer Found"
	case StatusInProgress:
		t.state = StateInProgress
		message = "Ride Started"
	case StatusCompleted:
		t.state = StateRating
		message = "Ride Completed"
	case StatusCancelled:
		t.trackedRideID = ""
		t.state = StateSelecting
		t.lastStatus = ""
		t.feedMisses = 0
		message = "Ride Cancelled"
	}

	t.mu.Unlock()

	if message != "" {
		t.notify(message)
	}
}

func (t *Tracker) notify(message string) {
	if t.notifier != nil {
		t.notifier.Notify(message)
	}
}
