// Package service owns the catalog's in-memory state: the authoritative
// country set, the filtered view served to presentation layers, and the
// load/search/pick operations that mutate them. All state lives on a single
// event-loop goroutine; the exported methods are thin command senders.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"atlas/internal/catalog/models"
	"atlas/internal/catalog/source"
	"atlas/internal/platform/metrics"
	"atlas/pkg/platform/sentinel"
)

// Status is the controller's load lifecycle.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

// Snapshot is an immutable copy of controller state handed to consumers.
// The Countries slice is cloned; holding a Snapshot never aliases live state.
type Snapshot struct {
	Status     Status           `json:"status"`
	Error      string           `json:"error,omitempty"`
	SearchText string           `json:"search_text,omitempty"`
	Countries  []models.Country `json:"countries"`
	Total      int              `json:"total"`

	// RandomPick marks the view as a pickRandom override rather than a
	// search-derived subsequence. Cleared by any search change or reset.
	RandomPick bool `json:"random_pick,omitempty"`
}

// EventKind distinguishes the two notification signals.
type EventKind string

const (
	// EventUpdate fires whenever the authoritative set or filtered view
	// changes, including the transition into loading.
	EventUpdate EventKind = "update"

	// EventError fires once per ultimately-failed load, strictly before the
	// fallback-triggered update, so listeners can tell "failed, here is the
	// substitute" from a plain success.
	EventError EventKind = "error"
)

// Event is one notification. Error events carry Message; update events carry
// the post-change Snapshot.
type Event struct {
	Kind     EventKind `json:"kind"`
	Message  string    `json:"message,omitempty"`
	Snapshot Snapshot  `json:"snapshot"`
}

// subscriberBuffer bounds each subscriber channel. A consumer that falls this
// far behind starts losing events rather than stalling the loop.
const subscriberBuffer = 16

type loadResult struct {
	gen       uint64
	countries []models.Country
	err       error
}

type pickReply struct {
	country models.Country
	err     error
}

// Controller coordinates fetch-with-retry, fallback activation, debounced
// search filtering, and random picks. Construct with New, start Run on its
// own goroutine, then call the exported methods from any goroutine.
type Controller struct {
	remote   source.Remote
	fallback source.Fallback
	debounce time.Duration
	log      *slog.Logger
	metrics  *metrics.Metrics

	commands    chan func()
	loadResults chan loadResult
	stopped     chan struct{}

	// Everything below is owned by the Run goroutine.
	runCtx         context.Context
	all            []models.Country
	view           []models.Country
	searchText     string
	status         Status
	errMsg         string
	loadGen        uint64
	randomOverride bool
	subscribers    map[string]chan Event
	debounceTimer  *time.Timer
	debounceC      <-chan time.Time
}

// New wires the controller. The remote is expected to already carry the
// retry policy (source.Retrier); metrics may be nil in tests.
func New(remote source.Remote, fallback source.Fallback, debounce time.Duration, log *slog.Logger, m *metrics.Metrics) *Controller {
	return &Controller{
		remote:      remote,
		fallback:    fallback,
		debounce:    debounce,
		log:         log,
		metrics:     m,
		commands:    make(chan func(), 64),
		loadResults: make(chan loadResult),
		stopped:     make(chan struct{}),
		status:      StatusIdle,
		subscribers: make(map[string]chan Event),
	}
}

// Run executes the event loop until ctx is cancelled. All state mutation
// happens here, so no locking exists anywhere in the controller.
func (c *Controller) Run(ctx context.Context) error {
	c.runCtx = ctx
	defer close(c.stopped)
	defer c.closeSubscribers()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-c.commands:
			cmd()
		case res := <-c.loadResults:
			c.applyLoadResult(res)
		case <-c.debounceC:
			c.debounceC = nil
			c.runFilter()
		}
	}
}

// Load triggers an asynchronous refresh from the remote source. A new call
// supersedes any in-flight one: the superseded result is discarded by
// generation comparison, never applied late.
func (c *Controller) Load() {
	c.send(c.startLoad)
}

// SetSearchText schedules a debounced re-filter. Rapid successive calls
// within the quiet period collapse into one filter execution reflecting the
// last value. Clears any random-pick override.
func (c *Controller) SetSearchText(q string) {
	c.send(func() { c.setSearch(q) })
}

// PickRandom selects one country uniformly at random from the authoritative
// set and narrows the view to it. Returns sentinel.ErrNotFound when the set
// is empty and sentinel.ErrUnavailable once the controller has stopped;
// neither touches state.
func (c *Controller) PickRandom(ctx context.Context) (models.Country, error) {
	reply := make(chan pickReply, 1)
	select {
	case c.commands <- func() { reply <- c.pickRandom() }:
	case <-ctx.Done():
		return models.Country{}, ctx.Err()
	case <-c.stopped:
		return models.Country{}, sentinel.ErrUnavailable
	}
	select {
	case r := <-reply:
		return r.country, r.err
	case <-ctx.Done():
		return models.Country{}, ctx.Err()
	case <-c.stopped:
		return models.Country{}, sentinel.ErrUnavailable
	}
}

// ResetFilter clears the search text and any random override, restoring the
// view to the full authoritative set.
func (c *Controller) ResetFilter() {
	c.send(c.resetFilter)
}

// Snapshot returns a copy of the current state, or the zero Snapshot when
// ctx expires or the controller has stopped.
func (c *Controller) Snapshot(ctx context.Context) Snapshot {
	reply := make(chan Snapshot, 1)
	select {
	case c.commands <- func() { reply <- c.snapshot() }:
	case <-ctx.Done():
		return Snapshot{}
	case <-c.stopped:
		return Snapshot{}
	}
	select {
	case s := <-reply:
		return s
	case <-ctx.Done():
		return Snapshot{}
	case <-c.stopped:
		return Snapshot{}
	}
}

// send enqueues cmd for the loop goroutine. Once Run has returned nothing
// drains the command channel, so the send races against stopped instead of
// blocking fire-and-forget callers forever.
func (c *Controller) send(cmd func()) {
	select {
	case c.commands <- cmd:
	case <-c.stopped:
	}
}

// Subscribe registers a listener for update and error events. The returned
// cancel function must be called to release the subscription; the channel is
// closed when the controller shuts down or the subscription is cancelled.
func (c *Controller) Subscribe(ctx context.Context) (<-chan Event, func()) {
	id := uuid.NewString()
	events := make(chan Event, subscriberBuffer)

	done := make(chan struct{})
	register := func() {
		c.subscribers[id] = events
		close(done)
	}
	select {
	case c.commands <- register:
	case <-ctx.Done():
		return events, func() {}
	case <-c.stopped:
		// Registration never happened, so closeSubscribers will not
		// close this channel. Close it here so listeners drain out.
		close(events)
		return events, func() {}
	}
	select {
	case <-done:
	case <-ctx.Done():
	case <-c.stopped:
	}

	cancel := func() {
		select {
		case c.commands <- func() {
			if ch, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(ch)
			}
		}:
		case <-c.stopped:
		}
	}
	return events, cancel
}

// --- everything below runs on the loop goroutine ---

func (c *Controller) startLoad() {
	c.loadGen++
	gen := c.loadGen
	c.status = StatusLoading
	c.errMsg = ""
	c.notifyUpdate()

	ctx := c.runCtx
	go func() {
		countries, err := c.remote.Fetch(ctx)
		select {
		case c.loadResults <- loadResult{gen: gen, countries: countries, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (c *Controller) applyLoadResult(res loadResult) {
	if res.gen != c.loadGen {
		c.log.Debug("discarding superseded load result", "generation", res.gen, "current", c.loadGen)
		return
	}

	if res.err != nil {
		msg := fmt.Sprintf("could not refresh country list: %v", res.err)
		c.log.Error("load exhausted, activating fallback",
			"error", res.err.Error(),
			"category", string(source.GetCategory(res.err)),
		)
		c.status = StatusError
		c.errMsg = msg
		c.notifyError(msg)

		if c.metrics != nil {
			c.metrics.FallbackActivations.Inc()
		}
		c.all = slices.Clone(c.fallback.Load(c.runCtx))
	} else {
		c.status = StatusLoaded
		c.errMsg = ""
		c.all = slices.Clone(res.countries)
		c.log.Info("country list loaded", "count", len(c.all))
	}

	// The search text survives a reload and is reapplied to the new set.
	c.randomOverride = false
	c.view = filterCountries(c.all, c.searchText)
	c.notifyUpdate()
}

func (c *Controller) setSearch(q string) {
	c.searchText = q
	c.randomOverride = false

	if c.debounceTimer == nil {
		c.debounceTimer = time.NewTimer(c.debounce)
	} else {
		if !c.debounceTimer.Stop() {
			select {
			case <-c.debounceTimer.C:
			default:
			}
		}
		c.debounceTimer.Reset(c.debounce)
	}
	c.debounceC = c.debounceTimer.C
}

func (c *Controller) runFilter() {
	c.view = filterCountries(c.all, c.searchText)
	if c.metrics != nil {
		c.metrics.FilterExecutions.Inc()
	}
	c.notifyUpdate()
}

func (c *Controller) pickRandom() pickReply {
	if len(c.all) == 0 {
		return pickReply{err: fmt.Errorf("pick random: %w", sentinel.ErrNotFound)}
	}
	picked := c.all[rand.IntN(len(c.all))]
	c.view = []models.Country{picked}
	c.randomOverride = true
	if c.metrics != nil {
		c.metrics.RandomPicks.Inc()
	}
	c.notifyUpdate()
	return pickReply{country: picked}
}

func (c *Controller) resetFilter() {
	c.searchText = ""
	c.randomOverride = false
	c.stopDebounce()
	c.view = slices.Clone(c.all)
	c.notifyUpdate()
}

func (c *Controller) stopDebounce() {
	if c.debounceTimer == nil {
		return
	}
	if !c.debounceTimer.Stop() {
		select {
		case <-c.debounceTimer.C:
		default:
		}
	}
	c.debounceC = nil
}

func (c *Controller) snapshot() Snapshot {
	return Snapshot{
		Status:     c.status,
		Error:      c.errMsg,
		SearchText: c.searchText,
		Countries:  slices.Clone(c.view),
		Total:      len(c.all),
		RandomPick: c.randomOverride,
	}
}

func (c *Controller) notifyUpdate() {
	c.broadcast(Event{Kind: EventUpdate, Snapshot: c.snapshot()})
}

func (c *Controller) notifyError(msg string) {
	c.broadcast(Event{Kind: EventError, Message: msg, Snapshot: c.snapshot()})
}

func (c *Controller) broadcast(ev Event) {
	for id, ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
			c.log.Warn("subscriber buffer full, dropping event", "subscriber", id, "kind", string(ev.Kind))
		}
	}
}

func (c *Controller) closeSubscribers() {
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
}
