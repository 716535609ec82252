package reconciler

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"

	"tlpswitch/internal/applier"
	"tlpswitch/internal/profile"
	"tlpswitch/pkg/logging"
)

const subsystem = "Reconciler"

// DefaultPostApplyDelay is how long the controller waits after an apply
// before it re-resolves the active profile.
const DefaultPostApplyDelay = 500 * time.Millisecond

// applyCommand is an Apply call handed to the control goroutine.
type applyCommand struct {
	profileID  string
	descriptor profile.Descriptor
	accepted   chan error
	result     chan applier.Result
}

// abort completes a command that will never run.
func (cmd *applyCommand) abort(err error) {
	cmd.result <- applier.Result{ProfileID: cmd.profileID, ExitCode: -1, Aborted: err}
}

// scanOutcome is the result of one List and Resolve pass.
type scanOutcome struct {
	profiles   profile.Set
	listErr    error
	resolution profile.Resolution
	duration   time.Duration
}

// Controller keeps the published profile State in line with the profile
// directory and the live configuration.
//
// All state transitions happen on a single control goroutine. Directory
// scans and applies run on worker goroutines and report back over channels.
// Triggers that arrive while a pass or an apply is in flight are folded into
// one follow-up pass.
type Controller struct {
	lister   ProfileLister
	resolver ActiveResolver
	applier  ProfileApplier
	source   ChangeSource

	clock          clockz.Clock
	postApplyDelay time.Duration
	metrics        *Metrics

	state   atomic.Pointer[State]
	running atomic.Bool

	subMu     sync.Mutex
	subs      map[uint64]Subscriber
	nextSubID uint64

	queueMu sync.Mutex
	queue   []State
	notify  chan struct{}

	refreshCh chan struct{}
	applyCh   chan applyCommand
	scanDone  chan scanOutcome
	applyDone chan applier.Result

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	done      chan struct{}
	dispDone  chan struct{}

	// Owned by the control goroutine.
	phase         Phase
	profiles      profile.Set
	activeID      string
	lastError     profile.ErrorKind
	lastDetail    string
	generation    uint64
	rescanPending bool
	queuedApply   *applyCommand
	inflight      *applyCommand
	applyFailure  *applier.Result
	settleC       <-chan time.Time
}

// NewController creates a Controller. source may be nil, in which case only
// Refresh and Apply trigger passes.
func NewController(lister ProfileLister, resolver ActiveResolver, apl ProfileApplier, source ChangeSource, cfg Config) *Controller {
	if cfg.Clock == nil {
		cfg.Clock = clockz.RealClock
	}
	if cfg.PostApplyDelay < 0 {
		cfg.PostApplyDelay = 0
	}

	c := &Controller{
		lister:         lister,
		resolver:       resolver,
		applier:        apl,
		source:         source,
		clock:          cfg.Clock,
		postApplyDelay: cfg.PostApplyDelay,
		metrics:        NewMetrics(),
		subs:           make(map[uint64]Subscriber),
		notify:         make(chan struct{}, 1),
		refreshCh:      make(chan struct{}, 1),
		applyCh:        make(chan applyCommand),
		scanDone:       make(chan scanOutcome, 1),
		applyDone:      make(chan applier.Result, 1),
		stopCh:         make(chan struct{}),
		done:           make(chan struct{}),
		dispDone:       make(chan struct{}),
		phase:          PhaseIdle,
	}
	c.state.Store(&State{Phase: PhaseIdle, Profiles: profile.Set{}})
	return c
}

// Metrics returns the controller metrics.
func (c *Controller) Metrics() *Metrics {
	return c.metrics
}

// Current returns the most recently published State.
func (c *Controller) Current() State {
	return *c.state.Load()
}

// Subscribe registers fn to receive every State published from now on, in
// publication order. Callbacks run on a dedicated goroutine and may call
// Apply or Refresh, but must not call Stop. The returned function removes
// the subscription.
func (c *Controller) Subscribe(fn Subscriber) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

// Start begins watching for changes and runs the initial reconciliation pass.
func (c *Controller) Start(ctx context.Context) error {
	select {
	case <-c.stopCh:
		return ErrStopped
	default:
	}

	err := fmt.Errorf("controller already started")
	c.startOnce.Do(func() {
		err = nil

		var signals <-chan struct{}
		if c.source != nil {
			signals, err = c.source.Start(ctx)
			if err != nil {
				logging.Warn(subsystem, "Change notifications unavailable, continuing without: %v", err)
				signals, err = nil, nil
			}
		}

		c.running.Store(true)
		go c.dispatch()
		go c.run(ctx, signals)
	})
	return err
}

// Stop stops the control goroutine and the change source. No subscriber is
// called after Stop returns. A privileged process that is already running
// is not killed; its result is still delivered to the Apply caller.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
	if !c.started() {
		return
	}
	<-c.done
	<-c.dispDone
}

func (c *Controller) started() bool {
	started := true
	c.startOnce.Do(func() {
		started = false
		close(c.done)
		close(c.dispDone)
	})
	return started
}

// Refresh requests a reconciliation pass. While a pass is in flight the
// request is folded into a single follow-up pass.
func (c *Controller) Refresh() error {
	if !c.running.Load() {
		return ErrStopped
	}
	select {
	case c.refreshCh <- struct{}{}:
	default:
		// A refresh is already queued and will cover this one.
		c.metrics.RecordCoalesced()
	}
	return nil
}

// Apply requests that profileID becomes the live configuration.
//
// It fails immediately with ErrUnknownProfile when the id is not in the
// current profile set, and with ErrApplyInProgress when another apply is
// running. A request made during a pass waits for the pass to finish; if a
// newer request arrives meanwhile, the older one completes with
// ErrApplySuperseded. The returned channel receives exactly one Result.
func (c *Controller) Apply(ctx context.Context, profileID string) (<-chan applier.Result, error) {
	if !c.running.Load() {
		return nil, ErrStopped
	}

	cmd := applyCommand{
		profileID: profileID,
		accepted:  make(chan error, 1),
		result:    make(chan applier.Result, 1),
	}

	select {
	case c.applyCh <- cmd:
	case <-c.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := <-cmd.accepted; err != nil {
		return nil, err
	}
	return cmd.result, nil
}

// run is the control goroutine.
func (c *Controller) run(ctx context.Context, signals <-chan struct{}) {
	defer close(c.done)
	defer c.running.Store(false)

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logging.Info(subsystem, "Reconciliation controller started")
	c.beginScan(workCtx)

	var settle clockz.Timer
	for {
		select {
		case <-ctx.Done():
			c.shutdown(settle)
			return

		case <-c.stopCh:
			c.shutdown(settle)
			return

		case _, ok := <-signals:
			if !ok {
				signals = nil
				continue
			}
			logging.Debug(subsystem, "Profile directory changed")
			c.trigger(ctx, workCtx, "directory change")

		case <-c.refreshCh:
			c.trigger(ctx, workCtx, "refresh")

		case cmd := <-c.applyCh:
			c.handleApply(ctx, workCtx, cmd)

		case outcome := <-c.scanDone:
			c.handleScan(ctx, workCtx, outcome)

		case result := <-c.applyDone:
			settle = c.handleApplyResult(ctx, workCtx, result)

		case <-c.settleC:
			c.settleC = nil
			settle = nil
			c.beginScan(workCtx)
		}
	}
}

// trigger starts a pass, or marks one pending when busy.
func (c *Controller) trigger(ctx, workCtx context.Context, source string) {
	if c.phase == PhaseIdle {
		c.beginScan(workCtx)
		return
	}

	c.rescanPending = true
	c.metrics.RecordCoalesced()
	capitan.Emit(ctx, ScanCoalesced, KeyPhase.Field(string(c.phase)))
	logging.Debug(subsystem, "Coalesced %s trigger while %s", source, c.phase)
}

// beginScan publishes the Scanning phase and launches a List and Resolve
// pass on a worker goroutine.
func (c *Controller) beginScan(workCtx context.Context) {
	c.phase = PhaseScanning
	c.rescanPending = false
	c.publish()

	go func() {
		start := c.clock.Now()
		set, err := c.lister.List(workCtx)
		resolution := c.resolver.Resolve(workCtx, set)
		c.scanDone <- scanOutcome{
			profiles:   set,
			listErr:    err,
			resolution: resolution,
			duration:   c.clock.Now().Sub(start),
		}
	}()
}

func (c *Controller) handleScan(ctx, workCtx context.Context, outcome scanOutcome) {
	c.profiles = outcome.profiles
	if c.profiles == nil {
		c.profiles = profile.Set{}
	}
	c.activeID = outcome.resolution.ActiveID
	c.lastError, c.lastDetail = c.classify(outcome)
	c.applyFailure = nil

	if err := outcome.resolution.LiveConfigErr; err != nil {
		logging.Debug(subsystem, "Live configuration unreadable, no profile is active: %v", err)
	}
	if outcome.listErr != nil {
		logging.Warn(subsystem, "Profile directory unavailable: %v", outcome.listErr)
	}

	c.metrics.RecordPass(outcome.duration, outcome.listErr != nil, len(outcome.resolution.Skipped))
	logging.Debug(subsystem, "Pass found %d profiles, active %q in %v",
		len(c.profiles), c.activeID, outcome.duration)

	switch {
	case c.queuedApply != nil && c.revalidateQueued(c.queuedApply):
		cmd := c.queuedApply
		c.queuedApply = nil
		c.startApply(ctx, workCtx, cmd)
	case c.rescanPending:
		c.beginScan(workCtx)
	default:
		c.phase = PhaseIdle
		c.publish()
	}
}

// revalidateQueued refreshes a queued apply against the profiles of the pass
// that just finished. A profile that disappeared completes the request with
// ErrUnknownProfile and clears the slot.
func (c *Controller) revalidateQueued(cmd *applyCommand) bool {
	d, ok := c.profiles.Find(cmd.profileID)
	if !ok {
		logging.Info(subsystem, "Queued apply of %s dropped, the profile no longer exists", cmd.profileID)
		c.metrics.RecordApplyRejected()
		cmd.abort(fmt.Errorf("%w: %q", ErrUnknownProfile, cmd.profileID))
		c.queuedApply = nil
		return false
	}
	cmd.descriptor = d
	return true
}

// classify picks the error shown for a completed pass. A failed apply that
// preceded the pass outranks anything the pass itself found.
func (c *Controller) classify(outcome scanOutcome) (profile.ErrorKind, string) {
	switch {
	case c.applyFailure != nil:
		return profile.KindApplyFailed, c.applyFailure.Detail
	case outcome.listErr != nil:
		return profile.KindDirectoryUnavailable, outcome.listErr.Error()
	case len(outcome.resolution.Skipped) > 0:
		return profile.KindProfileReadFailed,
			fmt.Sprintf("could not read %d profile(s): %v", len(outcome.resolution.Skipped), outcome.resolution.Skipped)
	}
	return profile.KindNone, ""
}

func (c *Controller) handleApply(ctx, workCtx context.Context, cmd applyCommand) {
	if c.phase == PhaseApplying {
		c.metrics.RecordApplyRejected()
		cmd.accepted <- ErrApplyInProgress
		return
	}

	d, ok := c.profiles.Find(cmd.profileID)
	if !ok {
		cmd.accepted <- fmt.Errorf("%w: %q", ErrUnknownProfile, cmd.profileID)
		return
	}
	cmd.descriptor = d
	cmd.accepted <- nil

	if c.phase == PhaseScanning {
		if c.queuedApply != nil {
			logging.Debug(subsystem, "Apply of %s superseded by %s", c.queuedApply.profileID, cmd.profileID)
			c.metrics.RecordApplyRejected()
			c.queuedApply.abort(ErrApplySuperseded)
		}
		c.queuedApply = &cmd
		return
	}

	c.startApply(ctx, workCtx, &cmd)
}

// startApply launches the privileged apply on a worker goroutine. The
// worker hands the result straight to the caller so it is delivered even
// if the controller stops meanwhile.
func (c *Controller) startApply(ctx, workCtx context.Context, cmd *applyCommand) {
	c.phase = PhaseApplying
	c.inflight = cmd

	req := applier.NewRequest(cmd.descriptor)
	c.metrics.RecordApplyAttempt(req.ProfileID)
	capitan.Emit(ctx, ApplyStarted,
		KeyProfileID.Field(req.ProfileID),
		KeyRequestID.Field(req.ID),
	)
	c.publish()

	go func() {
		result := c.applier.Apply(workCtx, req)
		cmd.result <- result
		c.applyDone <- result
	}()
}

// handleApplyResult records the apply outcome and schedules the follow-up
// pass. It returns the settle timer, if one was armed.
func (c *Controller) handleApplyResult(ctx, workCtx context.Context, result applier.Result) clockz.Timer {
	c.inflight = nil

	if result.Succeeded {
		c.metrics.RecordApplySuccess(result.ProfileID)
		capitan.Emit(ctx, ApplySucceeded,
			KeyProfileID.Field(result.ProfileID),
			KeyRequestID.Field(result.RequestID),
			KeyDuration.Field(result.Duration),
		)
	} else {
		c.metrics.RecordApplyFailure(result.ProfileID, result.Detail)
		capitan.Emit(ctx, ApplyFailed,
			KeyProfileID.Field(result.ProfileID),
			KeyRequestID.Field(result.RequestID),
			KeyErrorKind.Field(string(result.ErrorKind)),
			KeyError.Field(result.Detail),
			KeyExitCode.Field(result.ExitCode),
		)

		r := result
		c.applyFailure = &r
		c.lastError = profile.KindApplyFailed
		c.lastDetail = result.Detail
	}

	if c.postApplyDelay == 0 {
		c.beginScan(workCtx)
		return nil
	}

	// The settle window counts as part of the follow-up pass: triggers
	// coalesce into it and a new apply waits in the queue slot.
	c.phase = PhaseScanning
	c.rescanPending = false
	c.publish()

	timer := c.clock.NewTimer(c.postApplyDelay)
	c.settleC = timer.C()
	return timer
}

// shutdown releases everything the control goroutine owns.
func (c *Controller) shutdown(settle clockz.Timer) {
	c.running.Store(false)

	if settle != nil {
		settle.Stop()
	}
	if c.queuedApply != nil {
		c.queuedApply.abort(ErrStopped)
		c.queuedApply = nil
	}
	if c.inflight != nil {
		logging.Info(subsystem, "Stopping while applying %s, the privileged process keeps running", c.inflight.profileID)
	}
	if c.source != nil {
		if err := c.source.Stop(); err != nil {
			logging.Warn(subsystem, "Failed to stop change source: %v", err)
		}
	}
	logging.Info(subsystem, "Reconciliation controller stopped")
}

// publish stores a new snapshot and queues it for subscribers.
func (c *Controller) publish() {
	c.generation++
	s := &State{
		Profiles:        slices.Clone(c.profiles),
		ActiveProfileID: c.activeID,
		LastError:       c.lastError,
		LastErrorDetail: c.lastDetail,
		Phase:           c.phase,
		Generation:      c.generation,
		UpdatedAt:       c.clock.Now(),
	}
	if s.Profiles == nil {
		s.Profiles = profile.Set{}
	}
	c.state.Store(s)

	capitan.Emit(context.Background(), StatePublished,
		KeyGeneration.Field(int(s.Generation)),
		KeyPhase.Field(string(s.Phase)),
		KeyProfileID.Field(s.ActiveProfileID),
		KeyProfiles.Field(len(s.Profiles)),
	)

	c.queueMu.Lock()
	c.queue = append(c.queue, *s)
	c.queueMu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// dispatch delivers queued snapshots to subscribers in publication order.
func (c *Controller) dispatch() {
	defer close(c.dispDone)

	for {
		select {
		case <-c.done:
			return
		case <-c.notify:
		}

		for {
			c.queueMu.Lock()
			if len(c.queue) == 0 {
				c.queueMu.Unlock()
				break
			}
			s := c.queue[0]
			c.queue = c.queue[1:]
			c.queueMu.Unlock()

			select {
			case <-c.done:
				return
			default:
			}

			for _, fn := range c.subscribers() {
				fn(s)
			}
		}
	}
}

func (c *Controller) subscribers() []Subscriber {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	ids := make([]uint64, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	// Subscribers are called in registration order.
	slices.Sort(ids)

	fns := make([]Subscriber, len(ids))
	for i, id := range ids {
		fns[i] = c.subs[id]
	}
	return fns
}
