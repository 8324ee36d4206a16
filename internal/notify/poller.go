package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"aitodo/internal/notified"
	"aitodo/internal/service"
)

const (
	// DefaultInterval is the poll interval used when none is given.
	DefaultInterval = 10 * time.Second

	// markSentTimeout bounds the fire-and-forget status update.
	markSentTimeout = 10 * time.Second
)

// Listener receives each newly delivered reminder exactly once, in
// delivery order.
type Listener func(service.Reminder)

type listenerEntry struct {
	id string
	fn Listener
}

// Poller discovers pending reminders on a timer, deduplicates them
// against the notified store, and hands new ones to the escalator and
// to subscribed listeners.
//
// One Poller is constructed per process by whoever owns the client
// lifecycle; construction and teardown are explicit (New / Stop).
type Poller struct {
	svc       service.Service
	store     *notified.Store
	escalator *Escalator
	logger    *slog.Logger

	wake chan struct{}

	mu        sync.Mutex
	listeners []listenerEntry
	cancel    context.CancelFunc
	loopDone  chan struct{}

	// in-flight mark-sent calls; Stop waits for them
	wg sync.WaitGroup
}

// NewPoller creates a poller. It does not start polling until Start is
// called.
func NewPoller(svc service.Service, store *notified.Store, escalator *Escalator, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		svc:       svc,
		store:     store,
		escalator: escalator,
		logger:    logger,
		wake:      make(chan struct{}, 1),
	}
}

// Start begins timer-driven polling and performs one immediate poll.
// If the poller is already running, the existing loop is torn down
// first, so timers never overlap.
func (p *Poller) Start(interval time.Duration) {
	p.Stop()
	if interval <= 0 {
		interval = DefaultInterval
	}

	// Drop a wake queued while stopped so it doesn't double the
	// initial poll.
	select {
	case <-p.wake:
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.loopDone = done
	p.mu.Unlock()

	go p.loop(ctx, interval, done)
}

// Stop halts polling and waits for the loop and any in-flight status
// updates to finish. Safe to call when not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.loopDone
	p.cancel, p.loopDone = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.wg.Wait()
}

// Running reports whether the poll loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Wake triggers an out-of-cycle poll, used when the host environment
// regains the foreground. Non-blocking; coalesces with a pending wake.
func (p *Poller) Wake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Subscribe registers a listener and returns its unregister func.
// Unregistering is idempotent and safe to call while a delivery is in
// progress.
func (p *Poller) Subscribe(fn Listener) (unsubscribe func()) {
	id := uuid.NewString()
	p.mu.Lock()
	p.listeners = append(p.listeners, listenerEntry{id: id, fn: fn})
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, e := range p.listeners {
			if e.id == id {
				p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
				break
			}
		}
	}
}

func (p *Poller) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	p.poll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		case <-p.wake:
			p.poll(ctx)
		}
	}
}

// poll fetches pending reminders and delivers the ones not yet in the
// notified store. Fetch failures are logged only; the next tick retries
// the whole fetch.
func (p *Poller) poll(ctx context.Context) {
	reminders, err := p.svc.PendingReminders(ctx)
	if err != nil {
		p.logger.Warn("reminder poll failed", "err", err)
		return
	}

	for _, r := range reminders {
		seen, err := p.store.Contains(r.ID)
		if err != nil {
			p.logger.Error("notified store lookup failed", "reminder", r.ID, "err", err)
			continue
		}
		if seen {
			continue
		}
		p.deliver(ctx, r)
	}
}

// deliver alerts, notifies listeners, records the id, then updates the
// remote status asynchronously.
func (p *Poller) deliver(ctx context.Context, r service.Reminder) {
	p.escalator.Alert(ctx, r)

	p.mu.Lock()
	snapshot := make([]listenerEntry, len(p.listeners))
	copy(snapshot, p.listeners)
	p.mu.Unlock()
	for _, e := range snapshot {
		e.fn(r)
	}

	if _, err := p.store.Add(r.ID); err != nil {
		p.logger.Error("record delivery failed", "reminder", r.ID, "err", err)
	}

	// Fire and forget: if this fails the backend keeps reporting the
	// reminder as pending, and only the local notified set prevents a
	// duplicate alert. Known reconciliation gap, deliberately not
	// retried.
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), markSentTimeout)
		defer cancel()
		if err := p.svc.MarkReminderSent(ctx, r.ID); err != nil {
			p.logger.Warn("mark reminder sent failed", "reminder", r.ID, "err", err)
		}
	}()
}
