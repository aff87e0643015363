// apps/go-server/internal/play/runner.go
//
// Runner drives one game.Session from a single goroutine.
//
// Player actions (Do) and countdown ticks are both executed by the runner's
// loop, so no two mutations of a session ever interleave and the session
// itself needs no locking. The loop also owns:
//   - the tick source (time.Ticker, or an injected channel in tests),
//   - the cosmetic delay between a solved/skipped word and the next question,
//   - event fan-out to subscribers.
//
// Stop is deterministic: it returns only after the loop has exited and the
// ticker has been stopped, so no tick can fire after teardown.

package play

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/game"
)

// ErrStopped is returned for calls made after Stop.
var ErrStopped = errors.New("session stopped")

// Options configure a Runner. Zero values get defaults.
type Options struct {
	TickInterval time.Duration // countdown period; default 1s
	AdvanceDelay time.Duration // delay before the next question; 0 advances at once

	// Ticks replaces the internal ticker when set (tests).
	Ticks <-chan time.Time

	// SubscriberBuffer is the event buffer per subscriber; default 64.
	// A full buffer drops events rather than stalling the session.
	SubscriberBuffer int

	// OnOver is called once, on its own goroutine, with the final stats.
	OnOver func(id string, stats game.Stats)
}

// Action is one engine call executed inside the runner loop.
type Action func(s *game.Session) (game.Result, error)

// Runner owns a session and its clock.
type Runner struct {
	sess *game.Session
	opts Options

	cmds     chan func()
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// loop-owned state
	ticks   <-chan time.Time
	advance *time.Timer
	subs    map[int]chan game.Event
	nextSub int
	ended   bool
}

// Start starts sess (loading its first question) and launches the loop.
func Start(sess *game.Session, opts Options) *Runner {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.SubscriberBuffer <= 0 {
		opts.SubscriberBuffer = 64
	}
	r := &Runner{
		sess: sess,
		opts: opts,
		cmds: make(chan func()),
		quit: make(chan struct{}),
		done: make(chan struct{}),
		subs: make(map[int]chan game.Event),
	}
	sess.Start()

	stopTicker := func() {}
	r.ticks = opts.Ticks
	if r.ticks == nil {
		t := time.NewTicker(opts.TickInterval)
		r.ticks = t.C
		stopTicker = t.Stop
	}
	go r.loop(stopTicker)
	return r
}

// ID is the session ID.
func (r *Runner) ID() string { return r.sess.ID }

// Done is closed once the loop has exited.
func (r *Runner) Done() <-chan struct{} { return r.done }

func (r *Runner) loop(stopTicker func()) {
	defer close(r.done)
	defer stopTicker()
	defer r.closeSubs()
	defer func() {
		if r.advance != nil {
			r.advance.Stop()
		}
	}()

	for {
		var advance <-chan time.Time
		if r.advance != nil {
			advance = r.advance.C
		}
		select {
		case <-r.quit:
			return
		case <-r.ticks:
			r.apply(r.sess.Tick(1))
		case <-advance:
			r.advance = nil
			r.apply(r.sess.NextRound())
		case fn := <-r.cmds:
			fn()
		}
	}
}

// apply publishes a result and runs its follow-ups. Loop goroutine only.
func (r *Runner) apply(res game.Result, err error) {
	if err != nil {
		return
	}
	r.publish(res.Events)

	switch res.Outcome {
	case game.OutcomeSuccess, game.OutcomeSkip:
		if r.opts.AdvanceDelay <= 0 {
			r.apply(r.sess.NextRound())
			return
		}
		r.advance = time.NewTimer(r.opts.AdvanceDelay)
	case game.OutcomeOver:
		r.ended = true
		r.ticks = nil
		if r.advance != nil {
			r.advance.Stop()
			r.advance = nil
		}
		stats := r.sess.Stats()
		log.Info().
			Str("sessionId", r.ID()).
			Int("score", stats.Score).
			Int("words", stats.TotalWordsFound).
			Int("maxStreak", stats.MaxStreak).
			Msg("session over")
		r.closeSubs()
		if r.opts.OnOver != nil {
			go r.opts.OnOver(r.ID(), stats)
		}
	}
}

func (r *Runner) publish(events []game.Event) {
	for _, ev := range events {
		for id, ch := range r.subs {
			select {
			case ch <- ev:
			default:
				log.Debug().Str("sessionId", r.ID()).Int("subscriber", id).Str("event", string(ev.Kind)).Msg("subscriber slow, event dropped")
			}
		}
	}
}

func (r *Runner) closeSubs() {
	for id, ch := range r.subs {
		close(ch)
		delete(r.subs, id)
	}
}

// exec runs fn on the loop goroutine and waits for it.
func (r *Runner) exec(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	select {
	case r.cmds <- func() { fn(); close(finished) }:
	case <-r.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}

// Do executes action against the session and returns its result together
// with a snapshot taken right after it (and after any immediate follow-up,
// such as loading the next question when AdvanceDelay is 0).
func (r *Runner) Do(ctx context.Context, action Action) (game.Result, game.View, error) {
	var (
		res  game.Result
		view game.View
		aerr error
	)
	if err := r.exec(ctx, func() {
		res, aerr = action(r.sess)
		r.apply(res, aerr)
		view = r.sess.Snapshot()
	}); err != nil {
		return game.Result{}, game.View{}, err
	}
	return res, view, aerr
}

// Snapshot returns the current render view.
func (r *Runner) Snapshot(ctx context.Context) (game.View, error) {
	var view game.View
	err := r.exec(ctx, func() { view = r.sess.Snapshot() })
	return view, err
}

// Subscribe registers for events. The channel is closed when the session
// ends, when the runner stops, or when cancel is called.
func (r *Runner) Subscribe(ctx context.Context) (<-chan game.Event, func(), error) {
	ch := make(chan game.Event, r.opts.SubscriberBuffer)
	var id int
	err := r.exec(ctx, func() {
		if r.ended {
			close(ch)
			return
		}
		id = r.nextSub
		r.nextSub++
		r.subs[id] = ch
	})
	if err != nil {
		return nil, func() {}, err
	}
	cancel := func() {
		_ = r.exec(context.Background(), func() {
			if c, ok := r.subs[id]; ok {
				close(c)
				delete(r.subs, id)
			}
		})
	}
	return ch, cancel, nil
}

// Stop ends the loop and waits for it. It is safe to call more than once but
// must not be called from inside an Action.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
	<-r.done
}
