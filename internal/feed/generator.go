package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/saurabhbakolia/disaster-response-platform/internal/domain"
	"github.com/saurabhbakolia/disaster-response-platform/internal/metrics"
)

// DefaultInterval is the mock stream cadence when none is configured.
const DefaultInterval = 8 * time.Second

// ErrNoBroadcaster is returned by Start when the generator was built
// without a hub. This is a configuration error: the caller must halt
// startup rather than run a stream nobody can observe.
var ErrNoBroadcaster = errors.New("broadcast hub is not initialized")

// Broadcaster is the fan-out surface the generator pushes signals through.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// Generator emits one synthetic signal per tick. Start is idempotent and
// Stop guarantees no emission after it returns.
type Generator struct {
	hub      Broadcaster
	clock    clockwork.Clock
	interval time.Duration
	sources  []domain.SignalContent

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewGenerator creates a generator. A zero interval falls back to
// DefaultInterval; nil sources fall back to DefaultSources.
func NewGenerator(hub Broadcaster, clock clockwork.Clock, interval time.Duration, sources []domain.SignalContent) *Generator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if len(sources) == 0 {
		sources = DefaultSources
	}
	return &Generator{
		hub:      hub,
		clock:    clock,
		interval: interval,
		sources:  sources,
	}
}

// Start begins the periodic stream. Starting a running generator is a no-op
// (never a second concurrent cadence). Returns ErrNoBroadcaster when no hub
// was wired in.
func (g *Generator) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return nil
	}
	if g.hub == nil {
		return fmt.Errorf("cannot start mock social stream: %w", ErrNoBroadcaster)
	}

	g.stopCh = make(chan struct{})
	g.doneCh = make(chan struct{})
	g.running = true

	slog.Info("Starting mock social media stream", "interval", g.interval)
	go g.run(g.stopCh, g.doneCh)
	return nil
}

// Stop halts the stream and blocks until the run loop has exited, so no
// signal is emitted after it returns. Safe to call repeatedly.
func (g *Generator) Stop() {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return
	}
	close(g.stopCh)
	g.running = false
	done := g.doneCh
	g.mu.Unlock()

	<-done
	slog.Info("Stopped mock social media stream")
}

func (g *Generator) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := g.clock.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.Chan():
			g.emit()
		}
	}
}

func (g *Generator) emit() {
	tweet := g.sources[rand.Intn(len(g.sources))]
	now := g.clock.Now()

	signal := domain.Signal{
		ID:        fmt.Sprintf("tweet_%d", now.UnixMilli()),
		Source:    "twitter_mock",
		Content:   tweet,
		Timestamp: now,
		Priority:  IsPriority(tweet.Text),
	}

	g.hub.Broadcast(domain.AlertEvent, signal)
	metrics.SignalsEmittedTotal.WithLabelValues(strconv.FormatBool(signal.Priority)).Inc()
	slog.Debug("Emitted mock tweet", "id", signal.ID, "user", tweet.User, "priority", signal.Priority)
}
