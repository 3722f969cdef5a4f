package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/haskel/sysbar/internal/ringbuffer"
)

// Metric names a history series.
type Metric string

const (
	MetricCPU     Metric = "cpu"
	MetricRAM     Metric = "ram"
	MetricNetUp   Metric = "net_up"
	MetricNetDown Metric = "net_down"
)

// Metrics lists every history series in display order.
var Metrics = []Metric{MetricCPU, MetricRAM, MetricNetUp, MetricNetDown}

const (
	DefaultInterval     = 2 * time.Second
	DefaultWarmup       = time.Second
	DefaultHistorySlots = 150
)

// SamplerConfig configures a Sampler. Zero values select the defaults.
type SamplerConfig struct {
	Interval     time.Duration
	Warmup       time.Duration
	HistorySlots int
	Logger       *slog.Logger
}

// Sampler drives periodic polling. It owns the only Assembler and
// DeltaEngine it uses, publishes each snapshot by atomic swap, keeps
// bounded history per Metric and fans snapshots out to subscribers.
type Sampler struct {
	assembler *Assembler
	engine    *DeltaEngine
	warmup    time.Duration
	interval  atomic.Int64
	logger    *slog.Logger

	current   atomic.Pointer[SystemSnapshot]
	published atomic.Uint64

	historyMu sync.RWMutex
	history   map[Metric]*ringbuffer.Buffer[float64]

	subMu   sync.Mutex
	subs    map[uint64]chan *SystemSnapshot
	nextSub uint64

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSampler creates a sampler over reader with a fresh DeltaEngine.
func NewSampler(reader Reader, cfg SamplerConfig) *Sampler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Warmup < 0 {
		cfg.Warmup = 0
	}
	if cfg.HistorySlots <= 0 {
		cfg.HistorySlots = DefaultHistorySlots
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	engine := NewDeltaEngine()
	s := &Sampler{
		assembler: NewAssembler(reader, engine),
		engine:    engine,
		warmup:    cfg.Warmup,
		logger:    cfg.Logger,
		history:   make(map[Metric]*ringbuffer.Buffer[float64], len(Metrics)),
		subs:      make(map[uint64]chan *SystemSnapshot),
	}
	s.interval.Store(int64(cfg.Interval))
	for _, m := range Metrics {
		s.history[m] = ringbuffer.New[float64](cfg.HistorySlots)
	}

	return s
}

// Start begins polling. Calling Start on a running sampler does nothing.
func (s *Sampler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	go s.run(ctx, stopCh, doneCh)

	s.logger.Info("sampler started", "interval", s.Interval(), "warmup", s.warmup)
	return nil
}

// Stop signals the loop and waits for it to exit. A collection already in
// flight completes first.
func (s *Sampler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	doneCh := s.doneCh
	s.mu.Unlock()

	<-doneCh
	s.logger.Info("sampler stopped", "published", s.published.Load())
}

// IsRunning reports whether the polling loop is active.
func (s *Sampler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Interval returns the current polling interval.
func (s *Sampler) Interval() time.Duration {
	return time.Duration(s.interval.Load())
}

// SetInterval changes the polling interval. The sleep already in progress
// keeps its old duration. A different interval clears the history so every
// retained series stays evenly spaced.
func (s *Sampler) SetInterval(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("interval must be positive, got %s", d)
	}
	old := time.Duration(s.interval.Swap(int64(d)))
	if old == d {
		return nil
	}

	s.historyMu.Lock()
	for _, buf := range s.history {
		buf.Reset()
	}
	s.historyMu.Unlock()

	s.logger.Info("sampler interval changed, history cleared", "from", old, "to", d)
	return nil
}

// CurrentSnapshot returns the latest published snapshot, or nil before the
// first cycle completes.
func (s *Sampler) CurrentSnapshot() *SystemSnapshot {
	return s.current.Load()
}

// Published returns how many snapshots have been published.
func (s *Sampler) Published() uint64 {
	return s.published.Load()
}

// History returns a chronological copy of one series.
func (s *Sampler) History(metric Metric) ([]float64, bool) {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	buf, ok := s.history[metric]
	if !ok {
		return nil, false
	}
	return buf.Values(), true
}

// HistoryCapacity returns the number of slots each series retains.
func (s *Sampler) HistoryCapacity() int {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()
	return s.history[MetricCPU].Cap()
}

// Subscribe registers a channel that receives every published snapshot.
// Sends never block: a full channel misses that snapshot. The returned
// cancel func removes the subscription and closes the channel.
func (s *Sampler) Subscribe(buffer int) (<-chan *SystemSnapshot, func()) {
	ch := make(chan *SystemSnapshot, max(buffer, 0))

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			close(ch)
			s.subMu.Unlock()
		})
	}

	return ch, cancel
}

func (s *Sampler) run(ctx context.Context, stopCh, doneCh chan struct{}) {
	defer func() {
		s.mu.Lock()
		if s.stopCh == stopCh {
			s.running = false
		}
		s.mu.Unlock()
		close(doneCh)
	}()

	// Every start re-baselines as a fresh process would. The priming read
	// establishes the baseline and is never published.
	s.engine.Reset()
	s.assembler.Collect()

	if !s.sleep(ctx, stopCh, s.warmup) {
		return
	}

	for {
		s.publish(s.assembler.Collect())

		if !s.sleep(ctx, stopCh, s.Interval()) {
			return
		}
	}
}

// sleep waits for d and reports whether polling should continue.
func (s *Sampler) sleep(ctx context.Context, stopCh <-chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-stopCh:
		return false
	case <-timer.C:
	}

	select {
	case <-ctx.Done():
		return false
	case <-stopCh:
		return false
	default:
		return true
	}
}

func (s *Sampler) publish(snap *SystemSnapshot) {
	s.current.Store(snap)
	s.published.Add(1)

	s.historyMu.Lock()
	s.history[MetricCPU].Append(snap.CPU.TotalUsage)
	s.history[MetricRAM].Append(snap.RAM.UsagePercent())
	s.history[MetricNetUp].Append(float64(snap.Network.UpSpeed))
	s.history[MetricNetDown].Append(float64(snap.Network.DownSpeed))
	s.historyMu.Unlock()

	s.subMu.Lock()
	for id, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			s.logger.Debug("subscriber lagging, snapshot dropped", "subscriber", id)
		}
	}
	s.subMu.Unlock()
}
