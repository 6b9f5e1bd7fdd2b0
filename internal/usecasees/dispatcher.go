package usecasees

import (
	"context"
	"sync"
	"time"

	"github.com/onjuly19th/trading-hub-sub001/internal/usecasees/structs"

	"github.com/sirupsen/logrus"
)

type TickProcessor interface {
	ProcessTick(ctx context.Context, symbol, rawPrice string)
}

type DispatcherConfig struct {
	// LaneSize bounds the ticks queued per symbol.
	LaneSize int
	// MaxLanes bounds the number of symbols with a lane, pinned ones
	// included. A tick for a new symbol beyond it is dropped.
	MaxLanes int
	// IdleTimeout reclaims a lane that got no tick for that long. Pinned
	// lanes are never reclaimed; zero disables reclaiming.
	IdleTimeout time.Duration
	// Pinned symbols get their lane up front, e.g. the feed symbols.
	Pinned []string
}

type rawTick struct {
	symbol string
	price  string
}

type lane struct {
	ticks  chan rawTick
	pinned bool
}

// TickDispatcher gives every symbol its own lane: ticks of one symbol are
// processed one at a time in arrival order, different symbols in parallel.
type TickDispatcher struct {
	ctx       context.Context
	processor TickProcessor
	cfg       DispatcherConfig

	mu     sync.Mutex
	lanes  map[string]*lane
	closed bool
	wg     sync.WaitGroup

	metrics *Metrics
	logger  *logrus.Logger
}

func NewTickDispatcher(
	ctx context.Context,
	processor TickProcessor,
	cfg DispatcherConfig,
	metrics *Metrics,
	logger *logrus.Logger,
) *TickDispatcher {
	if cfg.LaneSize <= 0 {
		cfg.LaneSize = 1
	}
	if cfg.MaxLanes < len(cfg.Pinned) {
		cfg.MaxLanes = len(cfg.Pinned)
	}
	if cfg.MaxLanes <= 0 {
		cfg.MaxLanes = 1
	}

	d := &TickDispatcher{
		ctx:       ctx,
		processor: processor,
		cfg:       cfg,
		lanes:     map[string]*lane{},
		metrics:   metrics,
		logger:    logger,
	}

	for _, symbol := range cfg.Pinned {
		symbol = normalizeSymbol(symbol)
		if _, ok := d.lanes[symbol]; !ok {
			d.open(symbol, true)
		}
	}

	return d
}

// open must be called with d.mu held.
func (d *TickDispatcher) open(symbol string, pinned bool) *lane {
	l := &lane{
		ticks:  make(chan rawTick, d.cfg.LaneSize),
		pinned: pinned,
	}
	d.lanes[symbol] = l

	d.wg.Add(1)
	go d.drain(symbol, l)

	return l
}

// Submit queues a tick on its symbol lane without blocking. A tick for a
// full lane, or for a new symbol once MaxLanes lanes are open, is dropped.
func (d *TickDispatcher) Submit(symbol, rawPrice string) bool {
	symbol = normalizeSymbol(symbol)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}

	log := d.logger.
		WithField("method", "TickDispatcher.Submit").
		WithField("symbol", symbol)

	l, ok := d.lanes[symbol]
	if !ok {
		if len(d.lanes) >= d.cfg.MaxLanes {
			d.metrics.Inc(structs.MetricTickNoLane)
			log.Warn("lane limit reached, tick dropped")
			return false
		}
		l = d.open(symbol, false)
	}

	select {
	case l.ticks <- rawTick{symbol: symbol, price: rawPrice}:
		return true
	default:
		d.metrics.Inc(structs.MetricTickDropped)
		log.Warn("lane full, tick dropped")
		return false
	}
}

func (d *TickDispatcher) drain(symbol string, l *lane) {
	defer d.wg.Done()

	var (
		timer *time.Timer
		idle  <-chan time.Time
	)
	if !l.pinned && d.cfg.IdleTimeout > 0 {
		timer = time.NewTimer(d.cfg.IdleTimeout)
		defer timer.Stop()
		idle = timer.C
	}

	for {
		select {
		case <-d.ctx.Done():
			return
		case t, ok := <-l.ticks:
			if !ok {
				return
			}
			d.processor.ProcessTick(d.ctx, t.symbol, t.price)

			if timer != nil {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(d.cfg.IdleTimeout)
			}
		case <-idle:
			if d.reclaim(symbol, l) {
				return
			}
			timer.Reset(d.cfg.IdleTimeout)
		}
	}
}

// reclaim removes an idle lane unless a tick slipped in meanwhile. Submit
// sends under d.mu, so nothing reaches the lane once it is removed.
func (d *TickDispatcher) reclaim(symbol string, l *lane) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || len(l.ticks) > 0 || d.lanes[symbol] != l {
		return false
	}
	delete(d.lanes, symbol)

	d.metrics.Inc(structs.MetricLaneReclaimed)
	d.logger.
		WithField("method", "TickDispatcher.reclaim").
		WithField("symbol", symbol).
		Debug("idle lane reclaimed")

	return true
}

// Lanes returns the number of open lanes.
func (d *TickDispatcher) Lanes() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.lanes)
}

// Stop closes every lane and waits for queued ticks to be processed.
func (d *TickDispatcher) Stop() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, l := range d.lanes {
			close(l.ticks)
		}
	}
	d.mu.Unlock()

	d.wg.Wait()
}
