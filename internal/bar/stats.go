package bar

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats is one sample of system usage, in percent.
type Stats struct {
	CPU    float64
	Memory float64
}

func (s Stats) String() string {
	return fmt.Sprintf("%.0f%% CPU  %.0f%% MEM", s.CPU, s.Memory)
}

// Sampler reads system usage.
type Sampler interface {
	Sample(ctx context.Context) (Stats, error)
}

// SystemSampler samples the host with gopsutil. CPU usage is measured
// since the previous call.
type SystemSampler struct{}

// Sample implements Sampler.
func (SystemSampler) Sample(ctx context.Context) (Stats, error) {
	pct, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to sample cpu: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to sample memory: %w", err)
	}
	var s Stats
	if len(pct) > 0 {
		s.CPU = pct[0]
	}
	s.Memory = vm.UsedPercent
	return s, nil
}

// Ticker samples stats every interval and requests a redraw with each
// sample. Requests are dropped while one is still pending, so a busy
// consumer only ever sees the latest sample.
type Ticker struct {
	sampler  Sampler
	interval time.Duration
	logger   *log.Logger
	redraw   chan Stats
}

// NewTicker returns a ticker; call Run to start it.
func NewTicker(sampler Sampler, interval time.Duration, logger *log.Logger) *Ticker {
	return &Ticker{
		sampler:  sampler,
		interval: interval,
		logger:   logger,
		redraw:   make(chan Stats, 1),
	}
}

// Redraw delivers redraw requests.
func (t *Ticker) Redraw() <-chan Stats {
	return t.redraw
}

// Run samples until ctx is done.
func (t *Ticker) Run(ctx context.Context) {
	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	t.sample(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			t.sample(ctx)
		}
	}
}

func (t *Ticker) sample(ctx context.Context) {
	s, err := t.sampler.Sample(ctx)
	if err != nil {
		t.logger.Debug("stats sample failed", "err", err)
	}
	t.request(s)
}

// request makes a non-blocking redraw request.
func (t *Ticker) request(s Stats) {
	select {
	case t.redraw <- s:
	default:
	}
}
