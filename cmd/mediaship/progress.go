package main

import (
	"sync"

	"github.com/docker/go-units"
	"github.com/rs/zerolog"

	"github.com/bft-labs/mediaship/pkg/mediaship"
)

// progressReporter logs upload progress every step percent.
type progressReporter struct {
	log  zerolog.Logger
	step int64

	mu   sync.Mutex
	next int64
}

func newProgressReporter(log zerolog.Logger, step int64) *progressReporter {
	if step <= 0 || step > 100 {
		step = 10
	}
	return &progressReporter{log: log, step: step, next: step}
}

func (p *progressReporter) report(ev mediaship.Progress) {
	if ev.Total <= 0 {
		return
	}
	pct := ev.Sent * 100 / ev.Total

	p.mu.Lock()
	if pct < p.next && ev.Sent != ev.Total {
		p.mu.Unlock()
		return
	}
	for p.next <= pct {
		p.next += p.step
	}
	p.mu.Unlock()

	p.log.Info().
		Int64("percent", pct).
		Str("sent", units.HumanSize(float64(ev.Sent))).
		Str("total", units.HumanSize(float64(ev.Total))).
		Int64("offset", ev.Offset).
		Msg("upload progress")
}

// reset prepares the reporter for another request body.
func (p *progressReporter) reset() {
	p.mu.Lock()
	p.next = p.step
	p.mu.Unlock()
}
