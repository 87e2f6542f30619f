// Package progress reports how far tag file emission has come.
package progress

import (
	"io"
	"sync"

	"github.com/pterm/pterm"
)

// Reporter receives progress fractions between 0 and 1. Reports are purely
// observational and never fail.
type Reporter interface {
	Report(fraction float64)
}

// Nop discards every report.
type Nop struct{}

// Report implements Reporter.
func (Nop) Report(float64) {}

// Tracker turns processed counts into fractions for a Reporter. A Tracker
// belongs to a single run.
type Tracker struct {
	r         Reporter
	total     int
	processed int
	last      float64
}

// NewTracker returns a tracker expecting total steps.
func NewTracker(total int, r Reporter) *Tracker {
	if r == nil {
		r = Nop{}
	}
	return &Tracker{r: r, total: total}
}

// Step records one processed item and reports the new fraction.
func (t *Tracker) Step() {
	t.processed++
	if t.processed > t.total {
		t.processed = t.total
	}
	if t.total == 0 {
		return
	}
	t.report(float64(t.processed) / float64(t.total))
}

// Complete reports 1.0 unless it was already reported.
func (t *Tracker) Complete() {
	t.processed = t.total
	if t.last < 1 {
		t.report(1)
	}
}

// Processed returns the number of recorded steps.
func (t *Tracker) Processed() int { return t.processed }

// Total returns the expected number of steps.
func (t *Tracker) Total() int { return t.total }

func (t *Tracker) report(f float64) {
	if f < t.last {
		return
	}
	t.last = f
	t.r.Report(f)
}

const barSteps = 1000

// Bar draws a pterm progress bar.
type Bar struct {
	Title string
	Out   io.Writer // defaults to pterm's output

	mu  sync.Mutex
	bar *pterm.ProgressbarPrinter
}

// Report implements Reporter. The bar starts on the first report and stops
// once 1.0 is reached.
func (b *Bar) Report(fraction float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar == nil {
		p := pterm.DefaultProgressbar.WithTotal(barSteps).WithTitle(b.Title).WithRemoveWhenDone(true)
		if b.Out != nil {
			p = p.WithWriter(b.Out)
		}
		started, err := p.Start()
		if err != nil {
			return
		}
		b.bar = started
	}

	target := int(fraction * barSteps)
	if target > barSteps {
		target = barSteps
	}
	if delta := target - b.bar.Current; delta > 0 {
		b.bar.Add(delta)
	}
	if fraction >= 1 {
		_, _ = b.bar.Stop()
		b.bar = nil
	}
}

// Recorder keeps every reported fraction.
type Recorder struct {
	mu     sync.Mutex
	values []float64
}

// Report implements Reporter.
func (r *Recorder) Report(fraction float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, fraction)
}

// Values returns a copy of the reported fractions in order.
func (r *Recorder) Values() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.values...)
}
