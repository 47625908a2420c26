package observ

import (
	"fmt"
	"io"
	"time"
)

// Stage is one measured step of a CLI run (parse, render, ...).
type Stage struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	// Items counts what the stage processed, e.g. files or tokens.
	Items int
}

// Timer collects stages in the order they started. It is not safe for
// concurrent use; the driver reports per-file durations separately.
type Timer struct {
	stages []Stage
	now    func() time.Time
}

// NewTimer creates an empty Timer.
func NewTimer() *Timer {
	return &Timer{stages: make([]Stage, 0, 4), now: time.Now}
}

// Begin starts a stage; the returned func ends it and records items.
func (t *Timer) Begin(name string) func(items int) {
	t.stages = append(t.stages, Stage{Name: name, Start: t.now()})
	idx := len(t.stages) - 1
	return func(items int) {
		st := &t.stages[idx]
		st.Dur = t.now().Sub(st.Start)
		st.Items = items
	}
}

// Stages returns the recorded stages.
func (t *Timer) Stages() []Stage {
	return t.stages
}

// Total is the sum of all stage durations.
func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, st := range t.stages {
		total += st.Dur
	}
	return total
}

// StageReport is the serialisable form of a Stage.
type StageReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Items      int     `json:"items,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Stages  []StageReport `json:"stages"`
}

// Report converts the stages to milliseconds.
func (t *Timer) Report() Report {
	report := Report{Stages: make([]StageReport, len(t.stages))}
	for i, st := range t.stages {
		report.Stages[i] = StageReport{Name: st.Name, DurationMS: toMillis(st.Dur), Items: st.Items}
	}
	report.TotalMS = toMillis(t.Total())
	return report
}

// WriteSummary prints one aligned line per stage followed by the total.
func (t *Timer) WriteSummary(w io.Writer) error {
	for _, st := range t.stages {
		line := fmt.Sprintf("  %-10s %8.2f ms", st.Name, toMillis(st.Dur))
		if st.Items > 0 {
			line += fmt.Sprintf("  (%d)", st.Items)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  %-10s %8.2f ms\n", "total", toMillis(t.Total()))
	return err
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
