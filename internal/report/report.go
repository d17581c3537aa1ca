// Package report renders workload results as JSON files and text tables.
package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/natefinch/atomic"
	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/calvinalkan/probekit/internal/workload"
)

// Report is the JSON document written by [WriteJSON].
type Report struct {
	RunID     string            `json:"run_id,omitempty"`
	Generated time.Time         `json:"generated"`
	Workload  workload.Config   `json:"workload"`
	Results   []workload.Result `json:"results"`
}

// WriteJSON writes r to path atomically: readers see either the old file or
// the complete new one.
func WriteJSON(path string, r Report) error {
	data, err := sonnet.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	data = append(data, '\n')

	err = atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	return nil
}

// ReadJSON decodes a report written by [WriteJSON].
func ReadJSON(data []byte) (Report, error) {
	var r Report

	err := sonnet.Unmarshal(data, &r)
	if err != nil {
		return Report{}, fmt.Errorf("decode report: %w", err)
	}

	return r, nil
}

// WriteText writes one aligned row per result, numbers grouped with
// thousands separators, followed by the combo with the cheapest lookups.
func WriteText(w io.Writer, cfg workload.Config, res []workload.Result) error {
	p := message.NewPrinter(language.English)
	ew := &errWriter{w: w}

	p.Fprintf(ew, "workload %s: capacity %d, fill %.2f, delete %.2f, miss %.2f, keys %s\n\n",
		cfg.Name, cfg.Capacity, cfg.FillRatio, cfg.DeleteRatio, cfg.MissRatio, cfg.Keys)

	p.Fprintf(ew, "%-24s %6s %9s %9s %8s %8s %8s %8s %10s\n",
		"combo", "load", "inserted", "exhausted", "ins/op", "hit/op", "miss/op", "del/op", "wall")

	for i := range res {
		r := &res[i]

		p.Fprintf(ew, "%-24s %6.3f %9d %9d %8.2f %8.2f %8.2f %8.2f %10s\n",
			r.Combo.String(),
			r.LoadFactor,
			r.Inserted,
			r.Exhausted+r.Full,
			r.Phase(workload.PhaseInsert).AvgCost(),
			r.Phase(workload.PhaseHit).AvgCost(),
			r.Phase(workload.PhaseMiss).AvgCost(),
			r.Phase(workload.PhaseDelete).AvgCost(),
			r.Wall.Round(time.Microsecond).String(),
		)
	}

	if best, ok := cheapestLookups(res); ok {
		p.Fprintf(ew, "\ncheapest lookups: %s (%.2f probes per hit)\n",
			best.Combo.String(), best.Phase(workload.PhaseHit).AvgCost())
	}

	return ew.err
}

// cheapestLookups picks the result with the lowest mean hit cost among
// those that inserted everything they were asked to.
func cheapestLookups(res []workload.Result) (workload.Result, bool) {
	var (
		best  workload.Result
		found bool
	)

	for _, r := range res {
		if r.Inserted != r.Requested {
			continue
		}

		if !found || r.Phase(workload.PhaseHit).AvgCost() < best.Phase(workload.PhaseHit).AvgCost() {
			best, found = r, true
		}
	}

	return best, found
}

// errWriter remembers the first write error so formatting code can stay
// linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	n, err := e.w.Write(p)
	e.err = err

	return n, err
}
