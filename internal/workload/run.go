package workload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/calvinalkan/probekit/pkg/aarray"
)

// ErrInconsistent indicates the table returned a wrong answer: a live key
// missing, an absent key found, or a value mismatch.
var ErrInconsistent = errors.New("table inconsistent")

// ctxCheckEvery is how many operations run between context checks.
const ctxCheckEvery = 1024

// Combo is one strategy combination to run a workload against.
type Combo struct {
	Probe     string `json:"probe"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

func (c Combo) String() string {
	p, _ := aarray.ParseProbeStrategy(c.Probe)
	if p == aarray.ProbeDouble {
		return c.Probe + "/" + c.Primary + "+" + c.Secondary
	}

	return c.Probe + "/" + c.Primary
}

// Matrix expands cfg into every probe × primary combination. The secondary
// hash only matters for double hashing, so it varies for that probe alone;
// the others use the first secondary. A config without hashes or
// secondaries yields no combos.
func Matrix(cfg Config) []Combo {
	if len(cfg.Secondaries) == 0 {
		return nil
	}

	var out []Combo

	for _, probe := range cfg.Probes {
		secondaries := cfg.Secondaries[:1]

		if p, err := aarray.ParseProbeStrategy(probe); err == nil && p == aarray.ProbeDouble {
			secondaries = cfg.Secondaries
		}

		for _, primary := range cfg.Hashes {
			for _, secondary := range secondaries {
				out = append(out, Combo{Probe: probe, Primary: primary, Secondary: secondary})
			}
		}
	}

	return out
}

// Phase names, in run order.
const (
	PhaseInsert     = "insert"
	PhaseHit        = "lookup-hit"
	PhaseMiss       = "lookup-miss"
	PhaseDelete     = "delete"
	PhaseAfterHit   = "lookup-survivor"
	PhaseAfterGhost = "lookup-deleted"
)

// Phase records one pass of operations.
type Phase struct {
	Name   string `json:"name"`
	Ops    int    `json:"ops"`
	Failed int    `json:"failed"`
	// Cost is the probe cost accrued by this phase alone.
	Cost int `json:"cost"`
}

// AvgCost is the mean probe cost per operation.
func (p Phase) AvgCost() float64 {
	if p.Ops == 0 {
		return 0
	}

	return float64(p.Cost) / float64(p.Ops)
}

// Result is the outcome of running one workload against one combo.
type Result struct {
	Workload string `json:"workload"`
	Combo    Combo  `json:"combo"`

	// Requested is the fill target; Inserted how many inserts succeeded.
	Requested int `json:"requested"`
	Inserted  int `json:"inserted"`

	// Insert failures by kind.
	Full      int `json:"full"`
	Exhausted int `json:"exhausted"`
	Duplicate int `json:"duplicate"`

	Phases []Phase      `json:"phases"`
	Stats  aarray.Stats `json:"stats"`

	// LoadFactor is live entries over capacity after the insert phase.
	LoadFactor float64 `json:"load_factor"`

	Wall time.Duration `json:"wall_ns"`
	CPU  time.Duration `json:"cpu_ns"`
}

// Phase returns the named phase, or a zero Phase.
func (r Result) Phase(name string) Phase {
	for _, p := range r.Phases {
		if p.Name == name {
			return p
		}
	}

	return Phase{Name: name}
}

// Run executes cfg against combo:
//
//  1. insert FillRatio × capacity fresh keys
//  2. look up every inserted key
//  3. look up MissRatio × fill absent keys
//  4. delete DeleteRatio of the inserted keys
//  5. look up the survivors (walking through the new tombstones)
//  6. look up the deleted keys
//
// Strategy names are resolved leniently; unknown names log a warning to
// logger and use the defaults. ctx is checked between batches.
func Run(ctx context.Context, cfg Config, combo Combo, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	table, err := aarray.NewNamed[int](cfg.Capacity, combo.Probe, combo.Primary, combo.Secondary, logger)
	if err != nil {
		return Result{}, fmt.Errorf("combo %s: %w", combo, err)
	}
	defer table.Destroy()

	fill := int(cfg.FillRatio * float64(table.Cap()))
	misses := int(cfg.MissRatio * float64(fill))

	keys, err := GenerateKeys(cfg.Keys, cfg.KeyLen, cfg.Seed, fill+misses)
	if err != nil {
		return Result{}, err
	}

	present, absent := keys[:fill], keys[fill:]

	res := Result{
		Workload:  cfg.Name,
		Combo:     combo,
		Requested: fill,
	}

	wallStart := time.Now()
	cpuStart := cpuTime()

	r := runner{ctx: ctx, table: table, res: &res}

	live, err := r.insert(present)
	if err != nil {
		return Result{}, err
	}

	res.LoadFactor = float64(table.Len()) / float64(table.Cap())

	steps := []func() error{
		func() error { return r.lookup(PhaseHit, live, true) },
		func() error { return r.lookup(PhaseMiss, asLive(absent), false) },
	}

	deleteN := int(cfg.DeleteRatio * float64(len(live)))
	deleted, survivors := live[:deleteN], live[deleteN:]

	steps = append(steps,
		func() error { return r.delete(deleted) },
		func() error { return r.lookup(PhaseAfterHit, survivors, true) },
		func() error { return r.lookup(PhaseAfterGhost, deleted, false) },
	)

	for _, step := range steps {
		if err := step(); err != nil {
			return Result{}, err
		}
	}

	res.Wall = time.Since(wallStart)
	res.CPU = cpuTime() - cpuStart
	res.Stats = table.Stats()

	logger.Debug("workload finished",
		"workload", cfg.Name,
		"combo", combo.String(),
		"inserted", res.Inserted,
		"load_factor", res.LoadFactor,
		"wall", res.Wall)

	return res, nil
}

// liveKey is an inserted key and the value stored under it.
type liveKey struct {
	key   []byte
	value int
}

func asLive(keys [][]byte) []liveKey {
	out := make([]liveKey, len(keys))
	for i, k := range keys {
		out[i] = liveKey{key: k}
	}

	return out
}

type runner struct {
	ctx   context.Context
	table *aarray.Table[int]
	res   *Result
}

func (r *runner) checkCtx(i int) error {
	if i%ctxCheckEvery != 0 {
		return nil
	}

	return r.ctx.Err()
}

func (r *runner) insert(keys [][]byte) ([]liveKey, error) {
	phase := Phase{Name: PhaseInsert}
	before := r.table.Stats().InsertCost
	live := make([]liveKey, 0, len(keys))

	for i, key := range keys {
		if err := r.checkCtx(i); err != nil {
			return nil, err
		}

		phase.Ops++

		_, err := r.table.Insert(key, i)

		switch {
		case err == nil:
			live = append(live, liveKey{key: key, value: i})
			r.res.Inserted++
		case errors.Is(err, aarray.ErrProbeExhausted):
			r.res.Exhausted++
			phase.Failed++
		case errors.Is(err, aarray.ErrTableFull):
			r.res.Full++
			phase.Failed++
		case errors.Is(err, aarray.ErrDuplicateKey):
			r.res.Duplicate++
			phase.Failed++
		default:
			return nil, fmt.Errorf("insert %q: %w", key, err)
		}
	}

	phase.Cost = r.table.Stats().InsertCost - before
	r.res.Phases = append(r.res.Phases, phase)

	return live, nil
}

func (r *runner) lookup(name string, keys []liveKey, wantFound bool) error {
	phase := Phase{Name: name}
	before := r.table.Stats().SearchCost

	for i, k := range keys {
		if err := r.checkCtx(i); err != nil {
			return err
		}

		phase.Ops++

		key, want := k.key, k.value
		got, err := r.table.Lookup(key)

		switch {
		case err == nil && !wantFound:
			return fmt.Errorf("%w: %s: absent key %q found", ErrInconsistent, name, key)
		case err == nil && got != want:
			return fmt.Errorf("%w: %s: key %q has value %d, want %d", ErrInconsistent, name, key, got, want)
		case errors.Is(err, aarray.ErrNotFound) && wantFound:
			return fmt.Errorf("%w: %s: live key %q not found", ErrInconsistent, name, key)
		case errors.Is(err, aarray.ErrNotFound):
			phase.Failed++
		case err != nil:
			return fmt.Errorf("lookup %q: %w", key, err)
		}
	}

	phase.Cost = r.table.Stats().SearchCost - before
	r.res.Phases = append(r.res.Phases, phase)

	return nil
}

func (r *runner) delete(keys []liveKey) error {
	phase := Phase{Name: PhaseDelete}
	before := r.table.Stats().DeleteCost

	for i, k := range keys {
		if err := r.checkCtx(i); err != nil {
			return err
		}

		phase.Ops++

		got, err := r.table.Delete(k.key)
		if err != nil {
			return fmt.Errorf("%w: delete %q: %w", ErrInconsistent, k.key, err)
		}

		if got != k.value {
			return fmt.Errorf("%w: delete %q returned %d, want %d", ErrInconsistent, k.key, got, k.value)
		}
	}

	phase.Cost = r.table.Stats().DeleteCost - before
	r.res.Phases = append(r.res.Phases, phase)

	return nil
}
