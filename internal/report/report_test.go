package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/probekit/internal/report"
	"github.com/calvinalkan/probekit/internal/workload"
	"github.com/calvinalkan/probekit/pkg/aarray"
)

func sample() []workload.Result {
	return []workload.Result{
		{
			Workload:   "big",
			Combo:      workload.Combo{Probe: "linear", Primary: "sum", Secondary: "sum"},
			Requested:  1234,
			Inserted:   1234,
			LoadFactor: 0.75,
			Phases: []workload.Phase{
				{Name: workload.PhaseInsert, Ops: 1234, Cost: 2468},
				{Name: workload.PhaseHit, Ops: 1234, Cost: 1234},
			},
			Stats: aarray.Stats{Capacity: 1637, Probe: "linear", Primary: "sum", Secondary: "sum", InsertCost: 2468},
			Wall:  1500 * time.Microsecond,
		},
		{
			Workload:   "big",
			Combo:      workload.Combo{Probe: "quadratic", Primary: "length", Secondary: "sum"},
			Requested:  1234,
			Inserted:   40,
			Exhausted:  1194,
			LoadFactor: 0.02,
			Phases: []workload.Phase{
				{Name: workload.PhaseHit, Ops: 40, Cost: 0},
			},
		},
	}
}

func Test_WriteJSON_Round_Trips_Through_ReadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.json")

	cfg := workload.DefaultConfig()
	want := report.Report{
		RunID:     "0193A",
		Generated: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Workload:  cfg,
		Results:   sample(),
	}

	require.NoError(t, report.WriteJSON(path, want))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, []byte("}\n")))
	assert.Contains(t, string(data), `"insert_cost": 2468`)

	got, err := report.ReadJSON(data)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func Test_WriteJSON_Replaces_Existing_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))

	require.NoError(t, report.WriteJSON(path, report.Report{Results: sample()[:1]}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}

func Test_WriteText_Groups_Thousands_And_Names_Cheapest_Combo(t *testing.T) {
	t.Parallel()

	cfg := workload.DefaultConfig()
	cfg.Name = "big"

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, cfg, sample()))

	out := buf.String()
	lines := strings.Split(out, "\n")

	assert.True(t, strings.HasPrefix(lines[0], "workload big: capacity 1,000"), lines[0])
	assert.Contains(t, lines[2], "combo")
	assert.Contains(t, lines[3], "linear/sum")
	assert.Contains(t, lines[3], "1,234")
	assert.Contains(t, lines[3], "1.5ms")
	assert.Contains(t, lines[4], "quadratic/length")
	assert.Contains(t, lines[4], "1,194")

	// quadratic/length is cheaper per hit but did not insert everything.
	assert.Contains(t, out, "cheapest lookups: linear/sum (1.00 probes per hit)")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

func Test_WriteText_Returns_Write_Error(t *testing.T) {
	t.Parallel()

	err := report.WriteText(failingWriter{}, workload.DefaultConfig(), sample())
	require.ErrorIs(t, err, os.ErrClosed)
}
