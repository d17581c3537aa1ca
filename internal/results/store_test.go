package results_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/probekit/internal/results"
	"github.com/calvinalkan/probekit/internal/workload"
	"github.com/calvinalkan/probekit/pkg/aarray"
)

func openStore(t *testing.T) (*results.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history.db")

	store, err := results.Open(context.Background(), path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Close() })

	return store, path
}

func sampleResults() []workload.Result {
	return []workload.Result{
		{
			Workload:   "w",
			Combo:      workload.Combo{Probe: "linear", Primary: "sum", Secondary: "sum"},
			Requested:  75,
			Inserted:   75,
			LoadFactor: 0.74,
			Stats: aarray.Stats{
				Entries: 57, Capacity: 101, Probe: "linear", Primary: "sum", Secondary: "sum",
				InsertCost: 120, SearchCost: 300, DeleteCost: 40,
			},
			Wall: 3 * time.Millisecond,
			CPU:  2 * time.Millisecond,
		},
		{
			Workload:  "w",
			Combo:     workload.Combo{Probe: "double", Primary: "weighted", Secondary: "xxh"},
			Requested: 75,
			Inserted:  70,
			Exhausted: 5,
			Stats: aarray.Stats{
				Capacity: 101, Probe: "double", Primary: "weighted", Secondary: "xxh",
			},
		},
	}
}

func Test_Save_Then_Results_Returns_Rows_Ordered_By_Combo(t *testing.T) {
	t.Parallel()

	store, _ := openStore(t)
	ctx := context.Background()

	run, err := store.Save(ctx, "w", sampleResults())
	require.NoError(t, err)

	id, err := uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Len(t, run.ShortID, 12)
	assert.Equal(t, 2, run.Combos)

	rows, err := store.Results(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "double/weighted+xxh", rows[0].Combo)
	assert.Equal(t, 5, rows[0].Exhausted)
	assert.Equal(t, "linear/sum", rows[1].Combo)
	assert.Equal(t, 120, rows[1].InsertCost)
	assert.Equal(t, 300, rows[1].SearchCost)
	assert.Equal(t, 40, rows[1].DeleteCost)
	assert.InDelta(t, 0.74, rows[1].LoadFactor, 1e-9)
	assert.Equal(t, 3*time.Millisecond, rows[1].Wall)
	assert.Equal(t, 2*time.Millisecond, rows[1].CPU)
}

func Test_List_Returns_Newest_First_And_Honors_Limit(t *testing.T) {
	t.Parallel()

	store, _ := openStore(t)
	ctx := context.Background()

	var saved []results.Run

	for _, name := range []string{"first", "second", "third"} {
		run, err := store.Save(ctx, name, sampleResults()[:1])
		require.NoError(t, err)

		saved = append(saved, run)
	}

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"third", "second", "first"}, []string{runs[0].Workload, runs[1].Workload, runs[2].Workload})
	assert.Equal(t, saved[2].ID, runs[0].ID)
	assert.Equal(t, 1, runs[0].Combos)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func Test_Results_Accepts_Short_ID_Prefix(t *testing.T) {
	t.Parallel()

	store, _ := openStore(t)
	ctx := context.Background()

	run, err := store.Save(ctx, "w", sampleResults())
	require.NoError(t, err)

	rows, err := store.Results(ctx, strings.ToLower(run.ShortID))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func Test_Results_Returns_ErrRunNotFound_When_Unknown(t *testing.T) {
	t.Parallel()

	store, _ := openStore(t)

	_, err := store.Results(context.Background(), "nope")
	require.ErrorIs(t, err, results.ErrRunNotFound)

	_, err = store.Results(context.Background(), "")
	require.ErrorIs(t, err, results.ErrRunNotFound)
}

func Test_Open_Reopens_Existing_History(t *testing.T) {
	t.Parallel()

	store, path := openStore(t)
	ctx := context.Background()

	run, err := store.Save(ctx, "persisted", sampleResults())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := results.Open(ctx, path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = reopened.Close() })

	runs, err := reopened.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, run.CreatedAt.UnixMilli(), runs[0].CreatedAt.UnixMilli())
}

func Test_Open_Returns_Error_When_Path_Empty(t *testing.T) {
	t.Parallel()

	_, err := results.Open(context.Background(), "")
	require.Error(t, err)
}
