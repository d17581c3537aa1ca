package workload_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/probekit/internal/workload"
	"github.com/calvinalkan/probekit/pkg/aarray"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func ptr[T any](v T) *T { return &v }

func Test_Load_Returns_Defaults_When_No_Config_File(t *testing.T) {
	t.Parallel()

	cfg, err := workload.Load(workload.LoadInput{WorkDir: t.TempDir()})
	require.NoError(t, err)

	if diff := cmp.Diff(workload.DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func Test_Load_Reads_JSONC_Project_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, workload.ConfigFileName), `{
		// trailing commas and comments are fine
		"name": "churn",
		"capacity": 5000,
		"delete_ratio": 0,
		"keys": "words",
		"probes": ["double"],
		"secondaries": ["weighted", "xxh",],
	}`)

	cfg, err := workload.Load(workload.LoadInput{WorkDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "churn", cfg.Name)
	assert.Equal(t, 5000, cfg.Capacity)
	assert.Zero(t, cfg.DeleteRatio)
	assert.Equal(t, "words", cfg.Keys)
	assert.Equal(t, []string{"double"}, cfg.Probes)
	assert.Equal(t, []string{"weighted", "xxh"}, cfg.Secondaries)
	assert.Equal(t, workload.DefaultConfig().Hashes, cfg.Hashes)
	assert.Equal(t, filepath.Join(dir, workload.ConfigFileName), cfg.Source)
}

func Test_Load_Applies_Overrides_Over_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "custom.json"), `{"capacity": 50, "seed": 9}`)

	cfg, err := workload.Load(workload.LoadInput{
		WorkDir:    dir,
		ConfigPath: "custom.json",
		Overrides: workload.Overrides{
			Capacity: ptr(200),
			Probes:   []string{"quadratic"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Capacity)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, []string{"quadratic"}, cfg.Probes)
}

func Test_Load_Returns_ErrConfigFileNotFound_When_Explicit_Path_Missing(t *testing.T) {
	t.Parallel()

	_, err := workload.Load(workload.LoadInput{WorkDir: t.TempDir(), ConfigPath: "nope.json"})
	require.ErrorIs(t, err, workload.ErrConfigFileNotFound)
}

func Test_Load_Returns_ErrConfigInvalid_When_File_Malformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, workload.ConfigFileName), `{"capacity": "many"}`)

	_, err := workload.Load(workload.LoadInput{WorkDir: dir})
	require.ErrorIs(t, err, workload.ErrConfigInvalid)
}

func Test_Validate_Rejects_Out_Of_Range_Values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*workload.Config)
	}{
		{"empty name", func(c *workload.Config) { c.Name = "" }},
		{"zero capacity", func(c *workload.Config) { c.Capacity = 0 }},
		{"huge capacity", func(c *workload.Config) { c.Capacity = 1 << 30 }},
		{"zero fill", func(c *workload.Config) { c.FillRatio = 0 }},
		{"overfill", func(c *workload.Config) { c.FillRatio = 1.5 }},
		{"negative delete", func(c *workload.Config) { c.DeleteRatio = -0.1 }},
		{"miss above one", func(c *workload.Config) { c.MissRatio = 2 }},
		{"NaN fill", func(c *workload.Config) { c.FillRatio = math.NaN() }},
		{"NaN delete", func(c *workload.Config) { c.DeleteRatio = math.NaN() }},
		{"NaN miss", func(c *workload.Config) { c.MissRatio = math.NaN() }},
		{"infinite fill", func(c *workload.Config) { c.FillRatio = math.Inf(1) }},
		{"infinite delete", func(c *workload.Config) { c.DeleteRatio = math.Inf(-1) }},
		{"unknown keys", func(c *workload.Config) { c.Keys = "emoji" }},
		{"zero key length", func(c *workload.Config) { c.KeyLen = 0 }},
		{"no probes", func(c *workload.Config) { c.Probes = nil }},
		{"no secondaries", func(c *workload.Config) { c.Secondaries = nil }},
		{"unknown probe", func(c *workload.Config) { c.Probes = []string{"cuckoo"} }},
		{"unknown secondary", func(c *workload.Config) { c.Secondaries = []string{"md5"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := workload.DefaultConfig()
			tt.mutate(&cfg)

			require.ErrorIs(t, cfg.Validate(), workload.ErrConfigInvalid)
		})
	}
}

func Test_Validate_Wraps_ErrUnknownStrategy_For_Bad_Names(t *testing.T) {
	t.Parallel()

	cfg := workload.DefaultConfig()
	cfg.Hashes = []string{"sum", "Weighted"}

	err := cfg.Validate()
	require.ErrorIs(t, err, workload.ErrConfigInvalid)
	require.ErrorIs(t, err, aarray.ErrUnknownStrategy)
}
