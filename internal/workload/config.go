package workload

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/sugawarayuuta/sonnet"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/probekit/pkg/aarray"
	"github.com/calvinalkan/probekit/pkg/primes"
)

// ConfigFileName is the workload file picked up from the working directory
// when no explicit --config is given.
const ConfigFileName = "probekit.json"

var (
	ErrConfigInvalid      = errors.New("invalid config")
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
)

// Key generator names.
const (
	KeysSeq    = "seq"
	KeysRandom = "random"
	KeysUUID   = "uuid"
	KeysWords  = "words"
)

// Config describes one workload and the strategy matrix to run it against.
type Config struct {
	Name string `json:"name"`

	// Capacity is the requested table size; the table rounds it up to a prime.
	Capacity int `json:"capacity"`

	// FillRatio is the fraction of slots to fill, in (0, 1].
	FillRatio float64 `json:"fill_ratio"`
	// DeleteRatio is the fraction of inserted keys deleted afterwards.
	DeleteRatio float64 `json:"delete_ratio"`
	// MissRatio sizes the absent-key lookup phase relative to the fill count.
	MissRatio float64 `json:"miss_ratio"`

	Keys   string `json:"keys"`
	KeyLen int    `json:"key_len"`
	Seed   uint64 `json:"seed"`

	Probes      []string `json:"probes"`
	Hashes      []string `json:"hashes"`
	Secondaries []string `json:"secondaries"`

	// Source is the config file that was loaded, empty for defaults only.
	Source string `json:"-"`
}

// DefaultConfig returns the built-in workload.
func DefaultConfig() Config {
	return Config{
		Name:        "default",
		Capacity:    1000,
		FillRatio:   0.75,
		DeleteRatio: 0.25,
		MissRatio:   0.5,
		Keys:        KeysSeq,
		KeyLen:      12,
		Seed:        1,
		Probes:      []string{"linear", "quadratic", "double"},
		Hashes:      []string{"sum", "length", "weighted"},
		Secondaries: []string{"sum"},
	}
}

// Overrides mirrors Config with pointer fields so explicit zero values are
// distinguishable from absent ones. Config files decode into it and CLI
// flags fill it; nil fields are left alone by the merge.
type Overrides struct {
	Name        *string  `json:"name"`
	Capacity    *int     `json:"capacity"`
	FillRatio   *float64 `json:"fill_ratio"`
	DeleteRatio *float64 `json:"delete_ratio"`
	MissRatio   *float64 `json:"miss_ratio"`
	Keys        *string  `json:"keys"`
	KeyLen      *int     `json:"key_len"`
	Seed        *uint64  `json:"seed"`
	Probes      []string `json:"probes"`
	Hashes      []string `json:"hashes"`
	Secondaries []string `json:"secondaries"`
}

// LoadInput holds the inputs for [Load].
type LoadInput struct {
	WorkDir    string // -C/--cwd; empty means os.Getwd()
	ConfigPath string // -c/--config; must exist when set
	Overrides  Overrides
}

// Load resolves a workload config with the following precedence (highest wins):
// 1. Defaults
// 2. probekit.json in the working directory, or the explicit --config file
// 3. CLI overrides.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDir
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := DefaultConfig()

	fileCfg, path, err := loadFile(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg = merge(cfg, fileCfg)
	cfg.Source = path
	cfg = merge(cfg, input.Overrides)

	err = cfg.Validate()
	if err != nil {
		if path != "" {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}

		return Config{}, err
	}

	return cfg, nil
}

func loadFile(workDir, configPath string) (Overrides, string, error) {
	path := configPath
	mustExist := path != ""

	if !mustExist {
		path = ConfigFileName
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !mustExist && errors.Is(err, os.ErrNotExist) {
			return Overrides{}, "", nil
		}

		if errors.Is(err, os.ErrNotExist) {
			return Overrides{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}

		return Overrides{}, "", fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	fc, err := Parse(data)
	if err != nil {
		return Overrides{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return fc, path, nil
}

// Parse decodes a JSONC workload file. Comments and trailing commas are
// allowed.
func Parse(data []byte) (Overrides, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Overrides{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var fc Overrides

	err = sonnet.Unmarshal(standardized, &fc)
	if err != nil {
		return Overrides{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return fc, nil
}

func merge(base Config, overlay Overrides) Config {
	if overlay.Name != nil {
		base.Name = *overlay.Name
	}

	if overlay.Capacity != nil {
		base.Capacity = *overlay.Capacity
	}

	if overlay.FillRatio != nil {
		base.FillRatio = *overlay.FillRatio
	}

	if overlay.DeleteRatio != nil {
		base.DeleteRatio = *overlay.DeleteRatio
	}

	if overlay.MissRatio != nil {
		base.MissRatio = *overlay.MissRatio
	}

	if overlay.Keys != nil {
		base.Keys = *overlay.Keys
	}

	if overlay.KeyLen != nil {
		base.KeyLen = *overlay.KeyLen
	}

	if overlay.Seed != nil {
		base.Seed = *overlay.Seed
	}

	if overlay.Probes != nil {
		base.Probes = overlay.Probes
	}

	if overlay.Hashes != nil {
		base.Hashes = overlay.Hashes
	}

	if overlay.Secondaries != nil {
		base.Secondaries = overlay.Secondaries
	}

	return base
}

const maxKeyLen = 1024

// Validate checks ranges and strategy names. Names are strict here: a typo
// in a workload file should fail rather than silently run the default.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrConfigInvalid)
	}

	if c.Capacity < 1 || c.Capacity > primes.MaxPrime {
		return fmt.Errorf("%w: capacity %d out of range [1, %d]", ErrConfigInvalid, c.Capacity, primes.MaxPrime)
	}

	if math.IsNaN(c.FillRatio) || c.FillRatio <= 0 || c.FillRatio > 1 {
		return fmt.Errorf("%w: fill_ratio %v out of range (0, 1]", ErrConfigInvalid, c.FillRatio)
	}

	if math.IsNaN(c.DeleteRatio) || c.DeleteRatio < 0 || c.DeleteRatio > 1 {
		return fmt.Errorf("%w: delete_ratio %v out of range [0, 1]", ErrConfigInvalid, c.DeleteRatio)
	}

	if math.IsNaN(c.MissRatio) || c.MissRatio < 0 || c.MissRatio > 1 {
		return fmt.Errorf("%w: miss_ratio %v out of range [0, 1]", ErrConfigInvalid, c.MissRatio)
	}

	switch c.Keys {
	case KeysSeq, KeysRandom, KeysUUID, KeysWords:
	default:
		return fmt.Errorf("%w: unknown key generator %q", ErrConfigInvalid, c.Keys)
	}

	if c.KeyLen < 1 || c.KeyLen > maxKeyLen {
		return fmt.Errorf("%w: key_len %d out of range [1, %d]", ErrConfigInvalid, c.KeyLen, maxKeyLen)
	}

	if len(c.Probes) == 0 || len(c.Hashes) == 0 || len(c.Secondaries) == 0 {
		return fmt.Errorf("%w: probes, hashes and secondaries must not be empty", ErrConfigInvalid)
	}

	for _, name := range c.Probes {
		if _, err := aarray.ParseProbeStrategy(name); err != nil {
			return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
		}
	}

	for _, names := range [][]string{c.Hashes, c.Secondaries} {
		for _, name := range names {
			if _, err := aarray.ParseHashStrategy(name); err != nil {
				return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
			}
		}
	}

	return nil
}
