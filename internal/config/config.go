// Package config loads run settings from defaults, an optional config file,
// RETRO_* environment variables and command-line overrides, in rising order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/litescript/ls-retrograde/internal/bodies"
	"github.com/litescript/ls-retrograde/internal/orbit"
	"github.com/litescript/ls-retrograde/internal/retro"
)

// EnvPrefix is the prefix of environment overrides, e.g. RETRO_TARGET.
const EnvPrefix = "RETRO"

// Config keys.
const (
	KeyObserver        = "observer"
	KeyTarget          = "target"
	KeyStartDay        = "window.start_day"
	KeyLengthDays      = "window.length_days"
	KeyReferenceDay    = "window.reference_day"
	KeyCatalog         = "catalog"
	KeyLogLevel        = "log_level"
	KeyCacheMaxEntries = "cache.max_entries"
	KeyTimeTolerance   = "detector.time_tolerance"
	KeyMaxBisect       = "detector.max_bisect"
	KeyDedupeTolerance = "detector.dedupe_tolerance"
	keyBodies          = "bodies"
)

// Errors returned by Validate.
var (
	ErrMissingBody   = errors.New("observer and target are required")
	ErrSameBody      = errors.New("observer and target must differ")
	ErrInvalidWindow = errors.New("invalid sampling window")
	ErrInvalidLimits = errors.New("invalid detector limits")
)

// Config holds everything needed for one run.
type Config struct {
	Observer string
	Target   string
	Window   retro.Window
	Catalog  bodies.Source
	LogLevel string

	CacheMaxEntries int

	TimeTolerance   float64
	MaxBisect       int
	DedupeTolerance float64

	// Bodies are user-defined additions to the catalog.
	Bodies []bodies.Body
}

// Default returns the built-in settings: Mars seen from Earth over the
// two years from the J2000 epoch.
func Default() Config {
	det := retro.DefaultConfig()
	return Config{
		Observer:        "Earth",
		Target:          "Mars",
		Window:          retro.Window{StartDay: 0, LengthDays: 730.5},
		Catalog:         bodies.SourceJPL,
		LogLevel:        "info",
		CacheMaxEntries: 32,
		TimeTolerance:   det.TimeTolerance,
		MaxBisect:       det.MaxBisect,
		DedupeTolerance: det.DedupeTolerance,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyObserver, d.Observer)
	v.SetDefault(KeyTarget, d.Target)
	v.SetDefault(KeyStartDay, d.Window.StartDay)
	v.SetDefault(KeyLengthDays, d.Window.LengthDays)
	v.SetDefault(KeyReferenceDay, d.Window.ReferenceDay)
	v.SetDefault(KeyCatalog, string(d.Catalog))
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyCacheMaxEntries, d.CacheMaxEntries)
	v.SetDefault(KeyTimeTolerance, d.TimeTolerance)
	v.SetDefault(KeyMaxBisect, d.MaxBisect)
	v.SetDefault(KeyDedupeTolerance, d.DedupeTolerance)
}

// Load reads the config file at path (skipped when empty), the environment
// and the given overrides, keyed by the Key* constants.
func Load(path string, overrides map[string]any) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	for k, val := range overrides {
		v.Set(k, val)
	}

	src, err := bodies.ParseSource(v.GetString(KeyCatalog))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Observer: strings.TrimSpace(v.GetString(KeyObserver)),
		Target:   strings.TrimSpace(v.GetString(KeyTarget)),
		Window: retro.Window{
			StartDay:     v.GetFloat64(KeyStartDay),
			LengthDays:   v.GetFloat64(KeyLengthDays),
			ReferenceDay: v.GetFloat64(KeyReferenceDay),
		},
		Catalog:         src,
		LogLevel:        v.GetString(KeyLogLevel),
		CacheMaxEntries: v.GetInt(KeyCacheMaxEntries),
		TimeTolerance:   v.GetFloat64(KeyTimeTolerance),
		MaxBisect:       v.GetInt(KeyMaxBisect),
		DedupeTolerance: v.GetFloat64(KeyDedupeTolerance),
		Bodies:          readBodies(v),
	}

	return cfg, nil
}

// readBodies reads bodies.<name>.{a,e,peri,mean_long} tables.
func readBodies(v *viper.Viper) []bodies.Body {
	raw := v.GetStringMap(keyBodies)
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]bodies.Body, 0, len(names))
	for _, name := range names {
		key := keyBodies + "." + name
		out = append(out, bodies.Body{
			Name: displayName(name),
			Elements: orbit.Elements{
				SemiMajorAxisAU:           v.GetFloat64(key + ".a"),
				Eccentricity:              v.GetFloat64(key + ".e"),
				LongitudeOfPeriapsisDeg:   v.GetFloat64(key + ".peri"),
				ReferenceMeanLongitudeDeg: v.GetFloat64(key + ".mean_long"),
			},
		})
	}
	return out
}

// displayName capitalizes a viper key, which arrives lower-cased.
func displayName(key string) string {
	if key == "" {
		return key
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

// Validate checks the settings that do not need the catalog.
func (c Config) Validate() error {
	if c.Observer == "" || c.Target == "" {
		return ErrMissingBody
	}
	if strings.EqualFold(c.Observer, c.Target) {
		return fmt.Errorf("%w: %s", ErrSameBody, c.Observer)
	}
	if !c.Window.Valid() || c.Window.LengthDays <= 0 {
		return fmt.Errorf("%w: start %v, length %v", ErrInvalidWindow, c.Window.StartDay, c.Window.LengthDays)
	}
	if !(c.TimeTolerance > 0) || math.IsInf(c.TimeTolerance, 0) || c.MaxBisect <= 0 || c.DedupeTolerance < 0 {
		return fmt.Errorf("%w: tolerance %v, max bisect %d, dedupe %v",
			ErrInvalidLimits, c.TimeTolerance, c.MaxBisect, c.DedupeTolerance)
	}
	return nil
}

// Detector returns the event detection limits.
func (c Config) Detector() retro.Config {
	det := retro.DefaultConfig()
	det.TimeTolerance = c.TimeTolerance
	det.MaxBisect = c.MaxBisect
	det.DedupeTolerance = c.DedupeTolerance
	return det
}

// BuildCatalog returns the planet catalog for the configured source with the
// user-defined bodies added.
func (c Config) BuildCatalog() (*bodies.Catalog, error) {
	cat, err := bodies.New(c.Catalog)
	if err != nil {
		return nil, err
	}
	for _, b := range c.Bodies {
		if err := cat.Add(b); err != nil {
			return nil, fmt.Errorf("config body: %w", err)
		}
	}
	return cat, nil
}
