package main

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tuneinsight/minimax/remez"
	"github.com/tuneinsight/minimax/utils/bignum"
)

// Config is the run configuration, read from defaults, an optional YAML
// file, REMEZ_ environment variables and flags, in increasing priority.
type Config struct {
	A                  string  `mapstructure:"a" yaml:"a"`
	B                  string  `mapstructure:"b" yaml:"b"`
	Prec               uint    `mapstructure:"prec" yaml:"prec"`
	Tolerance          float64 `mapstructure:"tolerance" yaml:"tolerance"`
	ErrorTolerance     float64 `mapstructure:"error_tolerance" yaml:"error_tolerance"`
	InnerTolerance     float64 `mapstructure:"inner_tolerance" yaml:"inner_tolerance"`
	MaxIterations      int     `mapstructure:"max_iterations" yaml:"max_iterations"`
	MaxInnerIterations int     `mapstructure:"max_inner_iterations" yaml:"max_inner_iterations"`
	GridDensity        int     `mapstructure:"grid_density" yaml:"grid_density"`
	InitialNodes       string  `mapstructure:"initial_nodes" yaml:"initial_nodes"`
	Reconciliation     string  `mapstructure:"reconciliation" yaml:"reconciliation"`
	PerturbRetries     int     `mapstructure:"perturb_retries" yaml:"perturb_retries"`
	Seed               uint64  `mapstructure:"seed" yaml:"seed"`
	Workers            int     `mapstructure:"workers" yaml:"workers"`
	Samples            int     `mapstructure:"samples" yaml:"samples"`

	Kind     string `mapstructure:"kind" yaml:"kind"`
	Format   string `mapstructure:"format" yaml:"format"`
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("a", "-1")
	v.SetDefault("b", "1")
	v.SetDefault("prec", remez.DefaultPrec)
	v.SetDefault("tolerance", remez.DefaultTolerance)
	v.SetDefault("error_tolerance", remez.DefaultErrorTolerance)
	v.SetDefault("inner_tolerance", remez.DefaultInnerTolerance)
	v.SetDefault("max_iterations", remez.DefaultMaxIterations)
	v.SetDefault("max_inner_iterations", remez.DefaultMaxInnerIterations)
	v.SetDefault("grid_density", remez.DefaultGridDensity)
	v.SetDefault("initial_nodes", remez.Equispaced.String())
	v.SetDefault("reconciliation", remez.Exchange.String())
	v.SetDefault("perturb_retries", 0)
	v.SetDefault("seed", 0)
	v.SetDefault("workers", 1)
	v.SetDefault("samples", 4096)

	v.SetDefault("kind", "double")
	v.SetDefault("format", "text")
	v.SetDefault("cache_dir", "")
	v.SetDefault("log_level", "warn")
}

// registerFlags adds the persistent flags of the root command and binds
// each of them to its configuration key.
func registerFlags(v *viper.Viper, flags *pflag.FlagSet) error {

	flags.String("config", "", "YAML configuration file")

	flags.String("a", "", "lower bound of the interval")
	flags.String("b", "", "upper bound of the interval")
	flags.Uint("prec", 0, "working precision in bits")
	flags.Float64("tolerance", 0, "levelling threshold (MaxErr-MinErr)/MinErr")
	flags.Float64("error-tolerance", 0, "rational amplitude stability threshold")
	flags.Float64("inner-tolerance", 0, "rational linearisation threshold")
	flags.Int("max-iterations", 0, "cap on exchange iterations")
	flags.Int("max-inner-iterations", 0, "cap on rational inner iterations")
	flags.Int("grid-density", 0, "grid intervals between two initial nodes")
	flags.String("initial-nodes", "", "initial node set: equispaced or chebyshev")
	flags.String("reconciliation", "", "node count policy: exchange or strict")
	flags.Int("perturb-retries", 0, "retries after a singular system")
	flags.Uint64("seed", 0, "seed of the node perturbations")
	flags.Int("workers", 0, "goroutines evaluating the grid")
	flags.Int("samples", 0, "points used to measure the error of closed-form approximants")

	flags.String("kind", "", "literal kind: float, double, ldouble or quad")
	flags.String("format", "", "output format: text, yaml or json")
	flags.String("cache-dir", "", "directory caching Remez results")
	flags.String("log-level", "", "log level: trace, debug, info, warn or error")

	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || err != nil {
			return
		}
		err = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})

	return err
}

// loadConfig reads the configuration file, if any, and decodes the merged
// settings.
func loadConfig(v *viper.Viper, path string) (cfg Config, err error) {

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err = v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("cannot load config %s: %w", path, err)
		}
	}

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("cannot load config: %w", err)
	}

	if _, ok := digits[cfg.Kind]; !ok {
		return cfg, fmt.Errorf("invalid config: unknown kind %q", cfg.Kind)
	}

	switch cfg.Format {
	case "text", "yaml", "json":
	default:
		return cfg, fmt.Errorf("invalid config: unknown format %q", cfg.Format)
	}

	if cfg.Samples < 2 {
		return cfg, fmt.Errorf("invalid config: samples=%d must be at least 2", cfg.Samples)
	}

	return
}

// Interval parses the bounds at the working precision.
func (cfg Config) Interval() (inter bignum.Interval, err error) {

	prec := cfg.Prec
	if prec == 0 {
		prec = remez.DefaultPrec
	}

	if inter.A, err = bignum.ParseFloat(cfg.A, prec); err != nil {
		return inter, fmt.Errorf("invalid config: a: %w", err)
	}

	if inter.B, err = bignum.ParseFloat(cfg.B, prec); err != nil {
		return inter, fmt.Errorf("invalid config: b: %w", err)
	}

	return inter, inter.Validate()
}

// Parameters returns the engine parameters for f.
func (cfg Config) Parameters(f func(x *big.Float) (y *big.Float, err error), log logrus.FieldLogger) (p remez.Parameters, err error) {

	inter, err := cfg.Interval()
	if err != nil {
		return p, err
	}

	p = remez.Parameters{
		Function:           f,
		Interval:           inter,
		Prec:               cfg.Prec,
		Tolerance:          cfg.Tolerance,
		ErrorTolerance:     cfg.ErrorTolerance,
		InnerTolerance:     cfg.InnerTolerance,
		MaxIterations:      cfg.MaxIterations,
		MaxInnerIterations: cfg.MaxInnerIterations,
		GridDensity:        cfg.GridDensity,
		PerturbRetries:     cfg.PerturbRetries,
		Seed:               cfg.Seed,
		Workers:            cfg.Workers,
		Logger:             log,
	}

	switch strings.ToLower(cfg.InitialNodes) {
	case remez.Equispaced.String():
		p.InitialNodes = remez.Equispaced
	case remez.ChebyshevFirstKind.String():
		p.InitialNodes = remez.ChebyshevFirstKind
	default:
		return p, fmt.Errorf("invalid config: unknown initial nodes %q", cfg.InitialNodes)
	}

	switch strings.ToLower(cfg.Reconciliation) {
	case remez.Exchange.String():
		p.Reconciliation = remez.Exchange
	case remez.Strict.String():
		p.Reconciliation = remez.Strict
	default:
		return p, fmt.Errorf("invalid config: unknown reconciliation %q", cfg.Reconciliation)
	}

	return p, p.WithDefaults().Validate()
}

func setupLogger(level string, w io.Writer) (*logrus.Logger, error) {

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger.SetLevel(lvl)

	return logger, nil
}
