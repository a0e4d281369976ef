// Package cache stores approximation results on disk, keyed by a blake3
// fingerprint of the request that produced them.
package cache

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/tuneinsight/minimax/remez"
)

// Request identifies an approximation. Two requests with the same fields
// share a cache entry.
type Request struct {
	Target             string  `yaml:"target"`
	Method             string  `yaml:"method"`
	NumDegree          int     `yaml:"num_degree"`
	DenDegree          int     `yaml:"den_degree"`
	A                  string  `yaml:"a"`
	B                  string  `yaml:"b"`
	Prec               uint    `yaml:"prec"`
	Tolerance          float64 `yaml:"tolerance"`
	ErrorTolerance     float64 `yaml:"error_tolerance"`
	InnerTolerance     float64 `yaml:"inner_tolerance"`
	MaxIterations      int     `yaml:"max_iterations"`
	MaxInnerIterations int     `yaml:"max_inner_iterations"`
	GridDensity        int     `yaml:"grid_density"`
	InitialNodes       string  `yaml:"initial_nodes"`
	Reconciliation     string  `yaml:"reconciliation"`
	PerturbRetries     int     `yaml:"perturb_retries"`
	Seed               uint64  `yaml:"seed"`
}

// Key returns the hex encoded blake3 hash of the YAML encoding of the request.
func (r Request) Key() (string, error) {

	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("cannot Key: %w", err)
	}

	hasher := blake3.New()
	if _, err = hasher.Write(data); err != nil {
		return "", fmt.Errorf("cannot Key: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Cache is a directory of encoded results.
type Cache struct {
	dir string
	log logrus.FieldLogger
}

// New returns a cache rooted at dir, creating it if needed.
func New(dir string, log logrus.FieldLogger) (*Cache, error) {

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory: %w", err)
	}

	if log == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		log = logger
	}

	return &Cache{dir: dir, log: log}, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".bin")
}

// Get returns the result stored under key. The boolean is false if there is
// no such entry.
func (c *Cache) Get(key string) (res *remez.Result, ok bool, err error) {

	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("cannot read cache entry %s: %w", key, err)
	}

	res = new(remez.Result)
	if err = res.UnmarshalBinary(data); err != nil {
		return nil, false, fmt.Errorf("cannot decode cache entry %s: %w", key, err)
	}

	return res, true, nil
}

// Put stores res under key. The entry is written to a temporary file and
// renamed so that readers never see a partial entry.
func (c *Cache) Put(key string, res *remez.Result) (err error) {

	data, err := res.MarshalBinary()
	if err != nil {
		return fmt.Errorf("cannot encode cache entry %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot write cache entry %s: %w", key, err)
	}

	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write cache entry %s: %w", key, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("cannot write cache entry %s: %w", key, err)
	}

	if err = os.Rename(tmp.Name(), c.path(key)); err != nil {
		return fmt.Errorf("cannot write cache entry %s: %w", key, err)
	}

	return nil
}

// GetOrCompute returns the cached result of req, or calls compute and stores
// its result. The boolean is true on a cache hit.
func (c *Cache) GetOrCompute(ctx context.Context, req Request, compute func(ctx context.Context) (*remez.Result, error)) (res *remez.Result, hit bool, err error) {

	key, err := req.Key()
	if err != nil {
		return nil, false, err
	}

	log := c.log.WithFields(logrus.Fields{"key": key, "target": req.Target})

	if res, hit, err = c.Get(key); err != nil {
		log.WithError(err).Warn("ignoring unreadable cache entry")
	} else if hit {
		log.Debug("cache hit")
		return res, true, nil
	}

	if res, err = compute(ctx); err != nil {
		return nil, false, err
	}

	if err = c.Put(key, res); err != nil {
		return nil, false, err
	}

	log.Debug("cache store")

	return res, false, nil
}
