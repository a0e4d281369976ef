package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/minimax/remez"
	"github.com/tuneinsight/minimax/utils/bignum"
)

func testRequest() Request {
	return Request{
		Target:    "exp",
		Method:    "poly",
		NumDegree: 3,
		A:         "-0.5",
		B:         "0.5",
		Prec:      128,
	}
}

func compute(ctx context.Context) (*remez.Result, error) {
	return remez.Polynomial(ctx, remez.Parameters{
		Function:    remez.Infallible(bignum.Exp),
		Interval:    bignum.NewInterval(-0.5, 0.5, 128),
		Prec:        128,
		GridDensity: 100,
	}, 3)
}

func TestRequest(t *testing.T) {

	a, err := testRequest().Key()
	require.NoError(t, err)
	require.Len(t, a, 64)

	b, err := testRequest().Key()
	require.NoError(t, err)
	require.Equal(t, a, b)

	for name, change := range map[string]func(r *Request){
		"NumDegree":          func(r *Request) { r.NumDegree = 4 },
		"Method":             func(r *Request) { r.Method = "rational" },
		"InnerTolerance":     func(r *Request) { r.InnerTolerance = 1e-9 },
		"MaxInnerIterations": func(r *Request) { r.MaxInnerIterations = 10 },
		"PerturbRetries":     func(r *Request) { r.PerturbRetries = 2 },
		"Seed":               func(r *Request) { r.Seed = 7 },
	} {
		req := testRequest()
		change(&req)
		c, err := req.Key()
		require.NoError(t, err)
		require.NotEqual(t, a, c, name)
	}
}

func TestCache(t *testing.T) {

	ctx := context.Background()

	c, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	t.Run("Miss", func(t *testing.T) {
		_, ok, err := c.Get("missing")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("GetOrCompute", func(t *testing.T) {

		var calls int
		counted := func(ctx context.Context) (*remez.Result, error) {
			calls++
			return compute(ctx)
		}

		res, hit, err := c.GetOrCompute(ctx, testRequest(), counted)
		require.NoError(t, err)
		require.False(t, hit)

		cached, hit, err := c.GetOrCompute(ctx, testRequest(), counted)
		require.NoError(t, err)
		require.True(t, hit)
		require.Equal(t, 1, calls)

		require.True(t, res.Equal(cached))
	})

	t.Run("ParametersChange", func(t *testing.T) {

		var calls int
		counted := func(ctx context.Context) (*remez.Result, error) {
			calls++
			return compute(ctx)
		}

		base := testRequest()
		base.A = "-0.25"

		_, hit, err := c.GetOrCompute(ctx, base, counted)
		require.NoError(t, err)
		require.False(t, hit)

		for _, change := range []func(r *Request){
			func(r *Request) { r.InnerTolerance = 1e-9 },
			func(r *Request) { r.MaxInnerIterations = 10 },
			func(r *Request) { r.PerturbRetries = 2 },
			func(r *Request) { r.Seed = 7 },
		} {
			req := base
			change(&req)
			_, hit, err = c.GetOrCompute(ctx, req, counted)
			require.NoError(t, err)
			require.False(t, hit)
		}

		require.Equal(t, 5, calls)

		_, hit, err = c.GetOrCompute(ctx, base, counted)
		require.NoError(t, err)
		require.True(t, hit)
		require.Equal(t, 5, calls)
	})

	t.Run("ComputeError", func(t *testing.T) {

		errFailed := errors.New("failed")

		req := testRequest()
		req.Target = "failing"

		_, _, err := c.GetOrCompute(ctx, req, func(ctx context.Context) (*remez.Result, error) {
			return nil, errFailed
		})
		require.ErrorIs(t, err, errFailed)

		key, err := req.Key()
		require.NoError(t, err)
		_, ok, err := c.Get(key)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("Corrupted", func(t *testing.T) {

		req := testRequest()
		req.A = "-1"

		key, err := req.Key()
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(c.dir, key+".bin"), []byte{1, 2, 3}, 0o600))

		_, _, err = c.Get(key)
		require.Error(t, err)

		// An unreadable entry is recomputed and overwritten
		_, hit, err := c.GetOrCompute(ctx, req, compute)
		require.NoError(t, err)
		require.False(t, hit)

		_, ok, err := c.Get(key)
		require.NoError(t, err)
		require.True(t, ok)
	})
}
