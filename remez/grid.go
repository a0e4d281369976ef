package remez

import (
	"context"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/tuneinsight/minimax/utils"
	"github.com/tuneinsight/minimax/utils/bignum"
)

// grid is the dense sampling {x, f(x)} of the interval used to locate the
// extrema of the error. It is created once per run and read-only afterwards.
type grid struct {
	x []*big.Float
	f []*big.Float
}

// checkEvery is the number of grid points between two checks of the context.
const checkEvery = 256

// newGrid returns the n+1 points x_i = A + i*(B-A)/n, both endpoints
// included, and the target evaluated at each of them.
func (r *Remez) newGrid(ctx context.Context, n int) (g grid, err error) {

	prec := r.Prec

	g.x = make([]*big.Float, n+1)
	g.f = make([]*big.Float, n+1)

	width := r.Interval.Width(prec)
	N := new(big.Float).SetPrec(prec).SetInt64(int64(n))

	for i := 0; i < n; i++ {
		x := new(big.Float).SetPrec(prec).SetInt64(int64(i))
		x.Mul(x, width)
		x.Quo(x, N)
		g.x[i] = x.Add(x, r.Interval.A)
	}

	g.x[n] = new(big.Float).SetPrec(prec).Set(r.Interval.B)

	err = r.parallel(ctx, len(g.x), func(i int) (err error) {
		g.f[i], err = r.evaluate(g.x[i])
		return
	})

	return
}

// evaluate calls the target at x and rounds the result to the working precision.
func (r *Remez) evaluate(x *big.Float) (y *big.Float, err error) {

	if y, err = r.Function(x); err != nil {
		return nil, fmt.Errorf("cannot evaluate target at x=%v: %w", x, err)
	}

	if y == nil {
		return nil, fmt.Errorf("cannot evaluate target at x=%v: nil result", x)
	}

	if y.IsInf() {
		return nil, fmt.Errorf("cannot evaluate target at x=%v: infinite result", x)
	}

	return new(big.Float).SetPrec(r.Prec).Set(y), nil
}

// parallel calls fn(i) for i in [0, n) over r.Workers goroutines, stopping
// at the first error or when ctx is done.
func (r *Remez) parallel(ctx context.Context, n int, fn func(i int) error) error {

	if n == 0 {
		return nil
	}

	workers := utils.Max(utils.Min(r.Workers, n), 1)
	chunk := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {

		start, end := w*chunk, utils.Min((w+1)*chunk, n)

		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%checkEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// residual returns the signed error e_i = f(x_i) - P(x_i)/Q(x_i) on the grid.
// It returns ErrPole if Q vanishes or changes sign on the grid.
func (r *Remez) residual(ctx context.Context, num, den []*big.Float) (e []*big.Float, err error) {

	x, f := r.grid.x, r.grid.f

	e = make([]*big.Float, len(x))

	sign := bignum.MonomialEval(x[0], den).Sign()

	err = r.parallel(ctx, len(x), func(i int) error {

		q := bignum.MonomialEval(x[i], den)

		if q.Sign() == 0 {
			return fmt.Errorf("%w: %w at x=%v", ErrPole, bignum.ErrZeroDenominator, x[i])
		}

		if q.Sign() != sign {
			return fmt.Errorf("%w: denominator changes sign before x=%v", ErrPole, x[i])
		}

		y := bignum.MonomialEval(x[i], num)
		y.Quo(y, q)

		e[i] = y.Sub(f[i], y)

		return nil
	})

	return
}
