// Package remez implements the Remez exchange algorithm for the minimax
// polynomial and rational approximation of a real function over an interval,
// at an arbitrary and explicit precision.
//
// A run samples the target function once on a dense grid, then iterates:
// solve the exchange system on the current node set, compute the signed error
// on the grid, move the nodes to the alternating extrema of the error, until
// the extrema are levelled. For a rational approximant P/Q the system is
// linearised around an estimate of the error amplitude E, which is refined by
// a fixed-point iteration nested inside each exchange.
package remez

import (
	"context"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/tuneinsight/minimax/utils/bignum"
	"github.com/tuneinsight/minimax/utils/sampling"
)

// Remez stores the state of a minimax approximation of degree
// NumDegree/DenDegree. The polynomial case has DenDegree = 0.
type Remez struct {
	Parameters
	NumDegree int
	DenDegree int

	rational bool
	prng     *sampling.KeyedPRNG

	grid  grid
	nodes []node

	history         []IterationStats
	innerIterations int
	retries         int
}

// node is an abscissa of the exchange system and the target value there.
type node struct {
	x, y *big.Float
}

// NewPolynomialRemez instantiates the exchange for the minimax polynomial of
// the given degree.
func NewPolynomialRemez(p Parameters, degree int) (r *Remez, err error) {
	if degree < 0 {
		return nil, fmt.Errorf("invalid parameters: degree=%d must be non-negative", degree)
	}
	return newRemez(p, degree, 0, false)
}

// NewRationalRemez instantiates the exchange for the minimax rational function
// P/Q with deg(P) = numDegree, deg(Q) = denDegree and Q[0] = 1.
func NewRationalRemez(p Parameters, numDegree, denDegree int) (r *Remez, err error) {
	if numDegree < 0 || denDegree < 0 {
		return nil, fmt.Errorf("invalid parameters: degrees %d/%d must be non-negative", numDegree, denDegree)
	}
	return newRemez(p, numDegree, denDegree, true)
}

func newRemez(p Parameters, numDegree, denDegree int, rational bool) (r *Remez, err error) {

	p = p.WithDefaults()

	if err = p.Validate(); err != nil {
		return nil, err
	}

	p.Interval = p.Interval.SetPrec(p.Prec)

	r = &Remez{
		Parameters: p,
		NumDegree:  numDegree,
		DenDegree:  denDegree,
		rational:   rational,
	}

	if r.prng, err = sampling.NewSeededPRNG(p.Seed); err != nil {
		return nil, fmt.Errorf("cannot NewRemez: %w", err)
	}

	return r, nil
}

// Polynomial returns the minimax polynomial of the given degree of p.Function.
func Polynomial(ctx context.Context, p Parameters, degree int) (*Result, error) {
	r, err := NewPolynomialRemez(p, degree)
	if err != nil {
		return nil, err
	}
	return r.Approximate(ctx)
}

// Rational returns the minimax rational approximant of p.Function with
// numerator degree numDegree and denominator degree denDegree.
func Rational(ctx context.Context, p Parameters, numDegree, denDegree int) (*Result, error) {
	r, err := NewRationalRemez(p, numDegree, denDegree)
	if err != nil {
		return nil, err
	}
	return r.Approximate(ctx)
}

// size returns the number of nodes of the exchange system.
func (r *Remez) size() int {
	return r.NumDegree + r.DenDegree + 2
}

// Approximate runs the exchange until the error extrema are levelled or
// MaxIterations is reached. A run that stops on an iteration cap returns a
// *ConvergenceError and no result. The context is checked between
// iterations and during the sampling of the grid.
func (r *Remez) Approximate(ctx context.Context) (res *Result, err error) {

	log := r.Logger.WithFields(logrus.Fields{
		"numerator":   r.NumDegree,
		"denominator": r.DenDegree,
		"interval":    r.Interval.String(),
		"prec":        r.Prec,
	})

	if err = r.initialize(ctx); err != nil {
		return nil, fmt.Errorf("cannot Approximate: %w", err)
	}

	log.WithField("grid", len(r.grid.x)).Debug("sampled target")

	prec := r.Prec
	tolerance := new(big.Float).SetPrec(prec).SetFloat64(r.Tolerance)
	errTolerance := new(big.Float).SetPrec(prec).SetFloat64(r.ErrorTolerance)

	var prevE *big.Float

	for i := 1; i <= r.MaxIterations; i++ {

		if err = ctx.Err(); err != nil {
			return nil, fmt.Errorf("cannot Approximate: %w", err)
		}

		var sol *solution
		if sol, err = r.solveWithRecovery(ctx, log); err != nil {
			return nil, fmt.Errorf("cannot Approximate: iteration %d: %w", i, err)
		}

		var e []*big.Float
		if e, err = r.residual(ctx, sol.num, sol.den); err != nil {
			return nil, fmt.Errorf("cannot Approximate: iteration %d: %w", i, err)
		}

		abs := make([]*big.Float, len(e))
		maxErr := new(big.Float).SetPrec(prec)
		for j := range e {
			abs[j] = new(big.Float).Abs(e[j])
			if abs[j].Cmp(maxErr) > 0 {
				maxErr.Set(abs[j])
			}
		}

		stats := IterationStats{
			Iteration:       i,
			InnerIterations: sol.inner,
		}
		stats.Error, _ = sol.E.Float64()
		stats.MaxErr, _ = maxErr.Float64()

		minErr := new(big.Float).SetPrec(prec)
		levelling := new(big.Float).SetPrec(prec)

		var stationary, stable bool

		if maxErr.Sign() == 0 {
			stats.Stop = Exact
		} else {

			peaks := findPeaks(abs)
			stats.Peaks = len(peaks)

			var idx []int
			if idx, err = r.reconcile(i, e, abs, peaks, log); err != nil {
				return nil, fmt.Errorf("cannot Approximate: %w", err)
			}

			minErr.Set(abs[idx[0]])
			for _, j := range idx[1:] {
				if abs[j].Cmp(minErr) < 0 {
					minErr.Set(abs[j])
				}
			}

			if minErr.Sign() == 0 {
				levelling.SetInf(false)
			} else {
				levelling.Sub(maxErr, minErr)
				levelling.Quo(levelling, minErr)
			}

			stationary = r.isStationary(idx)

			if r.rational && prevE != nil && sol.E.Sign() != 0 {
				rel := new(big.Float).SetPrec(prec).Sub(sol.E, prevE)
				rel.Quo(rel, sol.E)
				stable = rel.Abs(rel).Cmp(errTolerance) < 0
			}

			switch {
			case levelling.Cmp(tolerance) <= 0:
				stats.Stop = Levelled
			case stable:
				stats.Stop = Amplitude
			case stationary:
				stats.Stop = Stationary
			}

			r.setNodes(idx)
		}

		stats.MinErr, _ = minErr.Float64()
		stats.Levelling, _ = levelling.Float64()
		r.history = append(r.history, stats)

		log.WithFields(logrus.Fields{
			"iteration":  i,
			"max_err":    stats.MaxErr,
			"levelling":  stats.Levelling,
			"error":      stats.Error,
			"peaks":      stats.Peaks,
			"stationary": stationary,
		}).Debug("exchange")

		if stats.Stop != Running {
			if res, err = r.result(sol, maxErr, minErr, i); err != nil {
				return nil, fmt.Errorf("cannot Approximate: %w", err)
			}
			log.WithFields(logrus.Fields{
				"iterations": i,
				"max_err":    stats.MaxErr,
				"levelling":  stats.Levelling,
				"stop":       stats.Stop,
			}).Info("converged")
			return res, nil
		}

		prevE = sol.E
	}

	return nil, fmt.Errorf("cannot Approximate: %w", &ConvergenceError{
		Stage:      Outer,
		Iterations: r.MaxIterations,
		History:    r.History(),
	})
}

// History returns a copy of the statistics of the outer iterations of the
// last run.
func (r *Remez) History() []IterationStats {
	history := make([]IterationStats, len(r.history))
	copy(history, r.history)
	return history
}

// initialize samples the grid and places the initial nodes.
func (r *Remez) initialize(ctx context.Context) (err error) {

	r.history = r.history[:0]
	r.innerIterations = 0
	r.retries = 0
	r.prng.Reset()

	n := r.size()

	if r.grid, err = r.newGrid(ctx, r.GridDensity*(n-1)); err != nil {
		return
	}

	r.nodes = make([]node, n)

	switch r.InitialNodes {
	case Equispaced:
		for m := range r.nodes {
			r.nodes[m] = node{x: r.grid.x[m*r.GridDensity], y: r.grid.f[m*r.GridDensity]}
		}
	case ChebyshevFirstKind:
		for m, x := range bignum.ChebyshevNodes(n, r.Interval) {
			var y *big.Float
			if y, err = r.evaluate(x); err != nil {
				return
			}
			r.nodes[m] = node{x: x, y: y}
		}
	}

	return
}

// setNodes moves the nodes to the grid points idx.
func (r *Remez) setNodes(idx []int) {
	for m, j := range idx {
		r.nodes[m] = node{x: r.grid.x[j], y: r.grid.f[j]}
	}
}

// isStationary returns true if the nodes already are the grid points idx.
func (r *Remez) isStationary(idx []int) bool {
	for m, j := range idx {
		if r.nodes[m].x.Cmp(r.grid.x[j]) != 0 {
			return false
		}
	}
	return true
}

// result assembles the output of a converged run.
func (r *Remez) result(sol *solution, maxErr, minErr *big.Float, iterations int) (res *Result, err error) {

	res = &Result{
		NumDegree:       r.NumDegree,
		DenDegree:       r.DenDegree,
		Interval:        r.Interval.SetPrec(r.Prec),
		Prec:            r.Prec,
		Numerator:       sol.num,
		Denominator:     sol.den,
		Error:           sol.E,
		MaxErr:          maxErr,
		MinErr:          minErr,
		Nodes:           make([]*big.Float, len(r.nodes)),
		NodeErrors:      make([]*big.Float, len(r.nodes)),
		Iterations:      iterations,
		InnerIterations: r.innerIterations,
		Converged:       true,
		Stop:            r.history[len(r.history)-1].Stop,
		History:         r.History(),
		system:          sol.system,
	}

	for m := range r.nodes {
		res.Nodes[m] = new(big.Float).Set(r.nodes[m].x)

		var y *big.Float
		if y, err = bignum.RationalEval(r.nodes[m].x, sol.num, sol.den); err != nil {
			return nil, fmt.Errorf("%w: %w at x=%v", ErrPole, err, r.nodes[m].x)
		}

		res.NodeErrors[m] = y.Sub(r.nodes[m].y, y)
	}

	return
}
