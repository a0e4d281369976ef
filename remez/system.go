package remez

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/tuneinsight/minimax/utils/bignum"
	"github.com/tuneinsight/minimax/utils/sampling"
)

// solution is the output of one exchange system.
type solution struct {
	num, den []*big.Float
	E        *big.Float
	inner    int
	system   [][]float64
}

// buildSystem constructs the exchange system at the current nodes, with
// guess as the linearisation point of the error amplitude:
//
//	| 1 x0 ... x0^p  x0*(+E-y0) ... x0^q*(+E-y0)  1 |   | y0 |
//	| 1 x1 ... x1^p  x1*(-E-y1) ... x1^q*(-E-y1) -1 | = | y1 |
//	| 1 x2 ... x2^p  x2*(+E-y2) ... x2^q*(+E-y2)  1 |   | y2 |
//	|                      .                        |   | .  |
//
// where p = NumDegree and q = DenDegree. With q = 0 the system is the linear
// system of the polynomial case.
func (r *Remez) buildSystem(guess *big.Float) (matrix [][]*big.Float, vector []*big.Float) {

	prec := r.Prec
	n := r.size()
	p, q := r.NumDegree, r.DenDegree

	matrix = bignum.NewMatrix(n, n, prec)
	vector = bignum.NewVector(n, prec)

	pow := new(big.Float).SetPrec(prec)
	shift := new(big.Float).SetPrec(prec)

	for m, nd := range r.nodes {

		sign := int64(1 - 2*(m&1))

		pow.SetInt64(1)
		for k := 0; k <= p; k++ {
			matrix[m][k].Set(pow)
			pow.Mul(pow, nd.x)
		}

		// (-1)^m * E - y_m
		shift.SetInt64(sign)
		shift.Mul(shift, guess)
		shift.Sub(shift, nd.y)

		pow.Set(nd.x)
		for k := 1; k <= q; k++ {
			matrix[m][p+k].Mul(pow, shift)
			pow.Mul(pow, nd.x)
		}

		matrix[m][n-1].SetInt64(sign)

		vector[m].Set(nd.y)
	}

	return
}

// solveSystem solves the exchange system linearised at guess. It returns the
// numerator, the denominator with den[0] = 1 and the error amplitude.
func (r *Remez) solveSystem(guess *big.Float) (sol *solution, err error) {

	matrix, vector := r.buildSystem(guess)

	system := make([][]float64, len(matrix))
	for i := range matrix {
		system[i] = make([]float64, len(matrix[i]))
		for j := range matrix[i] {
			system[i][j], _ = matrix[i][j].Float64()
		}
	}

	if err = bignum.SolveLinearSystemInPlace(matrix, vector); err != nil {
		return
	}

	p, q := r.NumDegree, r.DenDegree

	sol = &solution{
		num:    vector[:p+1],
		den:    make([]*big.Float, q+1),
		E:      vector[p+q+1],
		system: system,
	}

	sol.den[0] = new(big.Float).SetPrec(r.Prec).SetInt64(1)
	copy(sol.den[1:], vector[p+1:p+q+1])

	return
}

// solve solves the exchange system at the current nodes. In the rational
// case the error amplitude is refined from E = 0 until two consecutive
// estimates agree within InnerTolerance.
//
// A zero amplitude obtained from a non-zero guess is not a fixed point, since
// the system linearised at 0 returned a non-zero amplitude. The next guess is
// then the midpoint of the two, and every later guess the midpoint of the
// previous guess and of its amplitude. Without this relaxation the iteration
// can cycle: with one denominator coefficient the amplitude is a homographic
// function of the guess, and reaching 0 from a non-zero guess makes it an
// involution.
func (r *Remez) solve(ctx context.Context, log logrus.FieldLogger) (sol *solution, err error) {

	prec := r.Prec

	guess := new(big.Float).SetPrec(prec)

	if !r.rational {
		return r.solveSystem(guess)
	}

	tolerance := new(big.Float).SetPrec(prec).SetFloat64(r.InnerTolerance)
	rel := new(big.Float).SetPrec(prec)

	var relaxed bool

	for it := 1; it <= r.MaxInnerIterations; it++ {

		if err = ctx.Err(); err != nil {
			return nil, err
		}

		if sol, err = r.solveSystem(guess); err != nil {
			return nil, err
		}

		r.innerIterations++
		sol.inner = it

		var done bool
		switch {
		case sol.E.Cmp(guess) == 0:
			done = true
		case sol.E.Sign() == 0:
			// The relative change is undefined, the check is skipped
			relaxed = true
			log.WithField("inner", it).Debug("zero error amplitude, relaxing")
		default:
			rel.Sub(guess, sol.E)
			rel.Quo(rel, sol.E)
			done = rel.Abs(rel).Cmp(tolerance) < 0
		}

		e, _ := sol.E.Float64()
		log.WithFields(logrus.Fields{"inner": it, "error": e}).Trace("linearisation")

		if done {
			return sol, nil
		}

		if relaxed {
			guess.Add(guess, sol.E)
			guess.Quo(guess, big.NewFloat(2))
		} else {
			guess.Set(sol.E)
		}
	}

	return nil, &ConvergenceError{
		Stage:      Inner,
		Iterations: r.MaxInnerIterations,
		History:    r.History(),
	}
}

// solveWithRecovery calls solve and, while PerturbRetries allows it, moves
// the interior nodes and retries when the system is singular.
func (r *Remez) solveWithRecovery(ctx context.Context, log logrus.FieldLogger) (sol *solution, err error) {

	for {

		sol, err = r.solve(ctx, log)

		if !errors.Is(err, ErrSingularSystem) || r.retries >= r.PerturbRetries {
			return
		}

		r.retries++

		log.WithFields(logrus.Fields{
			"retry": r.retries,
			"error": err,
		}).Warn("singular system, perturbing nodes")

		if err = r.perturb(); err != nil {
			return nil, err
		}
	}
}

// perturb moves each interior node to a point sampled uniformly between the
// midpoints with its neighbours. The endpoints are kept.
func (r *Remez) perturb() (err error) {

	prec := r.Prec
	half := new(big.Float).SetPrec(prec).SetFloat64(0.5)

	nodes := r.nodes

	xs := make([]*big.Float, len(nodes))
	for m := range nodes {
		xs[m] = nodes[m].x
	}

	for m := 1; m < len(nodes)-1; m++ {

		lo := new(big.Float).SetPrec(prec).Add(xs[m-1], xs[m])
		lo.Mul(lo, half)
		hi := new(big.Float).SetPrec(prec).Add(xs[m], xs[m+1])
		hi.Mul(hi, half)

		var x, y *big.Float
		if x, err = sampling.UniformFloat(r.prng, lo, hi, prec); err != nil {
			return fmt.Errorf("cannot perturb: %w", err)
		}

		if y, err = r.evaluate(x); err != nil {
			return fmt.Errorf("cannot perturb: %w", err)
		}

		nodes[m] = node{x: x, y: y}
	}

	return
}
