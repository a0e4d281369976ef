package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tuneinsight/minimax/cache"
	"github.com/tuneinsight/minimax/remez"
	"github.com/tuneinsight/minimax/targets"
	"github.com/tuneinsight/minimax/utils/bignum"
)

type app struct {
	v   *viper.Viper
	cfg Config
	log *logrus.Logger
}

func newRootCommand() (*cobra.Command, error) {

	a := &app{v: viper.New()}

	setDefaults(a.v)
	a.v.SetEnvPrefix("REMEZ")
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "remez",
		Short: "Minimax polynomial and rational approximations at arbitrary precision",
		Long: `remez computes minimax approximations of real functions with the Remez
exchange algorithm, and closed-form Chebyshev and Padé approximants, and
prints their coefficients as decimal literals.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {

			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}

			if a.cfg, err = loadConfig(a.v, path); err != nil {
				return err
			}

			a.log, err = setupLogger(a.cfg.LogLevel, cmd.ErrOrStderr())
			return err
		},
	}

	if err := registerFlags(a.v, root.PersistentFlags()); err != nil {
		return nil, fmt.Errorf("cannot bind flags: %w", err)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "poly <target> <degree>",
			Short: "Minimax polynomial of the given degree",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				degrees, err := parseDegrees(args[1:])
				if err != nil {
					return err
				}
				return a.runRemez(cmd, args[0], degrees[0], 0)
			},
		},
		&cobra.Command{
			Use:   "rational <target> <num-degree> <den-degree>",
			Short: "Minimax rational function of the given degrees",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				degrees, err := parseDegrees(args[1:])
				if err != nil {
					return err
				}
				return a.runRemez(cmd, args[0], degrees[0], degrees[1])
			},
		},
		&cobra.Command{
			Use:   "chebyshev <target> <degree>",
			Short: "Chebyshev interpolant of the given degree",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				degrees, err := parseDegrees(args[1:])
				if err != nil {
					return err
				}
				return a.runChebyshev(cmd, args[0], degrees[0])
			},
		},
		&cobra.Command{
			Use:   "pade <target> <num-degree> <den-degree>",
			Short: "Padé approximant at 0 of the given degrees",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				degrees, err := parseDegrees(args[1:])
				if err != nil {
					return err
				}
				return a.runPade(cmd, args[0], degrees[0], degrees[1])
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the available targets",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return listTargets(cmd)
			},
		},
	)

	return root, nil
}

func parseDegrees(args []string) (degrees []int, err error) {
	degrees = make([]int, len(args))
	for i := range args {
		if degrees[i], err = strconv.Atoi(args[i]); err != nil {
			return nil, fmt.Errorf("invalid degree %q: %w", args[i], err)
		}
		if degrees[i] < 0 {
			return nil, fmt.Errorf("invalid degree %d: must be non-negative", degrees[i])
		}
	}
	return
}

func (a *app) runRemez(cmd *cobra.Command, name string, numDegree, denDegree int) (err error) {

	t, err := targets.Get(name)
	if err != nil {
		return err
	}

	p, err := a.cfg.Parameters(t.Evaluate, a.log.WithField("target", t.Name))
	if err != nil {
		return err
	}

	method := "poly"
	if denDegree > 0 {
		method = "rational"
	}

	compute := func(ctx context.Context) (*remez.Result, error) {
		if method == "poly" {
			return remez.Polynomial(ctx, p, numDegree)
		}
		return remez.Rational(ctx, p, numDegree, denDegree)
	}

	var res *remez.Result
	var hit bool

	if a.cfg.CacheDir != "" {

		var c *cache.Cache
		if c, err = cache.New(a.cfg.CacheDir, a.log); err != nil {
			return err
		}

		req := cache.Request{
			Target:             t.Name,
			Method:             method,
			NumDegree:          numDegree,
			DenDegree:          denDegree,
			A:                  a.cfg.A,
			B:                  a.cfg.B,
			Prec:               a.cfg.Prec,
			Tolerance:          a.cfg.Tolerance,
			ErrorTolerance:     a.cfg.ErrorTolerance,
			InnerTolerance:     a.cfg.InnerTolerance,
			MaxIterations:      a.cfg.MaxIterations,
			MaxInnerIterations: a.cfg.MaxInnerIterations,
			GridDensity:        a.cfg.GridDensity,
			InitialNodes:       p.InitialNodes.String(),
			Reconciliation:     p.Reconciliation.String(),
			PerturbRetries:     a.cfg.PerturbRetries,
			Seed:               a.cfg.Seed,
		}

		res, hit, err = c.GetOrCompute(cmd.Context(), req, compute)
	} else {
		res, err = compute(cmd.Context())
	}

	if err != nil {
		return err
	}

	r := Report{
		Target:     t.Name,
		Method:     "remez-" + method,
		Kind:       a.cfg.Kind,
		Interval:   [2]string{a.cfg.A, a.cfg.B},
		NumDegree:  res.NumDegree,
		DenDegree:  res.DenDegree,
		MaxError:   res.MaxErr.Text('e', 6),
		Levelling:  res.Levelling().Text('e', 3),
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Stop:       res.Stop.String(),
		Cached:     hit,
	}

	if r.Numerator, err = formatFloats(res.Numerator, a.cfg.Kind); err != nil {
		return err
	}

	if !res.IsPolynomial() {
		if r.Denominator, err = formatFloats(res.Denominator, a.cfg.Kind); err != nil {
			return err
		}
	}

	sum, err := res.Fingerprint()
	if err != nil {
		return err
	}
	r.Fingerprint = hex.EncodeToString(sum[:])

	return r.write(cmd.OutOrStdout(), a.cfg.Format)
}

func (a *app) runChebyshev(cmd *cobra.Command, name string, degree int) (err error) {

	t, inter, err := a.closedForm(name)
	if err != nil {
		return err
	}

	pol, err := bignum.ChebyshevApproximation(t.Function, inter, degree)
	if err != nil {
		return err
	}

	maxErr, err := sampleError(cmd.Context(), t.Function, func(x *big.Float) (*big.Float, error) {
		return pol.Evaluate(x), nil
	}, inter, a.cfg.Samples)
	if err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{"target": t.Name, "degree": degree, "max_err": maxErr.Text('e', 3)}).Info("chebyshev interpolant")

	r := Report{
		Target:    t.Name,
		Method:    "chebyshev",
		Kind:      a.cfg.Kind,
		Interval:  [2]string{a.cfg.A, a.cfg.B},
		NumDegree: degree,
		MaxError:  maxErr.Text('e', 6),
		Converged: true,
	}

	if r.Numerator, err = formatFloats(pol.ToMonomial().Coeffs, a.cfg.Kind); err != nil {
		return err
	}

	return r.write(cmd.OutOrStdout(), a.cfg.Format)
}

func (a *app) runPade(cmd *cobra.Command, name string, m, n int) (err error) {

	t, inter, err := a.closedForm(name)
	if err != nil {
		return err
	}

	if t.Taylor == nil {
		return fmt.Errorf("cannot pade: %s has no Taylor series at 0", t.Name)
	}

	num, den, err := bignum.PadeApproximation(t.Taylor(m+n+1, inter.A.Prec()), m, n)
	if err != nil {
		return err
	}

	maxErr, err := sampleError(cmd.Context(), t.Function, func(x *big.Float) (*big.Float, error) {
		return bignum.RationalEval(x, num, den)
	}, inter, a.cfg.Samples)
	if err != nil {
		return fmt.Errorf("cannot pade: %w", err)
	}

	a.log.WithFields(logrus.Fields{"target": t.Name, "m": m, "n": n, "max_err": maxErr.Text('e', 3)}).Info("pade approximant")

	r := Report{
		Target:    t.Name,
		Method:    "pade",
		Kind:      a.cfg.Kind,
		Interval:  [2]string{a.cfg.A, a.cfg.B},
		NumDegree: m,
		DenDegree: n,
		MaxError:  maxErr.Text('e', 6),
		Converged: true,
	}

	if r.Numerator, err = formatFloats(num, a.cfg.Kind); err != nil {
		return err
	}

	if r.Denominator, err = formatFloats(den, a.cfg.Kind); err != nil {
		return err
	}

	return r.write(cmd.OutOrStdout(), a.cfg.Format)
}

// closedForm returns the target and the interval on which a closed-form
// approximant is measured. The domains of the registered targets are
// intervals, so checking the bounds is enough.
func (a *app) closedForm(name string) (t targets.Target, inter bignum.Interval, err error) {

	if t, err = targets.Get(name); err != nil {
		return
	}

	if inter, err = a.cfg.Interval(); err != nil {
		return
	}

	if t.Domain != nil && !(t.Domain(inter.A) && t.Domain(inter.B)) {
		return t, inter, fmt.Errorf("invalid interval %v: outside of the domain of %s", inter, t.Name)
	}

	return
}

// sampleError returns max |f(x) - g(x)| over n equispaced points of the
// interval, both bounds included.
func sampleError(ctx context.Context, f func(x *big.Float) (y *big.Float), g func(x *big.Float) (y *big.Float, err error), inter bignum.Interval, n int) (maxErr *big.Float, err error) {

	prec := inter.A.Prec()

	step := inter.Width(prec)
	step.Quo(step, new(big.Float).SetInt64(int64(n-1)))

	maxErr = new(big.Float).SetPrec(prec)
	x := new(big.Float).SetPrec(prec)
	diff := new(big.Float).SetPrec(prec)

	for i := 0; i < n; i++ {

		if i&255 == 0 {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
		}

		if i == n-1 {
			x.Set(inter.B)
		} else {
			x.Mul(step, new(big.Float).SetInt64(int64(i)))
			x.Add(x, inter.A)
		}

		var y *big.Float
		if y, err = g(x); err != nil {
			return nil, fmt.Errorf("x=%v: %w", x, err)
		}

		diff.Sub(f(x), y)
		if diff.Abs(diff).Cmp(maxErr) > 0 {
			maxErr.Set(diff)
		}
	}

	return
}

func listTargets(cmd *cobra.Command) (err error) {

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	if _, err = fmt.Fprintln(w, "NAME\tTAYLOR\tDESCRIPTION"); err != nil {
		return
	}

	for _, name := range targets.Names() {

		var t targets.Target
		if t, err = targets.Get(name); err != nil {
			return
		}

		if _, err = fmt.Fprintf(w, "%s\t%t\t%s\n", t.Name, t.Taylor != nil, t.Description); err != nil {
			return
		}
	}

	return w.Flush()
}
