// Package targets provides named real functions evaluated at arbitrary
// precision, to be approximated by the remez package, together with their
// Taylor series at zero when it exists.
package targets

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/tuneinsight/minimax/utils"
	"github.com/tuneinsight/minimax/utils/bignum"
)

// Target is a named function of one real variable.
type Target struct {
	Name        string
	Description string

	// Function evaluates the target at the precision of x.
	Function func(x *big.Float) (y *big.Float)

	// Domain reports whether x is in the domain of Function. Nil means the
	// whole real line.
	Domain func(x *big.Float) bool

	// Taylor returns the first n coefficients of the Taylor series at 0.
	// Nil if the target is not analytic at 0.
	Taylor func(n int, prec uint) []*big.Float
}

// Evaluate returns Function(x), or an error if x is outside the domain.
func (t Target) Evaluate(x *big.Float) (*big.Float, error) {
	if t.Domain != nil && !t.Domain(x) {
		return nil, fmt.Errorf("cannot evaluate %s: x=%v is outside of the domain", t.Name, x)
	}
	return t.Function(x), nil
}

var (
	mu       sync.RWMutex
	registry = map[string]Target{}
)

// Register adds t to the registry. It returns an error if the name is
// already taken.
func Register(t Target) error {

	if t.Name == "" || t.Function == nil {
		return fmt.Errorf("cannot Register: name and function must be set")
	}

	mu.Lock()
	defer mu.Unlock()

	if _, ok := registry[t.Name]; ok {
		return fmt.Errorf("cannot Register: %q is already registered", t.Name)
	}

	registry[t.Name] = t

	return nil
}

// Get returns the target registered under name.
func Get(name string) (Target, error) {
	mu.RLock()
	defer mu.RUnlock()

	t, ok := registry[name]
	if !ok {
		return Target{}, fmt.Errorf("unknown target %q, available targets are %v", name, namesLocked())
	}

	return t, nil
}

// Names returns the sorted names of the registered targets.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	return utils.GetSortedKeys(registry)
}

func positive(x *big.Float) bool {
	return x.Sign() > 0
}

func nonNegative(x *big.Float) bool {
	return x.Sign() >= 0
}

func greaterThanMinusOne(x *big.Float) bool {
	return x.Cmp(big.NewFloat(-1)) > 0
}

func init() {
	for _, t := range []Target{
		{
			Name:        "exp",
			Description: "exponential",
			Function:    bignum.Exp,
			Taylor:      expSeries,
		},
		{
			Name:        "expm1",
			Description: "exp(x) - 1",
			Function:    bignum.Expm1,
			Taylor: func(n int, prec uint) []*big.Float {
				c := expSeries(n, prec)
				if n > 0 {
					c[0].SetInt64(0)
				}
				return c
			},
		},
		{
			Name:        "log",
			Description: "natural logarithm",
			Function:    bignum.Log,
			Domain:      positive,
		},
		{
			Name:        "log1p",
			Description: "log(1 + x)",
			Function:    bignum.Log1p,
			Domain:      greaterThanMinusOne,
			Taylor:      log1pSeries,
		},
		{
			Name:        "sqrt",
			Description: "square root",
			Function:    bignum.Sqrt,
			Domain:      nonNegative,
		},
		{
			Name:        "sin",
			Description: "sine",
			Function:    bignum.Sin,
			Taylor:      trigSeries(1, -1),
		},
		{
			Name:        "cos",
			Description: "cosine",
			Function:    bignum.Cos,
			Taylor:      trigSeries(0, -1),
		},
		{
			Name:        "sinh",
			Description: "hyperbolic sine",
			Function:    bignum.SinH,
			Taylor:      trigSeries(1, 1),
		},
		{
			Name:        "cosh",
			Description: "hyperbolic cosine",
			Function:    bignum.CosH,
			Taylor:      trigSeries(0, 1),
		},
		{
			Name:        "tanh",
			Description: "hyperbolic tangent",
			Function:    bignum.TanH,
		},
		{
			Name:        "sigmoid",
			Description: "1 / (1 + exp(-x))",
			Function:    bignum.Sigmoid,
		},
		{
			Name:        "atan",
			Description: "arctangent",
			Function:    bignum.ArcTan,
			Taylor:      atanSeries,
		},
	} {
		if err := Register(t); err != nil {
			panic(err)
		}
	}
}
