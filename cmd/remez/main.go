// Command remez prints minimax, Chebyshev and Padé approximations of real
// functions as decimal coefficient literals.
//
// Example:
//
//	remez poly exp 5 --a=-0.25 --b=0.25 --kind double
//	remez rational exp 2 2 --a 0 --b 1 --format yaml
//
// Every flag can also be set in a YAML file given with --config, or through
// an environment variable REMEZ_<KEY>, e.g. REMEZ_GRID_DENSITY.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root, err := newRootCommand()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	return root.ExecuteContext(ctx)
}
