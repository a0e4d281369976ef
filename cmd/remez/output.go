package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"gopkg.in/yaml.v3"
)

// digits is the number of significant decimal digits printed for each
// literal kind.
var digits = map[string]int{
	"float":   9,
	"double":  17,
	"ldouble": 36,
	"quad":    36,
}

// Report is the printed outcome of an approximation.
type Report struct {
	Target      string    `json:"target" yaml:"target"`
	Method      string    `json:"method" yaml:"method"`
	Kind        string    `json:"kind" yaml:"kind"`
	Interval    [2]string `json:"interval" yaml:"interval"`
	NumDegree   int       `json:"num_degree" yaml:"num_degree"`
	DenDegree   int       `json:"den_degree" yaml:"den_degree"`
	Numerator   []string  `json:"numerator" yaml:"numerator"`
	Denominator []string  `json:"denominator,omitempty" yaml:"denominator,omitempty"`
	MaxError    string    `json:"max_error" yaml:"max_error"`
	Levelling   string    `json:"levelling,omitempty" yaml:"levelling,omitempty"`
	Iterations  int       `json:"iterations,omitempty" yaml:"iterations,omitempty"`
	Converged   bool      `json:"converged" yaml:"converged"`
	Stop        string    `json:"stop,omitempty" yaml:"stop,omitempty"`
	Cached      bool      `json:"cached,omitempty" yaml:"cached,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
}

// formatFloat renders x as a decimal literal with the significant digits of kind.
func formatFloat(x *big.Float, kind string) (string, error) {
	d, ok := digits[kind]
	if !ok {
		return "", fmt.Errorf("cannot formatFloat: unknown kind %q", kind)
	}
	return x.Text('e', d-1), nil
}

func formatFloats(xs []*big.Float, kind string) (s []string, err error) {
	s = make([]string, len(xs))
	for i := range xs {
		if s[i], err = formatFloat(xs[i], kind); err != nil {
			return nil, err
		}
	}
	return
}

// write renders the report in the given format.
func (r Report) write(w io.Writer, format string) (err error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(r); err != nil {
			return
		}
		return enc.Close()
	case "text":
		return r.writeText(w)
	default:
		return fmt.Errorf("cannot write report: unknown format %q", format)
	}
}

func (r Report) writeText(w io.Writer) (err error) {

	lines := []string{
		fmt.Sprintf("%s approximation of %s on [%s, %s]", r.Method, r.Target, r.Interval[0], r.Interval[1]),
		fmt.Sprintf("degree %d/%d, %s literals", r.NumDegree, r.DenDegree, r.Kind),
		fmt.Sprintf("max error %s", r.MaxError),
	}

	if r.Iterations > 0 {
		lines = append(lines, fmt.Sprintf("iterations %d, levelling %s, converged %t (%s)", r.Iterations, r.Levelling, r.Converged, r.Stop))
	}

	if r.Cached {
		lines = append(lines, "cached")
	}

	for i, c := range r.Numerator {
		lines = append(lines, fmt.Sprintf("p[%d] = %s", i, c))
	}

	for i, c := range r.Denominator {
		lines = append(lines, fmt.Sprintf("q[%d] = %s", i, c))
	}

	for _, line := range lines {
		if _, err = fmt.Fprintln(w, line); err != nil {
			return
		}
	}

	return
}
