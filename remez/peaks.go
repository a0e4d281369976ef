package remez

import (
	"math/big"

	"github.com/sirupsen/logrus"
)

// findPeaks returns, in increasing order, the indices i of the local maxima
// of abs, i.e. abs[i] >= abs[i-1] and abs[i] >= abs[i+1]. The first and last
// indices are always included.
func findPeaks(abs []*big.Float) (peaks []int) {

	n := len(abs)

	if n == 0 {
		return
	}

	peaks = append(peaks, 0)

	for i := 1; i < n-1; i++ {
		if abs[i].Cmp(abs[i-1]) >= 0 && abs[i].Cmp(abs[i+1]) >= 0 {
			peaks = append(peaks, i)
		}
	}

	if n > 1 {
		peaks = append(peaks, n-1)
	}

	return
}

// collapsePlateaus replaces each run of adjacent peaks of equal magnitude by
// the peak in the middle of the run.
func collapsePlateaus(abs []*big.Float, peaks []int) (collapsed []int) {

	for start := 0; start < len(peaks); {

		end := start
		for end+1 < len(peaks) && peaks[end+1] == peaks[end]+1 && abs[peaks[end+1]].Cmp(abs[peaks[start]]) == 0 {
			end++
		}

		collapsed = append(collapsed, peaks[(start+end)/2])

		start = end + 1
	}

	return
}

// alternate keeps, for each run of consecutive peaks whose error has the same
// sign, the one with the largest magnitude. Peaks where the error is exactly
// zero are discarded.
func alternate(e, abs []*big.Float, peaks []int) (alternating []int) {

	for _, i := range peaks {

		if e[i].Sign() == 0 {
			continue
		}

		if last := len(alternating) - 1; last >= 0 && e[alternating[last]].Sign() == e[i].Sign() {
			if abs[i].Cmp(abs[alternating[last]]) > 0 {
				alternating[last] = i
			}
			continue
		}

		alternating = append(alternating, i)
	}

	return
}

// reconcile turns the peaks of the error into exactly r.size() grid indices.
//
// Plateaus are first collapsed and consecutive extrema of the same sign are
// merged, keeping the largest. With Strict, any remaining mismatch is
// returned as a *NodeCountError. With Exchange, extra extrema are dropped
// following Lee et al. (https://eprint.iacr.org/2020/552, Algorithm 3) and
// missing ones are filled with the endpoints, then with the midpoint of the
// widest gap between nodes.
func (r *Remez) reconcile(iteration int, e, abs []*big.Float, peaks []int, log logrus.FieldLogger) (idx []int, err error) {

	n := r.size()

	idx = alternate(e, abs, collapsePlateaus(abs, peaks))

	if r.Reconciliation == Strict {
		if len(idx) != n {
			return nil, &NodeCountError{Iteration: iteration, Found: len(idx), Required: n}
		}
		return idx, nil
	}

	if len(idx) != n {
		log.WithFields(logrus.Fields{
			"iteration": iteration,
			"found":     len(idx),
			"required":  n,
		}).Trace("reconciling extrema")
	}

	idx = dropExtrema(abs, idx, n)

	last := len(abs) - 1

	for len(idx) < n {

		var insert int

		switch {
		case len(idx) == 0 || idx[0] != 0:
			insert = 0
		case idx[len(idx)-1] != last:
			insert = last
		default:
			gap := 0
			for k := 0; k < len(idx)-1; k++ {
				if w := idx[k+1] - idx[k]; w > gap {
					gap, insert = w, idx[k]+w/2
				}
			}
			if gap < 2 {
				return nil, &NodeCountError{Iteration: iteration, Found: len(idx), Required: n}
			}
		}

		log.WithFields(logrus.Fields{
			"iteration": iteration,
			"index":     insert,
		}).Warn("too few alternating extrema, inserting node")

		idx = insertSorted(idx, insert)
	}

	return idx, nil
}

// dropExtrema removes extrema from the alternating set idx until n remain,
// keeping the alternation.
func dropExtrema(abs []*big.Float, idx []int, n int) []int {

	sum := new(big.Float)
	minSum := new(big.Float)

	pairSum := func(i, j int) *big.Float {
		return sum.Add(abs[idx[i]], abs[idx[j]])
	}

	for len(idx) > n {

		switch len(idx) {
		case n + 1:

			// Removes the smallest of the two endpoints
			if abs[idx[0]].Cmp(abs[idx[len(idx)-1]]) > 0 {
				idx = idx[:len(idx)-1]
			} else {
				idx = idx[1:]
			}

		case n + 2:

			// Removes the adjacent pair, cyclically, with the smallest sum
			minIdx := 0
			minSum.Set(pairSum(0, 1))
			for i := 1; i < len(idx); i++ {
				if pairSum(i, (i+1)%len(idx)).Cmp(minSum) < 0 {
					minSum.Set(sum)
					minIdx = i
				}
			}

			if minIdx == len(idx)-1 {
				idx = idx[1 : len(idx)-1]
			} else {
				idx = append(idx[:minIdx:minIdx], idx[minIdx+2:]...)
			}

		default:

			// Removes the adjacent pair with the smallest sum, or only the
			// endpoint if it belongs to that pair
			minIdx := 0
			minSum.Set(pairSum(0, 1))
			for i := 1; i < len(idx)-1; i++ {
				if pairSum(i, i+1).Cmp(minSum) < 0 {
					minSum.Set(sum)
					minIdx = i
				}
			}

			switch minIdx {
			case 0:
				idx = idx[1:]
			case len(idx) - 2:
				idx = idx[:len(idx)-1]
			default:
				idx = append(idx[:minIdx:minIdx], idx[minIdx+2:]...)
			}
		}
	}

	return idx
}

func insertSorted(idx []int, i int) []int {
	k := 0
	for k < len(idx) && idx[k] < i {
		k++
	}
	idx = append(idx, 0)
	copy(idx[k+1:], idx[k:])
	idx[k] = i
	return idx
}
