package hypsys

import (
	"math"

	"github.com/katalvlaran/hypflow/fem"
	"github.com/katalvlaran/hypflow/logger"
)

// ErrorSums accumulates the raw, mass-weighted ingredients of the error
// norms of u against the known solution of sys at time t: the weighted sum
// of absolute errors, the weighted sum of squared errors, and the maximum
// pointwise error. Distributed callers reduce the first two with SumAll and
// the last with MaxAll before finalizing.
func ErrorSums(sys System, asm fem.Assembly, u []float64, t float64) (sumAbs, sumSq, maxAbs float64) {
	mass := asm.LumpedMass()
	for i, ui := range u {
		e := math.Abs(ui - sys.Exact(asm.NodeCoord(i), t))
		sumAbs += mass[i] * e
		sumSq += mass[i] * e * e
		if e > maxAbs {
			maxAbs = e
		}
	}
	return sumAbs, sumSq, maxAbs
}

// ComputeErrors returns the mass-weighted error norms {L1, L2, L∞} of u
// against the known solution of sys at time t, normalized by domainSize.
// Serial convenience wrapper around ErrorSums.
func ComputeErrors(sys System, asm fem.Assembly, u []float64, domainSize, t float64) []float64 {
	sumAbs, sumSq, maxAbs := ErrorSums(sys, asm, u, t)
	return FinalizeErrors(sumAbs, sumSq, maxAbs, domainSize)
}

// FinalizeErrors turns (possibly reduced) raw error sums into the norm
// triple {L1, L2, L∞}.
func FinalizeErrors(sumAbs, sumSq, maxAbs, domainSize float64) []float64 {
	return []float64{sumAbs / domainSize, math.Sqrt(sumSq / domainSize), maxAbs}
}

// ReportErrors emits the norm triple as a structured diagnostic event.
// Reporting never alters control flow.
func ReportErrors(errs []float64) {
	if len(errs) != 3 {
		return
	}
	log := logger.Logger()
	log.Info().
		Float64("l1", errs[0]).
		Float64("l2", errs[1]).
		Float64("linf", errs[2]).
		Msg("error norms against known solution")
}
