package estimate_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/theirongolddev/costcast/internal/estimate"
)

func TestComputeTotalProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	amount := gen.Float64Range(0, 1e9)

	properties.Property("total equals l+m+e+c for non-negative inputs", prop.ForAll(
		func(l, m, e, c float64) bool {
			total, err := estimate.ComputeTotal(estimate.Breakdown{Labor: l, Material: m, Equipment: e, Misc: c})
			return err == nil && total == l+m+e+c
		},
		amount, amount, amount, amount,
	))

	properties.Property("repeated calls are bit-identical", prop.ForAll(
		func(l, m, e, c float64) bool {
			b := estimate.Breakdown{Labor: l, Material: m, Equipment: e, Misc: c}
			t1, err1 := estimate.ComputeTotal(b)
			t2, err2 := estimate.ComputeTotal(b)
			return err1 == nil && err2 == nil && t1 == t2
		},
		amount, amount, amount, amount,
	))

	properties.Property("any negative field is rejected", prop.ForAll(
		func(neg, other float64) bool {
			_, err := estimate.ComputeTotal(estimate.Breakdown{Labor: other, Material: other, Equipment: neg, Misc: other})
			return err != nil
		},
		gen.Float64Range(-1e9, -1e-9), amount,
	))

	properties.TestingRun(t)
}
