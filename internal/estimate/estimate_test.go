package estimate

import (
	"errors"
	"math"
	"testing"
)

func TestComputeTotal_Sum(t *testing.T) {
	total, err := ComputeTotal(Breakdown{Labor: 5000, Material: 3000, Equipment: 2000, Misc: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 11000 {
		t.Fatalf("total = %v, want 11000", total)
	}
}

func TestComputeTotal_AllZero(t *testing.T) {
	total, err := ComputeTotal(Breakdown{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %v, want 0", total)
	}
}

func TestComputeTotal_NoRounding(t *testing.T) {
	b := Breakdown{Labor: 0.1, Material: 0.2, Equipment: 0.3, Misc: 0.4}
	total, err := ComputeTotal(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 0.1 + 0.2 + 0.3 + 0.4
	if total != want {
		t.Fatalf("total = %v, want %v (plain float addition)", total, want)
	}
}

func TestComputeTotal_RejectsBadFields(t *testing.T) {
	cases := map[string]Breakdown{
		"negative labor":     {Labor: -1},
		"negative misc":      {Misc: -0.01},
		"nan material":       {Material: math.NaN()},
		"infinite equipment": {Equipment: math.Inf(1)},
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ComputeTotal(b)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCategories_Order(t *testing.T) {
	cats := Breakdown{Labor: 1, Material: 2, Equipment: 3, Misc: 4}.Categories()
	want := []string{"Labor", "Material", "Equipment", "Miscellaneous"}
	if len(cats) != len(want) {
		t.Fatalf("len = %d, want %d", len(cats), len(want))
	}
	for i, c := range cats {
		if c.Name != want[i] {
			t.Errorf("cats[%d].Name = %q, want %q", i, c.Name, want[i])
		}
		if c.Amount != float64(i+1) {
			t.Errorf("cats[%d].Amount = %v, want %d", i, c.Amount, i+1)
		}
	}
}

func TestShares_SortedAndSumToOne(t *testing.T) {
	shares, err := Shares(Breakdown{Labor: 1000, Material: 3000, Equipment: 2000, Misc: 4000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shares[0].Name != CategoryMisc || shares[3].Name != CategoryLabor {
		t.Fatalf("order = %s..%s, want Miscellaneous..Labor", shares[0].Name, shares[3].Name)
	}
	sum := 0.0
	for _, s := range shares {
		sum += s.Fraction
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("fractions sum = %v, want 1", sum)
	}
	if shares[0].Fraction != 0.4 {
		t.Fatalf("top share = %v, want 0.4", shares[0].Fraction)
	}
}

func TestShares_ZeroTotal(t *testing.T) {
	shares, err := Shares(Breakdown{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range shares {
		if s.Fraction != 0 {
			t.Fatalf("%s fraction = %v, want 0", s.Name, s.Fraction)
		}
	}
	if shares[0].Name != CategoryLabor {
		t.Fatalf("tie order starts with %q, want Labor", shares[0].Name)
	}
}
