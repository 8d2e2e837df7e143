/*
Copyright © 2017 the Adiabat authors.
This file is part of Adiabat.

Adiabat is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Adiabat is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Adiabat.  If not, see <http://www.gnu.org/licenses/>.
*/

package adiabat

import (
	"math"
	"testing"

	"github.com/spatialmodel/adiabat/science/thermo/glushko"
)

func mustCoefficients(t *testing.T, s Species) glushko.Coefficients {
	c, err := glushko.NewCoefficients(s.Coefficients)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// A gas and a condensed species with the same coefficients and amounts.
func TestContextPhasePair(t *testing.T) {
	const (
		T = 1500.
		P = 2.e5
	)
	c := mustCoefficients(t, constCp("X", Gas, -20000, 40, 9))
	ctx, err := NewContext(T, P, []float64{1.5, 1.5}, []glushko.Coefficients{c, c}, []bool{false, true})
	if err != nil {
		t.Fatal(err)
	}
	h := glushko.Enthalpy(&c, T)
	s0 := glushko.Entropy(&c, T, 0)
	sGas := glushko.Entropy(&c, T, P)
	cp := glushko.HeatCapacity(&c, T)

	if n := ctx.GasMoles(); n != 1.5 {
		t.Errorf("gas moles: have %g, want 1.5", n)
	}
	if n := ctx.CondensedMoles(); n != 1.5 {
		t.Errorf("condensed moles: have %g, want 1.5", n)
	}
	if n := ctx.TotalMoles(); n != 3 {
		t.Errorf("total moles: have %g, want 3", n)
	}
	if have, err := ctx.HeatCapacity(); err != nil || different(have, cp, 1.e-12) {
		t.Errorf("heat capacity: have %g (%v), want %g", have, err, cp)
	}
	if have := ctx.Enthalpy(); different(have, 3*h, 1.e-12) {
		t.Errorf("enthalpy: have %g, want %g", have, 3*h)
	}
	wantS := 1.5*sGas + 1.5*s0
	if have := ctx.Entropy(); different(have, wantS, 1.e-12) {
		t.Errorf("entropy: have %g, want %g", have, wantS)
	}
	wantG := 1.5*(h-T*sGas) + 1.5*(h-T*s0)
	if have := ctx.Gibbs(); different(have, wantG, 1.e-12) {
		t.Errorf("gibbs: have %g, want %g", have, wantG)
	}
	if p, err := ctx.PartialPressure(0); err != nil || p != P {
		t.Errorf("gas partial pressure: have %g (%v), want %g", p, err, P)
	}
	if p, err := ctx.PartialPressure(1); err != nil || p != 0 {
		t.Errorf("condensed partial pressure: have %g (%v), want 0", p, err)
	}
}

// Heat capacity is weighted by gas mole fraction; enthalpy, entropy and
// Gibbs energy by amount.
func TestContextWeighting(t *testing.T) {
	const T = 2000.
	c1 := mustCoefficients(t, constCp("X", Gas, 0, 30, 7))
	c2 := mustCoefficients(t, constCp("Y", Gas, -10000, 50, 12))
	coefs := []glushko.Coefficients{c1, c2}
	cond := []bool{false, false}
	ctx, err := NewContext(T, 101325, []float64{1, 3}, coefs, cond)
	if err != nil {
		t.Fatal(err)
	}
	doubled, err := NewContext(T, 101325, []float64{2, 6}, coefs, cond)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("heat capacity", func(t *testing.T) {
		want := 0.25*glushko.HeatCapacity(&c1, T) + 0.75*glushko.HeatCapacity(&c2, T)
		have, err := ctx.HeatCapacity()
		if err != nil {
			t.Fatal(err)
		}
		if different(have, want, 1.e-12) {
			t.Errorf("have %g, want %g", have, want)
		}
		have2, err := doubled.HeatCapacity()
		if err != nil {
			t.Fatal(err)
		}
		if different(have, have2, 1.e-12) {
			t.Errorf("heat capacity should not depend on total amount: %g != %g", have, have2)
		}
	})
	t.Run("enthalpy", func(t *testing.T) {
		want := glushko.Enthalpy(&c1, T) + 3*glushko.Enthalpy(&c2, T)
		if have := ctx.Enthalpy(); different(have, want, 1.e-12) {
			t.Errorf("have %g, want %g", have, want)
		}
		if have := doubled.Enthalpy(); different(have, 2*want, 1.e-12) {
			t.Errorf("doubled: have %g, want %g", have, 2*want)
		}
	})
	t.Run("entropy", func(t *testing.T) {
		want := glushko.Entropy(&c1, T, 0.25*101325) + 3*glushko.Entropy(&c2, T, 0.75*101325)
		if have := ctx.Entropy(); different(have, want, 1.e-12) {
			t.Errorf("have %g, want %g", have, want)
		}
		if have := doubled.Entropy(); different(have, 2*want, 1.e-12) {
			t.Errorf("doubled: have %g, want %g", have, 2*want)
		}
	})
	t.Run("gibbs", func(t *testing.T) {
		want := ctx.Enthalpy() - T*ctx.Entropy()
		if have := ctx.Gibbs(); different(have, want, 1.e-10) {
			t.Errorf("have %g, want %g", have, want)
		}
	})
}

func TestContextDegenerate(t *testing.T) {
	c := mustCoefficients(t, constCp("X", Gas, 0, 30, 7))
	coefs := []glushko.Coefficients{c, c}

	ctx, err := NewContext(1000, 101325, []float64{0, 1}, coefs, []bool{false, true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.HeatCapacity(); err == nil {
		t.Error("heat capacity: expected an error")
	} else if _, ok := err.(*DegenerateSystemError); !ok {
		t.Errorf("heat capacity: wrong error type %T", err)
	}
	if _, err := ctx.PartialPressure(0); err == nil {
		t.Error("partial pressure: expected an error")
	} else if _, ok := err.(*DegenerateSystemError); !ok {
		t.Errorf("partial pressure: wrong error type %T", err)
	}
	// Absent gas species do not contribute.
	if g, s := ctx.Gibbs(), ctx.Entropy(); math.IsNaN(g) || math.IsNaN(s) {
		t.Errorf("gibbs %g and entropy %g should be finite", g, s)
	}
}

func TestNewContextInvalid(t *testing.T) {
	c := mustCoefficients(t, constCp("X", Gas, 0, 30, 7))
	coefs := []glushko.Coefficients{c}
	tests := []struct {
		name    string
		T, P    float64
		amounts []float64
		cond    []bool
	}{
		{"length", 1000, 101325, []float64{1, 2}, []bool{false}},
		{"phase length", 1000, 101325, []float64{1}, []bool{false, true}},
		{"temperature", 0, 101325, []float64{1}, []bool{false}},
		{"pressure", 1000, -1, []float64{1}, []bool{false}},
		{"negative", 1000, 101325, []float64{-1}, []bool{false}},
		{"nan", 1000, 101325, []float64{math.NaN()}, []bool{false}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewContext(test.T, test.P, test.amounts, coefs, test.cond)
			if !isInputValidation(err) {
				t.Errorf("want InputValidationError, have %v", err)
			}
		})
	}
}

func TestContextClone(t *testing.T) {
	c := mustCoefficients(t, constCp("X", Gas, 0, 30, 7))
	ctx, err := NewContext(1000, 101325, []float64{1}, []glushko.Coefficients{c}, []bool{false})
	if err != nil {
		t.Fatal(err)
	}
	o := ctx.Clone()
	o.Amounts[0] = 2
	o.Temperature = 2000
	if ctx.Amounts[0] != 1 || ctx.Temperature != 1000 {
		t.Errorf("clone modified the original: %+v", ctx)
	}
	if o.Len() != 1 {
		t.Errorf("len: %d", o.Len())
	}
}
