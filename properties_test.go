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
	"testing"

	"github.com/ctessum/unit"
	"github.com/spatialmodel/adiabat/science/chem/formula"
	"github.com/spatialmodel/adiabat/science/thermo/glushko"
)

// carbonResult is an equilibrium state of 0.5 mol CO and 0.5 mol solid
// carbon at 2000 K.
func carbonResult(t *testing.T) *Result {
	species := []Species{
		constCp("CO", Gas, -26400, 47.2, 8),
		constCp("C", Condensed, 0, 1.36, 5),
	}
	c, err := prepareCatalog(species)
	if err != nil {
		t.Fatal(err)
	}
	coefs, cond := phaseData(c)
	ctx, err := NewContext(2000, 101325, []float64{0.5, 0.5}, coefs, cond)
	if err != nil {
		t.Fatal(err)
	}
	p := &Propellant{Enthalpy: -1000, Composition: map[string]float64{"C": 1, "O": 0.5}}
	return &Result{
		Temperature: 2000,
		Pressure:    101325,
		Context:     ctx,
		Species:     species,
		Propellant:  p,
	}
}

func TestDerive(t *testing.T) {
	r := carbonResult(t)
	p, err := Derive(r)
	if err != nil {
		t.Fatal(err)
	}
	mCO, err := formula.MolarMass(formula.MustParse("CO"))
	if err != nil {
		t.Fatal(err)
	}
	mC, err := formula.ElementMolarMass("C")
	if err != nil {
		t.Fatal(err)
	}
	mO, err := formula.ElementMolarMass("O")
	if err != nil {
		t.Fatal(err)
	}
	cp := glushko.CalorieToJoule * 8
	cpMass := cp / mCO
	rMass := glushko.GasConstant / mCO

	tests := []struct {
		name string
		have *unit.Unit
		want float64
		dims unit.Dimensions
	}{
		{"total moles", p.TotalMoles, 1, Mole},
		{"condensed moles", p.CondensedMoles, 0.5, Mole},
		{"gas moles", p.GasMoles, 0.5, Mole},
		{"enthalpy", p.Enthalpy, r.Context.Enthalpy(), unit.Joule},
		{"entropy", p.Entropy, r.Context.Entropy(), JoulePerKelvin},
		{"gibbs", p.Gibbs, r.Context.Gibbs(), unit.Joule},
		{"heat capacity", p.HeatCapacity, cp, JoulePerMoleKelvin},
		{"heat capacity from enthalpy", p.HeatCapacityFromEnthalpy, 0.5*cp + 0.5*glushko.CalorieToJoule*5, JoulePerKelvin},
		{"propellant mass", p.PropellantMass, mC + 0.5*mO, unit.Kilogram},
		{"condensed mass fraction", p.CondensedMassFraction, 0.5 * mC / (mC + 0.5*mO), unit.Dimless},
		{"gas molar mass", p.GasMolarMass, mCO, KilogramPerMole},
		{"specific gas constant", p.SpecificGasConstant, rMass, JoulePerKilogramKelvin},
		{"specific heat", p.SpecificHeat, cpMass, JoulePerKilogramKelvin},
		{"specific heat volume", p.SpecificHeatVolume, cpMass - rMass, JoulePerKilogramKelvin},
		{"heat capacity ratio", p.HeatCapacityRatio, cpMass / (cpMass - rMass), unit.Dimless},
		{"temperature", p.Temperature, 2000, unit.Kelvin},
		{"pressure", p.Pressure, 101325, unit.Pascal},
		{"propellant enthalpy", p.PropellantEnthalpy, -1000, unit.Joule},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if different(test.have.Value(), test.want, 1.e-6) {
				t.Errorf("have %g, want %g", test.have.Value(), test.want)
			}
			if err := test.have.Check(test.dims); err != nil {
				t.Error(err)
			}
		})
	}
	if len(p.Map()) != len(PropertyNames()) {
		t.Errorf("%d properties but %d names", len(p.Map()), len(PropertyNames()))
	}
	if r.Context.Temperature != 2000 {
		t.Error("Derive modified the context")
	}
}

func TestDeriveDegenerate(t *testing.T) {
	r := carbonResult(t)
	r.Context.Amounts = []float64{0, 1}
	if _, err := Derive(r); err == nil {
		t.Error("expected an error")
	} else if _, ok := err.(*DegenerateSystemError); !ok {
		t.Errorf("wrong error type %T", err)
	}
}

func TestUnits(t *testing.T) {
	p, err := Derive(carbonResult(t))
	if err != nil {
		t.Fatal(err)
	}
	u := p.Units()
	for name, want := range map[string]string{
		"Temperature":       "K",
		"TotalMoles":        "mole",
		"GasMoles":          "mole",
		"GasMolarMass":      "kg mole^-1",
		"HeatCapacityRatio": "",
	} {
		if u[name] != want {
			t.Errorf("%s: have %q, want %q", name, u[name], want)
		}
	}
	if len(u) != len(PropertyNames()) {
		t.Errorf("have %d units, want %d", len(u), len(PropertyNames()))
	}
}

func TestProducts(t *testing.T) {
	p := carbonResult(t).Products()
	want := []Product{
		{Formula: "CO", Phase: Gas, Moles: 0.5},
		{Formula: "C", Phase: Condensed, Moles: 0.5},
	}
	if len(p) != len(want) {
		t.Fatalf("have %v, want %v", p, want)
	}
	for i := range want {
		if p[i] != want[i] {
			t.Errorf("%d: have %v, want %v", i, p[i], want[i])
		}
	}
}
