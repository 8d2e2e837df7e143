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
	"sync"
	"testing"
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

// constCp returns a species with constant heat capacity cp [cal/(mol·K)],
// enthalpy of formation hf [cal/mol] and entropy s298 [cal/(mol·K)] at
// 298.15 K.
func constCp(formula string, phase Phase, hf, s298, cp float64) Species {
	return Species{
		Formula:          formula,
		Coefficients:     []float64{s298 - cp*math.Log(0.29815), hf - cp*298.15, cp * 1000, 0, 0, 0, 0, 0, 0},
		Phase:            phase,
		TemperatureRange: TemperatureRange{Min: 200, Max: 6000},
	}
}

// hydrogenOxygen is a catalog of hydrogen-oxygen combustion products, plus
// nitrogen.
func hydrogenOxygen() []Species {
	return []Species{
		constCp("H2O", Gas, -57800, 45.1, 10),
		constCp("H2", Gas, 0, 31.2, 7.5),
		constCp("O2", Gas, 0, 49.0, 8.5),
		constCp("OH", Gas, 9300, 43.9, 7.5),
		constCp("H", Gas, 52100, 27.4, 4.97),
		constCp("O", Gas, 59550, 38.5, 5.2),
		constCp("N2", Gas, 0, 45.8, 8),
	}
}

// stoichiometric hydrogen and oxygen per kilogram.
func hydrogenOxygenPropellant() *Propellant {
	return &Propellant{
		Enthalpy:    0,
		Composition: map[string]float64{"H": 111.0, "O": 55.5},
	}
}

// a2 has constant heat capacity and zero enthalpy at 0 K. The linear
// enthalpy term makes the enthalpy residual cross zero in the bracket;
// with only a constant term the residual would not depend on temperature.
func a2(min, max float64) Species {
	return Species{
		Formula:          "A2",
		Coefficients:     []float64{30, 0, 7000, 0, 0, 0, 0, 0, 0},
		Phase:            Gas,
		TemperatureRange: TemperatureRange{Min: min, Max: max},
	}
}

func TestSolveSingleSpecies(t *testing.T) {
	// The enthalpy of 1 mol of A2 at 600 K.
	p := &Propellant{Enthalpy: 17572.8, Composition: map[string]float64{"A": 2}}
	r, err := Solve(101325, p, []Species{a2(200, 2000)}, 300, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if different(r.Temperature, 600, 1.e-8) {
		t.Errorf("temperature: have %g, want 600", r.Temperature)
	}
	if len(r.Context.Amounts) != 1 || different(r.Context.Amounts[0], 1, 1.e-8) {
		t.Errorf("amounts: have %v, want [1]", r.Context.Amounts)
	}
	if len(r.Species) != 1 || r.Species[0].Formula != "A2" {
		t.Errorf("species: have %v, want [A2]", r.Species)
	}
	if math.Abs(r.Residual) > 1.e-6 {
		t.Errorf("residual: %g", r.Residual)
	}
}

func TestSolveConstantEnthalpy(t *testing.T) {
	flat := Species{
		Formula:          "A2",
		Coefficients:     []float64{30, 500, 0, 0, 0, 0, 0, 0, 0},
		Phase:            Gas,
		TemperatureRange: TemperatureRange{Min: 200, Max: 2000},
	}
	p := &Propellant{Composition: map[string]float64{"A": 2}}
	catalog, err := prepareCatalog([]Species{flat})
	if err != nil {
		t.Fatal(err)
	}
	for _, T := range []float64{300, 650, 1000} {
		active := activeSpecies(p, catalog, T)
		coefs, cond := phaseData(active)
		x, err := InteriorPointSolver{}.Solve(&CompositionProblem{
			Temperature:  T,
			Pressure:     101325,
			Balance:      newMassBalance(p, active),
			Coefficients: coefs,
			Condensed:    cond,
			Guess:        []float64{1},
		})
		if err != nil {
			t.Fatalf("%g K: %v", T, err)
		}
		if len(x) != 1 || different(x[0], 1, 1.e-8) {
			t.Errorf("%g K: amounts: have %v, want [1]", T, x)
		}
	}

	// The residual is the same at every temperature, so there is no root.
	_, err = Solve(101325, p, []Species{flat}, 300, 1000)
	if _, ok := err.(*TemperatureConvergenceError); !ok {
		t.Errorf("wrong error %T: %v", err, err)
	}
}

func TestSolveWindowSelection(t *testing.T) {
	lo := Species{
		Formula:          "A",
		Coefficients:     []float64{25, 0, 3000, 0, 0, 0, 0, 0, 0},
		Phase:            Gas,
		TemperatureRange: TemperatureRange{Min: 100, Max: 400},
	}
	catalog := []Species{lo, a2(400, 2000)}
	p := &Propellant{Enthalpy: 17572.8, Composition: map[string]float64{"A": 2}}
	r, err := Solve(101325, p, catalog, 300, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if different(r.Temperature, 600, 1.e-8) {
		t.Errorf("temperature: have %g, want 600", r.Temperature)
	}
	if len(r.Species) != 1 || r.Species[0].Formula != "A2" {
		t.Errorf("species: have %v, want [A2]", r.Species)
	}
}

func TestSolveDiscontinuity(t *testing.T) {
	// The product enthalpy jumps from 15062.4 J to 17572.8 J at 600 K,
	// where the stable species changes from A to A2.
	lo := Species{
		Formula:          "A",
		Coefficients:     []float64{25, 0, 3000, 0, 0, 0, 0, 0, 0},
		Phase:            Gas,
		TemperatureRange: TemperatureRange{Min: 100, Max: 600},
	}
	catalog := []Species{lo, a2(600, 2000)}
	p := &Propellant{Enthalpy: 16000, Composition: map[string]float64{"A": 2}}
	r, err := Solve(101325, p, catalog, 300, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(r.Temperature-600) > 1.e-5 {
		t.Errorf("temperature: have %g, want 600", r.Temperature)
	}
	if r.Residual == 0 {
		t.Error("residual should be non-zero at a discontinuity")
	}
}

func TestSolveHydrogenOxygen(t *testing.T) {
	p := hydrogenOxygenPropellant()
	r, err := Solve(101325, p, hydrogenOxygen(), 1000, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if different(r.Temperature, 3132.903, 1.e-5) {
		t.Errorf("temperature: have %g, want 3132.903", r.Temperature)
	}
	if len(r.Species) != 6 {
		t.Errorf("species: have %v, want 6 without N2", r.Species)
	}
	for _, s := range r.Species {
		if s.Formula == "N2" {
			t.Error("N2 should not be active")
		}
	}
	for i, x := range r.Context.Amounts {
		if !(x > 0) {
			t.Errorf("amount of %s: %g", r.Species[i], x)
		}
	}
	active, err := Active(p, hydrogenOxygen(), r.Temperature)
	if err != nil {
		t.Fatal(err)
	}
	c, err := prepareCatalog(active)
	if err != nil {
		t.Fatal(err)
	}
	if mb := newMassBalance(p, c); !mb.Satisfied(r.Context.Amounts, MassBalanceTolerance) {
		t.Errorf("mass balance residual %v", mb.Residual(r.Context.Amounts))
	}
	if math.Abs(r.Residual) > 1 {
		t.Errorf("enthalpy residual %g J", r.Residual)
	}
	if r.Iterations == 0 {
		t.Error("no iterations")
	}
}

func TestSolveConcurrent(t *testing.T) {
	var s TemperatureSolver
	pressures := []float64{1.e5, 1.e6, 1.e7, 1.e5}
	results := make([]*Result, len(pressures))
	errs := make([]error, len(pressures))
	var wg sync.WaitGroup
	wg.Add(len(pressures))
	for i, p := range pressures {
		go func(i int, p float64) {
			defer wg.Done()
			results[i], _, errs[i] = s.Solve(&Request{
				Pressure:   p,
				Propellant: hydrogenOxygenPropellant(),
				Catalog:    hydrogenOxygen(),
				TMin:       1000,
				TMax:       5000,
			}, WarmStart{})
		}(i, p)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("pressure %g: %v", pressures[i], err)
		}
	}
	if results[0].Temperature != results[3].Temperature {
		t.Errorf("identical requests gave %g and %g", results[0].Temperature, results[3].Temperature)
	}
	for i := 1; i < 3; i++ {
		if !(results[i].Temperature > results[i-1].Temperature) {
			t.Errorf("temperature should increase with pressure: %g at %g Pa, %g at %g Pa",
				results[i-1].Temperature, pressures[i-1], results[i].Temperature, pressures[i])
		}
	}
}

func TestSolveErrors(t *testing.T) {
	p := &Propellant{Enthalpy: 17572.8, Composition: map[string]float64{"A": 2}}
	catalog := []Species{a2(200, 2000)}
	short := a2(200, 2000)
	short.Coefficients = short.Coefficients[:8]
	tests := []struct {
		name       string
		pressure   float64
		propellant *Propellant
		catalog    []Species
		tMin, tMax float64
		check      func(error) bool
	}{
		{"pressure", 0, p, catalog, 300, 1000, isInputValidation},
		{"negative pressure", -1, p, catalog, 300, 1000, isInputValidation},
		{"tmin", 101325, p, catalog, 0, 1000, isInputValidation},
		{"bracket", 101325, p, catalog, 1000, 300, isInputValidation},
		{"empty catalog", 101325, p, nil, 300, 1000, isInputValidation},
		{"coefficients", 101325, p, []Species{short}, 300, 1000, isInputValidation},
		{"propellant", 101325, &Propellant{}, catalog, 300, 1000, isInputValidation},
		{"elements", 101325, &Propellant{Composition: map[string]float64{"B": 1}}, catalog, 300, 1000,
			func(err error) bool { _, ok := err.(*NoCompatibleSpeciesError); return ok }},
		{"window", 101325, p, []Species{a2(100, 200)}, 300, 1000,
			func(err error) bool { _, ok := err.(*NoCompatibleSpeciesError); return ok }},
		{"same sign", 101325, &Propellant{Enthalpy: 1.e9, Composition: map[string]float64{"A": 2}}, catalog, 300, 1000,
			func(err error) bool { _, ok := err.(*TemperatureConvergenceError); return ok }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r, err := Solve(test.pressure, test.propellant, test.catalog, test.tMin, test.tMax)
			if err == nil {
				t.Fatalf("expected an error, got %+v", r)
			}
			if !test.check(err) {
				t.Errorf("wrong error type %T: %v", err, err)
			}
		})
	}
}

func isInputValidation(err error) bool {
	_, ok := err.(*InputValidationError)
	return ok
}
