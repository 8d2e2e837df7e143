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
	"reflect"
	"testing"

	"github.com/Knetic/govaluate"
)

func TestOutputter(t *testing.T) {
	p, err := Derive(carbonResult(t))
	if err != nil {
		t.Fatal(err)
	}
	o, err := NewOutputter(map[string]string{
		"GammaM1":   "HeatCapacityRatio - 1",
		"Twice":     "2 * GammaM1",
		"kJ":        "Enthalpy / 1000",
		"Root":      "sqrt(pow(Temperature, 2))",
		"One":       "exp(0) + log(1)",
		"CelsiusT":  "Temperature - 273.15",
		"Custom":    "half(Pressure)",
		"MolarMass": "GasMolarMass * 1000",
	}, map[string]govaluate.ExpressionFunction{
		"half": func(args ...interface{}) (interface{}, error) {
			return args[0].(float64) / 2, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"CelsiusT", "Custom", "GammaM1", "MolarMass", "One", "Root", "Twice", "kJ"}
	if names := o.Names(); !reflect.DeepEqual(names, want) {
		t.Errorf("names: have %v, want %v", names, want)
	}
	r, err := o.Evaluate(p)
	if err != nil {
		t.Fatal(err)
	}
	gamma := p.HeatCapacityRatio.Value()
	wantValues := map[string]float64{
		"GammaM1":   gamma - 1,
		"Twice":     2 * (gamma - 1),
		"kJ":        p.Enthalpy.Value() / 1000,
		"Root":      2000,
		"One":       1,
		"CelsiusT":  1726.85,
		"Custom":    101325. / 2,
		"MolarMass": p.GasMolarMass.Value() * 1000,
	}
	for k, v := range wantValues {
		if different(r[k], v, 1.e-12) {
			t.Errorf("%s: have %g, want %g", k, r[k], v)
		}
	}
}

func TestOutputterErrors(t *testing.T) {
	p, err := Derive(carbonResult(t))
	if err != nil {
		t.Fatal(err)
	}
	newErrors := []map[string]string{
		{"x": "Foo * 2"},
		{"x": "Temperature +"},
		{"Temperature": "1"},
	}
	for i, vars := range newErrors {
		if _, err := NewOutputter(vars, nil); err == nil {
			t.Errorf("%d: expected an error for %v", i, vars)
		}
	}
	evalErrors := []map[string]string{
		{"a": "b + 1", "b": "a + 1"},
		{"x": "exp(1, 2)"},
		{"x": "Temperature > 1"},
	}
	for i, vars := range evalErrors {
		o, err := NewOutputter(vars, nil)
		if err != nil {
			t.Fatalf("%d: %v", i, err)
		}
		if r, err := o.Evaluate(p); err == nil {
			t.Errorf("%d: expected an error, got %v", i, r)
		}
	}
}
