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
	"fmt"
	"sort"

	"github.com/ctessum/unit"
	"github.com/spatialmodel/adiabat/science/chem/formula"
	"github.com/spatialmodel/adiabat/science/thermo/glushko"
)

var moleDim = unit.NewDimension("mole")

// Dimensions of the derived properties.
var (
	// Mole is an amount of substance [mole].
	Mole = unit.Dimensions{moleDim: 1}

	// JoulePerKelvin is a heat capacity or entropy [J/K].
	JoulePerKelvin = unit.Dimensions{
		unit.MassDim:        1,
		unit.LengthDim:      2,
		unit.TimeDim:        -2,
		unit.TemperatureDim: -1,
	}

	// JoulePerMoleKelvin is a molar heat capacity [J/(mol·K)].
	JoulePerMoleKelvin = unit.Dimensions{
		unit.MassDim:        1,
		unit.LengthDim:      2,
		unit.TimeDim:        -2,
		unit.TemperatureDim: -1,
		moleDim:             -1,
	}

	// JoulePerKilogramKelvin is a specific heat capacity [J/(kg·K)].
	JoulePerKilogramKelvin = unit.Dimensions{
		unit.LengthDim:      2,
		unit.TimeDim:        -2,
		unit.TemperatureDim: -1,
	}

	// KilogramPerMole is a molar mass [kg/mol].
	KilogramPerMole = unit.Dimensions{
		unit.MassDim: 1,
		moleDim:      -1,
	}
)

// enthalpyStep is the temperature step for the finite-difference heat
// capacity [K].
const enthalpyStep = 1.e-3

// Properties are the properties of an equilibrium state that are derived
// from its composition.
type Properties struct {
	Temperature *unit.Unit
	Pressure    *unit.Unit

	TotalMoles, CondensedMoles, GasMoles *unit.Unit

	Gibbs, Enthalpy *unit.Unit
	Entropy         *unit.Unit

	// HeatCapacity is the molar heat capacity of the gas phase.
	HeatCapacity *unit.Unit

	// HeatCapacityFromEnthalpy is the temperature derivative of the
	// total enthalpy at fixed composition, by forward difference.
	HeatCapacityFromEnthalpy *unit.Unit

	// CondensedMassFraction is the mass of condensed products divided by
	// the propellant mass.
	CondensedMassFraction *unit.Unit

	// GasMolarMass is the average molar mass of the gas products.
	GasMolarMass *unit.Unit

	// SpecificGasConstant, SpecificHeat and SpecificHeatVolume are the
	// gas constant and the heat capacities at constant pressure and at
	// constant volume of the gas products per unit mass, and
	// HeatCapacityRatio is the ratio of the latter two.
	SpecificGasConstant *unit.Unit
	SpecificHeat        *unit.Unit
	SpecificHeatVolume  *unit.Unit
	HeatCapacityRatio   *unit.Unit

	PropellantMass     *unit.Unit
	PropellantEnthalpy *unit.Unit
}

// Derive calculates the derived properties of r. It returns a
// DegenerateSystemError if r has no gas products.
func Derive(r *Result) (*Properties, error) {
	ctx := r.Context
	cp, err := ctx.HeatCapacity()
	if err != nil {
		return nil, err
	}
	h := ctx.Enthalpy()
	shifted := ctx.Clone()
	shifted.Temperature += enthalpyStep
	cpH := (shifted.Enthalpy() - h) / enthalpyStep

	propMass, err := r.Propellant.Mass()
	if err != nil {
		return nil, fmt.Errorf("adiabat: propellant mass: %v", err)
	}
	if !(propMass > 0) {
		return nil, invalid("propellant", "mass %g kg must be positive", propMass)
	}
	var condMass float64
	for i, s := range r.Species {
		if s.Phase != Condensed {
			continue
		}
		e, err := formula.Parse(s.Formula)
		if err != nil {
			return nil, err
		}
		w, err := formula.MolarMass(e)
		if err != nil {
			return nil, err
		}
		condMass += w * ctx.Amounts[i]
	}

	p := &Properties{
		Temperature:              unit.New(ctx.Temperature, unit.Kelvin),
		Pressure:                 unit.New(ctx.Pressure, unit.Pascal),
		TotalMoles:               unit.New(ctx.TotalMoles(), Mole),
		CondensedMoles:           unit.New(ctx.CondensedMoles(), Mole),
		GasMoles:                 unit.New(ctx.GasMoles(), Mole),
		Gibbs:                    unit.New(ctx.Gibbs(), unit.Joule),
		Enthalpy:                 unit.New(h, unit.Joule),
		Entropy:                  unit.New(ctx.Entropy(), JoulePerKelvin),
		HeatCapacity:             unit.New(cp, JoulePerMoleKelvin),
		HeatCapacityFromEnthalpy: unit.New(cpH, JoulePerKelvin),
		CondensedMassFraction:    unit.New(condMass/propMass, unit.Dimless),
		PropellantMass:           unit.New(propMass, unit.Kilogram),
		PropellantEnthalpy:       unit.New(r.Propellant.Enthalpy, unit.Joule),
	}
	p.GasMolarMass = unit.Div(unit.Sub(p.PropellantMass, unit.New(condMass, unit.Kilogram)), p.GasMoles)
	p.SpecificGasConstant = unit.Div(unit.New(glushko.GasConstant, JoulePerMoleKelvin), p.GasMolarMass)
	p.SpecificHeat = unit.Div(p.HeatCapacity, p.GasMolarMass)
	p.SpecificHeatVolume = unit.Sub(p.SpecificHeat, p.SpecificGasConstant)
	p.HeatCapacityRatio = unit.Div(p.SpecificHeat, p.SpecificHeatVolume)
	return p, nil
}

type namedProperty struct {
	name  string
	value *unit.Unit
}

func (p *Properties) fields() []namedProperty {
	return []namedProperty{
		{"Temperature", p.Temperature},
		{"Pressure", p.Pressure},
		{"TotalMoles", p.TotalMoles},
		{"CondensedMoles", p.CondensedMoles},
		{"GasMoles", p.GasMoles},
		{"Gibbs", p.Gibbs},
		{"Enthalpy", p.Enthalpy},
		{"Entropy", p.Entropy},
		{"HeatCapacity", p.HeatCapacity},
		{"HeatCapacityFromEnthalpy", p.HeatCapacityFromEnthalpy},
		{"CondensedMassFraction", p.CondensedMassFraction},
		{"GasMolarMass", p.GasMolarMass},
		{"SpecificGasConstant", p.SpecificGasConstant},
		{"SpecificHeat", p.SpecificHeat},
		{"SpecificHeatVolume", p.SpecificHeatVolume},
		{"HeatCapacityRatio", p.HeatCapacityRatio},
		{"PropellantMass", p.PropellantMass},
		{"PropellantEnthalpy", p.PropellantEnthalpy},
	}
}

// Map returns the properties keyed by field name, in SI units.
func (p *Properties) Map() map[string]float64 {
	f := p.fields()
	o := make(map[string]float64, len(f))
	for _, v := range f {
		o[v.name] = v.value.Value()
	}
	return o
}

// Units returns the units of the properties, keyed as in Map.
func (p *Properties) Units() map[string]string {
	f := p.fields()
	o := make(map[string]string, len(f))
	for _, v := range f {
		o[v.name] = v.value.Dimensions().String()
	}
	return o
}

// PropertyNames returns the keys of Properties.Map in lexical order.
func PropertyNames() []string {
	f := (&Properties{}).fields()
	o := make([]string, len(f))
	for i, v := range f {
		o[i] = v.name
	}
	sort.Strings(o)
	return o
}

// Product is the amount of one species in an equilibrium state.
type Product struct {
	Formula string  `json:"formula"`
	Phase   Phase   `json:"phase"`
	Moles   float64 `json:"moles"`
}

// Products returns the amounts of the active species of r.
func (r *Result) Products() []Product {
	o := make([]Product, len(r.Species))
	for i, s := range r.Species {
		o[i] = Product{Formula: s.Formula, Phase: s.Phase, Moles: r.Context.Amounts[i]}
	}
	return o
}
