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

	"github.com/spatialmodel/adiabat/science/thermo/glushko"
)

// EquilibriumContext is the state of a product mixture: one entry per
// active species in each of the parallel slices Amounts, Coefficients
// and Condensed. Its methods aggregate species properties over the
// mixture.
type EquilibriumContext struct {
	Temperature float64 // [K]
	Pressure    float64 // [Pa]

	// Amounts are the species amounts [mol].
	Amounts []float64

	Coefficients []glushko.Coefficients

	// Condensed is true for condensed-phase species.
	Condensed []bool
}

// NewContext returns a context after checking that the slices have equal
// lengths, the amounts are non-negative and the temperature and pressure
// are positive.
func NewContext(T, P float64, amounts []float64, coefficients []glushko.Coefficients, condensed []bool) (*EquilibriumContext, error) {
	if len(amounts) != len(coefficients) || len(amounts) != len(condensed) {
		return nil, invalid("context", "slice lengths differ: %d amounts, %d coefficients, %d phase flags",
			len(amounts), len(coefficients), len(condensed))
	}
	if !(T > 0) {
		return nil, invalid("temperature", "%g K must be positive", T)
	}
	if !(P > 0) {
		return nil, invalid("pressure", "%g Pa must be positive", P)
	}
	for i, x := range amounts {
		if x < 0 || math.IsNaN(x) {
			return nil, invalid("context", "amount %d is %g", i, x)
		}
	}
	return &EquilibriumContext{
		Temperature:  T,
		Pressure:     P,
		Amounts:      amounts,
		Coefficients: coefficients,
		Condensed:    condensed,
	}, nil
}

// Len returns the number of species in the context.
func (c *EquilibriumContext) Len() int { return len(c.Amounts) }

// Clone returns a copy of c whose amounts can be changed independently.
func (c *EquilibriumContext) Clone() *EquilibriumContext {
	o := *c
	o.Amounts = append([]float64(nil), c.Amounts...)
	return &o
}

// GasMoles returns the total amount of gas-phase species [mol].
func (c *EquilibriumContext) GasMoles() float64 {
	var n float64
	for i, x := range c.Amounts {
		if !c.Condensed[i] {
			n += x
		}
	}
	return n
}

// CondensedMoles returns the total amount of condensed species [mol].
func (c *EquilibriumContext) CondensedMoles() float64 {
	var n float64
	for i, x := range c.Amounts {
		if c.Condensed[i] {
			n += x
		}
	}
	return n
}

// TotalMoles returns the total amount of all species [mol].
func (c *EquilibriumContext) TotalMoles() float64 {
	var n float64
	for _, x := range c.Amounts {
		n += x
	}
	return n
}

// PartialPressure returns the partial pressure of species i [Pa], which
// is zero for condensed species.
func (c *EquilibriumContext) PartialPressure(i int) (float64, error) {
	if c.Condensed[i] {
		return 0, nil
	}
	nGas := c.GasMoles()
	if nGas == 0 {
		return 0, &DegenerateSystemError{Property: "partial pressure"}
	}
	return c.Pressure * c.Amounts[i] / nGas, nil
}

// partialPressure is PartialPressure with nGas precomputed; absent gas
// species get zero.
func (c *EquilibriumContext) partialPressure(i int, nGas float64) float64 {
	if c.Condensed[i] || c.Amounts[i] == 0 {
		return 0
	}
	return c.Pressure * c.Amounts[i] / nGas
}

// Enthalpy returns the total enthalpy of the mixture [J].
func (c *EquilibriumContext) Enthalpy() float64 {
	var h float64
	for i, x := range c.Amounts {
		h += x * glushko.Enthalpy(&c.Coefficients[i], c.Temperature)
	}
	return h
}

// Entropy returns the total entropy of the mixture [J/K], including the
// mixing entropy of the gas phase.
func (c *EquilibriumContext) Entropy() float64 {
	nGas := c.GasMoles()
	var s float64
	for i, x := range c.Amounts {
		if x == 0 {
			continue
		}
		s += x * glushko.Entropy(&c.Coefficients[i], c.Temperature, c.partialPressure(i, nGas))
	}
	return s
}

// Gibbs returns the total Gibbs free energy of the mixture [J].
func (c *EquilibriumContext) Gibbs() float64 {
	nGas := c.GasMoles()
	T := c.Temperature
	var g float64
	for i, x := range c.Amounts {
		if x == 0 {
			continue
		}
		coef := &c.Coefficients[i]
		h := glushko.Enthalpy(coef, T)
		s := glushko.Entropy(coef, T, c.partialPressure(i, nGas))
		g += x * glushko.Gibbs(h, s, T)
	}
	return g
}

// HeatCapacity returns the molar heat capacity of the gas phase
// [J/(mol·K)]: the heat capacities of gas species weighted by their mole
// fractions within the gas. Condensed species do not contribute. Unlike
// Enthalpy, Entropy and Gibbs this is an intensive property.
func (c *EquilibriumContext) HeatCapacity() (float64, error) {
	nGas := c.GasMoles()
	if nGas == 0 {
		return 0, &DegenerateSystemError{Property: "heat capacity"}
	}
	var cp float64
	for i, x := range c.Amounts {
		if c.Condensed[i] {
			continue
		}
		cp += x / nGas * glushko.HeatCapacity(&c.Coefficients[i], c.Temperature)
	}
	return cp, nil
}
