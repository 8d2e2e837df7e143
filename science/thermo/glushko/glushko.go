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

// Package glushko evaluates thermodynamic properties of individual species
// from the 9-term polynomial fits tabulated in "Thermodynamic and
// Thermophysical Properties of Combustion Products" (V.P. Glushko, ed.).
//
// The coefficients are calorie based and use the reduced temperature
// t = T/1000. All functions return SI quantities (J, mol, K, Pa).
package glushko

import (
	"fmt"
	"math"
)

// physical constants
const (
	// GasConstant is the universal gas constant [J/(mol·K)].
	GasConstant = 8.31446261815324

	// StandardPressure is the reference pressure of the tabulated
	// entropies [Pa].
	StandardPressure = 101325.0

	// CalorieToJoule converts thermochemical calories to joules [J/cal].
	CalorieToJoule = 4.184

	// NumCoefficients is the number of polynomial coefficients per species.
	NumCoefficients = 9
)

// Coefficients holds the polynomial fit for one species. Index 0 is the
// entropy integration constant, index 1 the enthalpy constant, and
// indices 2 through 8 multiply increasing powers of the reduced
// temperature.
type Coefficients [NumCoefficients]float64

// NewCoefficients converts c to Coefficients, returning an error if it
// does not hold exactly NumCoefficients values.
func NewCoefficients(c []float64) (Coefficients, error) {
	var o Coefficients
	if len(c) != NumCoefficients {
		return o, fmt.Errorf("glushko: need %d coefficients but have %d", NumCoefficients, len(c))
	}
	copy(o[:], c)
	return o, nil
}

// reduced returns the reduced temperature t = T/1000.
func reduced(T float64) float64 { return T * 1.e-3 }

// Enthalpy returns the molar enthalpy [J/mol] at temperature T [K]:
//
//	H = k·(c1 + c2·t + c3·t² + c4·t³ + c5·t⁴ + c6·t⁵ + c7·t⁶ + c8·t⁷)
func Enthalpy(c *Coefficients, T float64) float64 {
	t := reduced(T)
	// Horner's scheme over c8..c2, then the constant term.
	var p float64
	for j := 8; j >= 2; j-- {
		p = p*t + c[j]
	}
	return CalorieToJoule * (c[1] + p*t)
}

// entropyWeights are the integration weights (j+1)/j applied to
// c[j+1]·t^j in the standard entropy, for j = 1..6.
var entropyWeights = [...]float64{2, 1.5, 4. / 3., 1.25, 1.2, 7. / 6.}

// Entropy returns the molar entropy [J/(mol·K)] at temperature T [K].
// If partialPressure [Pa] is greater than zero, the ideal-gas mixing
// correction -R·ln(p/p°) is applied; callers must only pass a non-zero
// partial pressure for gas-phase species.
func Entropy(c *Coefficients, T, partialPressure float64) float64 {
	t := reduced(T)
	var poly float64
	tj := t
	for j, w := range entropyWeights {
		poly += w * c[j+3] * tj
		tj *= t
	}
	s := CalorieToJoule * (c[0] + 1.e-3*c[2]*math.Log(t) + 1.e-3*poly)
	if partialPressure > 0 {
		s -= GasConstant * math.Log(partialPressure/StandardPressure)
	}
	return s
}

// HeatCapacity returns the isobaric molar heat capacity [J/(mol·K)] at
// temperature T [K]. It is the temperature derivative of Enthalpy:
//
//	Cp = k·1e-3·(c2 + 2·c3·t + 3·c4·t² + … + 7·c8·t⁶)
func HeatCapacity(c *Coefficients, T float64) float64 {
	t := reduced(T)
	var p float64
	for j := 8; j >= 2; j-- {
		p = p*t + float64(j-1)*c[j]
	}
	return CalorieToJoule * 1.e-3 * p
}

// Gibbs returns the Gibbs free energy H - T·S.
func Gibbs(enthalpy, entropy, T float64) float64 {
	return enthalpy - T*entropy
}

// ChemicalPotential returns the standard-state (p = p°) molar Gibbs
// energy [J/mol] of the species at temperature T [K].
func ChemicalPotential(c *Coefficients, T float64) float64 {
	return Gibbs(Enthalpy(c, T), Entropy(c, T, 0), T)
}
