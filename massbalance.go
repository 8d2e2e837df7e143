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
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MassBalanceTolerance is the relative tolerance within which the product
// composition must reproduce the propellant's element amounts.
const MassBalanceTolerance = 1.e-6

// MassBalance is the linear constraint A·x = B on species amounts x.
// Row i of A holds the number of atoms of Elements[i] in each active
// species and B[i] is the amount of that element in the propellant.
type MassBalance struct {
	Elements []string
	A        *mat.Dense
	B        []float64
}

// newMassBalance builds the element-by-species matrix for the active
// species, with rows in the propellant's element order.
func newMassBalance(p *Propellant, active []candidate) *MassBalance {
	elements := p.Elements()
	m := &MassBalance{
		Elements: elements,
		A:        mat.NewDense(len(elements), len(active), nil),
		B:        make([]float64, len(elements)),
	}
	for i, e := range elements {
		m.B[i] = p.Composition[e]
		for j, c := range active {
			m.A.Set(i, j, float64(c.elements[e]))
		}
	}
	return m
}

// Residual returns A·x - B.
func (m *MassBalance) Residual(x []float64) []float64 {
	r := make([]float64, len(m.B))
	rv := mat.NewVecDense(len(r), r)
	rv.MulVec(m.A, mat.NewVecDense(len(x), x))
	floats.Sub(r, m.B)
	return r
}

// Satisfied reports whether x reproduces every element amount within
// relative tolerance tol. Rows whose target is zero are compared against
// the largest target instead.
func (m *MassBalance) Satisfied(x []float64, tol float64) bool {
	scale := floats.Norm(m.B, math.Inf(1))
	for i, r := range m.Residual(x) {
		bound := tol * math.Abs(m.B[i])
		if m.B[i] == 0 {
			bound = tol * scale
		}
		if math.IsNaN(r) || math.Abs(r) > bound {
			return false
		}
	}
	return true
}

// activeSpecies returns the species in catalog that contain only
// propellant elements and are valid at temperature T.
func activeSpecies(p *Propellant, catalog []candidate, T float64) []candidate {
	var o []candidate
	for i := range catalog {
		c := &catalog[i]
		if p.compatible(c) && c.TemperatureRange.Contains(T) {
			o = append(o, *c)
		}
	}
	return o
}

// Active returns the species in catalog that can be present in the
// products of propellant p at temperature T: those made only of
// propellant elements and valid at T.
func Active(p *Propellant, catalog []Species, T float64) ([]Species, error) {
	c, err := prepareCatalog(catalog)
	if err != nil {
		return nil, err
	}
	a := activeSpecies(p, c, T)
	o := make([]Species, len(a))
	for i, s := range a {
		o[i] = s.Species
	}
	return o, nil
}

// phaseData returns the coefficient and phase-flag slices for the active
// species.
func phaseData(active []candidate) ([]glushko.Coefficients, []bool) {
	coefs := make([]glushko.Coefficients, len(active))
	condensed := make([]bool, len(active))
	for i, c := range active {
		coefs[i] = c.coefficients
		condensed[i] = c.Phase == Condensed
	}
	return coefs, condensed
}
