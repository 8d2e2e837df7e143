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
	"math"
	"sort"
	"strings"

	"github.com/spatialmodel/adiabat/science/chem/formula"
	"github.com/spatialmodel/adiabat/science/thermo/glushko"
)

// Phase is the physical state of a species.
type Phase int

// Valid phases.
const (
	Gas Phase = iota
	Condensed
)

func (p Phase) String() string {
	switch p {
	case Gas:
		return "gas"
	case Condensed:
		return "condensed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	if p != Gas && p != Condensed {
		return nil, fmt.Errorf("adiabat: invalid phase %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Valid values are
// "gas" and "condensed".
func (p *Phase) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "gas":
		*p = Gas
	case "condensed":
		*p = Condensed
	default:
		return fmt.Errorf("adiabat: invalid phase %q; valid options are 'gas' and 'condensed'", string(b))
	}
	return nil
}

// TemperatureRange is the temperature window [Min, Max) in which a
// species' coefficients are valid [K].
type TemperatureRange struct {
	Min float64 `json:"min" toml:"min"`
	Max float64 `json:"max" toml:"max"`
}

// Contains reports whether T is inside the window. The lower bound is
// inclusive and the upper bound exclusive, so a temperature on the
// boundary between two adjacent windows belongs to exactly one of them.
// Every temperature filter in this package goes through Contains.
func (r TemperatureRange) Contains(T float64) bool {
	return r.Min <= T && T < r.Max
}

// Species is a candidate combustion product.
type Species struct {
	// Formula is the chemical formula, for example "H2O" or "Al2O3".
	Formula string `json:"formula" toml:"formula"`

	// Coefficients are the 9 polynomial coefficients of the species'
	// thermodynamic properties; see package glushko.
	Coefficients []float64 `json:"coefficients" toml:"coefficients"`

	Phase            Phase            `json:"phase" toml:"phase"`
	TemperatureRange TemperatureRange `json:"temperature_range" toml:"temperature_range"`
}

func (s Species) String() string {
	return fmt.Sprintf("%s(%s)", s.Formula, s.Phase)
}

// candidate is a validated Species with its parsed data.
type candidate struct {
	Species
	coefficients glushko.Coefficients
	elements     formula.Elements
}

// validate checks the species record and parses its formula and
// coefficients.
func (s Species) validate(i int) (candidate, error) {
	field := fmt.Sprintf("species %d (%s)", i, s.Formula)
	c := candidate{Species: s}
	var err error
	if c.coefficients, err = glushko.NewCoefficients(s.Coefficients); err != nil {
		return c, invalid(field, "%v", err)
	}
	for _, v := range s.Coefficients {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return c, invalid(field, "coefficients must be finite")
		}
	}
	if c.elements, err = formula.Parse(s.Formula); err != nil {
		return c, invalid(field, "%v", err)
	}
	if s.Phase != Gas && s.Phase != Condensed {
		return c, invalid(field, "phase %v", s.Phase)
	}
	r := s.TemperatureRange
	if !(r.Min > 0 && r.Max > r.Min) {
		return c, invalid(field, "temperature range [%g, %g) must satisfy 0 < min < max", r.Min, r.Max)
	}
	return c, nil
}

// prepareCatalog validates every species in the catalog.
func prepareCatalog(catalog []Species) ([]candidate, error) {
	if len(catalog) == 0 {
		return nil, invalid("catalog", "no species")
	}
	o := make([]candidate, len(catalog))
	for i, s := range catalog {
		c, err := s.validate(i)
		if err != nil {
			return nil, err
		}
		o[i] = c
	}
	return o, nil
}

// ValidateCatalog returns an error if any species record is malformed.
func ValidateCatalog(catalog []Species) error {
	_, err := prepareCatalog(catalog)
	return err
}

// CatalogBounds returns the lowest lower bound and the highest upper bound
// of the temperature windows of the species in catalog.
func CatalogBounds(catalog []Species) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, s := range catalog {
		min = math.Min(min, s.TemperatureRange.Min)
		max = math.Max(max, s.TemperatureRange.Max)
	}
	return min, max
}

// Propellant holds the enthalpy and elemental composition of a
// propellant, both per unit reference mass (usually 1 kg).
type Propellant struct {
	// Enthalpy is the propellant enthalpy [J].
	Enthalpy float64 `json:"enthalpy" toml:"enthalpy"`

	// Composition maps element symbols to amounts [mol].
	Composition map[string]float64 `json:"composition" toml:"composition"`
}

// Elements returns the propellant's element symbols in lexical order.
// This order fixes the rows of the mass balance.
func (p *Propellant) Elements() []string {
	o := make([]string, 0, len(p.Composition))
	for e := range p.Composition {
		o = append(o, e)
	}
	sort.Strings(o)
	return o
}

// Mass returns the propellant mass implied by its composition [kg].
func (p *Propellant) Mass() (float64, error) {
	var m float64
	for _, e := range p.Elements() {
		w, err := formula.ElementMolarMass(e)
		if err != nil {
			return 0, err
		}
		m += w * p.Composition[e]
	}
	return m, nil
}

// Validate returns an error if the propellant has no elements or any
// non-finite or negative values.
func (p *Propellant) Validate() error {
	if math.IsNaN(p.Enthalpy) || math.IsInf(p.Enthalpy, 0) {
		return invalid("propellant", "enthalpy must be finite")
	}
	if len(p.Composition) == 0 {
		return invalid("propellant", "empty composition")
	}
	for _, e := range p.Elements() {
		v := p.Composition[e]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return invalid("propellant", "amount of %s is %g", e, v)
		}
	}
	return nil
}

// compatible reports whether every element of c occurs in the
// propellant.
func (p *Propellant) compatible(c *candidate) bool {
	for e := range c.elements {
		if _, ok := p.Composition[e]; !ok {
			return false
		}
	}
	return true
}
