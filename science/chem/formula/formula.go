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

// Package formula parses chemical formulas and computes molar masses.
package formula

import (
	"fmt"
	"sort"
	"unicode"
)

// Elements maps element symbols to their stoichiometric counts in a
// chemical formula.
type Elements map[string]int

// Symbols returns the element symbols in e in lexical order.
func (e Elements) Symbols() []string {
	o := make([]string, 0, len(e))
	for s := range e {
		o = append(o, s)
	}
	sort.Strings(o)
	return o
}

// Parse parses a chemical formula such as "H2O", "Al2O3" or "CH3COOH"
// into its elements. Element symbols are an uppercase letter followed by
// any number of lowercase letters, optionally followed by a count; a
// missing count means 1. Symbols that appear more than once are summed.
// Parse does not check that the symbols are real elements.
func Parse(formula string) (Elements, error) {
	if formula == "" {
		return nil, fmt.Errorf("formula: empty formula")
	}
	r := []rune(formula)
	e := make(Elements)
	for i := 0; i < len(r); {
		if !unicode.IsUpper(r[i]) {
			return nil, fmt.Errorf("formula: invalid character %q at position %d in %q; "+
				"element symbols must begin with an uppercase letter", r[i], i, formula)
		}
		start := i
		i++
		for i < len(r) && unicode.IsLower(r[i]) {
			i++
		}
		symbol := string(r[start:i])
		count := 0
		digits := false
		for i < len(r) && unicode.IsDigit(r[i]) {
			count = count*10 + int(r[i]-'0')
			digits = true
			i++
		}
		if !digits {
			count = 1
		}
		if count == 0 {
			return nil, fmt.Errorf("formula: zero count for %s in %q", symbol, formula)
		}
		e[symbol] += count
	}
	return e, nil
}

// ElementMolarMass returns the molar mass of the given element [kg/mol].
func ElementMolarMass(symbol string) (float64, error) {
	w, ok := atomicWeights[symbol]
	if !ok {
		return 0, fmt.Errorf("formula: element '%s' not found in molar mass database", symbol)
	}
	return w * 1.e-3, nil
}

// MolarMass returns the molar mass of a compound with elements e [kg/mol].
func MolarMass(e Elements) (float64, error) {
	var m float64
	for _, s := range e.Symbols() {
		w, err := ElementMolarMass(s)
		if err != nil {
			return 0, err
		}
		m += w * float64(e[s])
	}
	return m, nil
}

// MustParse is like Parse but panics if the formula is invalid.
// It is intended for use in tests and package-level variables.
func MustParse(formula string) Elements {
	e, err := Parse(formula)
	if err != nil {
		panic(err)
	}
	return e
}
