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

import "fmt"

// InputValidationError reports malformed input: a bad species record, a
// non-positive pressure or temperature bound, or an empty catalog.
type InputValidationError struct {
	// Field names the offending input.
	Field string
	Msg   string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("adiabat: invalid %s: %s", e.Field, e.Msg)
}

func invalid(field, format string, args ...interface{}) error {
	return &InputValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// NoCompatibleSpeciesError reports that no catalog species is made only of
// propellant elements and valid at the queried temperature.
type NoCompatibleSpeciesError struct {
	Temperature float64
}

func (e *NoCompatibleSpeciesError) Error() string {
	return fmt.Sprintf("adiabat: no species compatible with the propellant are valid at %g K", e.Temperature)
}

// CompositionConvergenceError reports that the equilibrium composition
// could not be found at a fixed temperature.
type CompositionConvergenceError struct {
	Temperature float64
	Iterations  int
	Reason      string
}

func (e *CompositionConvergenceError) Error() string {
	return fmt.Sprintf("adiabat: equilibrium composition at %g K did not converge after %d iterations: %s",
		e.Temperature, e.Iterations, e.Reason)
}

// TemperatureConvergenceError reports that no equilibrium temperature was
// found in the supplied temperature range.
type TemperatureConvergenceError struct {
	TMin, TMax float64
	Iterations int
	Reason     string
}

func (e *TemperatureConvergenceError) Error() string {
	return fmt.Sprintf("adiabat: no equilibrium temperature in [%g, %g] K (%d iterations): %s",
		e.TMin, e.TMax, e.Iterations, e.Reason)
}

// DegenerateSystemError reports that a gas-phase property was requested
// for a system with no gas.
type DegenerateSystemError struct {
	Property string
}

func (e *DegenerateSystemError) Error() string {
	return fmt.Sprintf("adiabat: cannot calculate %s: total gas amount is zero", e.Property)
}
