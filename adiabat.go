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

// Package adiabat calculates the adiabatic combustion equilibrium of a
// propellant at fixed pressure.
//
// The equilibrium temperature is found with a bracketed root search over
// temperature (TemperatureSolver). At each trial temperature the product
// composition is found by minimizing the total Gibbs free energy of the
// candidate species subject to elemental mass balance
// (InteriorPointSolver). Thermodynamic properties of individual species
// come from package github.com/spatialmodel/adiabat/science/thermo/glushko.
//
// All state that changes during a solve is owned by that solve, so
// independent solves may run concurrently.
package adiabat

// Version gives the version number.
const Version = "0.3.0"

// Solve finds the adiabatic equilibrium of propellant at pressure [Pa]
// with the equilibrium temperature bracketed by [tMin, tMax] K, using the
// default solvers and no warm start.
func Solve(pressure float64, propellant *Propellant, catalog []Species, tMin, tMax float64) (*Result, error) {
	var s TemperatureSolver
	r, _, err := s.Solve(&Request{
		Pressure:   pressure,
		Propellant: propellant,
		Catalog:    catalog,
		TMin:       tMin,
		TMax:       tMax,
	}, WarmStart{})
	return r, err
}
