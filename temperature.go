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

import "math"

// Request specifies an adiabatic equilibrium calculation.
type Request struct {
	Pressure   float64 // [Pa]
	Propellant *Propellant
	Catalog    []Species

	// TMin and TMax bracket the equilibrium temperature [K].
	TMin, TMax float64
}

// validate checks the request and returns the prepared catalog.
func (r *Request) validate() ([]candidate, error) {
	if !(r.Pressure > 0) || math.IsInf(r.Pressure, 0) {
		return nil, invalid("pressure", "%g Pa must be positive", r.Pressure)
	}
	if !(r.TMin > 0) {
		return nil, invalid("temperature bracket", "lower bound %g K must be positive", r.TMin)
	}
	if !(r.TMax > r.TMin) || math.IsInf(r.TMax, 0) {
		return nil, invalid("temperature bracket", "[%g, %g] K must satisfy TMin < TMax", r.TMin, r.TMax)
	}
	if r.Propellant == nil {
		return nil, invalid("propellant", "missing")
	}
	if err := r.Propellant.Validate(); err != nil {
		return nil, err
	}
	return prepareCatalog(r.Catalog)
}

// WarmStart holds the composition from the most recent successful
// composition calculation of one request. It is reused as the starting
// point of the next calculation when the number of active species is
// unchanged. The zero value holds no composition.
//
// A WarmStart belongs to a single request: it is passed in to and
// returned from TemperatureSolver.Solve and is never stored by the
// solver.
type WarmStart struct {
	Amounts []float64
}

// Result is an adiabatic equilibrium state.
type Result struct {
	Temperature float64 // [K]
	Pressure    float64 // [Pa]

	// Context holds the equilibrium composition at Temperature.
	Context *EquilibriumContext

	// Species are the active species, in the order of Context.Amounts.
	Species []Species

	Propellant *Propellant

	// Residual is the product enthalpy minus the propellant enthalpy at
	// Temperature [J]. It may be non-zero if Temperature is at a
	// discontinuity caused by a species entering or leaving its
	// temperature window.
	Residual float64

	// Iterations is the number of root-finding iterations.
	Iterations int
}

// TemperatureSolver finds the temperature at which the enthalpy of the
// equilibrium products equals the propellant enthalpy, using Brent's
// method. A TemperatureSolver holds no per-request state, so one value
// can serve concurrent requests.
type TemperatureSolver struct {
	// Composition calculates the equilibrium composition at each trial
	// temperature. If nil, InteriorPointSolver{} is used.
	Composition CompositionSolver

	// MaxIterations is the maximum number of root-finding iterations.
	// If zero, it is set to 100.
	MaxIterations int

	// Tolerance is the absolute temperature tolerance [K]. If zero, it is
	// set to 1e-6.
	Tolerance float64
}

// trial is the outcome of a composition calculation at one temperature.
type trial struct {
	active   []candidate
	context  *EquilibriumContext
	residual float64
}

// Solve finds the adiabatic equilibrium temperature of req within
// [req.TMin, req.TMax]. warm is the starting composition; the returned
// WarmStart holds the most recent composition.
func (s *TemperatureSolver) Solve(req *Request, warm WarmStart) (*Result, WarmStart, error) {
	catalog, err := req.validate()
	if err != nil {
		return nil, warm, err
	}
	maxIter := s.MaxIterations
	if maxIter <= 0 {
		maxIter = 100
	}
	xtol := s.Tolerance
	if xtol <= 0 {
		xtol = 1.e-6
	}
	fail := func(iter int, reason string) error {
		return &TemperatureConvergenceError{TMin: req.TMin, TMax: req.TMax, Iterations: iter, Reason: reason}
	}
	eval := func(T float64, iter int) (*trial, error) {
		t, err := s.evaluate(req, catalog, T, &warm)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(t.residual) || math.IsInf(t.residual, 0) {
			return nil, fail(iter, "enthalpy residual is not finite")
		}
		return t, nil
	}
	result := func(T float64, t *trial, iter int) *Result {
		species := make([]Species, len(t.active))
		for i, c := range t.active {
			species[i] = c.Species
		}
		return &Result{
			Temperature: T,
			Pressure:    req.Pressure,
			Context:     t.context,
			Species:     species,
			Propellant:  req.Propellant,
			Residual:    t.residual,
			Iterations:  iter,
		}
	}

	a, b := req.TMin, req.TMax
	ta, err := eval(a, 0)
	if err != nil {
		return nil, warm, err
	}
	if ta.residual == 0 {
		return result(a, ta, 0), warm, nil
	}
	tb, err := eval(b, 0)
	if err != nil {
		return nil, warm, err
	}
	if tb.residual == 0 {
		return result(b, tb, 0), warm, nil
	}
	fa, fb := ta.residual, tb.residual
	if (fa > 0) == (fb > 0) {
		return nil, warm, fail(0, "enthalpy residual has the same sign at both ends of the bracket")
	}

	// b is the best estimate and [b, c] brackets the root; a is the
	// previous estimate.
	c, fc, tc := a, fa, ta
	d := b - a
	e := d
	for iter := 1; iter <= maxIter; iter++ {
		if (fb > 0) == (fc > 0) {
			c, fc, tc = a, fa, ta
			d = b - a
			e = d
		}
		if (fb > 0) == (fc > 0) {
			return nil, warm, fail(iter, "bracket lost its sign change")
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, fa, ta = b, fb, tb
			b, fb, tb = c, fc, tc
			c, fc, tc = a, fa, ta
		}
		tol := 2*epsilon*math.Abs(b) + 0.5*xtol
		m := 0.5 * (c - b)
		if math.Abs(m) <= tol || fb == 0 {
			return result(b, tb, iter), warm, nil
		}
		if math.Abs(e) >= tol && math.Abs(fa) > math.Abs(fb) {
			// Inverse quadratic interpolation, or the secant method when
			// only two points are distinct.
			var p, q float64
			sr := fb / fa
			if a == c {
				p = 2 * m * sr
				q = 1 - sr
			} else {
				q = fa / fc
				r := fb / fc
				p = sr * (2*m*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (sr - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*m*q-math.Abs(tol*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = m
				e = d
			}
		} else {
			d = m
			e = d
		}
		a, fa, ta = b, fb, tb
		if math.Abs(d) > tol {
			b += d
		} else {
			b += math.Copysign(tol, m)
		}
		if tb, err = eval(b, iter); err != nil {
			return nil, warm, err
		}
		fb = tb.residual
	}
	return nil, warm, fail(maxIter, "iteration limit reached")
}

const epsilon = 2.220446049250313e-16

// evaluate calculates the equilibrium composition at temperature T and
// its enthalpy residual, updating warm on success.
func (s *TemperatureSolver) evaluate(req *Request, catalog []candidate, T float64, warm *WarmStart) (*trial, error) {
	active := activeSpecies(req.Propellant, catalog, T)
	if len(active) == 0 {
		return nil, &NoCompatibleSpeciesError{Temperature: T}
	}
	balance := newMassBalance(req.Propellant, active)
	coefs, condensed := phaseData(active)
	guess := make([]float64, len(active))
	if len(warm.Amounts) == len(active) {
		copy(guess, warm.Amounts)
	} else {
		for i := range guess {
			guess[i] = 1
		}
	}
	var solver CompositionSolver = InteriorPointSolver{}
	if s.Composition != nil {
		solver = s.Composition
	}
	x, err := solver.Solve(&CompositionProblem{
		Temperature:  T,
		Pressure:     req.Pressure,
		Balance:      balance,
		Coefficients: coefs,
		Condensed:    condensed,
		Guess:        guess,
	})
	if err != nil {
		return nil, err
	}
	if len(x) != len(active) || !balance.Satisfied(x, MassBalanceTolerance) {
		return nil, &CompositionConvergenceError{
			Temperature: T,
			Reason:      "composition does not satisfy the mass balance",
		}
	}
	ctx, err := NewContext(T, req.Pressure, x, coefs, condensed)
	if err != nil {
		return nil, err
	}
	warm.Amounts = append([]float64(nil), x...)
	return &trial{
		active:   active,
		context:  ctx,
		residual: ctx.Enthalpy() - req.Propellant.Enthalpy,
	}, nil
}
