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

	"github.com/spatialmodel/adiabat/science/thermo/glushko"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CompositionProblem specifies an equilibrium composition calculation at
// fixed temperature and pressure: minimize the Gibbs free energy of the
// mixture subject to Balance.A·x = Balance.B and x ≥ 0.
type CompositionProblem struct {
	Temperature float64 // [K]
	Pressure    float64 // [Pa]
	Balance     *MassBalance

	// Coefficients and Condensed describe the species, one entry per
	// column of Balance.A.
	Coefficients []glushko.Coefficients
	Condensed    []bool

	// Guess is the starting point [mol].
	Guess []float64
}

func (p *CompositionProblem) check() error {
	if p.Balance == nil {
		return invalid("composition problem", "missing mass balance")
	}
	rows, cols := p.Balance.A.Dims()
	n := len(p.Guess)
	if n == 0 || cols != n || len(p.Coefficients) != n || len(p.Condensed) != n || len(p.Balance.B) != rows {
		return invalid("composition problem", "dimension mismatch: %d×%d mass balance, %d elements, "+
			"%d guesses, %d coefficients, %d phase flags",
			rows, cols, len(p.Balance.B), n, len(p.Coefficients), len(p.Condensed))
	}
	if !(p.Temperature > 0) {
		return invalid("temperature", "%g K must be positive", p.Temperature)
	}
	if !(p.Pressure > 0) {
		return invalid("pressure", "%g Pa must be positive", p.Pressure)
	}
	for i, v := range p.Guess {
		if !(v >= 0) || math.IsInf(v, 0) {
			return invalid("composition problem", "guess %d is %g", i, v)
		}
	}
	return nil
}

// CompositionSolver finds equilibrium compositions. Implementations must
// return either a composition that satisfies the mass balance or an
// error, never an unconverged iterate.
type CompositionSolver interface {
	Solve(p *CompositionProblem) ([]float64, error)
}

// InteriorPointSolver is a CompositionSolver that uses a primal-dual
// interior point method. Species amounts are kept strictly positive
// throughout, so the logarithmic mixing terms are always defined.
//
// The zero value is ready to use.
type InteriorPointSolver struct {
	// MaxIterations is the maximum number of Newton steps.
	// If zero, it is set to 5000.
	MaxIterations int

	// Tolerance is the relative convergence tolerance of the
	// optimality conditions. If zero, it is set to 1e-10.
	Tolerance float64
}

const (
	// centering is the fraction of the current complementarity targeted
	// by each step.
	centering = 0.1

	// boundaryFraction is the maximum fraction of the distance to the
	// x ≥ 0 and z ≥ 0 boundaries covered by one step.
	boundaryFraction = 0.995

	maxBacktracks = 40
	armijo        = 1.e-4

	negligibleFraction = 1.e-20
)

// Solve implements CompositionSolver.
func (s InteriorPointSolver) Solve(p *CompositionProblem) ([]float64, error) {
	maxIter := s.MaxIterations
	if maxIter <= 0 {
		maxIter = 5000
	}
	tol := s.Tolerance
	if tol <= 0 {
		tol = 1.e-10
	}
	if err := p.check(); err != nil {
		return nil, err
	}
	fail := func(iter int, format string, args ...interface{}) error {
		return &CompositionConvergenceError{
			Temperature: p.Temperature,
			Iterations:  iter,
			Reason:      fmt.Sprintf(format, args...),
		}
	}

	A, b := p.Balance.A, p.Balance.B
	nElem, n := A.Dims()
	if r := rank(A); r < nElem {
		return nil, fail(0, "mass balance matrix has rank %d but there are %d elements", r, nElem)
	}

	obj := newGibbsObjective(p)

	x := make([]float64, n)
	floor := 1.e-8 * math.Max(1, floats.Sum(p.Guess))
	for i, v := range p.Guess {
		x[i] = math.Max(v, floor)
	}
	z := make([]float64, n)
	for i := range z {
		z[i] = 1
	}
	nu := make([]float64, nElem)
	rho := 1.0 // penalty on the mass balance residual

	grad := make([]float64, n)
	rd := make([]float64, n)
	rp := make([]float64, nElem)
	rhs := make([]float64, n+nElem)
	sol := mat.NewVecDense(n+nElem, nil)
	dx := make([]float64, n)
	dz := make([]float64, n)
	dnu := make([]float64, nElem)
	xt := make([]float64, n)
	zt := make([]float64, n)
	nut := make([]float64, nElem)
	bScale := 1 + floats.Norm(b, math.Inf(1))

	obj.gradient(x, grad)
	residuals(A, b, x, z, nu, grad, rd, rp)
	for iter := 0; ; iter++ {
		mu := floats.Dot(x, z) / float64(n)
		dualTol := tol * (1 + floats.Norm(grad, math.Inf(1)))
		if floats.Norm(rd, math.Inf(1)) <= dualTol && floats.Norm(rp, math.Inf(1)) <= tol*bScale &&
			mu <= tol && gasSlackConverged(x, z, p.Condensed, dualTol) {
			if !p.Balance.Satisfied(x, MassBalanceTolerance) {
				return nil, fail(iter, "mass balance residual %v exceeds tolerance", p.Balance.Residual(x))
			}
			return x, nil
		}
		if iter == maxIter {
			return nil, fail(iter, "iteration limit reached (complementarity %g, dual residual %g, primal residual %g)",
				mu, floats.Norm(rd, math.Inf(1)), floats.Norm(rp, math.Inf(1)))
		}
		target := centering * mu

		// Newton step on the perturbed optimality conditions, with the
		// bound multipliers eliminated:
		//  [H + Z/X  Aᵀ] [Δx]   [-(∇g + Aᵀν) + σμ/x]
		//  [A        0 ] [Δν] = [b - A·x            ]
		kkt := mat.NewDense(n+nElem, n+nElem, nil)
		obj.hessian(x, kkt)
		for i := 0; i < n; i++ {
			kkt.Set(i, i, kkt.At(i, i)+z[i]/x[i])
			rhs[i] = -(rd[i] + z[i]) + target/x[i]
		}
		for e := 0; e < nElem; e++ {
			for j := 0; j < n; j++ {
				a := A.At(e, j)
				kkt.Set(n+e, j, a)
				kkt.Set(j, n+e, a)
			}
			rhs[n+e] = -rp[e]
		}
		if err := solveKKT(sol, kkt, rhs); err != nil {
			return nil, fail(iter, "%v", err)
		}
		for i := 0; i < n; i++ {
			dx[i] = sol.At(i, 0)
			dz[i] = target/x[i] - z[i] - z[i]/x[i]*dx[i]
		}
		for e := 0; e < nElem; e++ {
			dnu[e] = sol.At(n+e, 0)
		}

		// Backtrack on the barrier function plus an exact penalty on the
		// mass balance while the step is a descent direction for it, and
		// otherwise on the norm of the optimality conditions.
		for e := 0; e < nElem; e++ {
			rho = math.Max(rho, math.Abs(nu[e]+dnu[e])+1)
		}
		slope := -rho * floats.Norm(rp, 1)
		for i := range x {
			slope += (grad[i] - target/x[i]) * dx[i]
		}
		useBarrier := slope < 0
		var psi0 float64
		if useBarrier {
			psi0 = obj.barrier(x, target, rho, A, b)
		}
		m0 := merit(rd, rp, x, z, target)
		alpha := math.Min(1, math.Min(maxStep(x, dx), maxStep(z, dz)))
		for k := 0; ; k++ {
			floats.AddScaledTo(xt, x, alpha, dx)
			floats.AddScaledTo(zt, z, alpha, dz)
			floats.AddScaledTo(nut, nu, alpha, dnu)
			obj.gradient(xt, grad)
			residuals(A, b, xt, zt, nut, grad, rd, rp)
			if merit(rd, rp, xt, zt, target) <= (1-armijo*alpha)*m0 || k == maxBacktracks {
				break
			}
			if useBarrier && obj.barrier(xt, target, rho, A, b) <= psi0+armijo*alpha*slope {
				break
			}
			alpha /= 2
		}
		x, xt = xt, x
		z, zt = zt, z
		nu, nut = nut, nu
		if !allFinite(x) || !allFinite(z) || !allFinite(nu) {
			return nil, fail(iter+1, "iterate is not finite")
		}
	}
}

// gibbsObjective is the Gibbs free energy of a mixture divided by RT:
//
//	g(x) = Σ xᵢ·cᵢ + Σ_gas xᵢ·ln(xᵢ/n_gas)
//
// where cᵢ = μᵢ°/RT, plus ln(P/P°) for gas species.
type gibbsObjective struct {
	c         []float64
	condensed []bool
}

func newGibbsObjective(p *CompositionProblem) *gibbsObjective {
	RT := glushko.GasConstant * p.Temperature
	lnP := math.Log(p.Pressure / glushko.StandardPressure)
	o := &gibbsObjective{
		c:         make([]float64, len(p.Coefficients)),
		condensed: p.Condensed,
	}
	for i := range o.c {
		o.c[i] = glushko.ChemicalPotential(&p.Coefficients[i], p.Temperature) / RT
		if !p.Condensed[i] {
			o.c[i] += lnP
		}
	}
	return o
}

func (o *gibbsObjective) gasMoles(x []float64) float64 {
	var nGas float64
	for i, v := range x {
		if !o.condensed[i] {
			nGas += v
		}
	}
	return nGas
}

// gradient sets dst to ∇g(x).
func (o *gibbsObjective) gradient(x, dst []float64) {
	nGas := o.gasMoles(x)
	for i, v := range x {
		dst[i] = o.c[i]
		if !o.condensed[i] {
			dst[i] += math.Log(v / nGas)
		}
	}
}

// hessian sets the upper-left len(x)×len(x) block of dst to ∇²g(x).
// Only the gas-gas block is non-zero.
func (o *gibbsObjective) hessian(x []float64, dst *mat.Dense) {
	nGas := o.gasMoles(x)
	for i := range x {
		if o.condensed[i] {
			continue
		}
		for j := range x {
			if o.condensed[j] {
				continue
			}
			h := -1 / nGas
			if i == j {
				h += 1 / x[i]
			}
			dst.Set(i, j, h)
		}
	}
}

// barrier returns g(x) - target·Σ ln xᵢ + rho·‖A·x - b‖₁.
func (o *gibbsObjective) barrier(x []float64, target, rho float64, A *mat.Dense, b []float64) float64 {
	nGas := o.gasMoles(x)
	var v float64
	for i, xi := range x {
		g := o.c[i]
		if !o.condensed[i] {
			g += math.Log(xi / nGas)
		}
		v += xi*g - target*math.Log(xi)
	}
	nElem, n := A.Dims()
	for e := 0; e < nElem; e++ {
		r := -b[e]
		for j := 0; j < n; j++ {
			r += A.At(e, j) * x[j]
		}
		v += rho * math.Abs(r)
	}
	return v
}

// residuals sets rd to the dual residual ∇g + Aᵀnu - z and rp to the
// primal residual A·x - b.
func residuals(A *mat.Dense, b, x, z, nu, grad, rd, rp []float64) {
	nElem, n := A.Dims()
	for j := 0; j < n; j++ {
		v := grad[j] - z[j]
		for e := 0; e < nElem; e++ {
			v += A.At(e, j) * nu[e]
		}
		rd[j] = v
	}
	for e := 0; e < nElem; e++ {
		v := -b[e]
		for j := 0; j < n; j++ {
			v += A.At(e, j) * x[j]
		}
		rp[e] = v
	}
}

// gasSlackConverged reports whether the bound multipliers of all gas
// species are below tol. The mixing term keeps gas species off the
// x = 0 bound at the optimum, so their multipliers vanish there; species
// below negligibleFraction of the total amount are exempt.
func gasSlackConverged(x, z []float64, condensed []bool, tol float64) bool {
	limit := negligibleFraction * floats.Sum(x)
	for i, zi := range z {
		if !condensed[i] && x[i] > limit && zi > tol {
			return false
		}
	}
	return true
}

// merit is the norm of the perturbed optimality conditions.
func merit(rd, rp, x, z []float64, target float64) float64 {
	m := floats.Dot(rd, rd) + floats.Dot(rp, rp)
	for i := range x {
		c := x[i]*z[i] - target
		m += c * c
	}
	return math.Sqrt(m)
}

// maxStep returns the largest step length, scaled by boundaryFraction,
// that keeps v + alpha·dv positive.
func maxStep(v, dv []float64) float64 {
	alpha := math.Inf(1)
	for i, d := range dv {
		if d < 0 {
			alpha = math.Min(alpha, -boundaryFraction*v[i]/d)
		}
	}
	return alpha
}

// solveKKT solves a·dst = b. Ill-conditioned systems are accepted as
// long as the solution is finite; singular ones are not.
func solveKKT(dst *mat.VecDense, a *mat.Dense, b []float64) error {
	if err := dst.SolveVec(a, mat.NewVecDense(len(b), b)); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return fmt.Errorf("singular Newton system: %v", err)
		}
	}
	for i := range b {
		if v := dst.At(i, 0); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("singular Newton system")
		}
	}
	return nil
}

// rank returns the numerical rank of a.
func rank(a *mat.Dense) int {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDNone) {
		return 0
	}
	s := svd.Values(nil)
	if len(s) == 0 || s[0] == 0 {
		return 0
	}
	r, c := a.Dims()
	tol := float64(maxInt(r, c)) * s[0] * 2.220446049250313e-16
	var k int
	for _, v := range s {
		if v > tol {
			k++
		}
	}
	return k
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func allFinite(v []float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
