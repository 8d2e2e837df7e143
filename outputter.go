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

	"github.com/Knetic/govaluate"
)

// Outputter calculates user-defined output variables from the derived
// properties of an equilibrium state.
//
// outputVariables maps the names of the output variables to expressions
// that define them. Expressions may use the names returned by
// PropertyNames, the names of other output variables, and functions.
type Outputter struct {
	outputVariables map[string]string
	expressions     map[string]*govaluate.EvaluableExpression
	outputFunctions map[string]govaluate.ExpressionFunction
}

func floatArgs(name string, n int, args []interface{}) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("adiabat: got %d arguments for function '%s', but needs %d", len(args), name, n)
	}
	o := make([]float64, n)
	for i, a := range args {
		v, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("adiabat: argument %d of function '%s' is not a number", i, name)
		}
		o[i] = v
	}
	return o, nil
}

// NewOutputter initializes a new Outputter and adds a set of default
// output functions:
//
// 'exp(x)' which applies the exponential function e^x.
//
// 'log(x)' which returns the natural logarithm of x.
//
// 'sqrt(x)' which returns the square root of x.
//
// 'pow(x, y)' which returns x^y.
//
// Functions in outputFunctions are added to, or replace, the defaults.
func NewOutputter(outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	unary := func(name string, f func(float64) float64) govaluate.ExpressionFunction {
		return func(args ...interface{}) (interface{}, error) {
			v, err := floatArgs(name, 1, args)
			if err != nil {
				return nil, err
			}
			return f(v[0]), nil
		}
	}
	funcs := map[string]govaluate.ExpressionFunction{
		"exp":  unary("exp", math.Exp),
		"log":  unary("log", math.Log),
		"sqrt": unary("sqrt", math.Sqrt),
		"pow": func(args ...interface{}) (interface{}, error) {
			v, err := floatArgs("pow", 2, args)
			if err != nil {
				return nil, err
			}
			return math.Pow(v[0], v[1]), nil
		},
	}
	for k, f := range outputFunctions {
		funcs[k] = f
	}

	o := &Outputter{
		outputVariables: outputVariables,
		expressions:     make(map[string]*govaluate.EvaluableExpression, len(outputVariables)),
		outputFunctions: funcs,
	}
	known := make(map[string]bool)
	for _, n := range PropertyNames() {
		known[n] = true
	}
	for name := range outputVariables {
		if known[name] {
			return nil, fmt.Errorf("adiabat: output variable name '%s' is already a property name", name)
		}
	}
	for name, expr := range outputVariables {
		e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, funcs)
		if err != nil {
			return nil, fmt.Errorf("adiabat: output variable '%s': %v", name, err)
		}
		for _, v := range e.Vars() {
			if _, ok := outputVariables[v]; !known[v] && !ok {
				return nil, fmt.Errorf("adiabat: output variable '%s': undefined variable name '%s'", name, v)
			}
		}
		o.expressions[name] = e
	}
	return o, nil
}

// Names returns the output variable names in lexical order.
func (o *Outputter) Names() []string {
	names := make([]string, 0, len(o.expressions))
	for n := range o.expressions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Evaluate calculates the output variables for p. Output variables that
// depend on other output variables are evaluated after them; circular
// definitions are an error.
func (o *Outputter) Evaluate(p *Properties) (map[string]float64, error) {
	params := make(map[string]interface{})
	for k, v := range p.Map() {
		params[k] = v
	}
	result := make(map[string]float64, len(o.expressions))
	remaining := o.Names()
	for len(remaining) > 0 {
		var next []string
		for _, name := range remaining {
			e := o.expressions[name]
			ready := true
			for _, v := range e.Vars() {
				if _, ok := params[v]; !ok {
					ready = false
					break
				}
			}
			if !ready {
				next = append(next, name)
				continue
			}
			v, err := e.Evaluate(params)
			if err != nil {
				return nil, fmt.Errorf("adiabat: evaluating output variable '%s': %v", name, err)
			}
			f, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("adiabat: output variable '%s' evaluates to %v, not a number", name, v)
			}
			result[name] = f
			params[name] = f
		}
		if len(next) == len(remaining) {
			return nil, fmt.Errorf("adiabat: output variables %v are defined in terms of each other", next)
		}
		remaining = next
	}
	return result, nil
}
