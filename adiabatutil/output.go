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

package adiabatutil

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spatialmodel/adiabat"
	"github.com/tealeg/xlsx"
)

// Solution is the outcome of one equilibrium calculation.
type Solution struct {
	*adiabat.Result
	Properties *adiabat.Properties

	// Outputs are the values of the user-defined output variables.
	Outputs map[string]float64
}

type propellantDocument struct {
	Enthalpy    float64            `json:"enthalpy"`
	Composition map[string]float64 `json:"composition"`
	TotalMass   float64            `json:"total_mass_kg"`
}

// solutionDocument is the JSON representation of a Solution.
type solutionDocument struct {
	Pressure           float64            `json:"pressure"`
	Temperature        float64            `json:"temperature"`
	SpecificHeatVolume float64            `json:"specific_heat_capacity_volumetric"`
	GasMolarMass       float64            `json:"gas_average_molar_mass"`
	Propellant         propellantDocument `json:"propellant"`
	Products           []adiabat.Product  `json:"combustion_products"`
	Properties         map[string]float64 `json:"properties"`
	Outputs            map[string]float64 `json:"outputs,omitempty"`
}

func (s *Solution) document() solutionDocument {
	return solutionDocument{
		Pressure:           s.Pressure,
		Temperature:        s.Temperature,
		SpecificHeatVolume: s.Properties.SpecificHeatVolume.Value(),
		GasMolarMass:       s.Properties.GasMolarMass.Value(),
		Propellant: propellantDocument{
			Enthalpy:    s.Propellant.Enthalpy,
			Composition: s.Propellant.Composition,
			TotalMass:   s.Properties.PropellantMass.Value(),
		},
		Products:   s.Products(),
		Properties: s.Properties.Map(),
		Outputs:    s.Outputs,
	}
}

// WriteJSON writes solutions to w. If array is false, only the first
// solution is written, as a single object.
func WriteJSON(w io.Writer, solutions []*Solution, array bool) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "    ")
	var err error
	if array {
		docs := make([]solutionDocument, len(solutions))
		for i, s := range solutions {
			docs[i] = s.document()
		}
		err = e.Encode(docs)
	} else {
		if len(solutions) == 0 {
			return fmt.Errorf("adiabat: no results to write")
		}
		err = e.Encode(solutions[0].document())
	}
	if err != nil {
		return fmt.Errorf("adiabat: writing JSON results: %v", err)
	}
	return nil
}

// outputNames returns the sorted names of the output variables of
// solutions.
func outputNames(solutions []*Solution) []string {
	var names []string
	if len(solutions) == 0 {
		return names
	}
	for n := range solutions[0].Outputs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WriteXLSX writes solutions to an Excel workbook at path. The "Summary"
// sheet has one row per solution with its derived properties and output
// variables, and the "Products" sheet has one row per product and
// solution.
func WriteXLSX(path string, solutions []*Solution) error {
	f := xlsx.NewFile()
	summary, err := f.AddSheet("Summary")
	if err != nil {
		return fmt.Errorf("adiabat: creating workbook: %v", err)
	}
	products, err := f.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("adiabat: creating workbook: %v", err)
	}

	props := adiabat.PropertyNames()
	outputs := outputNames(solutions)

	row := summary.AddRow()
	row.AddCell().SetString("Residual [J]")
	row.AddCell().SetString("Iterations")
	var units map[string]string
	if len(solutions) > 0 {
		units = solutions[0].Properties.Units()
	}
	for _, p := range props {
		if u := units[p]; u != "" {
			row.AddCell().SetString(fmt.Sprintf("%s [%s]", p, u))
		} else {
			row.AddCell().SetString(p)
		}
	}
	for _, o := range outputs {
		row.AddCell().SetString(o)
	}
	for _, s := range solutions {
		row = summary.AddRow()
		row.AddCell().SetFloat(s.Residual)
		row.AddCell().SetInt(s.Iterations)
		m := s.Properties.Map()
		for _, p := range props {
			row.AddCell().SetFloat(m[p])
		}
		for _, o := range outputs {
			row.AddCell().SetFloat(s.Outputs[o])
		}
	}

	row = products.AddRow()
	for _, h := range []string{"Pressure [Pa]", "Temperature [K]", "Formula", "Phase", "Moles [mol]"} {
		row.AddCell().SetString(h)
	}
	for _, s := range solutions {
		for _, p := range s.Products() {
			row = products.AddRow()
			row.AddCell().SetFloat(s.Pressure)
			row.AddCell().SetFloat(s.Temperature)
			row.AddCell().SetString(p.Formula)
			row.AddCell().SetString(p.Phase.String())
			row.AddCell().SetFloat(p.Moles)
		}
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("adiabat: writing workbook: %v", err)
	}
	return nil
}
