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
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/adiabat"
)

// Run calculates the adiabatic equilibrium described by c and writes the
// results. It returns one Solution for each of c.Pressures, in the same
// order.
//
// The propellant and catalog are read from c.PropellantFile and
// c.CatalogFile. If c.TMin or c.TMax is zero, it is derived from the
// temperature windows of the catalog species.
//
// If c.Sweep is true, the pressures are calculated concurrently by
// c.NumProcessors workers, and a repeated pressure is only calculated
// once. Otherwise only the first pressure is used.
//
// Results are written as JSON to c.OutputFile, or to stdout if
// c.OutputFile is empty. If c.XLSXFile or c.PlotFile are set, an Excel
// workbook or a plot of temperature against pressure are written too.
func Run(log logrus.FieldLogger, stdout io.Writer, c *Config) ([]*Solution, error) {
	startTime := time.Now()

	log.WithField("file", c.CatalogFile).Info("loading catalog")
	catalog, err := LoadCatalog(c.CatalogFile)
	if err != nil {
		return nil, err
	}
	log.WithField("file", c.PropellantFile).Info("loading propellant")
	propellant, err := LoadPropellant(c.PropellantFile)
	if err != nil {
		return nil, err
	}
	outputter, err := adiabat.NewOutputter(c.OutputVariables, nil)
	if err != nil {
		return nil, err
	}

	tMin, tMax := c.bounds(catalog)
	log.WithFields(logrus.Fields{
		"species": len(catalog),
		"tmin":    tMin,
		"tmax":    tMax,
	}).Debug("temperature bounds")

	var solutions []*Solution
	if c.Sweep {
		solutions, err = sweep(log, c, propellant, catalog, tMin, tMax, outputter)
		if err != nil {
			return nil, err
		}
	} else {
		req := &adiabat.Request{
			Pressure:   c.Pressures[0],
			Propellant: propellant,
			Catalog:    catalog,
			TMin:       tMin,
			TMax:       tMax,
		}
		s, err := solve(log, &c.Solver, req, outputter)
		if err != nil {
			return nil, err
		}
		solutions = []*Solution{s}
	}

	if err := writeResults(log, stdout, c, solutions); err != nil {
		return nil, err
	}
	log.WithField("time", time.Since(startTime)).Info("calculation complete")
	return solutions, nil
}

// solve calculates one equilibrium and its derived properties and output
// variables. It starts from a fresh warm start, so calls are independent.
func solve(log logrus.FieldLogger, solver *adiabat.TemperatureSolver, req *adiabat.Request, o *adiabat.Outputter) (*Solution, error) {
	log = log.WithField("pressure", req.Pressure)
	log.Info("calculating equilibrium")
	startTime := time.Now()

	r, _, err := solver.Solve(req, adiabat.WarmStart{})
	if err != nil {
		return nil, err
	}
	p, err := adiabat.Derive(r)
	if err != nil {
		return nil, err
	}
	outputs, err := o.Evaluate(p)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"temperature": r.Temperature,
		"iterations":  r.Iterations,
		"residual":    r.Residual,
		"products":    len(r.Species),
		"time":        time.Since(startTime),
	}).Info("equilibrium found")
	return &Solution{Result: r, Properties: p, Outputs: outputs}, nil
}

// writeResults writes the JSON document and any optional workbook and plot.
func writeResults(log logrus.FieldLogger, stdout io.Writer, c *Config, solutions []*Solution) error {
	if c.OutputFile == "" {
		if err := WriteJSON(stdout, solutions, c.Sweep); err != nil {
			return err
		}
	} else {
		log.WithField("file", c.OutputFile).Info("writing results")
		f, err := os.Create(c.OutputFile)
		if err != nil {
			return fmt.Errorf("adiabat: problem creating output file: %v", err)
		}
		if err := WriteJSON(f, solutions, c.Sweep); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("adiabat: problem closing output file: %v", err)
		}
	}
	if c.XLSXFile != "" {
		log.WithField("file", c.XLSXFile).Info("writing workbook")
		if err := WriteXLSX(c.XLSXFile, solutions); err != nil {
			return err
		}
	}
	if c.PlotFile != "" {
		log.WithField("file", c.PlotFile).Info("writing plot")
		if err := PlotSweep(c.PlotFile, solutions); err != nil {
			return err
		}
	}
	return nil
}

// setLogOutput directs l to w and, if logFile is not empty, to logFile
// as well. The returned function closes the log file.
func setLogOutput(l *logrus.Logger, w io.Writer, logFile string) (func() error, error) {
	if logFile == "" {
		l.Out = w
		return func() error { return nil }, nil
	}
	f, err := os.Create(logFile)
	if err != nil {
		return nil, fmt.Errorf("adiabat: problem creating log file: %v", err)
	}
	l.Out = io.MultiWriter(w, f)
	return f.Close, nil
}
