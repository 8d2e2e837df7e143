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
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/adiabat"
	"github.com/spf13/cast"
)

// Config holds the settings of a calculation.
type Config struct {
	// PropellantFile and CatalogFile are the input file paths.
	PropellantFile, CatalogFile string

	// Pressures are the pressures to calculate the equilibrium at [Pa].
	Pressures []float64

	// Sweep specifies whether the calculation is a pressure sweep.
	Sweep bool

	// TMin and TMax bound the temperature search [K]. If either is zero,
	// it is derived from the catalog.
	TMin, TMax float64

	OutputFile, XLSXFile, PlotFile, LogFile string

	OutputVariables map[string]string

	// NumProcessors is the number of concurrent calculations in a sweep.
	NumProcessors int

	Solver adiabat.TemperatureSolver
}

// RunConfig unmarshals a viper configuration for a calculation. If sweep
// is true, the pressures are read from the Pressures option; otherwise
// the single Pressure option is used.
func RunConfig(cfg *viper.Viper, sweep bool) (*Config, error) {
	c := &Config{
		Sweep:         sweep,
		TMin:          cfg.GetFloat64("TMin"),
		TMax:          cfg.GetFloat64("TMax"),
		XLSXFile:      os.ExpandEnv(cfg.GetString("XLSXFile")),
		PlotFile:      os.ExpandEnv(cfg.GetString("PlotFile")),
		NumProcessors: cfg.GetInt("NumProcessors"),
		Solver: adiabat.TemperatureSolver{
			Composition: adiabat.InteriorPointSolver{
				MaxIterations: cfg.GetInt("Composition.MaxIterations"),
				Tolerance:     cfg.GetFloat64("Composition.Tolerance"),
			},
			MaxIterations: cfg.GetInt("Temperature.MaxIterations"),
			Tolerance:     cfg.GetFloat64("Temperature.Tolerance"),
		},
	}
	var err error
	if c.PropellantFile, err = checkInputFile("Propellant", cfg.GetString("Propellant")); err != nil {
		return nil, err
	}
	if c.CatalogFile, err = checkInputFile("Catalog", cfg.GetString("Catalog")); err != nil {
		return nil, err
	}
	if sweep {
		c.Pressures, err = toFloat64SliceE(cfg.Get("Pressures"))
		if err != nil {
			return nil, fmt.Errorf("adiabat: Pressures: %v", err)
		}
		if len(c.Pressures) == 0 {
			return nil, fmt.Errorf("adiabat: Pressures is not specified")
		}
	} else {
		c.Pressures = []float64{cfg.GetFloat64("Pressure")}
	}
	for _, p := range c.Pressures {
		if !(p > 0) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("adiabat: pressure=%g but should be >0", p)
		}
	}
	if c.TMin < 0 || c.TMax < 0 || (c.TMin != 0 && c.TMax != 0 && c.TMin >= c.TMax) {
		return nil, fmt.Errorf("adiabat: invalid temperature bounds TMin=%g, TMax=%g", c.TMin, c.TMax)
	}
	if c.OutputFile, err = checkOutputFile(cfg.GetString("OutputFile")); err != nil {
		return nil, err
	}
	for _, f := range []string{c.XLSXFile, c.PlotFile} {
		if f == "" {
			continue
		}
		if _, err := checkOutputFile(f); err != nil {
			return nil, err
		}
	}
	c.LogFile = checkLogFile(os.ExpandEnv(cfg.GetString("LogFile")), c.OutputFile)

	vars, err := GetStringMapString("OutputVariables", cfg)
	if err != nil {
		return nil, err
	}
	c.OutputVariables = checkOutputVars(vars)

	composition := c.Solver.Composition.(adiabat.InteriorPointSolver)
	intVars := []int{c.Solver.MaxIterations, composition.MaxIterations}
	floatVars := []float64{c.Solver.Tolerance, composition.Tolerance}
	names := []string{"Temperature", "Composition"}
	for i := range names {
		if intVars[i] < 0 {
			return nil, fmt.Errorf("adiabat: %s.MaxIterations=%d but should be >=0", names[i], intVars[i])
		}
		if floatVars[i] < 0 || math.IsNaN(floatVars[i]) {
			return nil, fmt.Errorf("adiabat: %s.Tolerance=%g but should be >=0", names[i], floatVars[i])
		}
	}
	return c, nil
}

// bounds returns the temperature search bounds, filling in any that are
// unset from the temperature windows of the catalog species.
func (c *Config) bounds(catalog []adiabat.Species) (tMin, tMax float64) {
	const delta = 1.e-3
	tMin, tMax = c.TMin, c.TMax
	lo, hi := adiabat.CatalogBounds(catalog)
	if tMin == 0 {
		tMin = lo + delta
	}
	if tMax == 0 {
		tMax = hi - delta
	}
	return tMin, tMax
}

// checkInputFile makes sure that the input file is specified and expands
// any environment variables.
func checkInputFile(name, f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("adiabat: you need to specify the %s configuration variable", name)
	}
	return os.ExpandEnv(f), nil
}

// checkOutputVars removes end lines and expands environment
// variables in the output variables.
func checkOutputVars(vars map[string]string) map[string]string {
	o := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		o[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return o
}

// checkOutputFile expands any environment variables in the output file
// path and makes sure that its directory exists. An empty path is
// allowed.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", nil
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("adiabat: the directory of output file %s doesn't exist: %v", f, err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" && outputFile != "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}

// toFloat64SliceE converts a list option to floats. The option may be a
// list from a configuration file, a list of strings, or a string from a
// command line argument.
func toFloat64SliceE(s interface{}) ([]float64, error) {
	var items []interface{}
	switch v := s.(type) {
	case []float64:
		return v, nil
	case []interface{}:
		items = v
	case []string:
		for _, val := range v {
			items = append(items, val)
		}
	case string:
		v = strings.TrimSpace(strings.Trim(v, "[]"))
		if v == "" {
			return nil, nil
		}
		for _, val := range strings.Split(v, ",") {
			items = append(items, strings.TrimSpace(val))
		}
	default:
		return nil, fmt.Errorf("invalid type %T", s)
	}
	o := make([]float64, len(items))
	for i, val := range items {
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return nil, err
		}
		o[i] = f
	}
	return o, nil
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case nil:
		return map[string]string{}, nil
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		o := make(map[string]string)
		if strings.TrimSpace(v) == "" {
			return o, nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("adiabat: parsing %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("adiabat: invalid type for %s: %#v", varName, i)
	}
}
