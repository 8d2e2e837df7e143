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
	"io"
	"os"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/adiabat"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log receives progress messages from the commands.
var Log = logrus.New()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to Adiabat.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Propellant",
			usage: `
              Propellant is the path to the propellant file, containing
              the propellant enthalpy in J and its elemental composition
              in mol. Files ending in '.toml' are read as TOML and all
              others as JSON. It can include environment variables.`,
			shorthand:  "p",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Catalog",
			usage: `
              Catalog is the path to the JSON file listing the candidate
              combustion products. It can include environment variables.`,
			shorthand:  "c",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Pressure",
			usage: `
              Pressure is the pressure of the combustion products in Pa.`,
			defaultVal: 101325.0,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags()},
		},
		{
			name: "Pressures",
			usage: `
              Pressures is the list of pressures in Pa at which to calculate
              the equilibrium in a sweep.`,
			defaultVal: []string{"1e5", "1e6", "1e7"},
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
		{
			name: "TMin",
			usage: `
              TMin is the lower bound of the temperature search in K. If it
              is zero, it is set to the lowest temperature for which any
              catalog species is valid, plus 1e-3 K.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "TMax",
			usage: `
              TMax is the upper bound of the temperature search in K. If it
              is zero, it is set to the highest temperature for which any
              catalog species is valid, minus 1e-3 K.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the JSON file where the results
              should be written. If it is empty, the results are written to
              standard output. It can include environment variables.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "XLSXFile",
			usage: `
              XLSXFile is an optional path to an Excel workbook where the
              results should additionally be written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is an optional path to an image file where a plot of
              the adiabatic temperature against pressure should be written.
              The image format is chosen by the file extension, for example
              '.png', '.svg', or '.pdf'.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can
              include environment variables. If LogFile is left blank and
              OutputFile is set, the logfile will be saved in the same
              location as the OutputFile with the file extension replaced
              by '.log'.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages to record.
              Valid options are 'debug', 'info', 'warning', and 'error'.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies additional variables to include
              in the output, as expressions of the derived properties
              (for example TotalMoles or HeatCapacityRatio) and of other
              output variables. Functions exp(x), log(x), sqrt(x) and
              pow(x, y) are available.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "NumProcessors",
			usage: `
              NumProcessors is the number of equilibrium calculations to
              run concurrently in a sweep. If it is less than 1, the number
              of available processors is used.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{sweepCmd.Flags()},
		},
		{
			name: "Composition.MaxIterations",
			usage: `
              Composition.MaxIterations is the maximum number of iterations
              of the equilibrium composition calculation at each trial
              temperature.`,
			defaultVal: 5000,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Composition.Tolerance",
			usage: `
              Composition.Tolerance is the convergence tolerance of the
              equilibrium composition calculation.`,
			defaultVal: 1.e-10,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Temperature.MaxIterations",
			usage: `
              Temperature.MaxIterations is the maximum number of iterations
              of the adiabatic temperature search.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), sweepCmd.Flags()},
		},
		{
			name: "Temperature.Tolerance",
			usage: `
              Temperature.Tolerance is the absolute tolerance of the
              adiabatic temperature in K.`,
			defaultVal: 1.e-6,
			flagsets:   []*pflag.FlagSet{solveCmd.Flags(), sweepCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ADIABAT")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(solveCmd)
	Root.AddCommand(sweepCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("adiabat: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("adiabat: invalid LogLevel: %v", err)
	}
	Log.Level = level
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "adiabat",
	Short: "An adiabatic combustion equilibrium calculator.",
	Long: `Adiabat calculates the adiabatic flame temperature and the equilibrium
composition of the combustion products of a propellant at constant pressure.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'ADIABAT_var' where 'var' is the
name of the variable to be set. File path variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of Adiabat.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Adiabat v%s\n", adiabat.Version)
	},
	DisableAutoGenTag: true,
}

// solveCmd is a command that calculates a single equilibrium.
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Calculate the adiabatic equilibrium at one pressure.",
	Long: `solve calculates the adiabatic flame temperature, the equilibrium
composition, and the derived properties of the combustion products of the
propellant at the pressure given by the Pressure option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := RunConfig(Cfg, false)
		if err != nil {
			return err
		}
		return runCommand(cmd, c)
	},
	DisableAutoGenTag: true,
}

// sweepCmd is a command that calculates equilibria over a list of pressures.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Calculate adiabatic equilibria over a range of pressures.",
	Long: `sweep calculates the adiabatic equilibrium at each pressure given by
the Pressures option. The calculations are independent of each other and are
run concurrently. Results are written as a JSON array, and optionally as an
Excel workbook and a plot of temperature against pressure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := RunConfig(Cfg, true)
		if err != nil {
			return err
		}
		return runCommand(cmd, c)
	},
	DisableAutoGenTag: true,
}

// runCommand runs the calculation described by c, logging to standard
// error and to the log file.
func runCommand(cmd *cobra.Command, c *Config) error {
	var stdout io.Writer = os.Stdout
	if cmd != nil {
		cmd.SilenceUsage = true
		stdout = cmd.OutOrStdout()
	}
	closeLog, err := setLogOutput(Log, os.Stderr, c.LogFile)
	if err != nil {
		return err
	}
	defer func() {
		closeLog()
		Log.Out = os.Stderr
	}()
	_, err = Run(Log, stdout, c)
	return err
}
