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
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/ctessum/requestcache"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/adiabat"
	"github.com/spatialmodel/adiabat/internal/hash"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// sweep calculates the equilibrium at each of c.Pressures. Each pressure
// is an independent request with its own warm start; requests run
// concurrently and repeated pressures are calculated once.
func sweep(log logrus.FieldLogger, c *Config, propellant *adiabat.Propellant, catalog []adiabat.Species, tMin, tMax float64, o *adiabat.Outputter) ([]*Solution, error) {
	n := c.NumProcessors
	if n < 1 {
		n = runtime.GOMAXPROCS(-1)
	}
	cache := requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
		return solve(log, &c.Solver, request.(*adiabat.Request), o)
	}, n, requestcache.Deduplicate(), requestcache.Memory(len(c.Pressures)))

	base := hash.Key(propellant, catalog, tMin, tMax, c.Solver)
	log.WithFields(logrus.Fields{
		"pressures":  len(c.Pressures),
		"processors": n,
	}).Info("starting sweep")

	solutions := make([]*Solution, len(c.Pressures))
	var g errgroup.Group
	for i, p := range c.Pressures {
		i, p := i, p
		g.Go(func() error {
			req := cache.NewRequest(context.TODO(),
				&adiabat.Request{
					Pressure:   p,
					Propellant: propellant,
					Catalog:    catalog,
					TMin:       tMin,
					TMax:       tMax,
				},
				fmt.Sprintf("%s_%g", base, p),
			)
			result, err := req.Result()
			if err != nil {
				return fmt.Errorf("adiabat: pressure %g Pa: %w", p, err)
			}
			solutions[i] = result.(*Solution)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return solutions, nil
}

// PlotSweep plots the temperatures of solutions against their pressures
// and saves the plot to path. The image format is chosen by the file
// extension.
func PlotSweep(path string, solutions []*Solution) error {
	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("adiabat: creating plot: %v", err)
	}
	p.Title.Text = "Adiabatic temperature"
	p.X.Label.Text = "Pressure [Pa]"
	p.Y.Label.Text = "Temperature [K]"

	xys := make(plotter.XYs, len(solutions))
	for i, s := range solutions {
		xys[i].X = s.Pressure
		xys[i].Y = s.Temperature
	}
	sort.Slice(xys, func(i, j int) bool { return xys[i].X < xys[j].X })
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("adiabat: plotting sweep: %v", err)
	}
	p.Add(plotter.NewGrid(), line, points)
	if err := p.Save(4*vg.Inch, 3*vg.Inch, path); err != nil {
		return fmt.Errorf("adiabat: saving plot: %v", err)
	}
	return nil
}
