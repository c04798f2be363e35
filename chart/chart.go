// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders benchmark views as images.
package chart

import (
	"errors"
	"fmt"
	"io"

	"github.com/kvbench/benchviz/benchagg"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Formats lists the image formats Write supports.
var Formats = []string{"png", "svg", "pdf"}

// Size is the width and height of rendered charts.
var Size = struct{ Width, Height vg.Length }{8 * vg.Inch, 5 * vg.Inch}

// ErrEmpty is returned when a chart would have nothing to draw.
var ErrEmpty = errors.New("chart: no data to plot")

// Scalability plots throughput against thread count for workload.
// Each database and data structure pair gets its own line, in the
// order the scalability view discovered them.
//
// If no database measured workload, Scalability returns a
// *benchagg.NotFoundError.
func Scalability(s *benchagg.Scalability, workload string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Scalability: %s", workload)
	p.X.Label.Text = "threads"
	p.Y.Label.Text = "throughput (ops/sec)"
	p.Legend.Top = true
	p.Legend.Left = true

	var lines []interface{}
	for _, db := range s.Keys() {
		byWorkload, _ := s.Get(db)
		pts, ok := byWorkload.Get(workload)
		if !ok {
			continue
		}
		var (
			names []string
			curve = make(map[string]plotter.XYs)
		)
		for _, pt := range pts {
			name := db
			if pt.DataStructure != "" {
				name = db + " " + pt.DataStructure
			}
			if _, ok := curve[name]; !ok {
				names = append(names, name)
			}
			curve[name] = append(curve[name], plotter.XY{X: float64(pt.Threads), Y: pt.Throughput})
		}
		for _, name := range names {
			lines = append(lines, name, curve[name])
		}
	}
	if len(lines) == 0 {
		return nil, &benchagg.NotFoundError{Workload: workload}
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return nil, err
	}
	return p, nil
}

// Throughput draws a grouped bar chart of the throughput matrix at
// one thread count: one group per database, one bar per workload.
// Missing cells are drawn as zero. It returns ErrEmpty if no database
// ran with threads threads.
func Throughput(m *benchagg.ThroughputMatrix, threads int) (*plot.Plot, error) {
	var dbs []string
	var rows []*benchagg.Map[float64]
	for _, db := range m.Databases {
		if row, ok := m.Matrix.Get(benchagg.MatrixKey(db, threads)); ok {
			dbs = append(dbs, db)
			rows = append(rows, row)
		}
	}
	if len(dbs) == 0 {
		return nil, fmt.Errorf("%w: no runs with %d threads", ErrEmpty, threads)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Throughput at %d threads", threads)
	p.Y.Label.Text = "throughput (ops/sec)"
	p.Legend.Top = true

	width := vg.Points(60) / vg.Length(len(m.Workloads))
	for i, w := range m.Workloads {
		vals := make(plotter.Values, len(rows))
		for j, row := range rows {
			vals[j], _ = row.Get(w)
		}
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return nil, err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = width * vg.Length(2*i-len(m.Workloads)+1) / 2
		p.Add(bars)
		p.Legend.Add(w, bars)
	}
	p.NominalX(dbs...)
	return p, nil
}

// Write renders p to w in format, which must be one of Formats.
func Write(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(Size.Width, Size.Height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "svg":
		return "image/svg+xml"
	case "pdf":
		return "application/pdf"
	}
	return "application/octet-stream"
}
