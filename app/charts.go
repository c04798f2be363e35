// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/kvbench/benchviz/benchagg"
	"github.com/kvbench/benchviz/chart"
	"gonum.org/v1/plot"
)

// chartFile splits a chart file name such as "balanced.svg" into its
// name and image format.
func chartFile(file string) (name, format string, err error) {
	ext := path.Ext(file)
	name = strings.TrimSuffix(file, ext)
	format = strings.TrimPrefix(ext, ".")
	if name == "" || !slices.Contains(chart.Formats, format) {
		return "", "", fmt.Errorf("bad chart file %q: want NAME.{%s}", file, strings.Join(chart.Formats, ","))
	}
	return name, format, nil
}

// scalabilityChart is the handler for /chart/scalability/{workload}.{format}.
func (a *App) scalabilityChart(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	workload, format, err := chartFile(r.PathValue("file"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	ds := a.load(ctx, w, msgNoData)
	if ds == nil {
		return
	}
	s, err := benchagg.ComputeScalability(ds)
	if err != nil {
		writeViewError(ctx, w, err)
		return
	}
	p, err := chart.Scalability(s, workload)
	if err != nil {
		writeViewError(ctx, w, err)
		return
	}
	writeChart(w, r, p, format)
}

// throughputChart is the handler for /chart/throughput/{threads}.{format}.
func (a *App) throughputChart(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	name, format, err := chartFile(r.PathValue("file"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	threads, err := strconv.Atoi(name)
	if err != nil || threads <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("bad thread count %q", name))
		return
	}
	ds := a.load(ctx, w, msgNoData)
	if ds == nil {
		return
	}
	m, err := benchagg.ComputeThroughputMatrix(ds)
	if err != nil {
		writeViewError(ctx, w, err)
		return
	}
	p, err := chart.Throughput(m, threads)
	if errors.Is(err, chart.ErrEmpty) {
		writeError(w, http.StatusNotFound, "no_data", fmt.Sprintf("No data found for %d threads", threads))
		return
	}
	if err != nil {
		writeViewError(ctx, w, err)
		return
	}
	writeChart(w, r, p, format)
}

func writeChart(w http.ResponseWriter, r *http.Request, p *plot.Plot, format string) {
	var buf bytes.Buffer
	if err := chart.Write(&buf, p, format); err != nil {
		writeViewError(requestContext(r), w, err)
		return
	}
	w.Header().Set("Content-Type", chart.ContentType(format))
	w.Write(buf.Bytes())
}
