// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kvbench/benchviz/benchagg"
	"github.com/kvbench/benchviz/benchdata"
)

// Messages of the error envelopes.
const (
	msgNoDataset  = "No synthesized data found."
	msgNoData     = "No data found."
	msgProcessing = "Failed to process data."
	msgLoad       = "Failed to load data."
)

// errorBody is the JSON body of every failed API request.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError writes an error envelope with the given status.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	body, _ := json.Marshal(errorBody{Error: msg, Code: code})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	w.Write(body)
	w.Write([]byte("\n"))
}

// writeJSON writes v as a successful JSON response. The value is
// encoded before anything is written, so an encoding failure can
// still be reported as an error envelope.
func writeJSON(ctx context.Context, w http.ResponseWriter, v interface{}) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		errorf(ctx, "encoding response: %v", err)
		writeError(w, http.StatusInternalServerError, "processing_failed", msgProcessing)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

// load loads the dataset for a request. If the dataset is absent or
// cannot be loaded, load writes the error response and returns nil.
// absentMsg is the message used when the source has no dataset.
func (a *App) load(ctx context.Context, w http.ResponseWriter, absentMsg string) *benchdata.Dataset {
	if a.Source == nil {
		writeError(w, http.StatusNotFound, "no_data", absentMsg)
		return nil
	}
	ds, err := a.Source.Load(ctx)
	if err != nil {
		errorf(ctx, "loading dataset from %v: %v", a.Source, err)
		a.Metrics.loadFailed()
		writeError(w, http.StatusInternalServerError, "load_failed", msgLoad)
		return nil
	}
	if ds == nil {
		writeError(w, http.StatusNotFound, "no_data", absentMsg)
		return nil
	}
	return ds
}

// writeViewError reports a failure to compute a view.
func writeViewError(ctx context.Context, w http.ResponseWriter, err error) {
	var nf *benchagg.NotFoundError
	switch {
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, "workload_not_found", fmt.Sprintf("No data found for workload %s", nf.Workload))
	default:
		errorf(ctx, "computing view: %v", err)
		writeError(w, http.StatusInternalServerError, "processing_failed", msgProcessing)
	}
}

// serveView returns a handler that loads the dataset and responds
// with compute's view of it.
func serveView[T any](a *App, compute func(*benchdata.Dataset) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := requestContext(r)
		ds := a.load(ctx, w, msgNoData)
		if ds == nil {
			return
		}
		v, err := compute(ds)
		if err != nil {
			writeViewError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, v)
	}
}

// data is the handler for /api/data. It responds with the whole
// dataset, records unmodified.
func (a *App) data(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	ds := a.load(ctx, w, msgNoDataset)
	if ds == nil {
		return
	}
	if err := ds.Err(); err != nil {
		writeViewError(ctx, w, fmt.Errorf("%w: %v", benchagg.ErrProcessing, err))
		return
	}
	writeJSON(ctx, w, ds)
}

// workload is the handler for /api/workload/{name}.
func (a *App) workload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	serveView(a, func(ds *benchdata.Dataset) ([]benchdata.Record, error) {
		return benchagg.WorkloadSlice(ds, name)
	})(w, r)
}
