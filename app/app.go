// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app implements the benchmark dashboard server. Combine an
// App with a dataset source to get an HTTP server.
//
// Every request loads the dataset from the source and recomputes its
// view; the App holds no state between requests.
package app

import (
	"net/http"

	"github.com/kvbench/benchviz/benchagg"
	"github.com/kvbench/benchviz/source"
)

// App serves the dashboard views. Construct an App instance using a
// literal with a Source and call RegisterOnMux to connect it with an
// HTTP server.
type App struct {
	// Source loads the dataset on each request.
	Source source.Source

	// Metrics, if non-nil, records request metrics and is served
	// on /metrics.
	Metrics *Metrics

	// AllowOrigin is sent as Access-Control-Allow-Origin on API
	// responses. The empty string means "*".
	AllowOrigin string

	// StaticDir, if set, is served under /static/.
	StaticDir string
}

// RegisterOnMux registers the app's URLs on mux.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	a.handleAPI(mux, "/api/data", a.data)
	a.handleAPI(mux, "/api/overview", serveView(a, benchagg.ComputeOverview))
	a.handleAPI(mux, "/api/throughput", serveView(a, benchagg.ComputeThroughputMatrix))
	a.handleAPI(mux, "/api/latency", serveView(a, benchagg.ComputeLatencyTable))
	a.handleAPI(mux, "/api/scalability", serveView(a, benchagg.ComputeScalability))
	a.handleAPI(mux, "/api/workload/{name}", a.workload)
	a.handleAPI(mux, "/api/heatmap", serveView(a, benchagg.ComputeHeatmapRows))
	a.handleAPI(mux, "/api/summary", serveView(a, benchagg.ComputeSummary))
	a.handleAPI(mux, "/api/threads", serveView(a, benchagg.ComputeThreadBreakdown))

	mux.HandleFunc("GET /chart/scalability/{file}", a.Metrics.instrument("/chart/scalability", a.scalabilityChart))
	mux.HandleFunc("GET /chart/throughput/{file}", a.Metrics.instrument("/chart/throughput", a.throughputChart))

	mux.HandleFunc("GET /{$}", a.Metrics.instrument("/", a.index))
	if a.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(a.StaticDir))))
	}
	if a.Metrics != nil {
		mux.Handle("GET /metrics", a.Metrics.Handler())
	}
}

// handleAPI registers h on pattern with CORS headers, preflight
// handling and request metrics.
func (a *App) handleAPI(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, a.Metrics.instrument(pattern, a.cors(h)))
}

// cors answers preflight requests and adds the allowed origin to
// every response. Methods other than GET, HEAD and OPTIONS are
// rejected.
func (a *App) cors(h http.HandlerFunc) http.HandlerFunc {
	origin := a.AllowOrigin
	if origin == "" {
		origin = "*"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			h(w, r)
		case http.MethodOptions:
			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
		default:
			w.Header().Set("Allow", "GET, HEAD, OPTIONS")
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" is not supported")
		}
	}
}
