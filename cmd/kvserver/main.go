// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Kvserver runs an HTTP server for the key-value store benchmark
// dashboard.
//
// Usage:
//
//	kvserver [-addr address] [-data source] [-static dir] [-origin origin] [-h2c]
//
// The -data flag names the dataset: a local file (the default is
// data/synthesized_data.json), gs://bucket/object, s3://bucket/key,
// sqlite3:dsn, or mysql:dsn. The dataset is reloaded on every
// request.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/kvbench/benchviz/app"
	"github.com/kvbench/benchviz/internal/sourceurl"
	"github.com/kvbench/benchviz/source"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

var (
	addr     = flag.String("addr", "localhost:5000", "serve HTTP on `address`")
	data     = flag.String("data", source.DefaultPath, "load the dataset from `source`")
	static   = flag.String("static", "", "serve the files in `dir` under /static/")
	origin   = flag.String("origin", "*", "allow cross-origin API requests from `origin`")
	useH2C   = flag.Bool("h2c", false, "also accept cleartext HTTP/2 connections")
	gcsToken = flag.String("gcs-token", os.Getenv("GCS_TOKEN"), "OAuth2 access `token` for gs:// sources")
	metrics  = flag.Bool("metrics", true, "serve Prometheus metrics on /metrics")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage of kvserver:
	kvserver [flags]
`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("kvserver: ")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 {
		flag.Usage()
	}

	src, closer, err := sourceurl.Open(context.Background(), *data, sourceurl.Options{GCSToken: *gcsToken})
	if err != nil {
		log.Fatalf("opening %s: %v", *data, err)
	}
	defer closer.Close()

	a := &app.App{
		Source:      src,
		AllowOrigin: *origin,
		StaticDir:   *static,
	}
	if *metrics {
		a.Metrics = app.NewMetrics()
	}
	mux := http.NewServeMux()
	a.RegisterOnMux(mux)

	var h http.Handler = mux
	if *useH2C {
		h = h2c.NewHandler(mux, &http2.Server{})
	}

	log.Printf("Serving %s", *data)
	log.Printf("Listening on %s", *addr)

	log.Fatal(http.ListenAndServe(*addr, h))
}
