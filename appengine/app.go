// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package appengine contains an App Engine app serving the benchmark
// dashboard.
//
// The dataset comes from Cloud SQL if CLOUDSQL_CONNECTION_NAME is set
// in app.yaml, and otherwise from the GCS object named by DATA_BUCKET
// and DATA_OBJECT.
package appengine

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/kvbench/benchviz/app"
	"github.com/kvbench/benchviz/benchdata"
	"github.com/kvbench/benchviz/source"
	"github.com/kvbench/benchviz/source/gcs"
	"github.com/kvbench/benchviz/storage/db"
	"google.golang.org/appengine"
	aelog "google.golang.org/appengine/log"
)

// connectDB returns a DB initialized from the environment variables set in app.yaml. CLOUDSQL_CONNECTION_NAME, CLOUDSQL_USER, and CLOUDSQL_DATABASE must be set to point to the Cloud SQL instance. CLOUDSQL_PASSWORD can be set if needed.
func connectDB() (*db.DB, error) {
	var (
		connectionName = mustGetenv("CLOUDSQL_CONNECTION_NAME")
		user           = mustGetenv("CLOUDSQL_USER")
		password       = os.Getenv("CLOUDSQL_PASSWORD") // NOTE: password may be empty
		dbName         = mustGetenv("CLOUDSQL_DATABASE")
	)

	return db.OpenSQL("mysql", fmt.Sprintf("%s:%s@cloudsql(%s)/%s", user, password, connectionName, dbName))
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Panicf("%s environment variable not set.", k)
	}
	return v
}

// requestSource returns the dataset source for one request and a
// function releasing it.
func requestSource(ctx context.Context) (source.Source, func(), error) {
	if os.Getenv("CLOUDSQL_CONNECTION_NAME") != "" {
		d, err := connectDB()
		if err != nil {
			return nil, nil, fmt.Errorf("connectDB: %v", err)
		}
		return d, func() { d.Close() }, nil
	}
	object := os.Getenv("DATA_OBJECT")
	if object == "" {
		object = source.DefaultPath
	}
	src, err := gcs.NewSource(ctx, mustGetenv("DATA_BUCKET"), object)
	if err != nil {
		return nil, nil, fmt.Errorf("gcs.NewSource: %v", err)
	}
	return src, func() { src.Close() }, nil
}

var metrics = app.NewMetrics()

// appHandler is the default handler, registered to serve "/".
// It creates a new App instance using the appengine Context and then
// dispatches the request to the App.
func appHandler(w http.ResponseWriter, r *http.Request) {
	ctx := appengine.NewContext(r)
	// GCS clients need to be constructed with an AppEngine
	// context, so we can't actually make the App until the
	// request comes in.
	src, release, err := requestSource(ctx)
	if err != nil {
		aelog.Errorf(ctx, "%v", err)
		http.Error(w, err.Error(), 500)
		return
	}
	defer release()

	mux := http.NewServeMux()
	a := &app.App{
		Source: source.Func(func(context.Context) (*benchdata.Dataset, error) {
			return src.Load(ctx)
		}),
		Metrics:     metrics,
		AllowOrigin: os.Getenv("ALLOW_ORIGIN"),
	}
	a.RegisterOnMux(mux)
	mux.ServeHTTP(w, r)
}

func init() {
	http.HandleFunc("/", appHandler)
}
