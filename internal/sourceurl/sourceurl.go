// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sourceurl opens dataset sources named on the command line.
//
// A source is named by one of:
//
//	path/to/file.json     a local results document
//	gs://bucket/object    a results document in Google Cloud Storage
//	s3://bucket/key       a results document in Amazon S3
//	sqlite3:dsn           the newest dataset in a sqlite3 database
//	mysql:dsn             the newest dataset in a MySQL database
package sourceurl

import (
	"context"
	"io"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/kvbench/benchviz/source"
	"github.com/kvbench/benchviz/source/gcs"
	"github.com/kvbench/benchviz/source/s3"
	"github.com/kvbench/benchviz/storage/db"
	_ "github.com/kvbench/benchviz/storage/db/sqlite3"
	"google.golang.org/api/option"
)

// Options configure the clients of remote sources.
type Options struct {
	// GCSToken, if set, is an OAuth2 access token for GCS
	// requests. Otherwise application default credentials are used.
	GCSToken string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open opens the source named by name. The returned Closer releases
// the source's clients and must be closed when the source is no
// longer used.
func Open(ctx context.Context, name string, opts Options) (source.Source, io.Closer, error) {
	switch {
	case strings.HasPrefix(name, "gs://"):
		bucket, object, err := gcs.ParseURL(name)
		if err != nil {
			return nil, nil, err
		}
		var copts []option.ClientOption
		if opts.GCSToken != "" {
			copts = append(copts, gcs.WithToken(opts.GCSToken))
		}
		src, err := gcs.NewSource(ctx, bucket, object, copts...)
		if err != nil {
			return nil, nil, err
		}
		return src, src, nil
	case strings.HasPrefix(name, "s3://"):
		bucket, key, err := s3.ParseURL(name)
		if err != nil {
			return nil, nil, err
		}
		src, err := s3.NewSource(ctx, bucket, key)
		if err != nil {
			return nil, nil, err
		}
		return src, nopCloser{}, nil
	}
	if driver, dsn, ok := SplitDSN(name); ok {
		d, err := db.OpenSQL(driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		return d, d, nil
	}
	return source.File{Path: name}, nopCloser{}, nil
}

// SplitDSN splits a database source name such as "sqlite3:bench.db"
// into its driver and data source name. ok is false if name does not
// start with a supported driver.
func SplitDSN(name string) (driver, dsn string, ok bool) {
	for _, driver := range []string{"sqlite3", "mysql"} {
		if dsn, ok := strings.CutPrefix(name, driver+":"); ok {
			return driver, dsn, true
		}
	}
	return "", "", false
}
