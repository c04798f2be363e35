// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for
// github.com/kvbench/benchviz/storage/db. It must be imported
// instead of go-sqlite3 to ensure connections are configured
// correctly.
package sqlite3

import (
	"database/sql"

	"github.com/kvbench/benchviz/storage/db"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	db.RegisterOpenHook("sqlite3", func(d *sql.DB) error {
		// Every connection to ":memory:" is a separate database,
		// and sqlite serializes writers anyway.
		d.SetMaxOpenConns(1)
		_, err := d.Exec("PRAGMA foreign_keys = ON")
		return err
	})
}
