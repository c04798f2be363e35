// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/kvbench/benchviz/benchdata"
	"github.com/kvbench/benchviz/internal/diff"
	. "github.com/kvbench/benchviz/storage/db"
	"github.com/kvbench/benchviz/storage/db/dbtest"
	"github.com/mattn/go-sqlite3"
)

const doc = `{"metadata": {"generator": "ycsb", "date": "2024-05-01"}, "data": [
{"database": "redis", "data_structure": "hash", "workload": "balanced", "threads": 1, "run_throughput_ops_sec": 120000, "load_time_sec": 3.5},
{"database": "rocksdb", "data_structure": "lsm", "workload": "balanced", "threads": 1, "run_throughput_ops_sec": 80000},
{"database": "redis", "data_structure": "hash", "workload": "balanced", "threads": 1, "run_throughput_ops_sec": 121000}
]}`

func mustDecode(t *testing.T, s string) *benchdata.Dataset {
	t.Helper()
	ds, err := benchdata.Unmarshal([]byte(s))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return ds
}

func encode(t *testing.T, ds *benchdata.Dataset) string {
	t.Helper()
	data, err := json.Marshal(ds)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return string(data)
}

// TestLoadEmpty verifies that an empty database is an absent dataset.
func TestLoadEmpty(t *testing.T) {
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()

	ds, err := db.Load(context.Background())
	if ds != nil || err != nil {
		t.Errorf("Load = %v, %v; want nil, nil", ds, err)
	}
}

// TestRoundTrip verifies that a stored dataset loads back unchanged,
// including duplicate records and members the model does not know.
func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()

	in := mustDecode(t, doc)
	if _, err := db.InsertDataset(ctx, in); err != nil {
		t.Fatalf("InsertDataset: %v", err)
	}
	out, err := db.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d := diff.JSON([]byte(encode(t, out)), []byte(encode(t, in))); d != "" {
		t.Errorf("loaded dataset differs: (- have/+ want)\n%s", d)
	}
	if out.Records[0].Throughput != 120000 {
		t.Errorf("Records[0].Throughput = %v, want 120000", out.Records[0].Throughput)
	}
}

// TestLoadLatest verifies that Load serves the newest dataset.
func TestLoadLatest(t *testing.T) {
	ctx := context.Background()
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()

	first, err := db.InsertDataset(ctx, mustDecode(t, doc))
	if err != nil {
		t.Fatalf("InsertDataset: %v", err)
	}
	second, err := db.InsertDataset(ctx, mustDecode(t, `{"data": []}`))
	if err != nil {
		t.Fatalf("InsertDataset: %v", err)
	}
	if second <= first {
		t.Errorf("dataset IDs %d, %d not increasing", first, second)
	}
	if n, err := db.CountDatasets(); err != nil || n != 2 {
		t.Errorf("CountDatasets = %d, %v; want 2", n, err)
	}

	ds, err := db.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if have, want := encode(t, ds), `{"metadata":null,"data":[]}`; have != want {
		t.Errorf("Load = %s, want %s", have, want)
	}

	if err := db.DeleteDataset(ctx, second); err != nil {
		t.Fatalf("DeleteDataset: %v", err)
	}
	ds, err = db.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 3 {
		t.Errorf("after delete, Len() = %d, want 3", ds.Len())
	}
	if err := db.DeleteDataset(ctx, second); err == nil {
		t.Errorf("second DeleteDataset(%d) succeeded, want error", second)
	}
}

// TestInsertMalformed verifies that a dataset without data is rejected.
func TestInsertMalformed(t *testing.T) {
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()

	if _, err := db.InsertDataset(context.Background(), mustDecode(t, `{"metadata": {}}`)); err == nil {
		t.Errorf("InsertDataset(malformed) succeeded, want error")
	}
	var n int
	if err := DBSQL(db).QueryRow("SELECT COUNT(*) FROM Records").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("found %d record rows, want 0", n)
	}
}

// TestOpenFailureCloses verifies that OpenSQL closes the connection
// pool when it cannot finish setting up the database.
func TestOpenFailureCloses(t *testing.T) {
	if !slices.Contains(sql.Drivers(), "sqlite3_openfail") {
		sql.Register("sqlite3_openfail", &sqlite3.SQLiteDriver{})
	}
	var (
		opened   *sql.DB
		hookErr  error
		failHook = errors.New("hook failed")
	)
	RegisterOpenHook("sqlite3_openfail", func(d *sql.DB) error {
		opened = d
		return hookErr
	})

	// The hook fails.
	hookErr = failHook
	if _, err := OpenSQL("sqlite3_openfail", ":memory:"); !errors.Is(err, failHook) {
		t.Fatalf("OpenSQL with failing hook: err = %v, want %v", err, failHook)
	}
	if err := opened.Ping(); err == nil {
		t.Errorf("database still open after failing hook")
	}

	// Table creation fails: the driver name selects MySQL syntax,
	// which sqlite rejects.
	hookErr = nil
	if _, err := OpenSQL("sqlite3_openfail", ":memory:"); err == nil {
		t.Fatalf("OpenSQL with MySQL syntax on sqlite succeeded, want error")
	}
	if err := opened.Ping(); err == nil {
		t.Errorf("database still open after failing to create tables")
	}
}
