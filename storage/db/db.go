// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db stores benchmark datasets in a SQL database.
//
// A DB holds any number of imported datasets. As a dataset source it
// serves the most recently imported one.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/kvbench/benchviz/benchdata"
)

// DB is a high-level interface to a database of benchmark datasets.
// It's safe for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRecord *sql.Stmt
	lastDataset  *sql.Stmt
	listRecords  *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		d.closeStatements()
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to configure its connections.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Datasets (
	DatasetID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Metadata BLOB
);
CREATE TABLE IF NOT EXISTS Records (
	DatasetID BIGINT UNSIGNED,
	RecordID BIGINT UNSIGNED,
	Content BLOB,
	PRIMARY KEY (DatasetID, RecordID),
	FOREIGN KEY (DatasetID) REFERENCES Datasets(DatasetID) ON UPDATE CASCADE ON DELETE CASCADE
);
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertRecord, err = db.sql.Prepare("INSERT INTO Records(DatasetID, RecordID, Content) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	db.lastDataset, err = db.sql.Prepare("SELECT DatasetID, Metadata FROM Datasets ORDER BY DatasetID DESC LIMIT 1")
	if err != nil {
		return err
	}
	db.listRecords, err = db.sql.Prepare("SELECT Content FROM Records WHERE DatasetID = ? ORDER BY RecordID")
	if err != nil {
		return err
	}
	return nil
}

// InsertDataset stores ds as a new dataset and returns its ID.
// Records are stored exactly as they were decoded, so a later Load
// returns them unmodified. The dataset is stored in a single
// transaction.
func (db *DB) InsertDataset(ctx context.Context, ds *benchdata.Dataset) (id int64, err error) {
	if err := ds.Err(); err != nil {
		return 0, err
	}
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	var metadata []byte
	if ds.Metadata != nil {
		metadata = ds.Metadata
	}
	res, err := tx.ExecContext(ctx, "INSERT INTO Datasets(Metadata) VALUES (?)", metadata)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}
	insert := tx.StmtContext(ctx, db.insertRecord)
	for i, r := range ds.Records {
		content, err := json.Marshal(r)
		if err != nil {
			return 0, err
		}
		if _, err := insert.ExecContext(ctx, id, i, content); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// Load returns the most recently inserted dataset, or nil if the
// database holds no datasets. It implements source.Source.
func (db *DB) Load(ctx context.Context) (*benchdata.Dataset, error) {
	var (
		id       int64
		metadata []byte
	)
	err := db.lastDataset.QueryRowContext(ctx).Scan(&id, &metadata)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rows, err := db.listRecords.QueryContext(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []benchdata.Record
	for rows.Next() {
		var content []byte
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		r, err := benchdata.DecodeRecord(content)
		if err != nil {
			return nil, fmt.Errorf("dataset %d: %w", id, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var md json.RawMessage
	if len(metadata) > 0 {
		md = json.RawMessage(metadata)
	}
	return benchdata.New(md, records), nil
}

// CountDatasets returns the number of datasets stored in db.
func (db *DB) CountDatasets() (int, error) {
	var n int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Datasets").Scan(&n)
	return n, err
}

// DeleteDataset removes the dataset with the given ID and its records.
func (db *DB) DeleteDataset(ctx context.Context, id int64) (err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if _, err := tx.ExecContext(ctx, "DELETE FROM Records WHERE DatasetID = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM Datasets WHERE DatasetID = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("dataset %d not found", id)
	}
	return nil
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.closeStatements(); err != nil {
		return err
	}
	return db.sql.Close()
}

// closeStatements closes the prepared statements that were created.
func (db *DB) closeStatements() error {
	for _, stmt := range []*sql.Stmt{db.insertRecord, db.lastDataset, db.listRecords} {
		if stmt == nil {
			continue
		}
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return nil
}
