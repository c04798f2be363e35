// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Kvimport stores benchmark results documents in a SQL database, where
// kvserver can serve them with -data sqlite3:dsn or -data mysql:dsn.
//
// Usage:
//
//	kvimport [-db driver:dsn] file...
//
// Each file is stored as a new dataset, in order, so the last file
// named becomes the dataset that is served.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/kvbench/benchviz/internal/sourceurl"
	"github.com/kvbench/benchviz/source"
	"github.com/kvbench/benchviz/storage/db"
	_ "github.com/kvbench/benchviz/storage/db/sqlite3"
)

var (
	dbName = flag.String("db", "sqlite3:benchviz.db", "store datasets in `driver:dsn` (sqlite3 or mysql)")
	dryRun = flag.Bool("n", false, "decode the files but do not store them")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage of kvimport:
	kvimport [flags] file...
`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("kvimport: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
	}

	driver, dsn, ok := sourceurl.SplitDSN(*dbName)
	if !ok {
		log.Fatalf("-db %q: want sqlite3:dsn or mysql:dsn", *dbName)
	}
	var d *db.DB
	if !*dryRun {
		var err error
		d, err = db.OpenSQL(driver, dsn)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer d.Close()
	}

	ctx := context.Background()
	for _, file := range flag.Args() {
		ds, err := source.File{Path: file}.Load(ctx)
		if err != nil {
			log.Fatal(err)
		}
		if ds == nil {
			log.Fatalf("%s: no such file", file)
		}
		if err := ds.Err(); err != nil {
			log.Fatalf("%s: %v", file, err)
		}
		if d == nil {
			fmt.Printf("%s: %d records\n", file, ds.Len())
			continue
		}
		id, err := d.InsertDataset(ctx, ds)
		if err != nil {
			log.Fatalf("%s: %v", file, err)
		}
		fmt.Printf("%s: %d records stored as dataset %d\n", file, ds.Len(), id)
	}
}
