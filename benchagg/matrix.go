// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"fmt"
	"sort"

	"github.com/kvbench/benchviz/benchdata"
)

// A ThroughputMatrix holds throughput by configuration and workload,
// for rendering as a heatmap.
type ThroughputMatrix struct {
	// Matrix maps a configuration key (see MatrixKey) to the
	// throughput of each workload measured for that configuration.
	Matrix Map[*Map[float64]] `json:"matrix"`

	// Workloads and Databases are the distinct workload and
	// database names in the dataset, sorted.
	Workloads []string `json:"workloads"`
	Databases []string `json:"databases"`
}

// MatrixKey returns the matrix key of a database run with threads
// threads, for example "rocksdb_8t".
func MatrixKey(database string, threads int) string {
	return fmt.Sprintf("%s_%dt", database, threads)
}

// ComputeThroughputMatrix builds the throughput matrix of ds. When
// several records share a configuration and workload, the last one
// wins.
func ComputeThroughputMatrix(ds *benchdata.Dataset) (*ThroughputMatrix, error) {
	if err := check(ds); err != nil {
		return nil, err
	}
	m := new(ThroughputMatrix)
	workloads := make(map[string]bool)
	databases := make(map[string]bool)
	for _, r := range ds.Records {
		row := m.Matrix.GetOrInit(MatrixKey(r.Database, r.Threads), func() *Map[float64] {
			return new(Map[float64])
		})
		row.Set(r.Workload, r.Throughput.Float64())
		workloads[r.Workload] = true
		databases[r.Database] = true
	}
	m.Workloads = sortedKeys(workloads)
	m.Databases = sortedKeys(databases)
	return m, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
