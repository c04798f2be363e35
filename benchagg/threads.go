// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"sort"

	"github.com/aclements/go-moremath/stats"
	"github.com/kvbench/benchviz/benchdata"
)

// A ThreadEntry is one workload's throughput at a fixed thread count.
type ThreadEntry struct {
	Workload      string  `json:"workload"`
	Throughput    float64 `json:"throughput"`
	DataStructure string  `json:"data_structure"`
}

// A ThreadGroup is every run of one database at one thread count.
type ThreadGroup struct {
	Entries []ThreadEntry `json:"entries"`

	// GeoMeanThroughput is the geometric mean throughput of
	// Entries. It is 0 if any entry's throughput is not positive.
	GeoMeanThroughput float64 `json:"geomean_throughput"`
}

// A ThreadLevel groups the runs at one thread count by database.
type ThreadLevel struct {
	Threads   int               `json:"threads"`
	Databases Map[*ThreadGroup] `json:"databases"`
}

// ComputeThreadBreakdown groups the records of ds by thread count,
// in increasing order, and then by database in order of first
// appearance. Entries within a group keep their record order.
func ComputeThreadBreakdown(ds *benchdata.Dataset) ([]*ThreadLevel, error) {
	if err := check(ds); err != nil {
		return nil, err
	}
	byThreads := make(map[int]*ThreadLevel)
	levels := []*ThreadLevel{}
	for _, r := range ds.Records {
		l := byThreads[r.Threads]
		if l == nil {
			l = &ThreadLevel{Threads: r.Threads}
			byThreads[r.Threads] = l
			levels = append(levels, l)
		}
		g := l.Databases.GetOrInit(r.Database, func() *ThreadGroup { return new(ThreadGroup) })
		g.Entries = append(g.Entries, ThreadEntry{
			Workload:      r.Workload,
			Throughput:    r.Throughput.Float64(),
			DataStructure: r.DataStructure,
		})
	}
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Threads < levels[j].Threads
	})
	for _, l := range levels {
		for _, db := range l.Databases.keys {
			g := l.Databases.vals[db]
			g.GeoMeanThroughput = geomean(g.Entries)
		}
	}
	return levels, nil
}

func geomean(entries []ThreadEntry) float64 {
	xs := make([]float64, len(entries))
	for i, e := range entries {
		if e.Throughput <= 0 {
			return 0
		}
		xs[i] = e.Throughput
	}
	return defined(stats.GeoMean(xs))
}
