// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"sort"

	"github.com/kvbench/benchviz/benchdata"
)

// A ScalePoint is one point of a thread-scaling curve.
type ScalePoint struct {
	Threads       int     `json:"threads"`
	Throughput    float64 `json:"throughput"`
	DataStructure string  `json:"data_structure"`
}

// Scalability maps database → workload → scaling curve.
type Scalability = Map[*Map[[]ScalePoint]]

// ComputeScalability groups the records of ds by database and then by
// workload. Each curve is sorted by thread count; points with equal
// thread counts keep their record order.
func ComputeScalability(ds *benchdata.Dataset) (*Scalability, error) {
	if err := check(ds); err != nil {
		return nil, err
	}
	s := new(Scalability)
	for _, r := range ds.Records {
		byWorkload := s.GetOrInit(r.Database, func() *Map[[]ScalePoint] {
			return new(Map[[]ScalePoint])
		})
		pts, _ := byWorkload.Get(r.Workload)
		byWorkload.Set(r.Workload, append(pts, ScalePoint{
			Threads:       r.Threads,
			Throughput:    r.Throughput.Float64(),
			DataStructure: r.DataStructure,
		}))
	}
	for _, db := range s.keys {
		byWorkload := s.vals[db]
		for _, w := range byWorkload.keys {
			pts := byWorkload.vals[w]
			sort.SliceStable(pts, func(i, j int) bool {
				return pts[i].Threads < pts[j].Threads
			})
		}
	}
	return s, nil
}
