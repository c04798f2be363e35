// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"encoding/json"

	"github.com/kvbench/benchviz/benchdata"
)

// A BestPerformer is the highest-throughput record of one workload.
// Database and DataStructure are nil when no record qualified.
type BestPerformer struct {
	Database      *string `json:"database"`
	DataStructure *string `json:"data_structure"`
	Throughput    float64 `json:"throughput"`
}

// An Overview is the dashboard summary: the best performer of each
// well-known workload and the dataset's metadata.
type Overview struct {
	BestPerformers Map[BestPerformer] `json:"best_performers"`
	Metadata       json.RawMessage    `json:"metadata"`
}

// ComputeOverview finds the best performer of each workload in
// benchdata.Workloads.
//
// A record replaces the current best only if its throughput is
// strictly greater, starting from 0, so ties go to the earliest
// record and a workload whose records all report 0 has no best
// performer.
func ComputeOverview(ds *benchdata.Dataset) (*Overview, error) {
	if err := check(ds); err != nil {
		return nil, err
	}
	o := &Overview{Metadata: ds.Metadata}
	if o.Metadata == nil {
		o.Metadata = json.RawMessage("null")
	}
	for _, w := range benchdata.Workloads {
		o.BestPerformers.Set(w, best(ds.Records, w))
	}
	return o, nil
}

func best(records []benchdata.Record, workload string) BestPerformer {
	var bp BestPerformer
	for i := range records {
		r := &records[i]
		if r.Workload != workload {
			continue
		}
		if t := r.Throughput.Float64(); t > bp.Throughput {
			db, ds := r.Database, r.DataStructure
			bp = BestPerformer{Database: &db, DataStructure: &ds, Throughput: t}
		}
	}
	return bp
}
