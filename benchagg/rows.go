// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import "github.com/kvbench/benchviz/benchdata"

// A LatencyRow is one record's read latencies.
type LatencyRow struct {
	Database      string  `json:"database"`
	DataStructure string  `json:"data_structure"`
	Workload      string  `json:"workload"`
	Threads       int     `json:"threads"`
	AvgLatency    float64 `json:"avg_latency"`
	P95Latency    float64 `json:"p95_latency"`
	P99Latency    float64 `json:"p99_latency"`
	Throughput    float64 `json:"throughput"`
}

// ComputeLatencyTable projects every record of ds to a LatencyRow,
// in order.
func ComputeLatencyTable(ds *benchdata.Dataset) ([]LatencyRow, error) {
	if err := check(ds); err != nil {
		return nil, err
	}
	rows := make([]LatencyRow, 0, len(ds.Records))
	for _, r := range ds.Records {
		rows = append(rows, LatencyRow{
			Database:      r.Database,
			DataStructure: r.DataStructure,
			Workload:      r.Workload,
			Threads:       r.Threads,
			AvgLatency:    r.ReadAvgLatency.Float64(),
			P95Latency:    r.ReadP95Latency.Float64(),
			P99Latency:    r.ReadP99Latency.Float64(),
			Throughput:    r.Throughput.Float64(),
		})
	}
	return rows, nil
}

// A HeatmapRow is one cell of the database × workload heatmap.
// Latency is the average read latency.
type HeatmapRow struct {
	Database      string  `json:"database"`
	DataStructure string  `json:"data_structure"`
	Workload      string  `json:"workload"`
	Threads       int     `json:"threads"`
	Throughput    float64 `json:"throughput"`
	Latency       float64 `json:"latency"`
}

// ComputeHeatmapRows projects every record of ds to a HeatmapRow, in
// order.
func ComputeHeatmapRows(ds *benchdata.Dataset) ([]HeatmapRow, error) {
	if err := check(ds); err != nil {
		return nil, err
	}
	rows := make([]HeatmapRow, 0, len(ds.Records))
	for _, r := range ds.Records {
		rows = append(rows, HeatmapRow{
			Database:      r.Database,
			DataStructure: r.DataStructure,
			Workload:      r.Workload,
			Threads:       r.Threads,
			Throughput:    r.Throughput.Float64(),
			Latency:       r.ReadAvgLatency.Float64(),
		})
	}
	return rows, nil
}

// WorkloadSlice returns the records of ds whose workload is name, in
// order and unmodified. If there are none, it returns a
// *NotFoundError.
func WorkloadSlice(ds *benchdata.Dataset, name string) ([]benchdata.Record, error) {
	if err := check(ds); err != nil {
		return nil, err
	}
	var out []benchdata.Record
	for _, r := range ds.Records {
		if r.Workload == name {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, &NotFoundError{Workload: name}
	}
	return out, nil
}
