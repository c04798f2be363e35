// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"math"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/kvbench/benchviz/benchdata"
)

// A SummaryRow aggregates every run of one database on one workload,
// across all thread counts.
type SummaryRow struct {
	Database          string  `json:"database"`
	Workload          string  `json:"workload"`
	Runs              int     `json:"runs"`
	MeanThroughput    float64 `json:"mean_throughput"`
	MinThroughput     float64 `json:"min_throughput"`
	MaxThroughput     float64 `json:"max_throughput"`
	GeoMeanThroughput float64 `json:"geomean_throughput"`
	MeanLatency       float64 `json:"mean_latency"`
}

// ComputeSummary aggregates ds by database and workload. Rows are
// ordered by database, then by workload, each in order of first
// appearance. A statistic that is undefined for its inputs (such as
// the geometric mean of a negative throughput) is reported as 0.
func ComputeSummary(ds *benchdata.Dataset) ([]SummaryRow, error) {
	if err := check(ds); err != nil {
		return nil, err
	}
	rows := []SummaryRow{}
	if ds.Len() == 0 {
		return rows, nil
	}

	n := ds.Len()
	dbs := make([]string, 0, n)
	workloads := make([]string, 0, n)
	throughput := make([]float64, 0, n)
	latency := make([]float64, 0, n)
	for _, r := range ds.Records {
		dbs = append(dbs, r.Database)
		workloads = append(workloads, r.Workload)
		throughput = append(throughput, r.Throughput.Float64())
		latency = append(latency, r.ReadAvgLatency.Float64())
	}
	tab := new(table.Builder).
		Add("database", dbs).
		Add("workload", workloads).
		Add("throughput", throughput).
		Add("latency", latency).
		Done()

	agg := ggstat.Agg("database", "workload")(
		ggstat.AggCount("runs"),
		ggstat.AggMean("throughput", "latency"),
		ggstat.AggMin("throughput"),
		ggstat.AggMax("throughput"),
		ggstat.AggGeoMean("throughput"),
	)
	t := table.Flatten(agg.F(tab))

	var (
		outDB   = t.MustColumn("database").([]string)
		outWL   = t.MustColumn("workload").([]string)
		runs    = t.MustColumn("runs").([]int)
		mean    = t.MustColumn("mean throughput").([]float64)
		min     = t.MustColumn("min throughput").([]float64)
		max     = t.MustColumn("max throughput").([]float64)
		geomean = t.MustColumn("geomean throughput").([]float64)
		meanLat = t.MustColumn("mean latency").([]float64)
	)
	for i := range outDB {
		rows = append(rows, SummaryRow{
			Database:          outDB[i],
			Workload:          outWL[i],
			Runs:              runs[i],
			MeanThroughput:    defined(mean[i]),
			MinThroughput:     defined(min[i]),
			MaxThroughput:     defined(max[i]),
			GeoMeanThroughput: defined(geomean[i]),
			MeanLatency:       defined(meanLat[i]),
		})
	}
	return rows, nil
}

// defined maps NaN and infinities, which cannot be encoded as JSON,
// to 0.
func defined(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
