// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchdata provides the data model for key-value store
// benchmark results and a lenient decoder for the JSON results
// document.
//
// A results document has two top-level members: "metadata", an
// opaque object that is passed through verbatim, and "data", an array
// of benchmark records. Each record describes one run of one workload
// against one database at one thread count.
//
// Decoding is total over the four optional measurement fields: a
// missing, null or malformed measurement reads as 0 rather than
// failing the whole document. Decoded records remember their original
// bytes so that they can be served back unmodified.
package benchdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Well-known workload names. Other workload names are passed through
// untouched.
const (
	Balanced   = "balanced"
	ReadHeavy  = "read_heavy"
	WriteHeavy = "write_heavy"
	RangeQuery = "range_query"
)

// Workloads lists the well-known workloads in their canonical order.
var Workloads = []string{Balanced, ReadHeavy, WriteHeavy, RangeQuery}

// A Record is a single benchmark measurement.
type Record struct {
	Database      string `json:"database"`
	DataStructure string `json:"data_structure"`
	Workload      string `json:"workload"`
	Threads       int    `json:"threads"`

	Throughput     Number `json:"run_throughput_ops_sec"`
	ReadAvgLatency Number `json:"run_read_avg_latency_us"`
	ReadP95Latency Number `json:"run_read_95p_latency_us"`
	ReadP99Latency Number `json:"run_read_99p_latency_us"`

	// raw is the JSON object this record was decoded from, if any.
	raw json.RawMessage
}

// record has Record's fields without its methods, so it can be
// decoded and encoded with the default rules.
type record Record

// DecodeRecord decodes a single JSON record object.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, err
	}
	return r, nil
}

// UnmarshalJSON implements json.Unmarshaler. It keeps a copy of data
// so the record can later be encoded exactly as it was read.
//
// Members are matched by their exact names. Unlike the default
// decoding rules, a member whose name differs only in case (such as
// "Threads") is an unmodeled member and is ignored.
func (r *Record) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}
	var tmp Record
	for _, f := range []struct {
		name string
		dst  interface{}
	}{
		{"database", &tmp.Database},
		{"data_structure", &tmp.DataStructure},
		{"workload", &tmp.Workload},
		{"run_throughput_ops_sec", &tmp.Throughput},
		{"run_read_avg_latency_us", &tmp.ReadAvgLatency},
		{"run_read_95p_latency_us", &tmp.ReadP95Latency},
		{"run_read_99p_latency_us", &tmp.ReadP99Latency},
	} {
		if v, ok := members[f.name]; ok {
			if err := json.Unmarshal(v, f.dst); err != nil {
				return fmt.Errorf("decoding record: %s: %w", f.name, err)
			}
		}
	}
	if v, ok := members["threads"]; ok {
		n, err := decodeThreads(v)
		if err != nil {
			return fmt.Errorf("decoding record: threads: %w", err)
		}
		tmp.Threads = n
	}
	tmp.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	*r = tmp
	return nil
}

// decodeThreads decodes a thread count. Integral numbers written with
// a fraction or exponent, such as 8.0, are accepted.
func decodeThreads(data json.RawMessage) (int, error) {
	var num *json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return 0, err
	}
	if num == nil {
		return 0, nil
	}
	if n, err := strconv.Atoi(num.String()); err == nil {
		return n, nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%s is not an integer", num)
	}
	return int(f), nil
}

// MarshalJSON implements json.Marshaler. Records that were decoded
// are encoded verbatim, including members this package does not
// model. Records built in code are encoded from their fields.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	return json.Marshal(record(r))
}

// Raw returns the bytes r was decoded from, or nil if r was built in
// code. The caller must not modify the returned slice.
func (r Record) Raw() json.RawMessage {
	return r.raw
}
