// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kvbench/benchviz/benchagg"
	"github.com/kvbench/benchviz/benchdata"
)

const doc = `{"data": [
{"database": "redis", "data_structure": "hash", "workload": "balanced", "threads": 1, "run_throughput_ops_sec": 100},
{"database": "redis", "data_structure": "hash", "workload": "balanced", "threads": 4, "run_throughput_ops_sec": 350},
{"database": "rocksdb", "data_structure": "lsm", "workload": "balanced", "threads": 1, "run_throughput_ops_sec": 80},
{"database": "rocksdb", "data_structure": "lsm", "workload": "read_heavy", "threads": 1, "run_throughput_ops_sec": 120}
]}`

func dataset(t *testing.T) *benchdata.Dataset {
	t.Helper()
	ds, err := benchdata.Unmarshal([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestScalability(t *testing.T) {
	s, err := benchagg.ComputeScalability(dataset(t))
	if err != nil {
		t.Fatal(err)
	}
	p, err := Scalability(s, "balanced")
	if err != nil {
		t.Fatalf("Scalability: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, p, "svg"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<svg", "redis hash", "rocksdb lsm"} {
		if !strings.Contains(out, want) {
			t.Errorf("svg output does not contain %q", want)
		}
	}

	_, err = Scalability(s, "write_heavy")
	var nf *benchagg.NotFoundError
	if !errors.As(err, &nf) || nf.Workload != "write_heavy" {
		t.Errorf("Scalability(write_heavy) error = %v, want NotFoundError", err)
	}
}

func TestThroughput(t *testing.T) {
	m, err := benchagg.ComputeThroughputMatrix(dataset(t))
	if err != nil {
		t.Fatal(err)
	}
	p, err := Throughput(m, 1)
	if err != nil {
		t.Fatalf("Throughput: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, p, "png"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Errorf("png output does not start with PNG magic (%d bytes)", buf.Len())
	}

	if _, err := Throughput(m, 64); !errors.Is(err, ErrEmpty) {
		t.Errorf("Throughput(64) error = %v, want ErrEmpty", err)
	}
}

func TestWriteBadFormat(t *testing.T) {
	m, err := benchagg.ComputeThroughputMatrix(dataset(t))
	if err != nil {
		t.Fatal(err)
	}
	p, err := Throughput(m, 1)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, p, "bmp"); err == nil {
		t.Errorf("Write(bmp) succeeded, want error")
	}
}
