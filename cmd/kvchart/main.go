// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Kvchart renders the dashboard charts of a dataset to files.
//
// Usage:
//
//	kvchart [-data source] [-o dir] [-format png|svg|pdf] [-j n]
//
// Kvchart writes scalability-WORKLOAD.FORMAT for every workload and
// throughput-THREADSt.FORMAT for every thread count in the dataset.
// Path separators in workload names are replaced by underscores.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/alitto/pond"
	"github.com/kvbench/benchviz/benchagg"
	"github.com/kvbench/benchviz/benchdata"
	"github.com/kvbench/benchviz/chart"
	"github.com/kvbench/benchviz/internal/sourceurl"
	"github.com/kvbench/benchviz/source"
	"gonum.org/v1/plot"
)

var (
	data     = flag.String("data", source.DefaultPath, "load the dataset from `source`")
	outDir   = flag.String("o", "charts", "write charts to `dir`")
	format   = flag.String("format", "svg", "image `format`: png, svg or pdf")
	workers  = flag.Int("j", runtime.GOMAXPROCS(0), "render up to `n` charts concurrently")
	gcsToken = flag.String("gcs-token", os.Getenv("GCS_TOKEN"), "OAuth2 access `token` for gs:// sources")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage of kvchart:
	kvchart [flags]
`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("kvchart: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 || *workers < 1 {
		flag.Usage()
	}
	if !slices.Contains(chart.Formats, *format) {
		log.Fatalf("unknown format %q", *format)
	}
	if err := run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

// run loads the dataset named by -data and renders its charts into
// -o. It reports an error if any chart could not be written.
func run(ctx context.Context) error {
	src, closer, err := sourceurl.Open(ctx, *data, sourceurl.Options{GCSToken: *gcsToken})
	if err != nil {
		return fmt.Errorf("opening %s: %v", *data, err)
	}
	defer closer.Close()
	ds, err := src.Load(ctx)
	if err != nil {
		return err
	}
	if ds == nil {
		return fmt.Errorf("%s: no dataset found", *data)
	}

	jobs, err := chartJobs(ds)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*outDir, 0777); err != nil {
		return err
	}

	var (
		mu     sync.Mutex
		failed int
	)
	pool := pond.New(*workers, 0, pond.MinWorkers(*workers))
	for _, job := range jobs {
		pool.Submit(func() {
			file := filepath.Join(*outDir, job.name+"."+*format)
			err := render(file, job.plot, *format)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("%s: %v", file, err)
				failed++
				return
			}
			fmt.Println(file)
		})
	}
	pool.StopAndWait()
	if failed > 0 {
		return fmt.Errorf("%d of %d charts failed", failed, len(jobs))
	}
	return nil
}

// A chartJob builds one chart.
type chartJob struct {
	name string
	plot func() (*plot.Plot, error)
}

// chartJobs returns the charts to render for ds.
func chartJobs(ds *benchdata.Dataset) ([]chartJob, error) {
	s, err := benchagg.ComputeScalability(ds)
	if err != nil {
		return nil, err
	}
	m, err := benchagg.ComputeThroughputMatrix(ds)
	if err != nil {
		return nil, err
	}

	var jobs []chartJob
	threads := make(map[int]bool)
	for _, w := range m.Workloads {
		jobs = append(jobs, chartJob{
			name: "scalability-" + fileName(w),
			plot: func() (*plot.Plot, error) { return chart.Scalability(s, w) },
		})
	}
	for _, r := range ds.Records {
		threads[r.Threads] = true
	}
	var counts []int
	for n := range threads {
		counts = append(counts, n)
	}
	sort.Ints(counts)
	for _, n := range counts {
		jobs = append(jobs, chartJob{
			name: fmt.Sprintf("throughput-%dt", n),
			plot: func() (*plot.Plot, error) { return chart.Throughput(m, n) },
		})
	}
	return jobs, nil
}

// fileName makes name, which comes from the dataset, safe to use as
// a single path element.
func fileName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator || r == 0 {
			return '_'
		}
		return r
	}, name)
}

// render builds a chart and writes it to file.
func render(file string, build func() (*plot.Plot, error), format string) (err error) {
	p, err := build()
	if err != nil {
		return err
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return chart.Write(f, p, format)
}
