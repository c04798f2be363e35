// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kvbench/benchviz/benchdata"
	"github.com/kvbench/benchviz/source"
)

const testDoc = `{"metadata": {"title": "Nightly run", "generator": "ycsb", "nodes": 3}, "data": [
{"database": "redis", "data_structure": "hash", "workload": "balanced", "threads": 1, "run_throughput_ops_sec": 100, "run_read_avg_latency_us": 9.5, "extra": "<kept>"},
{"database": "redis", "data_structure": "hash", "workload": "balanced", "threads": 4, "run_throughput_ops_sec": 350},
{"database": "rocksdb", "data_structure": "lsm", "workload": "read_heavy", "threads": 1, "run_throughput_ops_sec": "120"}
]}`

type testApp struct {
	srv *httptest.Server
}

func (app *testApp) Close() {
	app.srv.Close()
}

// createTestApp serves an App whose source returns the dataset
// decoded from doc. An empty doc is an absent dataset.
func createTestApp(t *testing.T, doc string) *testApp {
	t.Helper()
	src := source.Func(func(context.Context) (*benchdata.Dataset, error) {
		if doc == "" {
			return nil, nil
		}
		return benchdata.Unmarshal([]byte(doc))
	})
	return createTestAppWithSource(t, src)
}

func createTestAppWithSource(t *testing.T, src source.Source) *testApp {
	t.Helper()
	mux := http.NewServeMux()
	app := &App{Source: src, Metrics: NewMetrics()}
	app.RegisterOnMux(mux)
	return &testApp{httptest.NewServer(mux)}
}

func (app *testApp) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(app.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return resp, body
}

var apiPaths = []string{
	"/api/data",
	"/api/overview",
	"/api/throughput",
	"/api/latency",
	"/api/scalability",
	"/api/workload/balanced",
	"/api/heatmap",
	"/api/summary",
	"/api/threads",
}

func checkError(t *testing.T, path string, resp *http.Response, body []byte, status int, code, msg string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Errorf("%s: status = %d, want %d", path, resp.StatusCode, status)
	}
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("%s: decoding error body %q: %v", path, body, err)
	}
	if e.Code != code || e.Error != msg {
		t.Errorf("%s: error = %+v, want {Error:%s Code:%s}", path, e, msg, code)
	}
}

func TestAbsent(t *testing.T) {
	app := createTestApp(t, "")
	defer app.Close()

	for _, path := range apiPaths {
		resp, body := app.get(t, path)
		msg := "No data found."
		if path == "/api/data" {
			msg = "No synthesized data found."
		}
		checkError(t, path, resp, body, 404, "no_data", msg)
	}
}

func TestMalformed(t *testing.T) {
	app := createTestApp(t, `{"metadata": {}}`)
	defer app.Close()

	for _, path := range apiPaths {
		resp, body := app.get(t, path)
		checkError(t, path, resp, body, 500, "processing_failed", "Failed to process data.")
	}
}

func TestLoadFailed(t *testing.T) {
	app := createTestAppWithSource(t, source.Func(func(context.Context) (*benchdata.Dataset, error) {
		return nil, errors.New("disk on fire")
	}))
	defer app.Close()

	for _, path := range apiPaths {
		resp, body := app.get(t, path)
		checkError(t, path, resp, body, 500, "load_failed", "Failed to load data.")
	}
}

func TestParseFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{"data": [`), 0666); err != nil {
		t.Fatal(err)
	}
	app := createTestAppWithSource(t, source.File{Path: path})
	defer app.Close()

	resp, body := app.get(t, "/api/overview")
	checkError(t, "/api/overview", resp, body, 500, "load_failed", "Failed to load data.")
}

func TestSuccess(t *testing.T) {
	app := createTestApp(t, testDoc)
	defer app.Close()

	for _, path := range apiPaths {
		resp, body := app.get(t, path)
		if resp.StatusCode != 200 {
			t.Errorf("%s: status = %d, want 200; body %s", path, resp.StatusCode, body)
			continue
		}
		if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s: Content-Type = %q", path, ct)
		}
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("%s: Access-Control-Allow-Origin = %q, want *", path, got)
		}
		var v interface{}
		if err := json.Unmarshal(body, &v); err != nil {
			t.Errorf("%s: invalid JSON: %v", path, err)
			continue
		}
		if m, ok := v.(map[string]interface{}); ok {
			if _, ok := m["error"]; ok {
				t.Errorf("%s: success body has error member: %s", path, body)
			}
		}
	}
}

func TestOverviewBody(t *testing.T) {
	app := createTestApp(t, testDoc)
	defer app.Close()

	_, body := app.get(t, "/api/overview")
	want := `{"best_performers":{` +
		`"balanced":{"database":"redis","data_structure":"hash","throughput":350},` +
		`"read_heavy":{"database":"rocksdb","data_structure":"lsm","throughput":120},` +
		`"write_heavy":{"database":null,"data_structure":null,"throughput":0},` +
		`"range_query":{"database":null,"data_structure":null,"throughput":0}},` +
		`"metadata":{"title":"Nightly run","generator":"ycsb","nodes":3}}` + "\n"
	if string(body) != want {
		t.Errorf("/api/overview:\nhave %s\nwant %s", body, want)
	}
}

func TestWorkload(t *testing.T) {
	app := createTestApp(t, testDoc)
	defer app.Close()

	_, body := app.get(t, "/api/workload/balanced")
	want := `[{"database":"redis","data_structure":"hash","workload":"balanced","threads":1,"run_throughput_ops_sec":100,"run_read_avg_latency_us":9.5,"extra":"<kept>"},` +
		`{"database":"redis","data_structure":"hash","workload":"balanced","threads":4,"run_throughput_ops_sec":350}]` + "\n"
	if string(body) != want {
		t.Errorf("/api/workload/balanced:\nhave %s\nwant %s", body, want)
	}

	resp, body := app.get(t, "/api/workload/scan_only")
	checkError(t, "/api/workload/scan_only", resp, body, 404, "workload_not_found", "No data found for workload scan_only")
}

func TestPreflight(t *testing.T) {
	app := createTestApp(t, testDoc)
	defer app.Close()

	req, err := http.NewRequest(http.MethodOptions, app.srv.URL+"/api/overview", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("OPTIONS Access-Control-Allow-Origin = %q, want *", got)
	}

	resp, err = http.Post(app.srv.URL+"/api/overview", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	checkError(t, "POST /api/overview", resp, body, 405, "method_not_allowed", "POST is not supported")
}

func TestCharts(t *testing.T) {
	app := createTestApp(t, testDoc)
	defer app.Close()

	tests := []struct {
		path   string
		status int
		ctype  string
		code   string
	}{
		{"/chart/scalability/balanced.svg", 200, "image/svg+xml", ""},
		{"/chart/throughput/1.png", 200, "image/png", ""},
		{"/chart/scalability/write_heavy.svg", 404, "application/json", "workload_not_found"},
		{"/chart/throughput/64.png", 404, "application/json", "no_data"},
		{"/chart/throughput/many.png", 400, "application/json", "bad_request"},
		{"/chart/scalability/balanced.gif", 400, "application/json", "bad_request"},
	}
	for _, test := range tests {
		resp, body := app.get(t, test.path)
		if resp.StatusCode != test.status {
			t.Errorf("%s: status = %d, want %d; body %.200s", test.path, resp.StatusCode, test.status, body)
		}
		if ct := resp.Header.Get("Content-Type"); ct != test.ctype {
			t.Errorf("%s: Content-Type = %q, want %q", test.path, ct, test.ctype)
		}
		if test.code != "" {
			var e errorBody
			if err := json.Unmarshal(body, &e); err != nil || e.Code != test.code {
				t.Errorf("%s: error body %s, want code %s", test.path, body, test.code)
			}
		}
	}
}

func TestIndex(t *testing.T) {
	app := createTestApp(t, testDoc)
	defer app.Close()

	resp, body := app.get(t, "/")
	if resp.StatusCode != 200 {
		t.Fatalf("GET /: status = %d", resp.StatusCode)
	}
	for _, want := range []string{"<h1>Nightly run</h1>", "Generated by ycsb", "<th>nodes</th><td>3</td>", "<td>rocksdb</td>", "3 records."} {
		if !strings.Contains(string(body), want) {
			t.Errorf("GET / does not contain %q", want)
		}
	}

	empty := createTestApp(t, "")
	defer empty.Close()
	resp, body = empty.get(t, "/")
	if resp.StatusCode != 200 || !strings.Contains(string(body), "No data found.") {
		t.Errorf("GET / with no dataset: status %d, body %s", resp.StatusCode, body)
	}
}

func TestDecodeMetadata(t *testing.T) {
	md, err := decodeMetadata(json.RawMessage(`{"date": 20240501, "owner": "kv-team"}`))
	if err != nil {
		t.Fatal(err)
	}
	if md.Date != "20240501" {
		t.Errorf("Date = %q, want 20240501", md.Date)
	}
	if extra := md.Extra(); len(extra) != 1 || extra[0] != (metadataField{"owner", "kv-team"}) {
		t.Errorf("Extra() = %v", extra)
	}
	for _, raw := range []string{``, `null`, `"text"`, `[1,2]`} {
		if md, err := decodeMetadata(json.RawMessage(raw)); md != nil || err != nil {
			t.Errorf("decodeMetadata(%q) = %v, %v; want nil, nil", raw, md, err)
		}
	}
}

func TestMetrics(t *testing.T) {
	app := createTestApp(t, testDoc)
	defer app.Close()

	app.get(t, "/api/overview")
	app.get(t, "/api/workload/nope")
	_, body := app.get(t, "/metrics")
	for _, want := range []string{
		`benchviz_http_requests_total{code="200",route="/api/overview"} 1`,
		`benchviz_http_requests_total{code="404",route="/api/workload/{name}"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/metrics does not contain %q", want)
		}
	}
}
