// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/google/safehtml/template"
	"github.com/kvbench/benchviz/benchagg"
	"github.com/kvbench/benchviz/benchdata"
	"github.com/mitchellh/mapstructure"
)

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Key-value store benchmarks</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.8em; text-align: left; }
td.num { text-align: right; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{with .Meta}}
{{if .Description}}<p>{{.Description}}</p>{{end}}
<p>{{if .Generator}}Generated by {{.Generator}}{{end}}{{if .Date}} on {{.Date}}{{end}}</p>
{{with .Extra}}
<table>
{{range .}}<tr><th>{{.Key}}</th><td>{{.Value}}</td></tr>
{{end}}
</table>
{{end}}
{{end}}
{{if .Best}}
<h2>Best performers</h2>
<table>
<tr><th>Workload</th><th>Database</th><th>Data structure</th><th>Throughput (ops/sec)</th></tr>
{{range .Best}}<tr><td>{{.Workload}}</td><td>{{.Database}}</td><td>{{.DataStructure}}</td><td class="num">{{.Throughput}}</td></tr>
{{end}}
</table>
<p>{{.Records}} records.</p>
{{else}}
<p>{{.Message}}</p>
{{end}}
<h2>API</h2>
<ul>
<li><a href="/api/overview">/api/overview</a></li>
<li><a href="/api/throughput">/api/throughput</a></li>
<li><a href="/api/latency">/api/latency</a></li>
<li><a href="/api/scalability">/api/scalability</a></li>
<li><a href="/api/heatmap">/api/heatmap</a></li>
<li><a href="/api/summary">/api/summary</a></li>
<li><a href="/api/threads">/api/threads</a></li>
<li><a href="/api/data">/api/data</a></li>
</ul>
</body>
</html>
`

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// indexData is the struct passed to the index template.
type indexData struct {
	Title   string
	Meta    *indexMetadata
	Best    []bestRow
	Records int
	Message string
}

type bestRow struct {
	Workload, Database, DataStructure, Throughput string
}

// indexMetadata holds the dataset metadata fields the index page
// knows how to show. Everything else is listed as is.
type indexMetadata struct {
	Title       string                 `mapstructure:"title"`
	Description string                 `mapstructure:"description"`
	Generator   string                 `mapstructure:"generator"`
	Date        string                 `mapstructure:"date"`
	Other       map[string]interface{} `mapstructure:",remain"`
}

type metadataField struct {
	Key, Value string
}

// Extra returns the metadata fields without a dedicated place on the
// page, sorted by key.
func (m *indexMetadata) Extra() []metadataField {
	var fields []metadataField
	for k, v := range m.Other {
		s, ok := v.(string)
		if !ok {
			b, err := json.Marshal(v)
			if err != nil {
				continue
			}
			s = string(b)
		}
		fields = append(fields, metadataField{k, s})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields
}

// decodeMetadata decodes the metadata of a dataset. It returns nil if
// the metadata is not a JSON object.
func decodeMetadata(raw json.RawMessage) (*indexMetadata, error) {
	var obj map[string]interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &obj) != nil || obj == nil {
		return nil, nil
	}
	md := new(indexMetadata)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           md,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(obj); err != nil {
		return nil, err
	}
	return md, nil
}

// index is the handler for /. It shows the best performers and the
// dataset metadata.
func (a *App) index(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	data := indexData{Title: "Key-value store benchmarks", Message: msgNoData}

	var ds *benchdata.Dataset
	var err error
	if a.Source != nil {
		ds, err = a.Source.Load(ctx)
	}
	if err != nil {
		errorf(ctx, "loading dataset from %v: %v", a.Source, err)
		a.Metrics.loadFailed()
		http.Error(w, msgLoad, http.StatusInternalServerError)
		return
	}
	if ds != nil {
		if err := fillIndex(ctx, &data, ds); err != nil {
			errorf(ctx, "index: %v", err)
			http.Error(w, msgProcessing, http.StatusInternalServerError)
			return
		}
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		errorf(ctx, "executing index template: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// fillIndex adds the overview of ds to data. Metadata that cannot be
// decoded is left off the page.
func fillIndex(ctx context.Context, data *indexData, ds *benchdata.Dataset) error {
	o, err := benchagg.ComputeOverview(ds)
	if err != nil {
		return err
	}
	md, err := decodeMetadata(o.Metadata)
	if err != nil {
		infof(ctx, "decoding metadata: %v", err)
	}
	data.Meta = md
	if md != nil && md.Title != "" {
		data.Title = md.Title
	}
	data.Records = ds.Len()
	for _, w := range o.BestPerformers.Keys() {
		bp, _ := o.BestPerformers.Get(w)
		row := bestRow{Workload: w, Database: "-", DataStructure: "-", Throughput: "-"}
		if bp.Database != nil {
			row.Database = *bp.Database
			row.DataStructure = *bp.DataStructure
			row.Throughput = fmt.Sprintf("%.0f", bp.Throughput)
		}
		data.Best = append(data.Best, row)
	}
	return nil
}
