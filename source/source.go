// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package source loads benchmark datasets.
//
// A Source reads one dataset from a fixed location each time Load is
// called. Nothing is cached: every call observes the current contents
// of the location.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kvbench/benchviz/benchdata"
)

// DefaultPath is the conventional location of the results document,
// relative to the project root.
const DefaultPath = "data/synthesized_data.json"

// A Source loads a dataset.
//
// Load returns (nil, nil) if the dataset does not exist at the
// source's location. Any other failure to read or decode the dataset
// is returned as an error.
type Source interface {
	Load(ctx context.Context) (*benchdata.Dataset, error)
}

// Func adapts a function to the Source interface.
type Func func(ctx context.Context) (*benchdata.Dataset, error)

// Load calls f(ctx).
func (f Func) Load(ctx context.Context) (*benchdata.Dataset, error) {
	return f(ctx)
}

// File is a Source that reads a results document from the local file
// system.
type File struct {
	Path string
}

// Load implements Source.
func (f File) Load(ctx context.Context) (*benchdata.Dataset, error) {
	r, err := os.Open(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Decode(r, f.Path)
}

func (f File) String() string {
	return f.Path
}

// Decode decodes a results document read from r. name identifies the
// document in error messages.
func Decode(r io.Reader, name string) (*benchdata.Dataset, error) {
	ds, err := benchdata.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ds, nil
}
