// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchagg computes chart-ready views of a benchmark Dataset.
//
// Every view is a pure function of its Dataset: it reads every record
// in file order, never modifies the Dataset, and returns a freshly
// allocated result. Computing the same view twice on the same Dataset
// yields deep-equal results that encode to identical JSON.
//
// Where a view is keyed by values discovered in the data (database
// names, matrix keys, workloads), the keys appear in the order they
// were first seen, unless the view documents otherwise.
package benchagg

import (
	"errors"
	"fmt"

	"github.com/kvbench/benchviz/benchdata"
)

// ErrProcessing is returned (wrapped) when a view cannot be computed
// from a Dataset, for example because the results document it was
// decoded from is malformed.
var ErrProcessing = errors.New("failed to process data")

// ErrNotFound is matched by errors reporting that a query selected no
// records.
var ErrNotFound = errors.New("not found")

// A NotFoundError reports that no record has the requested workload.
type NotFoundError struct {
	Workload string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no data found for workload %s", e.Workload)
}

// Is makes errors.Is(err, ErrNotFound) true for a *NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// check returns an error wrapping ErrProcessing if views cannot be
// computed from ds.
func check(ds *benchdata.Dataset) error {
	if err := ds.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	return nil
}
