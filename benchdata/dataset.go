// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMissingData is reported by Dataset.Err for a document that has
// no "data" member.
var ErrMissingData = errors.New("results document has no data member")

// A Dataset is a decoded benchmark results document. A Dataset must
// not be modified after it is decoded; every view is computed from it
// without changing it.
type Dataset struct {
	// Metadata is the document's metadata object, passed through
	// verbatim. It is nil if the document has no metadata.
	Metadata json.RawMessage

	// Records holds the document's records in file order.
	Records []Record

	// err records a structural problem found while decoding.
	err error
}

// New returns a Dataset holding the given metadata and records.
// It is mostly useful in tests and for building datasets in code.
func New(metadata json.RawMessage, records []Record) *Dataset {
	if records == nil {
		records = []Record{}
	}
	return &Dataset{Metadata: metadata, Records: records}
}

// Err reports whether the document ds was decoded from is malformed.
// Views cannot be computed from a malformed Dataset.
func (ds *Dataset) Err() error {
	if ds == nil {
		return ErrMissingData
	}
	return ds.err
}

// Len returns the number of records in ds.
func (ds *Dataset) Len() int {
	return len(ds.Records)
}

type document struct {
	Metadata json.RawMessage `json:"metadata"`
	Data     *[]Record       `json:"data"`
}

// Decode reads a results document from r.
//
// A syntactically invalid document is an error. A well-formed
// document without a "data" member decodes successfully, but the
// returned Dataset's Err method reports ErrMissingData.
func Decode(r io.Reader) (*Dataset, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding results document: %w", err)
	}
	return fromDocument(doc), nil
}

// Unmarshal decodes a results document held in memory.
func Unmarshal(data []byte) (*Dataset, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding results document: %w", err)
	}
	return fromDocument(doc), nil
}

func fromDocument(doc document) *Dataset {
	ds := &Dataset{Metadata: doc.Metadata, Records: []Record{}}
	if doc.Data == nil {
		// No "data" member, or "data": null.
		ds.err = ErrMissingData
		return ds
	}
	if *doc.Data != nil {
		ds.Records = *doc.Data
	}
	return ds
}

// MarshalJSON implements json.Marshaler. It writes ds back out as a
// results document.
func (ds *Dataset) MarshalJSON() ([]byte, error) {
	metadata := ds.Metadata
	if metadata == nil {
		metadata = json.RawMessage("null")
	}
	return json.Marshal(struct {
		Metadata json.RawMessage `json:"metadata"`
		Data     []Record        `json:"data"`
	}{metadata, ds.Records})
}
