// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeClient struct {
	body string
	err  error
	gets int
}

func (c *fakeClient) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	c.gets++
	if c.err != nil {
		return nil, c.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(c.body))}, nil
}

func TestLoad(t *testing.T) {
	c := &fakeClient{body: `{"metadata": null, "data": [{"database": "lmdb", "workload": "write_heavy", "threads": 16}]}`}
	s := &Source{Client: c, Bucket: "results", Key: "kv/latest.json"}
	ds, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 1 || ds.Records[0].Threads != 16 {
		t.Errorf("Load = %+v", ds.Records)
	}
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.gets != 2 {
		t.Errorf("GetObject called %d times, want 2", c.gets)
	}
}

func TestLoadAbsent(t *testing.T) {
	for _, err := range []error{
		&types.NoSuchKey{},
		&types.NoSuchBucket{},
		&types.NotFound{},
	} {
		s := &Source{Client: &fakeClient{err: err}, Bucket: "b", Key: "k"}
		ds, lerr := s.Load(context.Background())
		if ds != nil || lerr != nil {
			t.Errorf("%T: Load = %v, %v; want nil, nil", err, ds, lerr)
		}
	}
}

func TestLoadError(t *testing.T) {
	denied := errors.New("access denied")
	s := &Source{Client: &fakeClient{err: denied}, Bucket: "b", Key: "k"}
	if _, err := s.Load(context.Background()); !errors.Is(err, denied) {
		t.Errorf("Load error = %v, want %v", err, denied)
	}

	s = &Source{Client: &fakeClient{body: "not json"}, Bucket: "b", Key: "k"}
	if _, err := s.Load(context.Background()); err == nil || !strings.Contains(err.Error(), "s3://b/k") {
		t.Errorf("Load error = %v, want decode error naming s3://b/k", err)
	}
}

func TestParseURL(t *testing.T) {
	for _, test := range []struct {
		in          string
		bucket, key string
		ok          bool
	}{
		{"s3://results/kv/latest.json", "results", "kv/latest.json", true},
		{"s3://results", "", "", false},
		{"s3:///key", "", "", false},
		{"gs://results/key", "", "", false},
	} {
		bucket, key, err := ParseURL(test.in)
		if (err == nil) != test.ok || bucket != test.bucket || key != test.key {
			t.Errorf("ParseURL(%q) = %q, %q, %v", test.in, bucket, key, err)
		}
	}
}
