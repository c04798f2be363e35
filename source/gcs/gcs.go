// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcs implements a dataset source backed by an object in
// Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/kvbench/benchviz/benchdata"
	"github.com/kvbench/benchviz/source"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// Source reads a results document from a GCS object.
type Source struct {
	client *storage.Client
	bucket string
	object string
}

// NewSource returns a Source for the named object. opts configure the
// underlying storage client; with no options the client uses
// application default credentials.
func NewSource(ctx context.Context, bucket, object string, opts ...option.ClientOption) (*Source, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Source{client: client, bucket: bucket, object: object}, nil
}

// WithToken returns a client option that authenticates every request
// with the given OAuth2 access token.
func WithToken(accessToken string) option.ClientOption {
	return option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
}

// Load implements source.Source. A missing bucket or object is an
// absent dataset.
func (s *Source) Load(ctx context.Context) (*benchdata.Dataset, error) {
	r, err := s.client.Bucket(s.bucket).Object(s.object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s, err)
	}
	defer r.Close()
	return source.Decode(r, s.String())
}

// Close closes the underlying storage client.
func (s *Source) Close() error {
	return s.client.Close()
}

func (s *Source) String() string {
	return "gs://" + s.bucket + "/" + s.object
}

// ParseURL splits a "gs://bucket/object" URL into its bucket and
// object names.
func ParseURL(u string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(u, "gs://")
	if !ok {
		return "", "", fmt.Errorf("%q is not a gs:// URL", u)
	}
	bucket, object, _ = strings.Cut(rest, "/")
	if bucket == "" || object == "" {
		return "", "", fmt.Errorf("%q must name a bucket and an object", u)
	}
	return bucket, object, nil
}
