// Copyright 2026 The Benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package s3 implements a dataset source backed by an object in
// Amazon S3.
package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/kvbench/benchviz/benchdata"
	"github.com/kvbench/benchviz/source"
)

// GetObjectAPI is the subset of the S3 client used by Source.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source reads a results document from an S3 object.
type Source struct {
	Client GetObjectAPI
	Bucket string
	Key    string
}

// NewSource returns a Source for the named object, using a client
// configured from the environment's default AWS configuration.
func NewSource(ctx context.Context, bucket, key string) (*Source, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &Source{Client: s3.NewFromConfig(cfg), Bucket: bucket, Key: key}, nil
}

// Load implements source.Source. A missing bucket or key is an absent
// dataset.
func (s *Source) Load(ctx context.Context) (*benchdata.Dataset, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if isNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s, err)
	}
	defer out.Body.Close()
	return source.Decode(out.Body, s.String())
}

func isNotExist(err error) bool {
	var nsk *types.NoSuchKey
	var nsb *types.NoSuchBucket
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nsb) || errors.As(err, &nf)
}

func (s *Source) String() string {
	return "s3://" + s.Bucket + "/" + s.Key
}

// ParseURL splits an "s3://bucket/key" URL into its bucket and key.
func ParseURL(u string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(u, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%q is not an s3:// URL", u)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%q must name a bucket and a key", u)
	}
	return bucket, key, nil
}
