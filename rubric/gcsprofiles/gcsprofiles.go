/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gcsprofiles loads rubric profiles stored as YAML objects in a
// Google Cloud Storage bucket.
package gcsprofiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"chainguard.dev/mcqqc/rubric"
	"cloud.google.com/go/storage"
	"github.com/chainguard-dev/clog"
	"google.golang.org/api/iterator"
)

// maxProfileSize bounds a single profile object.
const maxProfileSize = 4 << 20

// Load registers every *.yaml object under prefix in bucket with reg.
func Load(ctx context.Context, client *storage.Client, bucket, prefix string, reg *rubric.Registry) error {
	if client == nil {
		return errors.New("storage client is required")
	}
	if reg == nil {
		return errors.New("registry is required")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	log := clog.FromContext(ctx).With("bucket", bucket).With("prefix", prefix)
	b := client.Bucket(bucket)
	it := b.Objects(ctx, &storage.Query{Prefix: prefix})

	loaded := 0
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("listing gs://%s/%s: %w", bucket, prefix, err)
		}
		if !strings.HasSuffix(attrs.Name, ".yaml") {
			continue
		}

		data, err := read(ctx, b.Object(attrs.Name))
		if err != nil {
			return fmt.Errorf("reading gs://%s/%s: %w", bucket, attrs.Name, err)
		}
		if err := reg.Add("gs://"+bucket+"/"+attrs.Name, data); err != nil {
			return err
		}
		loaded++
	}

	log.With("profiles", loaded).Info("Loaded profiles from Cloud Storage")
	return nil
}

func read(ctx context.Context, obj *storage.ObjectHandle) ([]byte, error) {
	r, err := obj.NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, maxProfileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxProfileSize {
		return nil, fmt.Errorf("profile exceeds %d bytes", maxProfileSize)
	}
	return data, nil
}
