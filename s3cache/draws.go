/* Copyright (c) 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 */
package s3cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DrawStore persists serialized knockout draws in an S3 bucket so the CLI
// and the Discord bot can share them. Draws are stored gzip compressed under
// a fixed prefix, keyed by event name.
type DrawStore struct {
	cache *Cache
}

const drawPrefix = "draws/"

// NewDrawStore returns a DrawStore backed by the named bucket. Callers
// should invoke Init() on the returned store before use.
func NewDrawStore(ctx context.Context, bucketName string) *DrawStore {
	return &DrawStore{cache: New(ctx, bucketName, true, false)}
}

func (ds *DrawStore) Init() error {
	return ds.cache.Init()
}

func drawKey(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return drawPrefix + strings.ReplaceAll(name, " ", "-") + ".json.gz"
}

// PutDraw stores the serialized draw under the given event name,
// overwriting any previous version.
func (ds *DrawStore) PutDraw(name string, data []byte) error {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return fmt.Errorf("drawstore.put: failed to gzip draw %v: %w", name,
			err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("drawstore.put: failed to gzip draw %v: %w", name,
			err)
	}

	_, err := ds.cache.Client.PutObject(ds.cache.ctx, &s3.PutObjectInput{
		Bucket:          aws.String(ds.cache.bucketName),
		Key:             aws.String(drawKey(name)),
		Body:            &buf,
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		return fmt.Errorf("drawstore.put: put failed for %v: %w", name, err)
	}
	return nil
}

// GetDraw retrieves the serialized draw stored under the given event name.
func (ds *DrawStore) GetDraw(name string) ([]byte, error) {
	resp, err := ds.cache.Client.GetObject(ds.cache.ctx, &s3.GetObjectInput{
		Bucket: aws.String(ds.cache.bucketName),
		Key:    aws.String(drawKey(name)),
	})
	if err != nil {
		return nil, fmt.Errorf("drawstore.get: no stored draw %v: %w", name,
			err)
	}
	defer resp.Body.Close()

	gr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("drawstore.get: failed to open draw %v: %w",
			name, err)
	}
	defer gr.Close()

	data, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("drawstore.get: failed to read draw %v: %w",
			name, err)
	}
	return data, nil
}

// ListDraws returns the event names of all stored draws, sorted.
func (ds *DrawStore) ListDraws() ([]string, error) {
	var names []string

	paginator := s3.NewListObjectsV2Paginator(ds.cache.Client,
		&s3.ListObjectsV2Input{
			Bucket: aws.String(ds.cache.bucketName),
			Prefix: aws.String(drawPrefix),
		})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ds.cache.ctx)
		if err != nil {
			return nil, fmt.Errorf("drawstore.list: list failed: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(*obj.Key, drawPrefix)
			name = strings.TrimSuffix(name, ".json.gz")
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}
