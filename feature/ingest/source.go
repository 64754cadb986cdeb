package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ahb-manager/core/storage"
)

// Document is one raw XML file.
type Document struct {
	// Name identifies the document in logs and ingest runs.
	Name string
	Data []byte
}

// Source yields documents to ingest.
type Source interface {
	Documents(ctx context.Context) ([]Document, error)
}

// FileSource reads documents from the local file system.
type FileSource struct {
	Paths []string
}

// Documents implements Source.
func (s FileSource) Documents(ctx context.Context) ([]Document, error) {
	docs := make([]Document, 0, len(s.Paths))
	for _, path := range s.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		docs = append(docs, Document{Name: filepath.Base(path), Data: data})
	}
	return docs, nil
}

// BucketSource reads every .xml object below a prefix of the bucket.
type BucketSource struct {
	Client storage.Client
	Bucket string
	Prefix string
}

// Documents implements Source.
func (s BucketSource) Documents(ctx context.Context) ([]Document, error) {
	keys, err := storage.ListKeys(ctx, s.Client, s.Bucket, s.Prefix, ".xml")
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(keys))
	for _, key := range keys {
		data, err := storage.Download(ctx, s.Client, s.Bucket, key)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Name: key, Data: data})
	}
	return docs, nil
}
