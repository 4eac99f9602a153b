// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package storage stores user-uploaded binary objects (avatars) in an
// S3-compatible bucket and returns their public URL.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrDisabled is returned when no object storage is configured.
var ErrDisabled = errors.New("storage: object storage is not configured")

// ObjectStorage is the minimal contract the upload flows need.
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
	// KeyFromURL reverses URL. It returns "" for URLs this storage did not issue.
	KeyFromURL(url string) string
}

// Disabled is the ObjectStorage used when S3 credentials are absent.
type Disabled struct{}

// Put implements ObjectStorage.
func (Disabled) Put(context.Context, string, io.Reader, int64, string) error { return ErrDisabled }

// Delete implements ObjectStorage.
func (Disabled) Delete(context.Context, string) error { return ErrDisabled }

// URL implements ObjectStorage.
func (Disabled) URL(string) string { return "" }

// KeyFromURL implements ObjectStorage.
func (Disabled) KeyFromURL(string) string { return "" }

// joinURL joins a base URL and an object key with exactly one slash.
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
