// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMinioClient_RequiresSettings(t *testing.T) {
	_, err := NewMinioClient(MinioConfig{AccessKey: "k", SecretKey: "s", Bucket: "b"})
	assert.Error(t, err)

	_, err = NewMinioClient(MinioConfig{Endpoint: "localhost:9000", Bucket: "b"})
	assert.Error(t, err)

	_, err = NewMinioClient(MinioConfig{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s"})
	assert.Error(t, err)
}

func TestMinioClient_URLRoundTrip(t *testing.T) {
	client, err := NewMinioClient(MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "k",
		SecretKey: "s",
		Bucket:    "tahmin",
	})
	require.NoError(t, err)

	url := client.URL("/avatars/u1/a.png")
	assert.Equal(t, "http://localhost:9000/tahmin/avatars/u1/a.png", url)
	assert.Equal(t, "avatars/u1/a.png", client.KeyFromURL(url))
	assert.Empty(t, client.KeyFromURL("https://elsewhere.example/a.png"))
}

func TestMinioClient_PublicURLOverride(t *testing.T) {
	client, err := NewMinioClient(MinioConfig{
		Endpoint:  "minio:9000",
		AccessKey: "k",
		SecretKey: "s",
		Bucket:    "tahmin",
		PublicURL: "https://cdn.tahmin.app/",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.tahmin.app/avatars/x.webp", client.URL("avatars/x.webp"))
}

func TestDisabled(t *testing.T) {
	var objects ObjectStorage = Disabled{}

	assert.ErrorIs(t, objects.Put(context.Background(), "k", nil, 0, "image/png"), ErrDisabled)
	assert.ErrorIs(t, objects.Delete(context.Background(), "k"), ErrDisabled)
	assert.Empty(t, objects.URL("k"))
	assert.Empty(t, objects.KeyFromURL("https://cdn.tahmin.app/k"))
}
