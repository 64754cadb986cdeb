package storage_test

import (
	"testing"

	"ahb-manager/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"Plain Endpoint", storage.Config{Endpoint: "localhost:9000", Bucket: "edifact", Region: "eu-central-1"}},
		{"HTTP Scheme Stripped", storage.Config{Endpoint: "http://minio:9000"}},
		{"HTTPS With SSL", storage.Config{Endpoint: "https://s3.eu-central-1.amazonaws.com", UseSSL: true, Region: "eu-central-1"}},
		{"Default Timeout", storage.Config{Endpoint: "localhost:9000", TimeoutSeconds: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.AccessKey, tt.cfg.SecretKey = "ahb", "ahb-secret"
			client, err := storage.NewClient(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestNewClient_InvalidEndpoint(t *testing.T) {
	_, err := storage.NewClient(storage.Config{Endpoint: "minio:9000/edifact"})
	assert.Error(t, err)
}
