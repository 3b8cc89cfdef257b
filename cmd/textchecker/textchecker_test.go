package main

import (
	"testing"

	"textchecker/internal/history"
	"textchecker/internal/models"
	"textchecker/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      models.ServerConfig
		expected string
	}{
		{"wildcard host", models.ServerConfig{Host: "0.0.0.0", Port: 3000}, "http://localhost:3000"},
		{"empty host", models.ServerConfig{Port: 8080}, "http://localhost:8080"},
		{"explicit host", models.ServerConfig{Host: "127.0.0.1", Port: 3000}, "http://127.0.0.1:3000"},
		{"tls", models.ServerConfig{Host: "checker.example.com", Port: 443, TLSEnabled: true}, "https://checker.example.com:443"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, listenURL(tt.cfg))
		})
	}
}

func TestNewService(t *testing.T) {
	cfg := models.NewDefaultConfig()
	cfg.Completion.APIKey = "sk-test"

	service, err := newService(cfg, history.NopStore{}, &observability.Provider{})
	require.NoError(t, err)
	assert.NotNil(t, service)
}

func TestNewService_UnsupportedProvider(t *testing.T) {
	cfg := models.NewDefaultConfig()
	cfg.Completion.Provider = "openai"
	cfg.Completion.APIKey = "sk-test"

	_, err := newService(cfg, history.NopStore{}, &observability.Provider{})
	assert.Error(t, err)
}
