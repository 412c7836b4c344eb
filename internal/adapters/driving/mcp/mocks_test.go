package mcp

import (
	"context"

	"github.com/confluo-search/confluo/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.ScoredResult
	err     error
	lastReq domain.RetrievalRequest
}

func (m *mockRetrievalService) HybridSearch(
	_ context.Context,
	req domain.RetrievalRequest,
) ([]domain.ScoredResult, error) {
	m.lastReq = req
	return m.results, m.err
}

// mockConfigStore is a minimal driven.ConfigStore for weight lookups.
type mockConfigStore struct {
	floats map[string]float64
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.floats[key]
	return v, ok
}

func (m *mockConfigStore) GetString(string) string { return "" }

func (m *mockConfigStore) GetInt(string) int { return 0 }

func (m *mockConfigStore) GetFloat(key string) float64 { return m.floats[key] }

func (m *mockConfigStore) GetBool(string) bool { return false }

func (m *mockConfigStore) Set(string, any) error { return nil }

func (m *mockConfigStore) Save() error { return nil }

func (m *mockConfigStore) Load() error { return nil }

func (m *mockConfigStore) Watch(func()) (func(), error) { return func() {}, nil }

func (m *mockConfigStore) Path() string { return "" }
