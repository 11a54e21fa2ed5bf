package services

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/arzan03/pdftoolbox/internal/models"
	"github.com/arzan03/pdftoolbox/internal/pdf"
)

// Test doubles shared by the service and reaper tests.

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Create(ctx context.Context, owner string, tool models.ToolType, originalName, storedName string, sizeBytes int64, retention time.Duration) (models.File, error) {
	args := m.Called(ctx, owner, tool, originalName, storedName, sizeBytes, retention)
	return args.Get(0).(models.File), args.Error(1)
}

func (m *MockLedger) Get(ctx context.Context, id, owner string) (models.File, error) {
	args := m.Called(ctx, id, owner)
	return args.Get(0).(models.File), args.Error(1)
}

func (m *MockLedger) ListByOwner(ctx context.Context, owner string, limit int64) ([]models.File, error) {
	args := m.Called(ctx, owner, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.File), args.Error(1)
}

func (m *MockLedger) IncrementDownload(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLedger) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLedger) DeleteExpired(ctx context.Context, now time.Time) ([]models.File, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.File), args.Error(1)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, r io.Reader, size int64, contentType, suggestedExt string) (string, error) {
	args := m.Called(ctx, r, size, contentType, suggestedExt)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Get(ctx context.Context, storedName string) ([]byte, error) {
	args := m.Called(ctx, storedName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, storedName string) error {
	return m.Called(ctx, storedName).Error(0)
}

func (m *MockBlobStore) Exists(ctx context.Context, storedName string) (bool, error) {
	args := m.Called(ctx, storedName)
	return args.Bool(0), args.Error(1)
}

// EngineFunc adapts a function to the Engine interface so tests can
// fabricate outputs inside the per-request work directory.
type EngineFunc func(tool models.ToolType, workDir string, inputs []pdf.Input) ([]pdf.Output, error)

func (f EngineFunc) Transform(tool models.ToolType, workDir string, inputs []pdf.Input) ([]pdf.Output, error) {
	return f(tool, workDir, inputs)
}
