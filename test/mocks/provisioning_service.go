package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spprovision/domain/provisioning"
	"spprovision/domain/runs"
)

// MockProvisioningService implements application.ProvisioningService for testing
type MockProvisioningService struct {
	mock.Mock
}

func (m *MockProvisioningService) Validate(schema *provisioning.Schema) error {
	args := m.Called(schema)
	return args.Error(0)
}

func (m *MockProvisioningService) Provision(ctx context.Context, schema *provisioning.Schema) (*runs.Run, error) {
	args := m.Called(ctx, schema)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*runs.Run), args.Error(1)
}

func (m *MockProvisioningService) GetRun(ctx context.Context, runID string) (*runs.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*runs.Run), args.Error(1)
}

func (m *MockProvisioningService) ListRuns(ctx context.Context, limit int) ([]*runs.Run, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*runs.Run), args.Error(1)
}
