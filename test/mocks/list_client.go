package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spprovision/domain/contracts"
	"spprovision/domain/provisioning"
)

// MockListClient implements contracts.ListClient for testing
type MockListClient struct {
	mock.Mock
}

func (m *MockListClient) SiteURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockListClient) EnsureList(ctx context.Context, spec contracts.ListSpec) (*provisioning.ListInfo, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provisioning.ListInfo), args.Error(1)
}

func (m *MockListClient) AddAvailableContentType(ctx context.Context, listTitle, contentTypeID string) error {
	args := m.Called(ctx, listTitle, contentTypeID)
	return args.Error(0)
}

func (m *MockListClient) GetContentTypes(ctx context.Context, listTitle string) ([]contracts.ContentTypeInfo, error) {
	args := m.Called(ctx, listTitle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contracts.ContentTypeInfo), args.Error(1)
}

func (m *MockListClient) DeleteContentType(ctx context.Context, listTitle, contentTypeID string) error {
	args := m.Called(ctx, listTitle, contentTypeID)
	return args.Error(0)
}

func (m *MockListClient) DeleteField(ctx context.Context, listTitle, fieldID string) error {
	args := m.Called(ctx, listTitle, fieldID)
	return args.Error(0)
}

func (m *MockListClient) CreateFieldAsXML(ctx context.Context, listTitle, schemaXML string) (*contracts.FieldInfo, error) {
	args := m.Called(ctx, listTitle, schemaXML)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.FieldInfo), args.Error(1)
}

func (m *MockListClient) UpdateField(ctx context.Context, listTitle, fieldID string, update contracts.FieldUpdate) error {
	args := m.Called(ctx, listTitle, fieldID, update)
	return args.Error(0)
}

func (m *MockListClient) GetView(ctx context.Context, listTitle, viewTitle string) (*contracts.ViewInfo, error) {
	args := m.Called(ctx, listTitle, viewTitle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.ViewInfo), args.Error(1)
}

func (m *MockListClient) UpdateView(ctx context.Context, listTitle, viewTitle string, settings map[string]any) error {
	args := m.Called(ctx, listTitle, viewTitle, settings)
	return args.Error(0)
}

func (m *MockListClient) AddView(ctx context.Context, listTitle, viewTitle string, personal bool, settings map[string]any) (*contracts.ViewInfo, error) {
	args := m.Called(ctx, listTitle, viewTitle, personal, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.ViewInfo), args.Error(1)
}

func (m *MockListClient) RemoveAllViewFields(ctx context.Context, listTitle, viewTitle string) error {
	args := m.Called(ctx, listTitle, viewTitle)
	return args.Error(0)
}

func (m *MockListClient) AddViewField(ctx context.Context, listTitle, viewTitle, fieldName string) error {
	args := m.Called(ctx, listTitle, viewTitle, fieldName)
	return args.Error(0)
}

// CallSequence returns "Method:arg1" for every recorded call, in call order.
// The first argument after the context is the list title for every list-scoped method.
func (m *MockListClient) CallSequence() []string {
	seq := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		entry := c.Method
		if len(c.Arguments) > 1 {
			switch v := c.Arguments.Get(1).(type) {
			case string:
				entry += ":" + v
			case contracts.ListSpec:
				entry += ":" + v.Title
			}
		}
		seq = append(seq, entry)
	}
	return seq
}
