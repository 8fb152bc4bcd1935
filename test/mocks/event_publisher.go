package mocks

import (
	"github.com/stretchr/testify/mock"

	"spprovision/domain/events"
)

// MockRunEventPublisher implements events.RunEventPublisher for testing
type MockRunEventPublisher struct {
	mock.Mock
}

func (m *MockRunEventPublisher) PublishRunCompleted(event events.RunCompletedEvent) {
	m.Called(event)
}

func (m *MockRunEventPublisher) PublishRunFailed(event events.RunFailedEvent) {
	m.Called(event)
}
