package events

// RunEventPublisher defines the interface for publishing run events.
type RunEventPublisher interface {
	PublishRunCompleted(event RunCompletedEvent)
	PublishRunFailed(event RunFailedEvent)
}
