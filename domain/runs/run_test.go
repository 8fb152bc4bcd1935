package runs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLifecycle_HappyPath(t *testing.T) {
	run := NewRun("run-1", "https://contoso.sharepoint.com/sites/dev", "projects")
	lifecycle := RunLifecycle{}

	require.NoError(t, lifecycle.Start(run))
	assert.Equal(t, RunStatusRunning, run.Status)

	run.BeginPhase("lists")
	run.BeginPhase("fields")
	require.NoError(t, lifecycle.Complete(run))

	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.False(t, run.IsActive())
	require.NotNil(t, run.CompletedAt)
	assert.Equal(t, "completed", run.State.Phase)

	require.Len(t, run.State.Timeline, 3)
	for _, p := range run.State.Timeline {
		assert.NotNil(t, p.Completed, p.Phase)
		assert.NotEmpty(t, p.Duration, p.Phase)
	}
	assert.Equal(t, "[completed] Provisioning completed successfully", run.State.Messages[len(run.State.Messages)-1])
}

func TestRunLifecycle_InvalidTransitions(t *testing.T) {
	lifecycle := RunLifecycle{}
	run := NewRun("run-2", "https://x", "")

	require.NoError(t, lifecycle.Fail(run, "boom"))
	assert.Equal(t, RunStatusFailed, run.Status)
	assert.Equal(t, "boom", run.Error)

	assert.Error(t, lifecycle.Start(run))
	assert.Error(t, lifecycle.Complete(run))
	assert.Error(t, lifecycle.Fail(run, "again"))
}

func TestRun_AddMessageKeepsLastTen(t *testing.T) {
	run := NewRun("run-3", "https://x", "")
	for i := 0; i < 15; i++ {
		run.AddMessage(fmt.Sprintf("m%d", i))
	}
	require.Len(t, run.State.Messages, 10)
	assert.Equal(t, "m5", run.State.Messages[0])
	assert.Equal(t, "m14", run.State.Messages[9])
}
