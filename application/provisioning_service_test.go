package application

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spprovision/domain/contracts"
	"spprovision/domain/events"
	"spprovision/domain/provisioning"
	"spprovision/domain/runs"
	"spprovision/test/helpers"
	"spprovision/test/mocks"
)

const siteURL = "https://contoso.sharepoint.com/sites/pmo"

func projectsTemplate() *provisioning.Schema {
	return &provisioning.Schema{
		Name: "pmo",
		Lists: []provisioning.ListInstance{{
			Title:  "Projects",
			Fields: []string{`<Field ID="{f1}" Name="Code" DisplayName="Project Code" Type="Text" />`},
			Views:  []provisioning.ListView{{Title: "All Items", ViewFields: []string{"LinkTitle", "Code"}}},
		}},
	}
}

type serviceFixture struct {
	client *mocks.MockListClient
	repo   *mocks.MockRunRepository
	events *mocks.MockRunEventPublisher
	svc    ProvisioningService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		client: &mocks.MockListClient{},
		repo:   &mocks.MockRunRepository{},
		events: &mocks.MockRunEventPublisher{},
	}
	f.client.On("SiteURL").Return(siteURL).Maybe()
	f.svc = NewProvisioningService(f.client, f.repo, f.events)
	return f
}

func (f *serviceFixture) expectProjects() {
	helpers.ExpectEnsureList(f.client, "Projects", "list-1", true)
	helpers.ExpectFieldRecreate(f.client, "Projects", "{f1}", "Project Code")
	helpers.ExpectExistingView(f.client, "Projects", "All Items")
	helpers.ExpectViewFields(f.client, "Projects", "All Items", "LinkTitle", "Code")
}

func TestProvisioningService_Provision_Success(t *testing.T) {
	f := newServiceFixture()
	f.expectProjects()
	f.repo.On("CreateRun", mock.Anything, mock.AnythingOfType("*runs.Run")).Return(nil).Once()
	f.repo.On("UpdateRun", mock.Anything, mock.AnythingOfType("*runs.Run")).Return(nil)
	f.events.On("PublishRunCompleted", mock.MatchedBy(func(e events.RunCompletedEvent) bool {
		return e.Run != nil && e.Run.Status == runs.RunStatusCompleted
	})).Return().Once()

	run, err := f.svc.Provision(context.Background(), projectsTemplate())
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, siteURL, run.SiteURL)
	assert.Equal(t, "pmo", run.TemplateName)
	assert.Equal(t, runs.RunStatusCompleted, run.Status)
	assert.NotNil(t, run.CompletedAt)
	assert.Equal(t, "completed", run.State.Phase)

	stats := run.State.Stats
	assert.Equal(t, 1, stats.ListsEnsured)
	assert.Equal(t, 1, stats.ListsCreated)
	assert.Equal(t, 1, stats.FieldsRecreated)
	assert.Equal(t, 1, stats.ViewsUpdated)
	assert.Equal(t, []provisioning.ListInfo{{ID: "list-1", Title: "Projects", Created: true}}, run.Lists)

	var phases []string
	for _, p := range run.State.Timeline {
		phases = append(phases, p.Phase)
		assert.NotNil(t, p.Completed, p.Phase)
	}
	assert.Equal(t, []string{"starting", "lists", "fields", "fieldrefs", "views"}, phases)

	f.client.AssertExpectations(t)
	f.repo.AssertExpectations(t)
	f.events.AssertExpectations(t)
	f.events.AssertNotCalled(t, "PublishRunFailed", mock.Anything)
}

func TestProvisioningService_Provision_RemoteFailureRecordsRun(t *testing.T) {
	f := newServiceFixture()
	boom := errors.New("boom")
	f.client.On("EnsureList", mock.Anything, mock.Anything).Return(nil, boom)
	f.repo.On("CreateRun", mock.Anything, mock.Anything).Return(nil)
	f.repo.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)
	f.events.On("PublishRunFailed", mock.MatchedBy(func(e events.RunFailedEvent) bool {
		return e.Run.Status == runs.RunStatusFailed && e.Error != ""
	})).Return().Once()

	run, err := f.svc.Provision(context.Background(), projectsTemplate())
	require.ErrorIs(t, err, boom)
	require.NotNil(t, run)

	assert.Equal(t, runs.RunStatusFailed, run.Status)
	assert.Equal(t, `lists handler: lists: list "Projects": ensure list: boom`, run.Error)
	assert.Equal(t, "failed", run.State.Phase)
	assert.Empty(t, run.Lists)
	f.events.AssertExpectations(t)
	f.events.AssertNotCalled(t, "PublishRunCompleted", mock.Anything)
	f.client.AssertNotCalled(t, "CreateFieldAsXML", mock.Anything, mock.Anything, mock.Anything)
}

func TestProvisioningService_Provision_InvalidTemplate(t *testing.T) {
	f := newServiceFixture()
	schema := &provisioning.Schema{Lists: []provisioning.ListInstance{{Title: ""}}}

	run, err := f.svc.Provision(context.Background(), schema)
	assert.Nil(t, run)
	assert.ErrorIs(t, err, provisioning.ErrInvalidSchema)

	_, err = f.svc.Provision(context.Background(), nil)
	assert.ErrorIs(t, err, provisioning.ErrInvalidSchema)

	f.repo.AssertNotCalled(t, "CreateRun", mock.Anything, mock.Anything)
	f.client.AssertNotCalled(t, "EnsureList", mock.Anything, mock.Anything)
}

func TestProvisioningService_Provision_CreateRunFails(t *testing.T) {
	f := newServiceFixture()
	f.repo.On("CreateRun", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	run, err := f.svc.Provision(context.Background(), projectsTemplate())
	assert.Nil(t, run)
	assert.ErrorContains(t, err, "disk full")
	f.client.AssertNotCalled(t, "EnsureList", mock.Anything, mock.Anything)
}

func TestProvisioningService_Provision_PersistenceErrorsDoNotFailRun(t *testing.T) {
	f := newServiceFixture()
	f.expectProjects()
	f.repo.On("CreateRun", mock.Anything, mock.Anything).Return(nil)
	f.repo.On("UpdateRun", mock.Anything, mock.Anything).Return(errors.New("database is locked"))
	f.events.On("PublishRunCompleted", mock.Anything).Return()

	run, err := f.svc.Provision(context.Background(), projectsTemplate())
	require.NoError(t, err)
	assert.Equal(t, runs.RunStatusCompleted, run.Status)
}

func TestProvisioningService_Provision_SerializesRuns(t *testing.T) {
	f := newServiceFixture()
	var active, maxActive atomic.Int32
	f.client.On("EnsureList", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			n := active.Add(1)
			for {
				m := maxActive.Load()
				if n <= m || maxActive.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			active.Add(-1)
		}).
		Return(&provisioning.ListInfo{ID: "l", Title: "Solo"}, nil)
	f.repo.On("CreateRun", mock.Anything, mock.Anything).Return(nil)
	f.repo.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)
	f.events.On("PublishRunCompleted", mock.Anything).Return()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Provision(context.Background(), &provisioning.Schema{
				Lists: []provisioning.ListInstance{{Title: "Solo"}},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive.Load())
	f.client.AssertNumberOfCalls(t, "EnsureList", 3)
}

func TestProvisioningService_Provision_CancelledContextStillPersists(t *testing.T) {
	f := newServiceFixture()
	ctx, cancel := context.WithCancel(context.Background())
	f.client.On("EnsureList", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(&provisioning.ListInfo{ID: "l", Title: "Projects"}, nil)
	f.repo.On("CreateRun", mock.Anything, mock.Anything).Return(nil)

	var finalCtxErr error
	f.repo.On("UpdateRun", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		finalCtxErr = args.Get(0).(context.Context).Err()
	}).Return(nil)
	f.events.On("PublishRunFailed", mock.Anything).Return()

	run, err := f.svc.Provision(ctx, projectsTemplate())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, runs.RunStatusFailed, run.Status)
	assert.NoError(t, finalCtxErr)
}

func TestProvisioningService_GetAndListRuns(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	stored := runs.NewRun("r1", siteURL, "pmo")
	f.repo.On("GetRun", ctx, "r1").Return(stored, nil)
	f.repo.On("GetRun", ctx, "nope").Return(nil, contracts.ErrNotFound)
	f.repo.On("ListRuns", ctx, 5).Return([]*runs.Run{stored}, nil)

	got, err := f.svc.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Same(t, stored, got)

	_, err = f.svc.GetRun(ctx, "nope")
	assert.ErrorIs(t, err, contracts.ErrNotFound)

	list, err := f.svc.ListRuns(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProvisioningService_Validate(t *testing.T) {
	f := newServiceFixture()
	assert.NoError(t, f.svc.Validate(projectsTemplate()))
	assert.ErrorIs(t, f.svc.Validate(nil), provisioning.ErrInvalidSchema)
}
