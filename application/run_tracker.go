package application

import (
	"context"
	"fmt"

	"spprovision/domain/provisioning"
	"spprovision/domain/runs"
	platform "spprovision/platform/provisioning"
)

// runTracker folds provisioning progress into a Run and persists it at phase boundaries.
type runTracker struct {
	run  *runs.Run
	save func(context.Context, *runs.Run)
}

var _ platform.Observer = (*runTracker)(nil)

func newRunTracker(run *runs.Run, save func(context.Context, *runs.Run)) *runTracker {
	return &runTracker{run: run, save: save}
}

func (t *runTracker) PhaseStarted(ctx context.Context, phase string) {
	t.run.BeginPhase(phase)
	t.run.AddMessage(fmt.Sprintf("[%s] started", phase))
	t.save(ctx, t.run)
}

func (t *runTracker) ListEnsured(ctx context.Context, list provisioning.ListInfo) {
	stats := &t.run.State.Stats
	stats.ListsEnsured++
	verb := "exists"
	if list.Created {
		stats.ListsCreated++
		verb = "created"
	}
	t.run.Lists = append(t.run.Lists, list)
	t.run.AddMessage(fmt.Sprintf("List %s %s", list.Title, verb))
	t.save(ctx, t.run)
}

func (t *runTracker) Changed(_ context.Context, change platform.Change, listTitle, target string) {
	stats := &t.run.State.Stats
	switch change {
	case platform.ChangeContentTypeBound:
		stats.ContentTypesBound++
	case platform.ChangeContentTypeSkipped:
		stats.ContentTypesSkipped++
	case platform.ChangeContentTypeRemoved:
		stats.ContentTypesRemoved++
	case platform.ChangeFieldCreated:
		stats.FieldsCreated++
	case platform.ChangeFieldRecreated:
		stats.FieldsRecreated++
	case platform.ChangeFieldRefUpdated:
		stats.FieldRefsUpdated++
	case platform.ChangeViewCreated:
		stats.ViewsCreated++
	case platform.ChangeViewUpdated:
		stats.ViewsUpdated++
	}
	t.run.AddMessage(fmt.Sprintf("%s: %s %s", listTitle, change, target))
}
