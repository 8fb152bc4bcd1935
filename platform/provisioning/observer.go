package provisioning

import (
	"context"

	domain "spprovision/domain/provisioning"
)

// Phase names reported by the Lists handler, in execution order.
const (
	PhaseLists     = "lists"
	PhaseFields    = "fields"
	PhaseFieldRefs = "fieldrefs"
	PhaseViews     = "views"
)

// Change identifies one remote modification made during provisioning.
type Change string

const (
	ChangeContentTypeBound   Change = "content_type_bound"
	ChangeContentTypeSkipped Change = "content_type_skipped"
	ChangeContentTypeRemoved Change = "content_type_removed"
	ChangeFieldCreated       Change = "field_created"
	ChangeFieldRecreated     Change = "field_recreated"
	ChangeFieldRefUpdated    Change = "field_ref_updated"
	ChangeViewCreated        Change = "view_created"
	ChangeViewUpdated        Change = "view_updated"
)

// Observer receives progress from object handlers. Calls happen on the
// provisioning goroutine, in the order the remote operations complete.
type Observer interface {
	PhaseStarted(ctx context.Context, phase string)
	ListEnsured(ctx context.Context, list domain.ListInfo)
	Changed(ctx context.Context, change Change, listTitle, target string)
}

// NopObserver discards all progress.
type NopObserver struct{}

func (NopObserver) PhaseStarted(context.Context, string)            {}
func (NopObserver) ListEnsured(context.Context, domain.ListInfo)    {}
func (NopObserver) Changed(context.Context, Change, string, string) {}
