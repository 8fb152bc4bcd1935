package contracts

import (
	"context"

	"spprovision/domain/provisioning"
)

// ListSpec is the list-level part of a ListInstance passed to EnsureList.
type ListSpec struct {
	Title               string
	Description         string
	Template            int
	ContentTypesEnabled bool
	AdditionalSettings  map[string]any
}

// ContentTypeInfo identifies a content type attached to a list.
type ContentTypeInfo struct {
	ID   string
	Name string
}

// FieldInfo is the subset of field metadata returned after creation.
type FieldInfo struct {
	ID           string
	InternalName string
	Title        string
}

// FieldUpdate carries the field properties to change; nil members are left as they are.
type FieldUpdate struct {
	Title    *string
	Hidden   *bool
	Required *bool
}

// IsEmpty reports whether the update would change nothing.
func (u FieldUpdate) IsEmpty() bool {
	return u.Title == nil && u.Hidden == nil && u.Required == nil
}

// ViewInfo is the subset of view metadata used by provisioning.
type ViewInfo struct {
	ID                string
	Title             string
	ServerRelativeURL string
}

// ListClient is the remote surface needed to provision lists on one site.
// Lists are addressed by title. Implementations must honor ctx on every call.
type ListClient interface {
	SiteURL() string

	// EnsureList returns the existing list or creates it; Created reports which happened.
	EnsureList(ctx context.Context, spec ListSpec) (*provisioning.ListInfo, error)

	AddAvailableContentType(ctx context.Context, listTitle, contentTypeID string) error
	GetContentTypes(ctx context.Context, listTitle string) ([]ContentTypeInfo, error)
	DeleteContentType(ctx context.Context, listTitle, contentTypeID string) error

	DeleteField(ctx context.Context, listTitle, fieldID string) error
	CreateFieldAsXML(ctx context.Context, listTitle, schemaXML string) (*FieldInfo, error)
	UpdateField(ctx context.Context, listTitle, fieldID string, update FieldUpdate) error

	// GetView returns ErrNotFound when the list has no view with this title.
	GetView(ctx context.Context, listTitle, viewTitle string) (*ViewInfo, error)
	UpdateView(ctx context.Context, listTitle, viewTitle string, settings map[string]any) error
	AddView(ctx context.Context, listTitle, viewTitle string, personal bool, settings map[string]any) (*ViewInfo, error)
	RemoveAllViewFields(ctx context.Context, listTitle, viewTitle string) error
	AddViewField(ctx context.Context, listTitle, viewTitle, fieldName string) error
}
