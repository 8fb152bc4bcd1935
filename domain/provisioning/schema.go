package provisioning

import (
	"errors"
	"fmt"
	"strings"
)

// Common SharePoint list base templates.
const (
	TemplateGenericList     = 100
	TemplateDocumentLibrary = 101
)

// FolderContentTypePrefix identifies the Folder content type and its descendants.
// Content types under it are never removed from a list.
const FolderContentTypePrefix = "0x0120"

// Schema is a provisioning template: the lists to ensure on a site.
type Schema struct {
	Version string         `json:"Version,omitempty" yaml:"Version,omitempty"`
	Name    string         `json:"Name,omitempty" yaml:"Name,omitempty"`
	Lists   []ListInstance `json:"Lists" yaml:"Lists"`
}

// ListInstance describes one list and its dependents.
type ListInstance struct {
	Title                      string               `json:"Title" yaml:"Title"`
	Description                string               `json:"Description,omitempty" yaml:"Description,omitempty"`
	Template                   int                  `json:"Template,omitempty" yaml:"Template,omitempty"`
	ContentTypesEnabled        bool                 `json:"ContentTypesEnabled,omitempty" yaml:"ContentTypesEnabled,omitempty"`
	RemoveExistingContentTypes bool                 `json:"RemoveExistingContentTypes,omitempty" yaml:"RemoveExistingContentTypes,omitempty"`
	ContentTypeBindings        []ContentTypeBinding `json:"ContentTypeBindings,omitempty" yaml:"ContentTypeBindings,omitempty"`
	AdditionalSettings         map[string]any       `json:"AdditionalSettings,omitempty" yaml:"AdditionalSettings,omitempty"`
	Fields                     []string             `json:"Fields,omitempty" yaml:"Fields,omitempty"`
	FieldRefs                  []FieldRef           `json:"FieldRefs,omitempty" yaml:"FieldRefs,omitempty"`
	Views                      []ListView           `json:"Views,omitempty" yaml:"Views,omitempty"`
}

// EffectiveTemplate returns the base template, defaulting to a generic list.
func (l ListInstance) EffectiveTemplate() int {
	if l.Template == 0 {
		return TemplateGenericList
	}
	return l.Template
}

// ContentTypeBinding attaches an existing site content type to the list.
type ContentTypeBinding struct {
	ContentTypeID string `json:"ContentTypeID" yaml:"ContentTypeID"`
}

// FieldRef overrides properties of a field already present on the list.
type FieldRef struct {
	ID          string `json:"ID" yaml:"ID"`
	DisplayName string `json:"DisplayName,omitempty" yaml:"DisplayName,omitempty"`
	Required    *bool  `json:"Required,omitempty" yaml:"Required,omitempty"`
	Hidden      *bool  `json:"Hidden,omitempty" yaml:"Hidden,omitempty"`
}

// ListView describes a view to create or update.
type ListView struct {
	Title              string         `json:"Title" yaml:"Title"`
	PersonalView       bool           `json:"PersonalView,omitempty" yaml:"PersonalView,omitempty"`
	ViewFields         []string       `json:"ViewFields,omitempty" yaml:"ViewFields,omitempty"`
	AdditionalSettings map[string]any `json:"AdditionalSettings,omitempty" yaml:"AdditionalSettings,omitempty"`
}

// Validate checks the template for problems that would fail mid-run.
// All problems are reported together, wrapped in ErrInvalidSchema.
func (s *Schema) Validate() error {
	var errs []error
	titles := make(map[string]bool, len(s.Lists))

	for i, list := range s.Lists {
		title := strings.TrimSpace(list.Title)
		if title == "" {
			errs = append(errs, fmt.Errorf("list #%d: title is required", i+1))
			continue
		}
		key := strings.ToLower(title)
		if titles[key] {
			errs = append(errs, fmt.Errorf("list %q: duplicate title", list.Title))
		}
		titles[key] = true

		for j, ct := range list.ContentTypeBindings {
			if strings.TrimSpace(ct.ContentTypeID) == "" {
				errs = append(errs, fmt.Errorf("list %q: content type binding #%d has no ContentTypeID", list.Title, j+1))
			}
		}
		for j, fieldXML := range list.Fields {
			if _, err := ParseFieldXML(fieldXML); err != nil {
				errs = append(errs, fmt.Errorf("list %q: field #%d: %w", list.Title, j+1, err))
			}
		}
		for j, ref := range list.FieldRefs {
			if strings.TrimSpace(ref.ID) == "" {
				errs = append(errs, fmt.Errorf("list %q: field ref #%d has no ID", list.Title, j+1))
			}
		}
		for j, view := range list.Views {
			if strings.TrimSpace(view.Title) == "" {
				errs = append(errs, fmt.Errorf("list %q: view #%d has no title", list.Title, j+1))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidSchema, errors.Join(errs...))
}

// Counts summarizes how many objects the template declares.
type Counts struct {
	Lists     int
	Fields    int
	FieldRefs int
	Views     int
}

// Count tallies the declared objects, used for progress reporting.
func (s *Schema) Count() Counts {
	c := Counts{Lists: len(s.Lists)}
	for _, l := range s.Lists {
		c.Fields += len(l.Fields)
		c.FieldRefs += len(l.FieldRefs)
		c.Views += len(l.Views)
	}
	return c
}
