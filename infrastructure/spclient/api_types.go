package spclient

import (
	"encoding/json"
	"fmt"

	"spprovision/domain/contracts"
)

// JSON response structures, decoded from gosip's normalized (minimal metadata) payloads.

type listJSON struct {
	Id         string `json:"Id"`
	Title      string `json:"Title"`
	RootFolder struct {
		ServerRelativeUrl string `json:"ServerRelativeUrl"`
	} `json:"RootFolder"`
}

type contentTypeJSON struct {
	StringId string `json:"StringId"`
	Name     string `json:"Name"`
	Id       struct {
		StringValue string `json:"StringValue"`
	} `json:"Id"`
}

// ID prefers StringId and falls back to the nested Id.StringValue shape.
func (ct contentTypeJSON) ID() string {
	return firstNonEmpty(ct.StringId, ct.Id.StringValue)
}

type fieldJSON struct {
	Id           string `json:"Id"`
	InternalName string `json:"InternalName"`
	Title        string `json:"Title"`
}

type viewJSON struct {
	Id                string `json:"Id"`
	Title             string `json:"Title"`
	ServerRelativeUrl string `json:"ServerRelativeUrl"`
}

func decodeList(b []byte) (listJSON, error) {
	var l listJSON
	if err := json.Unmarshal(b, &l); err != nil {
		return listJSON{}, fmt.Errorf("decode list: %w", err)
	}
	return l, nil
}

func decodeContentTypes(b []byte) ([]contracts.ContentTypeInfo, error) {
	var raw []contentTypeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode content types: %w", err)
	}
	out := make([]contracts.ContentTypeInfo, 0, len(raw))
	for _, ct := range raw {
		out = append(out, contracts.ContentTypeInfo{ID: ct.ID(), Name: ct.Name})
	}
	return out, nil
}

func decodeField(b []byte) (*contracts.FieldInfo, error) {
	var f fieldJSON
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode field: %w", err)
	}
	return &contracts.FieldInfo{ID: f.Id, InternalName: f.InternalName, Title: f.Title}, nil
}

func decodeView(b []byte) (*contracts.ViewInfo, error) {
	var v viewJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode view: %w", err)
	}
	return &contracts.ViewInfo{ID: v.Id, Title: v.Title, ServerRelativeURL: v.ServerRelativeUrl}, nil
}

// fieldUpdateBody renders the non-nil members of u as an SP.Field merge payload.
func fieldUpdateBody(u contracts.FieldUpdate) ([]byte, error) {
	body := map[string]any{}
	if u.Title != nil {
		body["Title"] = *u.Title
	}
	if u.Hidden != nil {
		body["Hidden"] = *u.Hidden
	}
	if u.Required != nil {
		body["Required"] = *u.Required
	}
	return json.Marshal(body)
}

// listCreateMetadata merges spec into the metadata map passed to Lists().Add.
// Explicit spec members win over AdditionalSettings.
func listCreateMetadata(spec contracts.ListSpec) map[string]interface{} {
	metadata := make(map[string]interface{}, len(spec.AdditionalSettings)+3)
	for k, v := range spec.AdditionalSettings {
		metadata[k] = v
	}
	metadata["BaseTemplate"] = spec.Template
	metadata["ContentTypesEnabled"] = spec.ContentTypesEnabled
	if spec.Description != "" {
		metadata["Description"] = spec.Description
	}
	return metadata
}

// viewCreateBody renders the SP.View payload for Views().Add.
func viewCreateBody(title string, personal bool, settings map[string]any) ([]byte, error) {
	body := make(map[string]any, len(settings)+2)
	for k, v := range settings {
		body[k] = v
	}
	body["Title"] = title
	body["PersonalView"] = personal
	return json.Marshal(body)
}
