package spclient

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spprovision/domain/contracts"
)

func TestJoinURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		rel  string
		want string
	}{
		{"server relative", "https://contoso.sharepoint.com/sites/a", "/sites/a/Lists/Projects", "https://contoso.sharepoint.com/sites/a/Lists/Projects"},
		{"relative", "https://contoso.sharepoint.com/sites/a", "Lists/Projects", "https://contoso.sharepoint.com/sites/a/Lists/Projects"},
		{"empty rel", "https://contoso.sharepoint.com/sites/a", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinURL(tt.base, tt.rel))
		})
	}
}

func TestOdataLiteral(t *testing.T) {
	assert.Equal(t, "Projects", odataLiteral("Projects"))
	assert.Equal(t, "Bob%27%27s%20List", odataLiteral("Bob's List"))
	assert.Equal(t, "Q%231", odataLiteral("Q#1"))
}

func TestListEndpoint(t *testing.T) {
	got := listEndpoint("https://contoso.sharepoint.com/sites/a/", "Projects", "/ContentTypes/AddAvailableContentType")
	assert.Equal(t, "https://contoso.sharepoint.com/sites/a/_api/web/lists/GetByTitle('Projects')/ContentTypes/AddAvailableContentType", got)
}

func TestViewFieldsEndpoint(t *testing.T) {
	got := viewFieldsEndpoint("https://contoso.sharepoint.com/sites/a", "Projects", "All Items", "/RemoveAllViewFields")
	assert.Equal(t,
		"https://contoso.sharepoint.com/sites/a/_api/web/lists/GetByTitle('Projects')/Views/GetByTitle('All%20Items')/ViewFields/RemoveAllViewFields",
		got)
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, isNotFound(nil))
	assert.True(t, isNotFound(errors.New(`404 Not Found :: {"error":{"code":"-2130575322, Microsoft.SharePoint.SPException"}}`)))
	assert.True(t, isNotFound(fmt.Errorf("get view: %w", errors.New("404 Not Found :: {}"))))
	assert.True(t, isNotFound(contracts.ErrNotFound))
	assert.False(t, isNotFound(errors.New("500 Internal Server Error :: {}")))
}

func TestWrapNotFound(t *testing.T) {
	err := wrapNotFound(fmt.Errorf("get view: %w", errors.New("404 Not Found :: {}")))
	assert.ErrorIs(t, err, contracts.ErrNotFound)
	assert.Contains(t, err.Error(), "get view")

	other := errors.New("403 Forbidden :: {}")
	assert.Same(t, other, wrapNotFound(other))
	assert.NoError(t, wrapNotFound(nil))
}

func TestDecodeContentTypes(t *testing.T) {
	payload := []byte(`[
		{"StringId":"0x0100AA","Name":"Item"},
		{"Id":{"StringValue":"0x012000BB"},"Name":"Folder"}
	]`)

	cts, err := decodeContentTypes(payload)
	require.NoError(t, err)
	assert.Equal(t, []contracts.ContentTypeInfo{
		{ID: "0x0100AA", Name: "Item"},
		{ID: "0x012000BB", Name: "Folder"},
	}, cts)
}

func TestDecodeFieldAndView(t *testing.T) {
	f, err := decodeField([]byte(`{"Id":"f1","InternalName":"ProjectCode","Title":"ProjectCode"}`))
	require.NoError(t, err)
	assert.Equal(t, &contracts.FieldInfo{ID: "f1", InternalName: "ProjectCode", Title: "ProjectCode"}, f)

	v, err := decodeView([]byte(`{"Id":"v1","Title":"Active","ServerRelativeUrl":"/sites/a/Lists/Projects/Active.aspx"}`))
	require.NoError(t, err)
	assert.Equal(t, "Active", v.Title)
	assert.Equal(t, "/sites/a/Lists/Projects/Active.aspx", v.ServerRelativeURL)

	_, err = decodeView([]byte(`not json`))
	assert.Error(t, err)
}

func TestFieldUpdateBody(t *testing.T) {
	hidden := true
	body, err := fieldUpdateBody(contracts.FieldUpdate{Hidden: &hidden})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Hidden":true}`, string(body))

	title := "Project Code"
	required := false
	body, err = fieldUpdateBody(contracts.FieldUpdate{Title: &title, Required: &required})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Title":"Project Code","Required":false}`, string(body))
}

func TestListCreateMetadata(t *testing.T) {
	md := listCreateMetadata(contracts.ListSpec{
		Title:               "Projects",
		Description:         "All projects",
		Template:            100,
		ContentTypesEnabled: true,
		AdditionalSettings:  map[string]any{"EnableVersioning": true, "BaseTemplate": 999},
	})

	assert.Equal(t, 100, md["BaseTemplate"])
	assert.Equal(t, true, md["ContentTypesEnabled"])
	assert.Equal(t, "All projects", md["Description"])
	assert.Equal(t, true, md["EnableVersioning"])
	assert.NotContains(t, md, "Title")
}

func TestViewCreateBody(t *testing.T) {
	body, err := viewCreateBody("Active", true, map[string]any{"RowLimit": 50, "Title": "ignored"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Title":"Active","PersonalView":true,"RowLimit":50}`, string(body))
}
