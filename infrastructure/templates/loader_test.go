package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spprovision/domain/provisioning"
)

const yamlTemplate = `
Version: "1.0"
Lists:
  - Title: Clients
    Fields:
      - '<Field ID="{6f1c2b6e-0000-4000-8000-000000000001}" Name="ClientCode" DisplayName="Client Code" Type="Text" />'
  - Title: Projects
    ContentTypesEnabled: true
    RemoveExistingContentTypes: true
    ContentTypeBindings:
      - ContentTypeID: "0x0100AB"
    AdditionalSettings:
      EnableVersioning: true
      MajorVersionLimit: 10
    Fields:
      - '<Field ID="{6f1c2b6e-0000-4000-8000-000000000002}" Name="Client" Type="Lookup" List="{listid:Clients}" ShowField="Title" />'
    FieldRefs:
      - ID: "fa564e0f-0c70-4ab9-b863-0177e6ddd247"
        DisplayName: Project Name
        Required: true
    Views:
      - Title: All Items
        ViewFields: []
      - Title: Active
        ViewFields: [LinkTitle, Client]
        AdditionalSettings:
          RowLimit: 50
      - Title: Untouched
`

const jsonTemplate = `{
  "Name": "pmo",
  "Lists": [
    {
      "Title": "Projects",
      "Views": [
        {"Title": "All Items", "ViewFields": []},
        {"Title": "Untouched"}
      ]
    }
  ]
}`

func TestParse_YAML(t *testing.T) {
	schema, err := Parse([]byte(yamlTemplate), FormatYAML)
	require.NoError(t, err)

	require.Len(t, schema.Lists, 2)
	projects := schema.Lists[1]
	assert.Equal(t, "Projects", projects.Title)
	assert.True(t, projects.ContentTypesEnabled)
	assert.True(t, projects.RemoveExistingContentTypes)
	assert.Equal(t, "0x0100AB", projects.ContentTypeBindings[0].ContentTypeID)
	assert.Equal(t, true, projects.AdditionalSettings["EnableVersioning"])
	assert.Equal(t, 10, projects.AdditionalSettings["MajorVersionLimit"])
	assert.Contains(t, projects.Fields[0], "{listid:Clients}")

	require.Len(t, projects.FieldRefs, 1)
	require.NotNil(t, projects.FieldRefs[0].Required)
	assert.True(t, *projects.FieldRefs[0].Required)
	assert.Nil(t, projects.FieldRefs[0].Hidden)

	require.Len(t, projects.Views, 3)
	assert.NotNil(t, projects.Views[0].ViewFields)
	assert.Empty(t, projects.Views[0].ViewFields)
	assert.Equal(t, []string{"LinkTitle", "Client"}, projects.Views[1].ViewFields)
	assert.Nil(t, projects.Views[2].ViewFields)
}

func TestParse_JSONKeepsEmptyViewFields(t *testing.T) {
	schema, err := Parse([]byte(jsonTemplate), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "pmo", schema.Name)
	views := schema.Lists[0].Views
	assert.NotNil(t, views[0].ViewFields)
	assert.Nil(t, views[1].ViewFields)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr error
	}{
		{"empty", "  ", FormatJSON, provisioning.ErrInvalidSchema},
		{"bad json", "{", FormatJSON, provisioning.ErrInvalidSchema},
		{"bad yaml", "Lists: [", FormatYAML, provisioning.ErrInvalidSchema},
		{"invalid field", `{"Lists":[{"Title":"A","Fields":["<Field Name=\"X\"/>"]}]}`, FormatJSON, provisioning.ErrInvalidFieldXML},
		{"duplicate list", `{"Lists":[{"Title":"A"},{"Title":"a"}]}`, FormatJSON, provisioning.ErrInvalidSchema},
		{"unknown format", `{}`, Format("toml"), ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("site/template.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatFromPath("template.json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = FormatFromPath("template.xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatFromContentType(t *testing.T) {
	tests := map[string]Format{
		"":                                FormatJSON,
		"application/json":                FormatJSON,
		"application/json; charset=utf-8": FormatJSON,
		"application/yaml":                FormatYAML,
		"text/x-yaml":                     FormatYAML,
	}
	for ct, want := range tests {
		got, err := FormatFromContentType(ct)
		require.NoError(t, err, ct)
		assert.Equal(t, want, got, ct)
	}

	_, err := FormatFromContentType("text/plain")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFile_DefaultsNameToFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlTemplate), 0o600))

	schema, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "projects", schema.Name)
}

func TestRead(t *testing.T) {
	schema, err := Read(strings.NewReader(jsonTemplate), FormatJSON)
	require.NoError(t, err)
	assert.Len(t, schema.Lists, 1)
}
