package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spprovision/database"
	"spprovision/domain/runs"
	"spprovision/infrastructure/config"
	"spprovision/infrastructure/repositories"
	"spprovision/logging"
)

const pmoTemplate = `Name: pmo
Lists:
  - Title: Projects
    Template: 100
    Fields:
      - <Field ID="{1b1e3e4c-6d0a-4c4e-9d1a-0c2f4a1b2c3d}" Name="ProjectCode" DisplayName="Project code" Type="Text" />
    FieldRefs:
      - ID: "{fa564e0f-0c70-4ab9-b863-0177e6ddd247}"
        DisplayName: Project
    Views:
      - Title: All Items
        ViewFields: [LinkTitle, ProjectCode]
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTemplate(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateCommand(t *testing.T) {
	path := writeTemplate(t, "pmo.yaml", pmoTemplate)

	stdout, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Equal(t, "Template pmo is valid: 1 lists, 1 fields, 1 field refs, 1 views\n", stdout)
}

func TestValidateCommand_JSON(t *testing.T) {
	path := writeTemplate(t, "pmo.yaml", pmoTemplate)

	stdout, _, err := execute(t, "validate", path, "-o", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, true, got["valid"])
	assert.Equal(t, "pmo", got["name"])
	assert.EqualValues(t, 1, got["fields"])
}

func TestValidateCommand_NameFromFile(t *testing.T) {
	path := writeTemplate(t, "intranet.json", `{"Lists":[{"Title":"News"}]}`)

	stdout, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Template intranet is valid: 1 lists")
}

func TestValidateCommand_Errors(t *testing.T) {
	invalid := writeTemplate(t, "bad.yaml", "Lists:\n  - Title: A\n  - Title: a\n")
	_, _, err := execute(t, "validate", invalid)
	assert.ErrorContains(t, err, "duplicate title")

	unsupported := writeTemplate(t, "pmo.xml", "<Lists/>")
	_, _, err = execute(t, "validate", unsupported)
	assert.Error(t, err)

	good := writeTemplate(t, "pmo.yaml", pmoTemplate)
	_, _, err = execute(t, "validate", good, "-o", "xml")
	assert.ErrorContains(t, err, `unknown output format "xml"`)

	_, _, err = execute(t, "validate")
	assert.Error(t, err)
}

func seedRuns(t *testing.T, path string, ids ...string) {
	t.Helper()
	cfg := config.LoadDatabaseConfigFromEnv()
	cfg.Path = path
	db, err := database.New(*cfg, logging.NewLoggerWithWriter(&logging.Config{Level: "error"}, &bytes.Buffer{}))
	require.NoError(t, err)
	defer db.Close()

	repo := repositories.NewSqliteRunRepository(db)
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range ids {
		run := runs.NewRun(id, "https://contoso.sharepoint.com/sites/pmo", "pmo")
		run.StartedAt = base.Add(time.Duration(i) * time.Minute)
		run.Status = runs.RunStatusCompleted
		require.NoError(t, repo.CreateRun(context.Background(), run))
	}
}

func TestRunsCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	seedRuns(t, dbPath, "first", "second", "third")

	stdout, _, err := execute(t, "runs", "--db", dbPath, "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ID")
	assert.Contains(t, stdout, "third")
	assert.Contains(t, stdout, "second")
	assert.NotContains(t, stdout, "first")

	stdout, _, err = execute(t, "runs", "--db", dbPath, "-o", "json")
	require.NoError(t, err)
	var view struct {
		Runs []struct {
			ID string `json:"id"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	require.Len(t, view.Runs, 3)
	assert.Equal(t, "third", view.Runs[0].ID)
}

func TestRunsCommand_Empty(t *testing.T) {
	stdout, _, err := execute(t, "runs", "--db", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded\n", stdout)

	_, _, err = execute(t, "runs", "--db", filepath.Join(t.TempDir(), "empty.db"), "--limit", "0")
	assert.ErrorContains(t, err, "--limit must be positive")
}
