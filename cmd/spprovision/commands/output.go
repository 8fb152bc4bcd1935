package commands

import (
	"encoding/json"
	"io"
	"strings"

	"spprovision/interfaces/web/presenters"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeRunSummary prints a run the way an operator reads it after apply.
func writeRunSummary(w io.Writer, run *presenters.RunView) {
	template := run.Template
	if template == "" {
		template = "-"
	}
	writeLine(w, "Run %s (%s) %s in %s", run.ID, template, run.Status, run.Duration)
	writeLine(w, "Site: %s", run.SiteURL)

	for _, l := range run.Lists {
		state := "existing"
		if l.Created {
			state = "created"
		}
		writeLine(w, "  list %-30s %-8s %s", l.Title, state, l.URL)
	}

	s := run.Stats
	writeLine(w, "Content types: %d bound, %d skipped, %d removed",
		s.ContentTypesBound, s.ContentTypesSkipped, s.ContentTypesRemoved)
	writeLine(w, "Fields: %d created, %d recreated, %d refs updated",
		s.FieldsCreated, s.FieldsRecreated, s.FieldRefsUpdated)
	writeLine(w, "Views: %d created, %d updated", s.ViewsCreated, s.ViewsUpdated)

	if run.Error != "" {
		writeLine(w, "Error: %s", strings.TrimSpace(run.Error))
	}
}
