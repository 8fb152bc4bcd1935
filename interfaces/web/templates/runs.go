// Package templates holds the HTML components of the run history UI.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"spprovision/interfaces/web/presenters"
	"spprovision/interfaces/web/templates/components/core"
	"spprovision/interfaces/web/templates/components/ui"
)

// RunHistoryPage renders the full run history document.
func RunHistoryPage(siteURL string, view *presenters.RunListView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Provisioning runs</title>
<script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-slate-50">
<main class="max-w-5xl mx-auto py-8 px-4">
<h1 class="text-2xl font-semibold text-slate-900">Provisioning runs</h1>
<p class="text-sm text-slate-500 mb-6">%s</p>
<div id="runs" class="bg-white rounded-lg shadow divide-y divide-slate-100">
`, templ.EscapeString(siteURL)); err != nil {
			return err
		}
		if err := RunList(view).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</div>\n</main>\n</body>\n</html>\n")
		return err
	})
}

// RunList renders run rows, or an empty state.
func RunList(view *presenters.RunListView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if view == nil || len(view.Runs) == 0 {
			_, err := io.WriteString(w, `<div class="px-6 py-8 text-center">
<h3 class="text-lg font-medium text-slate-900 mb-2">No runs yet</h3>
<p class="text-slate-500 text-sm">POST a template to /api/provision to start one</p>
</div>`)
			return err
		}
		for _, run := range view.Runs {
			if err := RunRow(run).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// RunRow renders one run with its summary and collapsible details.
func RunRow(run *presenters.RunView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		template := run.Template
		if template == "" {
			template = "untitled template"
		}
		if _, err := fmt.Fprintf(w, `<details class="px-6 py-4" id="run-%s">
<summary class="flex items-center justify-between cursor-pointer">
<div>
<div class="font-medium text-slate-900">%s</div>
<div class="text-xs text-slate-400">Run ID: %s · %s · %s</div>
</div>
<div class="text-right">`,
			templ.EscapeString(run.ID),
			templ.EscapeString(template),
			templ.EscapeString(run.ID),
			templ.EscapeString(run.StartedAt),
			templ.EscapeString(run.Duration)); err != nil {
			return err
		}
		if err := ui.StatusBadge(run.Status).Render(ctx, w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<div class="text-xs text-slate-500 mt-1">%d %s</div>
</div>
</summary>
`, len(run.Lists), core.Plural(len(run.Lists), "list", "lists")); err != nil {
			return err
		}

		if run.Error != "" {
			if _, err := fmt.Fprintf(w, `<pre class="mt-3 text-xs text-red-700 whitespace-pre-wrap">%s</pre>
`, templ.EscapeString(run.Error)); err != nil {
				return err
			}
		}
		if err := runStats(run.Stats).Render(ctx, w); err != nil {
			return err
		}
		if err := runTimeline(run.Timeline).Render(ctx, w); err != nil {
			return err
		}
		if err := runLists(run.Lists).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</details>\n")
		return err
	})
}

func runStats(stats presenters.RunStatsDisplay) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		counters := []struct {
			label string
			n     int
		}{
			{"lists created", stats.ListsCreated},
			{"content types bound", stats.ContentTypesBound},
			{"content types removed", stats.ContentTypesRemoved},
			{"fields created", stats.FieldsCreated},
			{"fields recreated", stats.FieldsRecreated},
			{"field refs updated", stats.FieldRefsUpdated},
			{"views created", stats.ViewsCreated},
			{"views updated", stats.ViewsUpdated},
		}
		if _, err := io.WriteString(w, `<div class="mt-3 grid grid-cols-4 gap-3">`); err != nil {
			return err
		}
		for _, c := range counters {
			if err := ui.StatCounter(c.label, c.n).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>\n")
		return err
	})
}

func runTimeline(timeline []presenters.PhaseDisplay) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(timeline) == 0 {
			return nil
		}
		var b strings.Builder
		b.WriteString(`<ol class="mt-3 text-xs text-slate-600 space-y-1">`)
		for _, p := range timeline {
			duration := p.Duration
			if duration == "" {
				duration = "in progress"
			}
			fmt.Fprintf(&b, `<li><span class="font-medium">%s</span> %s (%s)</li>`,
				templ.EscapeString(p.Phase), templ.EscapeString(p.Started), templ.EscapeString(duration))
		}
		b.WriteString("</ol>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func runLists(lists []presenters.ListDisplay) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(lists) == 0 {
			return nil
		}
		var b strings.Builder
		b.WriteString(`<ul class="mt-3 text-sm space-y-1">`)
		for _, l := range lists {
			label := "existing"
			if l.Created {
				label = "created"
			}
			title := templ.EscapeString(l.Title)
			if l.URL != "" {
				title = fmt.Sprintf(`<a class="text-blue-700 hover:underline" href="%s">%s</a>`,
					templ.EscapeString(string(templ.URL(l.URL))), title)
			}
			fmt.Fprintf(&b, `<li>%s <span class="text-xs text-slate-400">%s</span></li>`, title, label)
		}
		b.WriteString("</ul>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}
