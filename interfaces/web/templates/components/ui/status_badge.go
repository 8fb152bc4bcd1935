package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"spprovision/interfaces/web/templates/components/core"
)

// StatusBadge renders a pill with the status icon and name.
func StatusBadge(status string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<span class="inline-flex items-center px-2 py-1 rounded-full text-xs %s">%s %s</span>`,
			core.StatusClass(status), core.StatusIcon(status), templ.EscapeString(status))
		return err
	})
}

// StatCounter renders one labelled number in a run summary.
func StatCounter(label string, n int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="text-center"><div class="text-lg font-semibold text-slate-900">%d</div><div class="text-xs text-slate-500">%s</div></div>`,
			n, templ.EscapeString(label))
		return err
	})
}
