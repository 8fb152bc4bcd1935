package core

// StatusClass returns the badge classes for a run status.
func StatusClass(status string) string {
	switch status {
	case "completed":
		return "bg-green-100 text-green-800"
	case "failed":
		return "bg-red-100 text-red-800"
	case "running":
		return "bg-blue-100 text-blue-800"
	default:
		return "bg-slate-100 text-slate-700"
	}
}

// StatusIcon returns a short glyph for a run status.
func StatusIcon(status string) string {
	switch status {
	case "completed":
		return "✅"
	case "failed":
		return "❌"
	case "running":
		return "🔄"
	default:
		return "⏳"
	}
}

// Plural picks the singular or plural noun for n.
func Plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
