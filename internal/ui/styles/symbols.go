package styles

// Result symbols printed in front of per-repository lines.
const (
	SymbolSuccess = "✓"
	SymbolFailure = "✗"
	SymbolWarning = "⚠"
	SymbolSkipped = "•"
	SymbolNote    = "·"
)

// Mark kinds accepted by Mark.
const (
	MarkSuccess = "success"
	MarkFailure = "failure"
	MarkWarning = "warning"
	MarkSkipped = "skipped"
	MarkNote    = "note"
)

// Mark returns the colored symbol for kind. Unknown kinds render as a note.
func Mark(kind string) string {
	switch kind {
	case MarkSuccess:
		return SuccessStyle.Render(SymbolSuccess)
	case MarkFailure:
		return ErrorStyle.Render(SymbolFailure)
	case MarkWarning:
		return WarningStyle.Render(SymbolWarning)
	case MarkSkipped:
		return MutedStyle.Render(SymbolSkipped)
	default:
		return MutedStyle.Render(SymbolNote)
	}
}
