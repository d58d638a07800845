// Package lifecycle coordinates a document's journey from form submission
// through preview, editing, regeneration, and download. A single controller
// owns the state machine; every transition is explicit and everything else is
// rejected.
package lifecycle

// State names a position in the document lifecycle.
type State int

const (
	// Idle means no generation has happened yet, or the previous document
	// was discarded by a template switch or reset.
	Idle State = iota
	// Submitting means a generation request is in flight.
	Submitting
	// Ready means a generated document is held and previewable.
	Ready
	// Editing means the user is revising the generated content before a
	// refine call.
	Editing
	// ConfirmingRegenerate means a regeneration was requested and awaits
	// explicit confirmation before the held document is replaced.
	ConfirmingRegenerate
)

var stateNames = map[State]string{
	Idle:                 "idle",
	Submitting:           "submitting",
	Ready:                "ready",
	Editing:              "editing",
	ConfirmingRegenerate: "confirming-regenerate",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
