package model

// ActionKind discriminates remediation actions
type ActionKind string

const (
	ActionMerge    ActionKind = "merge"
	ActionSplit    ActionKind = "split"
	ActionAnnotate ActionKind = "annotate"
)

// RemediationAction is one unit of planned remediation. Actions are
// idempotent: re-running the engine against already-remediated output
// detects zero new actionable findings.
type RemediationAction struct {
	Kind ActionKind `json:"kind"`

	// Merge: Keep absorbs novel lines from Remove, then Remove is deleted
	Keep    string  `json:"keep,omitempty"`
	Remove  string  `json:"remove,omitempty"`
	Overlap float64 `json:"overlap,omitempty"`

	// Split: Source is rewritten as Parts, then deleted
	Source string   `json:"source,omitempty"`
	Parts  []string `json:"parts,omitempty"`

	// Annotate: a marker naming Counterpart is inserted after the header
	Target      string `json:"target,omitempty"`
	Counterpart string `json:"counterpart,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Describe returns a one-line human-readable rendering of the action
func (a RemediationAction) Describe() string {
	switch a.Kind {
	case ActionMerge:
		return "merge " + a.Remove + " into " + a.Keep
	case ActionSplit:
		return "split " + a.Source
	case ActionAnnotate:
		return "annotate " + a.Target + " (conflicts with " + a.Counterpart + ")"
	}
	return string(a.Kind)
}

// ActionResult records the outcome of applying (or proposing) one action.
// A failed action never blocks other independent actions in the same run.
type ActionResult struct {
	Action RemediationAction `json:"action"`

	// Applied is false in dry-run mode and on failure
	Applied bool `json:"applied"`

	Err string `json:"error,omitempty"`
}
