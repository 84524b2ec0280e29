package guard

import "time"

// ArtifactKind enumerates the artifact categories the audit understands.
type ArtifactKind string

// Artifact kinds produced by the scanner.
const (
	ArtifactKindHTMLFile   ArtifactKind = "html"
	ArtifactKindRobotsFile ArtifactKind = "robots"
)

// Artifact identifies one checked unit relative to the scan root.
type Artifact struct {
	Path string
	Kind ArtifactKind
}

// Outcome captures the result of evaluating one artifact against its rule.
//
// Passed implies Reason and ProposedPatch are empty.
type Outcome struct {
	Passed        bool   `json:"passed"`
	Reason        string `json:"reason"`
	ProposedPatch string `json:"fix"`
}

// CommandOptions captures the configurable parameters for an audit run.
type CommandOptions struct {
	Path string
	Fix  bool
}

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
