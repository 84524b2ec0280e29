// Package guard implements the AI-crawler opt-out audit used by the
// noai-guardian CLI.
//
// It exposes CommandBuilder for wiring the Cobra command, Service for driving
// the audit/fix workflow programmatically, and the compliance rules, artifact
// scanner, patch engine, and report builder the workflow is assembled from.
//
// Known limitation: the robots.txt check is a raw case-insensitive substring
// test against the whole file, so a bot name appearing in a comment or an
// unrelated line counts as covered even without a real Disallow rule.
package guard
