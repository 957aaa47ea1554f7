// Package annotate implements pull request annotation helpers for CI
// automation: posting and amending comments, marker-based comment
// synchronization, label edits, and contributor status checks. The package
// exposes Cobra command builders alongside a reusable Service that
// coordinates the GitHub CLI client.
package annotate
