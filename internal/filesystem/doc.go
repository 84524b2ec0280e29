// Package filesystem supplies the operating-system implementation of the
// filesystem collaborators injected into the audit workflow.
package filesystem
