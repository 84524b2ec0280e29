// Package gitrepo exposes the version-control collaborators used after fix
// runs, currently limited to staging modified paths via the git CLI.
package gitrepo
