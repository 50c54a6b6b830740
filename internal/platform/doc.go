// Package platform isolates OS-specific behavior: process-group handling for
// spawned template servers and owner-only file permissions. On Unix a child
// runs in its own process group so that killing it also stops the server that
// a package-manager wrapper started. On Windows the helpers degrade to
// killing the direct child and skipping chmod.
package platform
