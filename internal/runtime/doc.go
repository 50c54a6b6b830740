// Package runtime spawns template commands. Run executes a command to
// completion with inherited streams; RunUntilReady starts a long-running
// server and watches its output for a readiness marker, an error marker,
// early exit or a timeout, whichever happens first.
package runtime
