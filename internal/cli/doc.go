// Package cli defines the Cobra command tree for the ormstarter CLI. Each file
// in this package registers one top-level command (extract, seed-all,
// test-all, etc.) with the root command. Command implementations delegate to
// internal packages for the work and only handle flags, output formatting
// and user interaction.
package cli
