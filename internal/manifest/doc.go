// Package manifest builds the package.json written into an extracted
// template and validates it against an embedded JSON Schema plus semver
// checks on the version and dependency constraints.
package manifest
