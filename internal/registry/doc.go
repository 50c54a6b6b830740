// Package registry holds the catalog of starter templates. The catalog is
// declared in the embedded templates.yaml, parsed and validated once at
// startup, and handed to consumers as an immutable *Registry.
package registry
