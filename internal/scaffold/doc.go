// Package scaffold extracts starter templates into standalone projects. An
// extraction copies the template sources, then writes a generated
// package.json, the shared .env.example and a README rendered from the
// template's profile.
package scaffold
