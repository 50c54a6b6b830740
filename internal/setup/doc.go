// Package setup prepares a templates checkout for local development: it
// creates the shared .env file, fills in database connection settings and
// makes sure every TypeScript template has a tsconfig.json.
package setup
