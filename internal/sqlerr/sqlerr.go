// Package sqlerr translates database driver errors into application errors.
// It maps Postgres SQLSTATE codes onto friendly categories and turns
// constraint violations into actionable client-facing messages.
package sqlerr
