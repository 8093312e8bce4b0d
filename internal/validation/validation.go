// Package validation binds and validates request payloads. Rules are declared
// as validator struct tags; failures are converted into field-level errors
// the client can render next to form inputs.
package validation
