// Package handler is the HTTP layer. It parses and validates requests,
// calls the service layer, and writes responses. All endpoints run through
// the shared pipeline in base.go so binding, validation, logging and tracing
// behave identically everywhere.
package handler
