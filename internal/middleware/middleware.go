// Package middleware stores global and route-specific middleware. It handles
// cross-cutting concerns such as authentication, request logging, CORS,
// tracing and panic recovery.
package middleware
