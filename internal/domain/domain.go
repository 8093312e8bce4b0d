// Package domain holds the core entities, enums and value objects shared by
// the repository, service and handler layers.
package domain
