// Package domain defines the core types for working with person names.
//
// # Core Types
//
// PersonName is an immutable value object holding a first name and an
// optional last name. Every rendering (full, sorted, abbreviated, familiar,
// initials, mentionable) is derived once at construction.
//
// Person is the stored entity: an ID, a PersonName, an optional email and
// timestamps.
//
// # Errors
//
// Invalid input wraps ErrInvalidArgument and failed lookups wrap
// ErrNotFound; match them with errors.Is.
//
// The package has no database or transport dependencies.
package domain
