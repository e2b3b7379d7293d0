// Package repository defines the data access interfaces for people records.
//
// The sqlite subpackage provides the implementation. It never stores a
// PersonName directly: every read and write goes through a
// cast.PersonNameCast, which decides the two columns holding the first and
// last name.
//
// # Missing Records
//
// Lookups that match nothing return an error wrapping domain.ErrNotFound.
// Rows whose first name column is empty load with a nil Name.
package repository
