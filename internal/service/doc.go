// Package service implements the people use cases on top of the repository.
//
// PeopleService parses incoming full names into domain.PersonName values,
// persists them through a repository.PeopleRepository and publishes an Event
// for every change. Listing uses Unicode collation on the sorted name form so
// that accented names order the way readers expect.
package service
