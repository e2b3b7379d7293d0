// Package handler exposes PeopleService over HTTP.
//
// Routes are mounted on a chi router by NewRouter:
//
//	GET    /healthz
//	GET    /api/people              list, or ?mention=handle to search
//	POST   /api/people              {"name": "...", "email": "..."}
//	GET    /api/people/{id}
//	PUT    /api/people/{id}         {"name": "..."} renames
//	DELETE /api/people/{id}
//	GET    /api/formats?name=...
//	GET    /api/possessive?name=...&as=format
//	GET    /api/export?format=json|yaml
//	POST   /api/import?format=json|yaml
//	GET    /events                  server-sent change events
//
// Errors are returned as JSON ErrorResponse bodies. Invalid input maps to
// 400 and unknown IDs to 404.
package handler
