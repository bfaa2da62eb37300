// Package pkgerror defines the structured error returned to HTTP clients.
//
// An Error wraps the underlying cause, so errors.Is still matches domain
// sentinels, and carries the user-facing message and a Code that the router
// maps to a status (400, 404, 422, 500 ...).
package pkgerror
