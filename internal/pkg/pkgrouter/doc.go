// Package pkgrouter wraps HTTP routing and common middleware used by the API.
//
// Handlers return a payload or an error. Payloads are wrapped in a
// message/data envelope unless they implement RawResponse; errors are mapped
// to status codes through pkgerror. The default chain recovers panics,
// propagates correlation IDs and logs each request without reading its
// body.
package pkgrouter
