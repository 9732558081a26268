// Package httputil provides the JSON plumbing shared by the share service
// handlers.
//
// # Responses
//
// [WriteJSON] writes a value with a status code. [WriteError] turns any
// error into the service's error body, using the code carried by
// [errors.Error] values and [errors.HTTPStatus] for the status:
//
//	{"code": "LINK_NOT_FOUND", "message": "short link 3f2a9c0d81b4 not found or expired"}
//
// Errors without a code are reported as INTERNAL_ERROR with a generic
// message so that internal details do not leak to clients.
//
// # Requests
//
// [DecodeJSON] reads a request body into a value, bounding its size with
// [MaxBodyBytes] and rejecting unknown fields and trailing data.
package httputil
