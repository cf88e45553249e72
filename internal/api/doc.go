// Package api wires the Easy Budget REST API: routing, middleware and
// health endpoints. Tenant routes authenticate with a JWT bearer token,
// platform administration routes with an X-API-Key header.
package api
