// Package testutils provides helpers shared by tests across the module:
// task fixtures, HTTP request and envelope assertions against a running
// httptest server, and an in-memory slog handler for asserting on log output.
package testutils
