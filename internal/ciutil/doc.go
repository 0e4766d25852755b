// Package ciutil detects the execution environment (CI or local development)
// and resolves the database connection string used by integration tests.
//
// Integration tests should not read connection environment variables
// directly; they go through GetTestDatabaseURL so that legacy variable
// names are reported and CI credentials are normalized in one place.
package ciutil
