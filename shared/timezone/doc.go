// Package timezone centralizes time handling for the service. All timestamps
// are produced and formatted in the configured application timezone so that
// database rows and API responses agree regardless of server locale.
package timezone
