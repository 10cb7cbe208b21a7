// Package timezone holds the application timezone, configured through
// APP_TIMEZONE and resolved when the package is imported.
//
// Timestamps leaving the API are formatted here. Hotel-local calendar logic
// loads its own zone with Load.
package timezone
