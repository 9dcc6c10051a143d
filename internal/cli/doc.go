// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates flags, environment and .env files into app.Config and maps
// outcomes to ExitError values.
package cli
