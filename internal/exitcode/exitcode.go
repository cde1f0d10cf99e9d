// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, blank text, bad reference).
	UserError = 1

	// AuthError indicates a Google auth/config error during sync or login.
	AuthError = 2

	// BackendError indicates a storage or remote API failure.
	BackendError = 3
)
