// Package utils provides small string helpers shared by the puter-go
// internals: bounded previews of upstream bodies for error messages and
// diagnostics, and JSON rendering that never fails.
package utils
