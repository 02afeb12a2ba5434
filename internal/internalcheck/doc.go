// Package internalcheck holds repository policy tests: only internal/native
// may use cgo, and the public package never panics on its own.
package internalcheck
