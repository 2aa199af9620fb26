//go:build tools

// Package tools manages development tool dependencies.
// These dependencies are not included in the final binary.
package tools

import (
// Linting and formatting tools, installed via make install-dev:
// _ "github.com/golangci/golangci-lint/cmd/golangci-lint"
// _ "golang.org/x/tools/cmd/goimports"
)
