//go:build tools

// Package tools pins build-time tooling in go.mod.
package tools

import (
	_ "github.com/vektra/mockery/v2"
)
