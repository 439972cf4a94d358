//go:build tools

// Package tools fija en go.mod las versiones de las herramientas de generación.
package tools

import (
	_ "github.com/swaggo/swag/cmd/swag"
)
