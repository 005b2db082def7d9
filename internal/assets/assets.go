package assets

import (
	_ "embed"
)

//go:embed env.example
var envExample string

// EnvTemplate returns the starter .env written by setup.
func EnvTemplate() string {
	return envExample
}
