// Package main is the entry point for the catalogctl CLI.
package main

import (
	"github.com/samvad-hq/catalog-sdk/cmd/catalogctl/cmd"
)

func main() {
	cmd.Execute()
}
