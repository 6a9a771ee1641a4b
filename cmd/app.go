// Package cmd implements the cfo command line: FIFO cost basis reports over
// Kraken ledger exports.
package cmd

import (
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range commands() {
		group := "reports"
		if cmd.Name() == "export" {
			group = "storage"
		}
		c.Register(cmd, group)
	}
}
