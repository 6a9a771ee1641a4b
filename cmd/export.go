package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/cryptofolio/metrics"
	"github.com/etnz/cryptofolio/store"
	"github.com/google/subcommands"
)

// exportCmd saves a run in the database and optionally writes its metrics.
type exportCmd struct {
	ledgerFlags
	db      string
	metrics string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "save the results in a sqlite database" }
func (*exportCmd) Usage() string {
	return `cfo export -l <ledger.csv> [-db <file>] [-metrics <file.prom>]

  Processes the ledger and saves the realized gains, the history and the
  holdings in a sqlite database. Prints the id of the new run.
  With -metrics, also writes the run metrics for the node exporter textfile
  collector.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.ledgerFlags.SetFlags(f)
	f.StringVar(&c.db, "db", getenv(envDB, "cfo.db"), "sqlite database file, defaults to $"+envDB)
	f.StringVar(&c.metrics, "metrics", "", "write metrics to this file")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := c.engine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	db, err := store.Open(c.db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	files, _ := c.files()
	id, err := db.SaveRun(ctx, store.NewRun(e, strings.Join(files, ",")))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	logger().Info("run saved", "id", id, "db", c.db)

	if c.metrics != "" {
		m := metrics.New()
		m.Observe(e)
		if err := m.WriteFile(c.metrics); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing metrics: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	fmt.Println(id)
	return subcommands.ExitSuccess
}
