package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/date"
	"github.com/etnz/cryptofolio/renderer"
	"github.com/google/subcommands"
)

// dailyCmd holds the flags for the 'daily' subcommand.
type dailyCmd struct {
	ledgerFlags
	through string
	offline bool
}

func (*dailyCmd) Name() string     { return "daily" }
func (*dailyCmd) Synopsis() string { return "display the daily value of the portfolio" }
func (*dailyCmd) Usage() string {
	return `cfo daily -l <ledger.csv> [-d <date>] [-offline]

  Displays one line per day from the first transaction to the given date.
  Assets are valued at their market close when available, at the last price
  seen in the ledger otherwise.
`
}

func (c *dailyCmd) SetFlags(f *flag.FlagSet) {
	c.ledgerFlags.SetFlags(f)
	f.StringVar(&c.through, "d", date.Today().String(), "last day of the series")
	f.BoolVar(&c.offline, "offline", false, "do not fetch market prices")
}

func (c *dailyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	through, err := date.Parse(c.through)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	e, err := c.engine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	points := cryptofolio.Resample(e.History(), through)
	if !c.offline && len(points) > 0 {
		client, err := newPriceClient()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error configuring prices: %v\n", err)
			return subcommands.ExitFailure
		}
		table, err := client.Fetch(ctx, cryptofolio.Assets(points), points[0].Day, points[len(points)-1].Day)
		if err != nil {
			logger().Warn("some prices are missing, the ledger estimate is used instead", "err", err)
		}
		points = cryptofolio.Overlay(points, table)
	}

	if c.json {
		if err := cryptofolio.EncodeDaily(os.Stdout, points); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	if err := c.print(renderer.DailyMarkdown(points, c.options())); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
