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

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	ledgerFlags
	market bool
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display current holdings with their FIFO cost basis" }
func (*holdingCmd) Usage() string {
	return `cfo holding -l <ledger.csv> [-market] [-assets <list>]

  Displays the assets currently held, their cost basis, market value and
  unrealized gain, followed by the cash balances.
  Market values use the last price seen in the ledger, or the latest market
  price with -market.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	c.ledgerFlags.SetFlags(f)
	f.BoolVar(&c.market, "market", false, "value holdings at the latest market price")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := c.engine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	h := e.Holdings()
	today := date.Today()

	if c.market {
		client, err := newPriceClient()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error configuring prices: %v\n", err)
			return subcommands.ExitFailure
		}
		assets := make([]string, 0, len(h.Holdings))
		for _, x := range h.Holdings {
			assets = append(assets, x.Asset)
		}
		table, err := client.Fetch(ctx, assets, today.Add(-7), today)
		if err != nil {
			// assets without a market price keep the ledger price.
			logger().Warn("some prices are missing", "err", err)
		}
		h = h.Revalue(table.Latest(today, h.Currency))
	}

	if c.json {
		if err := cryptofolio.EncodeHoldings(os.Stdout, h); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	if err := c.print(renderer.HoldingMarkdown(h, e.Cash(), today, c.options())); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
