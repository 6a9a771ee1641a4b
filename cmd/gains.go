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

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	ledgerFlags
	period string
	start  string
	end    string
	all    bool
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized gains of disposals, FIFO matched" }
func (*gainsCmd) Usage() string {
	return `cfo gains -l <ledger.csv> [-period <period>] [-s <date>] [-d <date>] [-all]

  Displays the gains realized by every disposal within the period, per asset
  and in detail. Disposals exceeding the acquired quantity are listed apart.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	c.ledgerFlags.SetFlags(f)
	f.StringVar(&c.period, "period", date.Yearly.String(), "Predefined period (day, week, month, quarter, year)")
	f.StringVar(&c.start, "s", "", "Start date of the reporting period. Overrides -period.")
	f.StringVar(&c.end, "d", date.Today().String(), "End date of the reporting period")
	f.BoolVar(&c.all, "all", false, "report on the whole ledger")
}

// reportRange returns the range to report on.
func (c *gainsCmd) reportRange(e *cryptofolio.Engine) (date.Range, error) {
	end, err := date.Parse(c.end)
	if err != nil {
		return date.Range{}, err
	}
	switch {
	case c.all:
		r := date.Range{From: end, To: end}
		if txs := e.Transactions(); len(txs) > 0 {
			r.From = date.Of(txs[0].Time)
			if last := date.Of(txs[len(txs)-1].Time); last.After(r.To) {
				r.To = last
			}
		}
		return r, nil
	case c.start != "":
		start, err := date.Parse(c.start)
		if err != nil {
			return date.Range{}, err
		}
		return date.Range{From: start, To: end}, nil
	default:
		p, err := date.ParsePeriod(c.period)
		if err != nil {
			return date.Range{}, err
		}
		return date.NewRange(end, p), nil
	}
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := c.engine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	r, err := c.reportRange(e)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	if c.json {
		var gains []cryptofolio.RealizedGain
		for _, g := range e.RealizedGains() {
			if r.Contains(date.Of(g.Time)) {
				gains = append(gains, g)
			}
		}
		if err := cryptofolio.EncodeRealizedGains(os.Stdout, gains); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	md := renderer.GainsMarkdown(e.RealizedGains(), r, e.Currency(), c.options())
	if err := c.print(md); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
