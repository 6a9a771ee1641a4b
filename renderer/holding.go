package renderer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/date"
)

// HoldingMarkdown renders the current holdings and cash balances.
func HoldingMarkdown(h cryptofolio.HoldingsSummary, cash map[string]cryptofolio.Quantity, on date.Date, opts Options) string {
	var b strings.Builder
	keep := newFilter(opts.Assets)

	fmt.Fprintf(&b, "# Holdings on %s\n\n", on)

	fmt.Fprintln(&b, "| Asset | Quantity | Avg. Buy Price | Price | Cost Basis | Market Value | Unrealized |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	total := cryptofolio.HoldingsSummary{Currency: h.Currency}
	for _, x := range h.Holdings {
		if !keep.keep(x.Asset) {
			continue
		}
		total.Holdings = append(total.Holdings, x)
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			x.Asset,
			x.Quantity,
			x.AverageBuyPrice,
			x.UnitPrice,
			x.CostBasis,
			x.MarketValue,
			x.UnrealizedGain.SignedString(),
		)
	}
	fmt.Fprintf(&b, "| **Total** | | | | **%s** | **%s** | **%s** |\n",
		total.CostBasis(),
		total.MarketValue(),
		total.UnrealizedGain().SignedString(),
	)

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Cash\n\n")
		fmt.Fprintln(w, "| Currency | Balance |")
		fmt.Fprintln(w, "|:---|---:|")
		n := 0
		for _, cur := range slices.Sorted(maps.Keys(cash)) {
			if cash[cur].IsZero() || !keep.keep(cur) {
				continue
			}
			n++
			fmt.Fprintf(w, "| %s | %s |\n", cur, cash[cur])
		}
		return n > 0
	})
	return b.String()
}
