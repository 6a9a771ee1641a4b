package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cryptofolio"
)

// DailyMarkdown renders the daily value series, most recent day last.
func DailyMarkdown(points []cryptofolio.DailyPoint, opts Options) string {
	var b strings.Builder
	keep := newFilter(opts.Assets)

	fmt.Fprint(&b, "# Daily Value\n\n")
	if len(points) == 0 {
		fmt.Fprintln(&b, "No transactions.")
		return b.String()
	}
	fmt.Fprintf(&b, "From %s to %s.\n\n", points[0].Day, points[len(points)-1].Day)

	fmt.Fprintln(&b, "| Date | Realized | Cost Basis | Market Value | Unrealized | Priced |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|:---|")
	for _, p := range points {
		var priced []string
		for _, a := range cryptofolio.Assets([]cryptofolio.DailyPoint{p}) {
			if p.Assets[a].Priced && keep.keep(a) {
				priced = append(priced, a)
			}
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			p.Day,
			p.RealizedGain.SignedString(),
			p.CostBasis,
			p.MarketValue,
			p.MarketValue.Sub(p.CostBasis).SignedString(),
			strings.Join(priced, ", "),
		)
	}

	assets := cryptofolio.Assets(points)
	last := points[len(points)-1]
	fmt.Fprintf(&b, "\n## Assets on %s\n\n", last.Day)
	fmt.Fprintln(&b, "| Asset | Quantity | Cost Basis | Market Value | Source |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|:---|")
	for _, a := range assets {
		x, ok := last.Assets[a]
		if !ok || !keep.keep(a) {
			continue
		}
		source := "ledger"
		if x.Priced {
			source = "market"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", a, x.Quantity, x.CostBasis, x.MarketValue, source)
	}
	return b.String()
}
