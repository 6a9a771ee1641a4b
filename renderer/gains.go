package renderer

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/date"
)

// GainsMarkdown renders the gains realized by disposals within r.
func GainsMarkdown(gains []cryptofolio.RealizedGain, r date.Range, currency string, opts Options) string {
	var b strings.Builder
	keep := newFilter(opts.Assets)

	type summary struct {
		count                     int
		quantity                  cryptofolio.Quantity
		proceeds, costBasis, gain cryptofolio.Money
	}
	zero := cryptofolio.M(0, currency)
	var (
		assets   []string
		byAsset  = make(map[string]*summary)
		selected []cryptofolio.RealizedGain
	)
	for _, g := range gains {
		if !r.Contains(date.Of(g.Time)) || !keep.keep(g.Asset) {
			continue
		}
		selected = append(selected, g)
		s, ok := byAsset[g.Asset]
		if !ok {
			s = &summary{proceeds: zero, costBasis: zero, gain: zero}
			byAsset[g.Asset] = s
			assets = append(assets, g.Asset)
		}
		s.count++
		s.quantity = s.quantity.Add(g.Quantity)
		s.proceeds = s.proceeds.Add(g.Proceeds)
		s.costBasis = s.costBasis.Add(g.CostBasis)
		s.gain = s.gain.Add(g.Gain)
	}

	fmt.Fprintf(&b, "# Realized Gains from %s to %s\n\n", r.From, r.To)
	fmt.Fprint(&b, "Method: FIFO\n\n")

	fmt.Fprint(&b, "## Gains per Asset\n\n")
	fmt.Fprintln(&b, "| Asset | Disposals | Quantity | Proceeds | Cost Basis | Gain |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
	slices.Sort(assets)
	for _, a := range assets {
		s := byAsset[a]
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n", a, s.count, s.quantity, s.proceeds, s.costBasis, s.gain.SignedString())
	}
	fmt.Fprintf(&b, "| **Total** | **%d** | | **%s** | **%s** | **%s** |\n",
		len(selected),
		sum(selected, currency, func(g cryptofolio.RealizedGain) cryptofolio.Money { return g.Proceeds }),
		sum(selected, currency, func(g cryptofolio.RealizedGain) cryptofolio.Money { return g.CostBasis }),
		cryptofolio.TotalGain(selected, currency).SignedString(),
	)

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Disposals\n\n")
		fmt.Fprintln(w, "| Date | Asset | Type | Quantity | Proceeds | Cost Basis | Gain |")
		fmt.Fprintln(w, "|:---|:---|:---|---:|---:|---:|---:|")
		for _, g := range selected {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s |\n",
				date.Of(g.Time), g.Asset, g.Type, g.Quantity, g.Proceeds, g.CostBasis, g.Gain.SignedString())
		}
		return len(selected) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Incomplete Cost Basis\n\n")
		fmt.Fprintln(w, "These disposals exceed the quantity ever acquired, the missing part has no cost basis.")
		fmt.Fprintln(w)
		n := 0
		for _, g := range selected {
			if g.Shortfall.IsPositive() {
				n++
				fmt.Fprintf(w, "- %s %s: %s %s missing (txid %s)\n", date.Of(g.Time), g.Asset, g.Shortfall, g.Asset, g.TxID)
			}
		}
		return n > 0
	})
	return b.String()
}

func sum(gains []cryptofolio.RealizedGain, currency string, f func(cryptofolio.RealizedGain) cryptofolio.Money) cryptofolio.Money {
	total := cryptofolio.M(0, currency)
	for _, g := range gains {
		total = total.Add(f(g))
	}
	return total
}
