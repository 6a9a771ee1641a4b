package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/cryptofolio"
)

const timeLayout = "2006-01-02 15:04:05"

// HistoryMarkdown renders the state of the portfolio after each transaction.
// With a non empty asset, it renders the position in that asset instead.
func HistoryMarkdown(history []cryptofolio.PortfolioSnapshot, asset string) string {
	var b strings.Builder
	if asset != "" {
		fmt.Fprintf(&b, "# History for %s\n\n", asset)
		fmt.Fprintln(&b, "| Time | TxID | Quantity | Cost Basis | Market Value |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|")
		var last *cryptofolio.AssetState
		for _, s := range history {
			a, ok := s.Assets[asset]
			if !ok {
				if last == nil {
					continue
				}
				zero := cryptofolio.M(0, s.CostBasis.Currency())
				a = cryptofolio.AssetState{CostBasis: zero, MarketValue: zero}
			}
			if last != nil && sameState(a, *last) {
				continue
			}
			last = &a
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", s.Time.UTC().Format(timeLayout), s.TxID, a.Quantity, a.CostBasis, a.MarketValue)
		}
		return b.String()
	}

	fmt.Fprint(&b, "# History\n\n")
	fmt.Fprintln(&b, "| Time | TxID | Realized | Cost Basis | Market Value | Unrealized |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")
	for _, s := range history {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			s.Time.UTC().Format(timeLayout),
			s.TxID,
			s.RealizedGain.SignedString(),
			s.CostBasis,
			s.MarketValue,
			s.UnrealizedGain().SignedString(),
		)
	}
	return b.String()
}

func sameState(a, b cryptofolio.AssetState) bool {
	return a.Quantity.Equal(b.Quantity) && a.CostBasis.Equal(b.CostBasis) && a.MarketValue.Equal(b.MarketValue)
}
