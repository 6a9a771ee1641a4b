// Package cryptofolio computes the cost basis and the realized and unrealized
// gains of a crypto portfolio from a normalized transaction ledger, matching
// disposals with acquisitions First-In-First-Out.
//
// The core is the Engine:
//   - Inventory: per asset queue of open lots, acquisitions are appended,
//     disposals consume the oldest lots first.
//   - Policy: decides whether an outflow is a taxable disposal or a transfer
//     to the owner's own wallet, and whether an inflow is a genuine
//     acquisition or the return of previously transferred funds.
//   - RealizedGain: one record per disposal, proceeds minus the cost of the
//     lots consumed.
//   - PortfolioSnapshot: the state after every transaction, the time series
//     behind the dashboard.
//
// The engine does no I/O. Normalizing exchange exports (package kraken),
// fetching market prices (package prices) and rendering (package renderer)
// happen outside of it, before and after a single pass over the ledger.
//
// All amounts are exact decimals, floats only appear at the presentation
// boundary.
package cryptofolio
