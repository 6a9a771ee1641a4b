// Package kraken reads Kraken ledger exports into normalized transactions.
package kraken

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Columns of a Kraken ledger export. Only the required ones must be present.
const (
	colTxID      = "txid"
	colRefID     = "refid"
	colTime      = "time"
	colType      = "type"
	colSubtype   = "subtype"
	colAClass    = "aclass"
	colAsset     = "asset"
	colWallet    = "wallet"
	colAmount    = "amount"
	colFee       = "fee"
	colBalance   = "balance"
	colAmountUSD = "amountusd"
)

var required = []string{colTime, colType, colAsset, colAmount}

// timeLayouts are tried in order, Kraken has changed its export format over time.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02",
}

// txidSpace is the namespace of the identifiers generated for rows without a txid.
var txidSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.kraken.com/ledger"))

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Rejection is a ledger row that could not be normalized.
type Rejection struct {
	Source string // file name, if any
	Line   int
	Reason string
	Err    error
}

func (r Rejection) Error() string {
	msg := fmt.Sprintf("%s:%d: %s", r.Source, r.Line, r.Reason)
	if r.Err != nil {
		msg += ": " + r.Err.Error()
	}
	return msg
}

func (r Rejection) Unwrap() error { return r.Err }

// Result holds the normalized transactions and the rows that were rejected.
type Result struct {
	Transactions []cryptofolio.Transaction
	Rejections   []Rejection
}

// Normalizer converts Kraken ledger rows into transactions.
//
// It remembers the txids it has seen, so that overlapping exports can be
// read one after the other without counting a row twice.
type Normalizer struct {
	logger *slog.Logger
	seen   map[string]bool
	res    Result
}

// New returns a Normalizer logging data issues to logger, nil discards them.
func New(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Normalizer{logger: logger, seen: make(map[string]bool)}
}

// Normalize reads a single export.
func Normalize(r io.Reader) (Result, error) {
	n := New(nil)
	if err := n.Read("", r); err != nil {
		return Result{}, err
	}
	return n.Result(), nil
}

// ReadFiles reads several exports, in order. Failing files are reported
// together, the others are still read.
func (n *Normalizer) ReadFiles(paths ...string) error {
	var errs error
	for _, path := range paths {
		if err := n.readFile(path); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

func (n *Normalizer) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open ledger: %w", err)
	}
	defer f.Close()
	return n.Read(path, f)
}

// Result returns everything read so far.
func (n *Normalizer) Result() Result {
	return Result{
		Transactions: append([]cryptofolio.Transaction(nil), n.res.Transactions...),
		Rejections:   append([]Rejection(nil), n.res.Rejections...),
	}
}

// Read reads one export from r. Malformed rows are recorded as rejections,
// an error is only returned when r is not a ledger at all.
func (n *Normalizer) Read(source string, r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // checked against the header below
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: failed to read csv header: %w", source, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing error
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			missing = errors.Join(missing, fmt.Errorf("%w %q", ErrMissingColumn, c))
		}
	}
	if missing != nil {
		return fmt.Errorf("%s: %w", source, missing)
	}
	width := len(header)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return fmt.Errorf("%s: failed to read csv: %w", source, err)
			}
			n.reject(Rejection{Source: source, Line: perr.StartLine, Reason: "malformed row", Err: err})
			continue
		}
		line, _ := reader.FieldPos(0)
		if len(record) != width {
			n.reject(Rejection{Source: source, Line: line, Reason: fmt.Sprintf("got %d fields, want %d", len(record), width)})
			continue
		}
		tx, rej := n.normalize(row{cols: cols, record: record})
		if rej != nil {
			rej.Source, rej.Line = source, line
			n.reject(*rej)
			continue
		}
		if n.seen[tx.TxID] {
			n.logger.Debug("duplicate ledger entry skipped", "source", source, "line", line, "txid", tx.TxID)
			continue
		}
		n.seen[tx.TxID] = true
		n.res.Transactions = append(n.res.Transactions, tx)
	}
}

func (n *Normalizer) reject(r Rejection) {
	n.logger.Warn("ledger row rejected", "source", r.Source, "line", r.Line, "reason", r.Reason, "err", r.Err)
	n.res.Rejections = append(n.res.Rejections, r)
}

// row gives access to a record by column name.
type row struct {
	cols   map[string]int
	record []string
}

func (r row) get(col string) string {
	i, ok := r.cols[col]
	if !ok {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r row) decimal(col string) (d decimal.Decimal, ok bool, err error) {
	s := r.get(col)
	if s == "" {
		return d, false, nil
	}
	d, err = decimal.NewFromString(s)
	return d, err == nil, err
}

func (n *Normalizer) normalize(r row) (cryptofolio.Transaction, *Rejection) {
	tx := cryptofolio.Transaction{
		TxID:       r.get(colTxID),
		RefID:      r.get(colRefID),
		Type:       r.get(colType),
		Subtype:    r.get(colSubtype),
		AssetClass: r.get(colAClass),
		Asset:      CleanAsset(r.get(colAsset)),
	}
	if tx.Asset == "" {
		return tx, &Rejection{Reason: "empty asset"}
	}

	t, err := parseTime(r.get(colTime))
	if err != nil {
		return tx, &Rejection{Reason: "invalid time", Err: err}
	}
	tx.Time = t

	amount, ok, err := r.decimal(colAmount)
	if err != nil || !ok {
		return tx, &Rejection{Reason: "invalid amount", Err: err}
	}
	tx.Amount = cryptofolio.Q(amount)

	fee, _, err := r.decimal(colFee)
	if err != nil {
		return tx, &Rejection{Reason: "invalid fee", Err: err}
	}
	tx.Fee = cryptofolio.Q(fee)

	if balance, ok, err := r.decimal(colBalance); err != nil {
		return tx, &Rejection{Reason: "invalid balance", Err: err}
	} else if ok {
		b := cryptofolio.Q(balance)
		tx.Balance = &b
	}

	if usd, ok, err := r.decimal(colAmountUSD); err != nil {
		return tx, &Rejection{Reason: "invalid amountusd", Err: err}
	} else if ok {
		v := cryptofolio.M(usd, "USD")
		tx.FiatValue = &v
		if !amount.IsZero() {
			p := cryptofolio.M(usd.Div(amount).Abs(), "USD")
			tx.SpotPrice = &p
		}
	}

	kind, known := cryptofolio.ParseKind(tx.Type)
	if !known {
		n.logger.Warn("unknown ledger type", "txid", tx.TxID, "type", tx.Type, "wallet", r.get(colWallet))
	}
	tx.Kind = kind

	if tx.TxID == "" {
		tx.TxID = uuid.NewSHA1(txidSpace, []byte(strings.Join(r.record, ","))).String()
	}
	return tx, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
