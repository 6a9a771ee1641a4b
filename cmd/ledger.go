package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/kraken"
	"github.com/etnz/cryptofolio/renderer"
)

// listFlag is a repeatable flag, each value can also be a comma separated list.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}

// ledgerFlags are shared by every command reading the ledger.
type ledgerFlags struct {
	ledgers                listFlag
	withdrawalsAsTransfers bool
	depositsAsTransfers    bool
	assets                 listFlag
	html                   bool
	json                   bool
}

func (l *ledgerFlags) SetFlags(f *flag.FlagSet) {
	f.Var(&l.ledgers, "l", "Kraken ledger CSV export, repeatable or comma separated. Defaults to $"+envLedger)
	f.BoolVar(&l.withdrawalsAsTransfers, "withdrawals-as-transfers", cryptofolio.DefaultPolicy.WithdrawalsAsTransfers, "treat withdrawals as moves to your own wallets: lots are kept, no gain is realized")
	f.BoolVar(&l.depositsAsTransfers, "deposits-as-transfers", cryptofolio.DefaultPolicy.DepositsAsTransfers, "treat deposits as funds coming back from your own wallets: no new lot is created")
	f.Var(&l.assets, "assets", "restrict the report to these assets, repeatable or comma separated")
	f.BoolVar(&l.html, "html", false, "print the report as HTML")
	f.BoolVar(&l.json, "json", false, "print the raw data as JSON lines instead of a report")
}

func (l *ledgerFlags) policy() cryptofolio.Policy {
	return cryptofolio.Policy{
		WithdrawalsAsTransfers: l.withdrawalsAsTransfers,
		DepositsAsTransfers:    l.depositsAsTransfers,
	}
}

func (l *ledgerFlags) options() renderer.Options { return renderer.Options{Assets: l.assets} }

// files returns the ledger files to read.
func (l *ledgerFlags) files() ([]string, error) {
	if len(l.ledgers) > 0 {
		return l.ledgers, nil
	}
	var env listFlag
	env.Set(os.Getenv(envLedger))
	if len(env) == 0 {
		return nil, errors.New("no ledger: use -l or set " + envLedger)
	}
	return env, nil
}

// engine reads the ledgers and processes them.
func (l *ledgerFlags) engine() (*cryptofolio.Engine, error) {
	files, err := l.files()
	if err != nil {
		return nil, err
	}
	n := kraken.New(logger())
	err = n.ReadFiles(files...)
	res := n.Result()
	if err != nil {
		// a bad file does not hide the others, unless nothing could be read.
		if len(res.Transactions) == 0 {
			return nil, err
		}
		logger().Warn("some ledger files could not be read", "err", err)
	}
	if len(res.Rejections) > 0 {
		logger().Warn("some ledger rows were rejected", "count", len(res.Rejections))
	}
	e := cryptofolio.NewEngine(res.Transactions, cryptofolio.WithPolicy(l.policy()), cryptofolio.WithLogger(logger()))
	if err := e.Run(); err != nil {
		return nil, err
	}
	return e, nil
}

// print writes a markdown report to stdout, as HTML or rendered for the terminal.
func (l *ledgerFlags) print(md string) error {
	if l.html {
		html, err := renderer.HTML(md)
		if err != nil {
			return err
		}
		_, err = fmt.Print(html)
		return err
	}
	return printMarkdown(md)
}

// printMarkdown renders markdown for the terminal.
func printMarkdown(md string) error {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		return fmt.Errorf("cannot create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("cannot render markdown: %w", err)
	}
	_, err = fmt.Print(out)
	return err
}

