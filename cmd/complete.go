package cmd

import (
	"flag"
	"io"

	"github.com/etnz/cryptofolio/date"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// commands returns a fresh instance of each subcommand.
func commands() []subcommands.Command {
	return []subcommands.Command{&holdingCmd{}, &gainsCmd{}, &historyCmd{}, &dailyCmd{}, &exportCmd{}}
}

// predictors for flags whose values can be guessed.
var predictors = map[string]complete.Predictor{
	"l":       predict.Files("*.csv"),
	"db":      predict.Files("*.db"),
	"metrics": predict.Files("*.prom"),
	"period":  predict.Set{date.Daily.String(), date.Weekly.String(), date.Monthly.String(), date.Quarterly.String(), date.Yearly.String()},
}

// Completion describes the command line for shell completion.
//
// Flags are read from the subcommands themselves, so that completion stays in
// sync with them.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: map[string]complete.Predictor{"v": predict.Nothing},
	}
	for _, c := range commands() {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: make(map[string]complete.Predictor)}
		fs.VisitAll(func(f *flag.Flag) {
			p, ok := predictors[f.Name]
			if !ok {
				p = predict.Nothing
			}
			sub.Flags[f.Name] = p
		})
		root.Sub[c.Name()] = sub
	}
	return root
}
