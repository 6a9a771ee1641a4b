package cmd

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/etnz/cryptofolio/prices"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

// Environment variables, they can also be set in a .env file.
const (
	envLedger      = "CFO_LEDGER"
	envPriceURL    = "CFO_PRICE_URL"
	envPriceAPIKey = "CFO_PRICE_API_KEY"
	envPriceRate   = "CFO_PRICE_RATE"
	envCacheDir    = "CFO_CACHE_DIR"
	envDB          = "CFO_DB"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var verbose = flag.Bool("v", false, "verbose logging")

// LoadEnv reads the .env file of the current directory, if any.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("cannot load .env file", "err", err)
	}
}

// getenv returns the value of the environment variable key, or def.
func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// newPriceClient configures the price API from the environment. Responses
// are cached on disk for the day.
func newPriceClient() (*prices.Client, error) {
	opts := []prices.Option{
		prices.WithLogger(logger()),
		prices.WithHTTPClient(prices.DailyCache(os.Getenv(envCacheDir), logger())),
		prices.WithTimeout(30 * time.Second),
	}
	if key := os.Getenv(envPriceAPIKey); key != "" {
		opts = append(opts, prices.WithAPIKey(key))
	}
	if r := os.Getenv(envPriceRate); r != "" {
		d, err := time.ParseDuration(r)
		if err != nil {
			return nil, err
		}
		opts = append(opts, prices.WithRate(rate.Every(d), 1))
	}
	return prices.New(getenv(envPriceURL, prices.DefaultURL), opts...)
}
