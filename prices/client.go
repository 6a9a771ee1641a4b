// Package prices fetches daily market prices of crypto assets from a
// CoinGecko compatible API.
package prices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/date"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultURL is the public CoinGecko API.
const DefaultURL = "https://api.coingecko.com/api/v3"

// ErrNoData is returned when the API has no price for an asset over the requested range.
var ErrNoData = errors.New("no price data")

// fiat symbols are never priced, they are cash.
var fiat = map[string]bool{"USD": true, "ZUSD": true, "EUR": true, "ZEUR": true, "GBP": true, "ZGBP": true}

// coinIDs maps usual symbols to CoinGecko ids. Unknown symbols use their lower case as id.
var coinIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"XRP":   "ripple",
	"XLM":   "stellar",
	"LTC":   "litecoin",
	"ETC":   "ethereum-classic",
	"ZEC":   "zcash",
	"REP":   "augur",
	"XMR":   "monero",
	"SOL":   "solana",
	"DOT":   "polkadot",
	"ADA":   "cardano",
	"DOGE":  "dogecoin",
	"USDT":  "tether",
	"USDC":  "usd-coin",
	"MATIC": "matic-network",
	"LINK":  "chainlink",
	"ATOM":  "cosmos",
	"AVAX":  "avalanche-2",
	"TRX":   "tron",
}

type seriesKey struct {
	id       string
	from, to date.Date
}

// Client fetches price series. It is safe for concurrent use.
type Client struct {
	baseURL     string
	apiKey      string
	currency    string
	http        *http.Client
	timeout     time.Duration
	concurrency int
	logger      *slog.Logger
	limiter     *rate.Limiter
	ids         map[string]string
	cache       *lru.Cache[seriesKey, *date.History[decimal.Decimal]]
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the key sent in the x-cg-demo-api-key header.
func WithAPIKey(key string) Option { return func(c *Client) { c.apiKey = key } }

// WithHTTPClient replaces the http client, e.g. to add a DailyCache transport.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithRate limits the number of requests per second.
func WithRate(limit rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(limit, burst) }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// WithConcurrency sets how many assets are fetched at once.
func WithConcurrency(n int) Option { return func(c *Client) { c.concurrency = n } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.logger = l } }

// WithCoinIDs adds or overrides symbol to coin id mappings.
func WithCoinIDs(ids map[string]string) Option {
	return func(c *Client) {
		for s, id := range ids {
			c.ids[s] = id
		}
	}
}

// New creates a client for the API at baseURL, quoting prices in USD.
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		currency:    "usd",
		http:        new(http.Client),
		timeout:     30 * time.Second,
		concurrency: 4,
		logger:      slog.New(slog.DiscardHandler),
		// the public API allows about 30 calls per minute.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		ids:     make(map[string]string, len(coinIDs)),
	}
	for s, id := range coinIDs {
		c.ids[s] = id
	}
	for _, opt := range opts {
		opt(c)
	}
	cache, err := lru.New[seriesKey, *date.History[decimal.Decimal]](256)
	if err != nil {
		return nil, fmt.Errorf("cannot create price cache: %w", err)
	}
	c.cache = cache
	return c, nil
}

// CoinID returns the API id of a symbol.
func (c *Client) CoinID(symbol string) string {
	if id, ok := c.ids[symbol]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// Fetch returns the daily prices of assets between from and to, both included.
//
// Fiat symbols are skipped. Assets that cannot be priced are reported in the
// returned error, the table still holds every asset that could be priced.
func (c *Client) Fetch(ctx context.Context, assets []string, from, to date.Date) (cryptofolio.PriceTable, error) {
	table := make(cryptofolio.PriceTable)
	var (
		mu   sync.Mutex
		errs error
	)
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	seen := make(map[string]bool)
	for _, asset := range assets {
		if fiat[asset] || seen[asset] {
			continue
		}
		seen[asset] = true
		g.Go(func() error {
			h, err := c.series(ctx, c.CoinID(asset), from, to)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = errors.Join(errs, fmt.Errorf("%s: %w", asset, err))
				return nil
			}
			table[asset] = h
			return nil
		})
	}
	g.Wait()
	if err := ctx.Err(); err != nil {
		return table, err
	}
	return table, errs
}

// series returns the daily closes of coin id. Series are cached, callers must not modify them.
func (c *Client) series(ctx context.Context, id string, from, to date.Date) (*date.History[decimal.Decimal], error) {
	key := seriesKey{id, from, to}
	if h, ok := c.cache.Get(key); ok {
		return h, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("vs_currency", c.currency)
	q.Set("from", fmt.Sprint(from.Time().Unix()))
	q.Set("to", fmt.Sprint(to.Add(1).Time().Unix()))
	addr := fmt.Sprintf("%s/coins/%s/market_chart/range?%s", c.baseURL, url.PathEscape(id), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	c.logger.Debug("price request", "id", id, "status", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	jobj, err := decodeJSON(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("invalid price response for %q: %w", id, err)
	}
	h, err := parseSeries(jobj)
	if err != nil {
		return nil, fmt.Errorf("invalid price response for %q: %w", id, err)
	}
	if h.Len() == 0 {
		return nil, ErrNoData
	}
	c.cache.Add(key, h)
	return h, nil
}

// decodeJSON decodes numbers as json.Number so that prices keep all their digits.
func decodeJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return nil, err
	}
	return jobj, nil
}

// parseSeries reads [timestamp_ms, price] pairs. The last price of a day is its close.
func parseSeries(jobj any) (*date.History[decimal.Decimal], error) {
	const path = "$.prices"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	points, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("%q: not a list: %v", path, jval)
	}
	h := new(date.History[decimal.Decimal])
	for i, p := range points {
		pair, ok := p.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%q[%d]: not a [time, price] pair: %v", path, i, p)
		}
		ms, ok1 := pair[0].(json.Number)
		price, ok2 := pair[1].(json.Number)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%q[%d]: not numbers: %v", path, i, p)
		}
		// timestamps are integers but may be written with a fraction.
		t, err := decimal.NewFromString(ms.String())
		if err != nil {
			return nil, fmt.Errorf("%q[%d]: invalid timestamp: %w", path, i, err)
		}
		v, err := decimal.NewFromString(price.String())
		if err != nil {
			return nil, fmt.Errorf("%q[%d]: invalid price: %w", path, i, err)
		}
		h.Append(date.Of(time.UnixMilli(t.IntPart())), v)
	}
	return h, nil
}
