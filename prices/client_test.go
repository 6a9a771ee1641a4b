package prices

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/cryptofolio/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func ms(d date.Date, hour int) int64 { return d.Time().Add(time.Duration(hour) * time.Hour).UnixMilli() }

// fakeAPI serves bitcoin prices for two days, an empty series for tether and 404 otherwise.
func fakeAPI(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	d1, d2 := date.New(2025, 1, 1), date.New(2025, 1, 2)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		switch r.URL.Path {
		case "/coins/bitcoin/market_chart/range":
			assert.Equal(t, "secret", r.Header.Get("x-cg-demo-api-key"))
			fmt.Fprintf(w, `{"prices":[[%d,93000.5],[%d,94000],[%d,96000.25]],"market_caps":[],"total_volumes":[]}`,
				ms(d1, 0), ms(d1, 23), ms(d2, 12))
		case "/coins/tether/market_chart/range":
			fmt.Fprint(w, `{"prices":[]}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestClient_Fetch(t *testing.T) {
	var calls atomic.Int32
	srv := fakeAPI(t, &calls)
	defer srv.Close()

	c, err := New(srv.URL, WithAPIKey("secret"), WithRate(rate.Inf, 1))
	require.NoError(t, err)

	from, to := date.New(2025, 1, 1), date.New(2025, 1, 2)
	table, err := c.Fetch(context.Background(), []string{"BTC", "USD", "BTC", "EUR"}, from, to)
	require.NoError(t, err)
	assert.Len(t, table, 1, "fiat is never priced")
	assert.EqualValues(t, 1, calls.Load())

	p, ok := table.PriceAsOf("BTC", from)
	require.True(t, ok)
	assert.Equal(t, "94000", p.String(), "last price of the day is its close")
	p, ok = table.PriceAsOf("BTC", to.Add(3))
	require.True(t, ok)
	assert.Equal(t, "96000.25", p.String())

	// second call is served from memory.
	_, err = c.Fetch(context.Background(), []string{"BTC"}, from, to)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestClient_FetchPartialFailure(t *testing.T) {
	var calls atomic.Int32
	srv := fakeAPI(t, &calls)
	defer srv.Close()

	c, err := New(srv.URL, WithAPIKey("secret"), WithRate(rate.Inf, 1), WithCoinIDs(map[string]string{"FOO": "foo-coin"}))
	require.NoError(t, err)

	table, err := c.Fetch(context.Background(), []string{"BTC", "USDT", "FOO"}, date.New(2025, 1, 1), date.New(2025, 1, 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData), "USDT has no data: %v", err)
	assert.Contains(t, err.Error(), "FOO:")
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, table, "BTC")
	assert.NotContains(t, table, "USDT")
	assert.NotContains(t, table, "FOO")
}

func TestClient_FetchCanceled(t *testing.T) {
	var calls atomic.Int32
	srv := fakeAPI(t, &calls)
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Fetch(ctx, []string{"BTC"}, date.New(2025, 1, 1), date.New(2025, 1, 2))
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 0, calls.Load())
}

func TestClient_CoinID(t *testing.T) {
	c, err := New(DefaultURL, WithCoinIDs(map[string]string{"BTC": "wrapped-bitcoin"}))
	require.NoError(t, err)
	assert.Equal(t, "wrapped-bitcoin", c.CoinID("BTC"))
	assert.Equal(t, "ethereum", c.CoinID("ETH"))
	assert.Equal(t, "pepe", c.CoinID("PEPE"))
}

func TestParseSeries(t *testing.T) {
	_, err := parseSeries(map[string]any{"prices": "nope"})
	assert.Error(t, err)
	_, err = parseSeries(map[string]any{"prices": []any{[]any{1.0}}})
	assert.Error(t, err)
	_, err = parseSeries(map[string]any{"error": "coin not found"})
	assert.Error(t, err)
	_, err = parseSeries(map[string]any{"prices": []any{[]any{1.0, 2.0}}})
	assert.Error(t, err, "numbers must be decoded with decodeJSON")
}

func TestParseSeries_ExactDecimals(t *testing.T) {
	d := date.New(2025, 1, 1)
	body := fmt.Sprintf(`{"prices":[[%d,0.123456789012345678901],[%d.0,93000.10000000000000001]]}`, ms(d, 1), ms(d.Add(1), 1))
	jobj, err := decodeJSON(strings.NewReader(body))
	require.NoError(t, err)
	h, err := parseSeries(jobj)
	require.NoError(t, err)

	p, ok := h.Get(d)
	require.True(t, ok)
	assert.Equal(t, "0.123456789012345678901", p.String())
	p, ok = h.Get(d.Add(1))
	require.True(t, ok)
	assert.Equal(t, "93000.10000000000000001", p.String())
}

func TestDailyCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if strings.HasSuffix(r.URL.Path, "/missing") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()

	client := DailyCache(t.TempDir(), nil)
	for range 2 {
		resp, err := client.Get(srv.URL + "/ok")
		require.NoError(t, err)
		assert.Equal(t, "hello", readAll(t, resp))
	}
	assert.EqualValues(t, 1, calls.Load(), "second response comes from disk")

	for range 2 {
		resp, err := client.Get(srv.URL + "/missing")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
	assert.EqualValues(t, 3, calls.Load(), "errors are not cached")
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
