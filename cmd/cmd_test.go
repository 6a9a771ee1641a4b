package cmd

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledger = `"txid","refid","time","type","subtype","aclass","asset","wallet","amount","fee","balance","amountusd"
"L1","R1","2024-03-01 10:00:00","deposit","","currency","ZUSD","spot / main",1000.0000,0,1000.0000,1000
"L2","R2","2024-03-02 11:30:00","trade","tradespot","currency","XXBT","spot / main",0.0200000000,0,0.0200000000,1000
"L3","R2","2024-03-02 11:30:00","trade","tradespot","currency","ZUSD","spot / main",-1000.0000,0,0,
"L4","R4","2024-06-10 09:00:00","trade","tradespot","currency","XXBT","spot / main",-0.0100000000,0,0.0100000000,700
`

func writeLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte(ledger), 0o600))
	return path
}

func TestListFlag(t *testing.T) {
	var l listFlag
	require.NoError(t, l.Set("a.csv, b.csv"))
	require.NoError(t, l.Set("c.csv"))
	require.NoError(t, l.Set(" , "))
	assert.Equal(t, listFlag{"a.csv", "b.csv", "c.csv"}, l)
	assert.Equal(t, "a.csv,b.csv,c.csv", l.String())
}

func TestFilesFromEnv(t *testing.T) {
	t.Setenv(envLedger, "x.csv,y.csv")
	var l ledgerFlags
	files, err := l.files()
	require.NoError(t, err)
	assert.Equal(t, []string{"x.csv", "y.csv"}, []string(files))

	l.ledgers = listFlag{"z.csv"}
	files, err = l.files()
	require.NoError(t, err)
	assert.Equal(t, []string{"z.csv"}, files)

	t.Setenv(envLedger, "")
	_, err = (&ledgerFlags{}).files()
	assert.Error(t, err)
}

func TestEngine(t *testing.T) {
	l := ledgerFlags{ledgers: listFlag{writeLedger(t)}}
	e, err := l.engine()
	require.NoError(t, err)

	h, ok := e.Holdings().Get("BTC")
	require.True(t, ok)
	assert.Equal(t, "0.01", h.Quantity.String())
	assert.Equal(t, "500", h.CostBasis.Decimal().String())

	gains := e.RealizedGains()
	require.Len(t, gains, 1)
	assert.Equal(t, "200", gains[0].Gain.Decimal().String())
}

func TestEngineSkipsUnreadableFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")

	l := ledgerFlags{ledgers: listFlag{writeLedger(t), missing}}
	e, err := l.engine()
	require.NoError(t, err)
	_, ok := e.Holdings().Get("BTC")
	assert.True(t, ok)

	l = ledgerFlags{ledgers: listFlag{missing}}
	_, err = l.engine()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPolicyFlags(t *testing.T) {
	var l ledgerFlags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	l.SetFlags(fs)
	require.NoError(t, fs.Parse(nil))
	assert.Equal(t, cryptofolio.DefaultPolicy, l.policy())

	require.NoError(t, fs.Parse([]string{"-withdrawals-as-transfers=false", "-deposits-as-transfers"}))
	assert.Equal(t, cryptofolio.Policy{DepositsAsTransfers: true}, l.policy())
}

func TestGainsRange(t *testing.T) {
	l := ledgerFlags{ledgers: listFlag{writeLedger(t)}}
	e, err := l.engine()
	require.NoError(t, err)

	c := gainsCmd{period: "month", end: "2024-06-15"}
	r, err := c.reportRange(e)
	require.NoError(t, err)
	assert.Equal(t, date.Range{From: date.New(2024, 6, 1), To: date.New(2024, 6, 30)}, r)

	c = gainsCmd{start: "2024-01-01", end: "2024-02-01"}
	r, err = c.reportRange(e)
	require.NoError(t, err)
	assert.Equal(t, date.Range{From: date.New(2024, 1, 1), To: date.New(2024, 2, 1)}, r)

	c = gainsCmd{all: true, end: "2024-05-01"}
	r, err = c.reportRange(e)
	require.NoError(t, err)
	assert.Equal(t, date.Range{From: date.New(2024, 3, 1), To: date.New(2024, 6, 10)}, r)

	c = gainsCmd{period: "decade", end: "2024-05-01"}
	_, err = c.reportRange(e)
	assert.Error(t, err)
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false, "json").Info("run saved", "id", "abc")
	newLogger(&buf, false, "json").Debug("hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "run saved", line["msg"])
	assert.Equal(t, "abc", line["id"])
	assert.Equal(t, "INFO", line["level"])

	buf.Reset()
	newLogger(&buf, true, "").Debug("shown")
	assert.Contains(t, buf.String(), "level=DEBUG msg=shown")
}

func TestCompletion(t *testing.T) {
	c := Completion()
	require.Contains(t, c.Sub, "gains")
	gains := c.Sub["gains"]
	for _, name := range []string{"l", "period", "s", "d", "all", "json", "html", "assets"} {
		assert.Contains(t, gains.Flags, name)
	}
	assert.Contains(t, c.Sub["export"].Flags, "db")
	assert.Contains(t, c.Sub["daily"].Flags, "offline")
	assert.Len(t, c.Sub, 5)
}
