package kraken

// assetCodes maps Kraken legacy asset codes to their usual symbol.
var assetCodes = map[string]string{
	"XXBT": "BTC",
	"XBT":  "BTC",
	"XETH": "ETH",
	"XXRP": "XRP",
	"XXLM": "XLM",
	"XLTC": "LTC",
	"XETC": "ETC",
	"XZEC": "ZEC",
	"XREP": "REP",
	"XXMR": "XMR",
	"ZUSD": "USD",
	"ZEUR": "EUR",
	"ZGBP": "GBP",
	"ZCAD": "CAD",
	"ZJPY": "JPY",
	"ZKRW": "KRW",
}

// CleanAsset returns the usual symbol of a Kraken asset code. Unknown codes are returned unchanged.
func CleanAsset(code string) string {
	if s, ok := assetCodes[code]; ok {
		return s
	}
	return code
}
