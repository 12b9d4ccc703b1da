package usecase

import (
	"strings"

	"stock_analysis/internal/feature/indicators/domain/entity"
)

// Static benchmark reference tables. Loaded once at process start and
// never mutated, so no synchronization is needed.

func etf(symbol string) *string { return &symbol }

// indexTickers maps a human-readable index name to its quote symbol and,
// when one trades, a proxy ETF.
var indexTickers = map[string]entity.BenchmarkMapping{
	// USA
	"S&P 500":          {Index: "^GSPC", ETF: etf("SPY")},
	"Dow Jones 30":     {Index: "^DJI", ETF: etf("DIA")},
	"Nasdaq Composite": {Index: "^IXIC", ETF: etf("ONEQ")},
	"Nasdaq 100":       {Index: "^NDX", ETF: etf("QQQ")},
	"Russell 1000":     {Index: "^RUI", ETF: etf("IWB")},
	"Russell 2000":     {Index: "^RUT", ETF: etf("IWM")},
	"Russell 3000":     {Index: "^RUA", ETF: etf("IWV")},

	// Canada
	"S&P/TSX Composite": {Index: "^GSPTSE", ETF: etf("XIC.TO")},
	"S&P/TSX 60":        {Index: "^TX60", ETF: etf("XIU.TO")},

	// UK
	"FTSE 100": {Index: "^FTSE", ETF: etf("VUKE.L")},
	"FTSE 250": {Index: "^FTMC", ETF: etf("VMID.L")},

	// France
	"CAC 40":      {Index: "^FCHI", ETF: etf("CAC.PA")},
	"CAC Next 20": {Index: "^CN20"},
	"SBF 120":     {Index: "^SBF120"},

	// Germany
	"DAX 40": {Index: "^GDAXI", ETF: etf("EXS1.DE")},
	"MDAX":   {Index: "^MDAXI"},
	"SDAX":   {Index: "^SDAXI"},

	// Europe
	"EURO STOXX 50":    {Index: "^STOXX50E", ETF: etf("EXW1.DE")},
	"STOXX Europe 600": {Index: "^STOXX", ETF: etf("EXSA.DE")},

	// Italy
	"FTSE MIB": {Index: "FTSEMIB.MI", ETF: etf("EUNM.MI")},

	// Spain
	"IBEX 35": {Index: "^IBEX"},

	// Netherlands
	"AEX 25": {Index: "^AEX", ETF: etf("IAEX.AS")},

	// Belgium
	"BEL 20": {Index: "^BFX"},

	// Switzerland
	"SMI": {Index: "^SSMI", ETF: etf("CSSMI.SW")},

	// Austria
	"ATX": {Index: "^ATX"},

	// Portugal
	"PSI": {Index: "^PSI20"},

	// Nordics
	"OMX Stockholm 30":  {Index: "^OMXS30", ETF: etf("XACTOMX.ST")},
	"OMX Copenhagen 25": {Index: "^OMXC25"},
	"OMX Helsinki 25":   {Index: "^OMXH25"},

	// Asia-Pacific
	"Nikkei 225":         {Index: "^N225", ETF: etf("1321.T")},
	"TOPIX":              {Index: "^TOPX", ETF: etf("1306.T")},
	"Hang Seng":          {Index: "^HSI", ETF: etf("2800.HK")},
	"Shanghai Composite": {Index: "^SSEC"},
	"Shenzhen Component": {Index: "^SZSC"},
	"CSI 300":            {Index: "000300.SS", ETF: etf("3188.HK")},
	"KOSPI":              {Index: "^KS11"},
	"Nifty 50":           {Index: "^NSEI", ETF: etf("NIFTYBEES.NS")},
	"Sensex 30":          {Index: "^BSESN"},
	"ASX 200":            {Index: "^AXJO", ETF: etf("IOZ.AX")},
	"Straits Times":      {Index: "^STI", ETF: etf("ES3.SI")},

	// Latin America
	"Ibovespa (Brazil)":  {Index: "^BVSP", ETF: etf("BOVA11.SA")},
	"IPC (Mexico)":       {Index: "^MXX"},
	"MERVAL (Argentina)": {Index: "^MERV"},
	"IPSA (Chile)":       {Index: "^IPSA"},
}

// exchangeToBench maps the provider's exchange name to a benchmark. Keys
// must match the provider's vocabulary verbatim since lookups are by
// exact string.
var exchangeToBench = map[string]entity.BenchmarkMapping{
	"NasdaqGS":       indexTickers["Nasdaq 100"],
	"NasdaqCM":       indexTickers["Nasdaq Composite"],
	"Nasdaq":         indexTickers["Nasdaq Composite"],
	"NMS":            indexTickers["Nasdaq Composite"],
	"NYSE":           indexTickers["S&P 500"],
	"ARCA":           indexTickers["S&P 500"],
	"Euronext Paris": indexTickers["CAC 40"],
	"XPAR":           indexTickers["CAC 40"],
	"EPA":            indexTickers["CAC 40"],
	"Paris":          indexTickers["CAC 40"],
	"XETRA":          indexTickers["DAX 40"],
	"FWB":            indexTickers["DAX 40"],
	"LSE":            indexTickers["FTSE 100"],
	"London":         indexTickers["FTSE 100"],
	"Toronto":        indexTickers["S&P/TSX Composite"],
	"TSX":            indexTickers["S&P/TSX Composite"],
	"TSXV":           indexTickers["S&P/TSX Composite"],
	"EBS":            indexTickers["SMI"],
	"SWX":            indexTickers["SMI"],

	"Milan":          indexTickers["FTSE MIB"],
	"Borsa Italiana": indexTickers["FTSE MIB"],
	"Madrid":         indexTickers["IBEX 35"],
	"BME":            indexTickers["IBEX 35"],

	"SIX Swiss Exchange": indexTickers["SMI"],
	"Amsterdam":          indexTickers["AEX 25"],
	"Brussels":           indexTickers["BEL 20"],
	"Stockholm":          indexTickers["OMX Stockholm 30"],
	"Copenhagen":         indexTickers["OMX Copenhagen 25"],
	"Helsinki":           indexTickers["OMX Helsinki 25"],
	"Vienna":             indexTickers["ATX"],
	"Lisbon":             indexTickers["PSI"],

	"Tokyo":     indexTickers["TOPIX"],
	"TSE":       indexTickers["TOPIX"],
	"Hong Kong": indexTickers["Hang Seng"],
	"HKSE":      indexTickers["Hang Seng"],
	"Shanghai":  indexTickers["Shanghai Composite"],
	"Shenzhen":  indexTickers["Shenzhen Component"],
	"Korea":     indexTickers["KOSPI"],
	"KOSDAQ":    indexTickers["KOSPI"],
	"ASX":       indexTickers["ASX 200"],
	"Singapore": indexTickers["Straits Times"],
	"NSE":       indexTickers["Nifty 50"],
	"BSE":       indexTickers["Sensex 30"],

	"B3":                     indexTickers["Ibovespa (Brazil)"],
	"Mexican Stock Exchange": indexTickers["IPC (Mexico)"],
	"Buenos Aires":           indexTickers["MERVAL (Argentina)"],
	"Santiago":               indexTickers["IPSA (Chile)"],
}

// suffixToBench maps the exchange suffix of a dot-qualified ticker
// (e.g. "AIR.PA") to a benchmark.
var suffixToBench = map[string]entity.BenchmarkMapping{
	"PA": indexTickers["CAC 40"],
	"DE": indexTickers["DAX 40"],
	"MI": indexTickers["FTSE MIB"],
	"AS": indexTickers["AEX 25"],
	"BR": indexTickers["BEL 20"],
	"SW": indexTickers["SMI"],
	"LS": indexTickers["PSI"],
	"ST": indexTickers["OMX Stockholm 30"],
	"CO": indexTickers["OMX Copenhagen 25"],
	"HE": indexTickers["OMX Helsinki 25"],
	"L":  indexTickers["FTSE 100"],
	"T":  indexTickers["Nikkei 225"],
	"HK": indexTickers["Hang Seng"],
	"SS": indexTickers["Shanghai Composite"],
	"SZ": indexTickers["Shenzhen Component"],
	"KS": indexTickers["KOSPI"],
	"AX": indexTickers["ASX 200"],
	"SI": indexTickers["Straits Times"],
	"TO": indexTickers["S&P/TSX Composite"],
	"SA": indexTickers["Ibovespa (Brazil)"],
	"MX": indexTickers["IPC (Mexico)"],
}

// resolveBenchmark maps a ticker to its benchmark. First match wins:
//  1. the exchange name from the provider's quote metadata,
//  2. the ticker's dot-delimited suffix,
//  3. the S&P 500 default.
//
// exchange may be empty: metadata lookup failures are swallowed upstream
// and fall through to the suffix match here.
func resolveBenchmark(ticker, exchange string) entity.BenchmarkMapping {
	if bench, ok := exchangeToBench[exchange]; ok {
		return bench
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if i := strings.LastIndex(ticker, "."); i >= 0 {
		if bench, ok := suffixToBench[ticker[i+1:]]; ok {
			return bench
		}
	}
	return indexTickers["S&P 500"]
}
