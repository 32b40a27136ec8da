package snapshot

import (
	"fmt"
	"time"

	"MarketBoard/internal/domain/models"
)

// Packaged default record sets, served when a source has never been scraped
// successfully and no cached copy exists. Values are plausible but frozen;
// the Fallback flag on the snapshot tells consumers what they are getting.

var ptMonths = []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

func contractLabel(now time.Time) string {
	return fmt.Sprintf("%s %d", ptMonths[now.Month()-1], now.Day())
}

// Default builds the fallback snapshot for a source, stamped at now. It
// returns nil for unknown sources.
func Default(sourceID string, now time.Time, ttl time.Duration) *models.SourceSnapshot {
	snap := &models.SourceSnapshot{
		SourceID:  sourceID,
		FetchedAt: now,
		TTL:       ttl,
		Fallback:  true,
	}
	switch sourceID {
	case "treasuries":
		snap.Quotes = defaultTreasuries()
	case "brazilianReal":
		snap.Quotes = defaultBrazilianReal(now)
	case "usdBRL":
		snap.Quotes = defaultUSDBRL(now)
	case "worldIndices":
		snap.Quotes = defaultWorldIndices(now)
	case "dollarMajors":
		snap.Quotes = defaultDollarMajors()
	case "dollarEmerging":
		snap.Quotes = defaultDollarEmerging()
	case "americasFutures":
		snap.Quotes = defaultAmericasFutures(now)
	case "europeIndices":
		snap.Quotes = defaultEuropeIndices()
	case "asiaPacific":
		snap.Quotes = defaultAsiaPacific()
	case "crypto":
		snap.Quotes = defaultCrypto()
	case "economicCalendar":
		snap.Events = defaultCalendar()
	case "b3Indicators":
		snap.Indicators = &models.IndicatorSet{
			Values: map[string]string{
				"difOperCasada": "0.0000",
				"cupomLimpo":    "0.0000",
				"spot2Dias":     "0.0000",
				"spot1Dia":      "0.0000",
			},
			Timestamp: now,
		}
	default:
		return nil
	}
	return snap
}

func defaultTreasuries() []models.AssetQuote {
	rows := []struct{ name, value, variation, percent string }{
		{"U.S. 1 Month", "5.250", "+0.010", "+0.19%"},
		{"U.S. 3 Month", "5.280", "+0.020", "+0.38%"},
		{"U.S. 6 Month", "5.320", "+0.010", "+0.19%"},
		{"U.S. 1 Year", "5.150", "+0.030", "+0.59%"},
		{"U.S. 2 Year", "4.850", "+0.050", "+1.04%"},
		{"U.S. 3 Year", "4.650", "+0.040", "+0.87%"},
		{"U.S. 5 Year", "4.450", "+0.030", "+0.68%"},
		{"U.S. 7 Year", "4.350", "+0.020", "+0.46%"},
		{"U.S. 10 Year", "4.250", "+0.010", "+0.24%"},
		{"U.S. 20 Year", "4.550", "+0.020", "+0.44%"},
		{"U.S. 30 Year", "4.450", "+0.010", "+0.23%"},
		{"Germany 10Y", "2.350", "+0.020", "+0.86%"},
		{"Japan 10Y", "0.750", "+0.010", "+1.35%"},
	}
	out := make([]models.AssetQuote, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.AssetQuote{
			Name: r.name, Last: r.value, Change: r.variation, ChangePercent: r.percent,
			Volume: "0",
		})
	}
	return out
}

func defaultBrazilianReal(now time.Time) []models.AssetQuote {
	ts := now.Format("15:04:05")
	return []models.AssetQuote{
		{Name: "6LG6", Period: "FEB 2026", Last: "0.1856", High: "0.1861", Low: "0.1848",
			Change: "-0.00035", ChangePercent: "-0.19%", Volume: "12,080", OpenInterest: "0",
			Open: "0.18595", AsOf: ts},
		{Name: "6LH6", Period: "MAR 2026", Last: "0.1845", High: "0.18475", Low: "0.1837",
			Change: "-0.00035", ChangePercent: "-0.19%", Volume: "0", OpenInterest: "0",
			Open: "0.18455", AsOf: ts},
		{Name: "6LJ6", Period: "JUN 2026", Last: "0.1835", High: "0.1840", Low: "0.1825",
			Change: "-0.00025", ChangePercent: "-0.14%", Volume: "0", OpenInterest: "0",
			Open: "0.18375", AsOf: ts},
	}
}

func defaultUSDBRL(now time.Time) []models.AssetQuote {
	return []models.AssetQuote{
		{Name: "USD/BRL", Last: "4.9850", High: "4.9900", Low: "4.9800",
			Change: "+0.0125", ChangePercent: "+0.25%", Volume: "0", AsOf: now.Format("15:04:05")},
	}
}

func defaultWorldIndices(now time.Time) []models.AssetQuote {
	ts := now.Format("15:04:05")
	rows := []struct{ name, value, variation, percent, max, min string }{
		{"S&P 500", "4850.00", "+15.50", "+0.32%", "4855.00", "4835.00"},
		{"Dow Jones", "37650.00", "+125.00", "+0.33%", "37680.00", "37520.00"},
		{"NASDAQ", "15250.00", "+45.00", "+0.30%", "15280.00", "15200.00"},
		{"FTSE 100", "7680.00", "+25.50", "+0.33%", "7690.00", "7655.00"},
		{"DAX", "16850.00", "+45.00", "+0.27%", "16880.00", "16820.00"},
		{"CAC 40", "7450.25", "+18.75", "+0.25%", "7460.00", "7435.00"},
		{"Nikkei 225", "33250.00", "-125.00", "-0.37%", "33300.00", "33200.00"},
		{"Hang Seng", "16850.00", "+45.00", "+0.27%", "16880.00", "16820.00"},
		{"Shanghai Composite", "3120.00", "+8.50", "+0.27%", "3125.00", "3115.00"},
	}
	out := make([]models.AssetQuote, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.AssetQuote{
			Name: r.name, Last: r.value, Change: r.variation, ChangePercent: r.percent,
			High: r.max, Low: r.min, Volume: "0", AsOf: ts,
		})
	}
	return out
}

func defaultDollarMajors() []models.AssetQuote {
	rows := []struct{ name, value, variation, percent string }{
		{"USD/CHF", "0.8750", "-0.0010", "-0.11%"},
		{"USD/CZK", "22.50", "+0.05", "+0.22%"},
		{"USD/DKK", "6.8750", "+0.0025", "+0.04%"},
		{"USD/EUR", "0.9150", "-0.0010", "-0.11%"},
		{"USD/GBP", "0.7850", "+0.0010", "+0.13%"},
		{"USD/HUF", "365.50", "+1.25", "+0.34%"},
		{"USD/NOK", "10.6250", "+0.0125", "+0.12%"},
		{"USD/SEK", "10.3750", "+0.0125", "+0.12%"},
		{"USD/EGP", "30.8750", "+0.1250", "+0.41%"},
		{"USD/NGN", "850.00", "+32.50", "+3.96%"},
		{"USD/ZAR", "18.7500", "+0.1250", "+0.67%"},
		{"USD/CNY", "7.1250", "+0.0050", "+0.07%"},
		{"USD/HKD", "7.8250", "+0.0010", "+0.01%"},
		{"USD/ILS", "3.6250", "+0.0025", "+0.07%"},
		{"USD/IDR", "15650.00", "+25.00", "+0.16%"},
		{"USD/INR", "83.25", "+0.15", "+0.18%"},
		{"USD/JPY", "148.50", "+0.25", "+0.17%"},
		{"USD/KRW", "1320.50", "+2.50", "+0.19%"},
		{"USD/MYR", "4.6250", "+0.0025", "+0.05%"},
		{"USD/PHP", "55.75", "+0.05", "+0.09%"},
		{"USD/RUB", "92.50", "+0.25", "+0.27%"},
		{"USD/SAR", "3.7500", "-0.0010", "-0.03%"},
		{"USD/SGD", "1.3350", "+0.0010", "+0.07%"},
		{"USD/TRY", "30.1250", "+0.1250", "+0.42%"},
		{"USD/TWD", "31.25", "+0.05", "+0.16%"},
		{"USD/AUD", "1.4850", "+0.0025", "+0.17%"},
		{"USD/NZD", "1.6250", "+0.0025", "+0.15%"},
	}
	return quoteRows(rows, "")
}

func defaultDollarEmerging() []models.AssetQuote {
	rows := []struct{ name, value, variation, percent string }{
		{"USD/ARS", "850.50", "-2.25", "-0.26%"},
		{"USD/AUD", "1.4850", "+0.0025", "+0.17%"},
		{"USD/CNY", "7.1250", "+0.0050", "+0.07%"},
		{"USD/IDR", "15650.00", "+25.00", "+0.16%"},
		{"USD/INR", "83.25", "+0.15", "+0.18%"},
		{"USD/KRW", "1320.50", "+2.50", "+0.19%"},
		{"USD/MXN", "17.1250", "+0.0250", "+0.15%"},
		{"USD/SAR", "3.7500", "-0.0010", "-0.03%"},
		{"USD/TRY", "30.1250", "+0.1250", "+0.42%"},
		{"USD/ZAR", "18.7500", "+0.1250", "+0.67%"},
	}
	return quoteRows(rows, "")
}

func defaultAmericasFutures(now time.Time) []models.AssetQuote {
	ts := now.Format("15:04:05")
	mes := contractLabel(now)
	return []models.AssetQuote{
		{Name: "Ibovespa", Period: mes, Last: "162857.00", High: "165035.00", Low: "162530.00", Change: "-1073.00", ChangePercent: "-0.65%", AsOf: ts},
		{Name: "IBRX50", Period: mes, Last: "27167.00", High: "27462.00", Low: "27271.00", Change: "-118.00", ChangePercent: "-0.43%", AsOf: ts},
		{Name: "US 30", Last: "48329.60", High: "48383.70", Low: "47825.90", Change: "+266.30", ChangePercent: "+0.55%", AsOf: ts},
		{Name: "US 500", Last: "6853.70", High: "6893.00", Low: "6820.50", Change: "+8.60", ChangePercent: "+0.13%", AsOf: ts},
		{Name: "US Tech 100", Last: "25188.70", High: "25596.20", Low: "25063.20", Change: "-60.10", ChangePercent: "-0.24%", AsOf: ts},
		{Name: "US 2000", Last: "2504.00", High: "2508.90", Low: "2476.90", Change: "+22.10", ChangePercent: "+0.89%", AsOf: ts},
		{Name: "S&P 500 VIX", Period: mes, Last: "16.10", High: "16.53", Low: "16.03", Change: "-0.43", ChangePercent: "-2.62%", AsOf: ts},
		{Name: "DAX", Period: mes, Last: "24697.00", High: "24828.80", Low: "24592.30", Change: "+7.00", ChangePercent: "+0.03%", AsOf: ts},
	}
}

func defaultEuropeIndices() []models.AssetQuote {
	rows := []struct{ name, value, variation, percent, ts string }{
		{"Euro Stoxx 50", "4520.50", "+15.25", "+0.34%", "13:35:20"},
		{"Inglaterra", "7680.00", "+25.50", "+0.33%", "13:30:15"},
		{"França", "7450.25", "+18.75", "+0.25%", "13:32:10"},
		{"Alemanha", "16850.00", "+45.00", "+0.27%", "13:31:05"},
		{"Holanda", "825.50", "+2.25", "+0.27%", "13:33:25"},
		{"Portugal", "5420.00", "+12.50", "+0.23%", "13:34:15"},
		{"Espanha", "10250.00", "+22.50", "+0.22%", "13:32:45"},
		{"Itália", "31250.00", "+75.00", "+0.24%", "13:33:30"},
		{"Suécia", "2450.50", "-5.25", "-0.21%", "12:09:59"},
		{"Suíça", "11250.00", "+15.00", "+0.13%", "30/12"},
		{"Rússia", "3250.00", "+8.50", "+0.26%", "30/12"},
		{"Turquia", "9850.00", "+25.00", "+0.25%", "30/12"},
	}
	out := make([]models.AssetQuote, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.AssetQuote{
			Name: r.name, Last: r.value, Change: r.variation, ChangePercent: r.percent,
			Volume: "0", AsOf: r.ts,
		})
	}
	return out
}

func defaultAsiaPacific() []models.AssetQuote {
	rows := []struct{ name, value, variation, percent, ts string }{
		{"1325 Next Funds", "2850.00", "+12.50", "+0.44%", "30/12"},
		{"Japão", "33250.00", "-125.00", "-0.37%", "03:29:59"},
		{"Coreia do Sul", "2650.50", "+8.75", "+0.33%", "04:59:59"},
		{"Hong Kong", "16850.00", "+45.00", "+0.27%", "31/12"},
		{"Taiwan", "17850.00", "+35.00", "+0.20%", "06:59:59"},
		{"Tailândia", "1420.50", "+3.25", "+0.23%", "01/01"},
		{"China", "3120.00", "+8.50", "+0.27%", "01/01"},
		{"China A50", "12580.00", "-25.00", "-0.20%", "01/01"},
		{"Índia", "72500.00", "+125.00", "+0.17%", "01/01"},
		{"Israel", "1850.50", "+4.25", "+0.23%", "01/01"},
		{"Arábia Saudita", "12580.00", "+15.00", "+0.12%", "01/01"},
		{"Austrália", "7850.00", "+12.50", "+0.16%", "01/01"},
	}
	out := make([]models.AssetQuote, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.AssetQuote{
			Name: r.name, Last: r.value, Change: r.variation, ChangePercent: r.percent,
			Volume: "0", AsOf: r.ts,
		})
	}
	return out
}

func defaultCrypto() []models.AssetQuote {
	rows := []struct{ name, value, variation, percent string }{
		{"HASH11 BRL", "45.25", "-1.25", "-2.69%"},
		{"Bitcoin", "245000.00", "-2500.00", "-1.01%"},
		{"Ethereum", "2850.00", "-35.00", "-1.21%"},
		{"Binance Coin", "325.50", "-15.65", "-4.59%"},
		{"Cardano", "0.5250", "-0.0125", "-2.33%"},
		{"Dogecoin", "0.0850", "-0.0015", "-1.73%"},
		{"Tether", "4.9850", "-0.0005", "-0.01%"},
		{"XRP", "0.6250", "-0.0150", "-2.34%"},
	}
	return quoteRows(rows, "")
}

func defaultCalendar() []models.EconomicEvent {
	return []models.EconomicEvent{
		{Time: "09:00", Country: "🇺🇸 EUA", Event: "Taxa de Desemprego", Actual: "3.7%", Forecast: "3.8%", Previous: "3.9%", Impact: "Alta"},
		{Time: "10:30", Country: "🇧🇷 Brasil", Event: "IPCA Mensal", Actual: "0.45%", Forecast: "0.50%", Previous: "0.42%", Impact: "Alta"},
		{Time: "11:00", Country: "🇪🇺 Zona Euro", Event: "PIB Trimestral", Actual: "0.3%", Forecast: "0.2%", Previous: "0.1%", Impact: "Média"},
		{Time: "14:00", Country: "🇺🇸 EUA", Event: "Vendas no Varejo", Actual: "0.5%", Forecast: "0.3%", Previous: "0.2%", Impact: "Média"},
		{Time: "15:30", Country: "🇬🇧 Reino Unido", Event: "Inflação (CPI)", Actual: "2.1%", Forecast: "2.0%", Previous: "2.2%", Impact: "Alta"},
	}
}

// StaticSections are dashboard sections with no live source behind them.
func StaticSections(now time.Time) map[string][]models.AssetQuote {
	mes := contractLabel(now)
	return map[string][]models.AssetQuote{
		"futuros": {
			{Name: "Dow Jones Fut", Last: "37680.00", High: "37720.00", Low: "37650.00", Change: "-95.00", ChangePercent: "-0.25%", AsOf: "07:01:15"},
			{Name: "S&P 500 Fut", Last: "4785.00", High: "4790.00", Low: "4780.00", Change: "-12.50", ChangePercent: "-0.26%", AsOf: "07:01:20"},
			{Name: "Nasdaq Fut", Last: "15050.00", High: "15080.00", Low: "15020.00", Change: "-75.00", ChangePercent: "-0.50%", AsOf: "07:01:25"},
			{Name: "E. Stoxx 50 Fut", Period: mes, Last: "4520.50", High: "4525.00", Low: "4515.00", Change: "+15.25", ChangePercent: "+0.34%", AsOf: "07:01:30"},
			{Name: "China A50 Fut", Period: mes, Last: "12580.00", High: "12600.00", Low: "12550.00", Change: "+85.00", ChangePercent: "+0.68%", AsOf: "07:01:35"},
			{Name: "Ibovespa Fut", Period: mes, Last: "132600.00", High: "132800.00", Low: "132400.00", Change: "+350.00", ChangePercent: "+0.26%", AsOf: "30/12"},
			{Name: "Dólar Fut", Period: mes, Last: "4.9850", High: "4.9900", Low: "4.9800", Change: "+0.0125", ChangePercent: "+0.25%", AsOf: "30/12"},
			{Name: "CDI 1D Fut", Period: mes, Last: "10.25", High: "10.30", Low: "10.20", Change: "0.00", ChangePercent: "0.00%", AsOf: "30/12"},
		},
		"dxyCme": {
			{Name: "DXY", Last: "98.18", Change: "+0.13", ChangePercent: "+0.13%", AsOf: "02/01"},
			{Name: "USD/EUR", Last: "0.9150", Change: "+0.0010", ChangePercent: "+0.11%", AsOf: "02/01"},
			{Name: "USD/JPY", Last: "148.50", Change: "+0.25", ChangePercent: "+0.17%", AsOf: "02/01"},
			{Name: "USD/GBP", Last: "0.7850", Change: "+0.0010", ChangePercent: "+0.13%", AsOf: "02/01"},
			{Name: "USD/CAD", Last: "1.3450", Change: "+0.0025", ChangePercent: "+0.19%", AsOf: "02/01"},
			{Name: "USD/SEK", Last: "10.3750", Change: "+0.0125", ChangePercent: "+0.12%", AsOf: "02/01"},
			{Name: "USD/CHF", Last: "0.8750", Change: "-0.0010", ChangePercent: "-0.11%", AsOf: "02/01"},
			{Name: "USD/CNY", Last: "7.1250", Change: "+0.0025", ChangePercent: "+0.04%", AsOf: "02/01"},
			{Name: "USD/ZAR", Last: "18.2500", Change: "+0.0150", ChangePercent: "+0.08%", AsOf: "02/01"},
			{Name: "USD/RUB", Last: "92.5000", Change: "+0.2500", ChangePercent: "+0.27%", AsOf: "02/01"},
		},
		"commodities": {
			{Name: "Petróleo WTI", Last: "72.50", Change: "0.00", ChangePercent: "0.00%"},
			{Name: "Petróleo Brent", Last: "78.25", Change: "0.00", ChangePercent: "0.00%"},
			{Name: "Ouro", Last: "2050.00", Change: "0.00", ChangePercent: "0.00%"},
			{Name: "BCOM", Last: "245.50", Change: "0.00", ChangePercent: "0.00%"},
			{Name: "M. Ferro DLN", Last: "125.50", Change: "-0.72", ChangePercent: "-0.57%", AsOf: "04:03:16"},
		},
	}
}

func quoteRows(rows []struct{ name, value, variation, percent string }, ts string) []models.AssetQuote {
	out := make([]models.AssetQuote, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.AssetQuote{
			Name: r.name, Last: r.value, Change: r.variation, ChangePercent: r.percent,
			Volume: "0", AsOf: ts,
		})
	}
	return out
}
