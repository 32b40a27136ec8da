package usecase

import (
	"regexp"
	"strings"
	"time"

	"MarketBoard/internal/scrape"
)

// Source registry. Column orders and selector generations mirror what the
// providers currently serve; older selectors stay in the list so a markup
// rollback does not break extraction.

var (
	ptBRHeaders = map[string]string{
		"Accept-Language": "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7",
		"Referer":         "https://br.investing.com/",
	}
	enUSHeaders = map[string]string{
		"Accept-Language": "en-US,en;q=0.9,pt-BR;q=0.8,pt;q=0.7",
		"Referer":         "https://br.investing.com/",
	}

	investingSelectors = []string{
		"table.genTbl tbody tr",
		"#cross_rates_container tbody tr",
		"table.datatable tbody tr",
		"table tbody tr[data-test=\"rates-row\"]",
	}

	reTenor      = regexp.MustCompile(`(?i)(\d+\s*(?:Month|Year|M|Y))`)
	reGlobex     = regexp.MustCompile(`(\d[A-Z]{2}\d)`)
	reMonthLabel = regexp.MustCompile(`([A-Z]{3})\s+\d{4}`)
	reBlobGlobex = regexp.MustCompile(`^6L[FGHJKMNQUVXZ]\d$`)
)

// fxQuoteRoles is the compact streaming layout investing.com uses for
// currency tables: empty flag column, name, last, change, change percent.
var fxQuoteRoles = scrape.RoleMap{
	scrape.RoleName:          1,
	scrape.RoleLast:          2,
	scrape.RoleChange:        3,
	scrape.RoleChangePercent: 4,
}

// indexQuoteRoles is the wide index layout with a daily range.
var indexQuoteRoles = scrape.RoleMap{
	scrape.RoleName:          1,
	scrape.RoleLast:          2,
	scrape.RoleHigh:          3,
	scrape.RoleLow:           4,
	scrape.RoleChange:        5,
	scrape.RoleChangePercent: 6,
	scrape.RoleTime:          7,
}

// indexCompactRoles is the short layout without range columns.
var indexCompactRoles = scrape.RoleMap{
	scrape.RoleName:          1,
	scrape.RoleLast:          2,
	scrape.RoleChange:        3,
	scrape.RoleChangePercent: 4,
	scrape.RoleTime:          5,
}

func pairName(name string) bool {
	return strings.Contains(name, "/")
}

// tenorPeriod lifts the tenor out of a treasury name ("U.S. 2 Year" ->
// period "2Year").
func tenorPeriod(fields scrape.RawFields) scrape.RawFields {
	if m := reTenor.FindStringSubmatch(fields[scrape.RoleName]); m != nil {
		fields[scrape.RoleMonth] = strings.ReplaceAll(m[1], " ", "")
	}
	return fields
}

// globexContract splits the combined CME month cell ("FEB 2026 6LG6") into
// the contract code as the row name and the month label as its period.
// Rows without a recognizable contract keep an empty name and get skipped.
func globexContract(fields scrape.RawFields) scrape.RawFields {
	month := fields[scrape.RoleMonth]
	if month == "" {
		return fields
	}
	if m := reGlobex.FindStringSubmatch(month); m != nil {
		fields[scrape.RoleName] = m[1]
	} else {
		fields[scrape.RoleName] = month
	}
	if m := reMonthLabel.FindStringSubmatch(strings.ToUpper(month)); m != nil {
		fields[scrape.RoleMonth] = m[0]
	}
	return fields
}

// Sources returns every scrapeable source with its default policy. Per
// source TTLs follow how fast the underlying market data moves.
func Sources() []*scrape.Source {
	return []*scrape.Source{
		{
			ID:      "treasuries",
			URL:     "https://www.investing.com/rates-bonds/usa-government-bonds",
			Headers: enUSHeaders,
			Selectors: append([]string{
				"#rates_bonds_table tbody tr",
				"table.genTbl.openTbl.ratesTbl tbody tr",
			}, investingSelectors...),
			Roles: scrape.RoleMap{
				scrape.RoleName:          1,
				scrape.RoleLast:          2,
				scrape.RolePrevious:      3,
				scrape.RoleHigh:          4,
				scrape.RoleLow:           5,
				scrape.RoleChange:        6,
				scrape.RoleChangePercent: 7,
				scrape.RoleTime:          8,
			},
			Bounds: map[scrape.Role]scrape.Bounds{
				scrape.RoleLast: {Min: 0.1, Max: 10},
			},
			Spec:     scrape.AssetSpec{Class: scrape.ClassYield},
			TTL:      5 * time.Second,
			MaxRows:  20,
			MinCells: 4,
			NameOK: func(name string) bool {
				return strings.Contains(name, "U.S.") || reTenor.MatchString(name)
			},
			Rework:      tenorPeriod,
			BlobPattern: regexp.MustCompile(`(?i)U\.S\.|Treasury`),
		},
		{
			ID:  "brazilianReal",
			URL: "https://www.cmegroup.com/markets/fx/emerging-market/brazilian-real.quotes.html",
			Headers: map[string]string{
				"Accept-Language": "en-US,en;q=0.9,pt-BR;q=0.8,pt;q=0.7",
				"Referer":         "https://www.cmegroup.com/",
			},
			Selectors: []string{
				"table.quotes-table tbody tr",
				".quotes-table tbody tr",
				"[data-test=\"quotes-table\"] tbody tr",
				".market-data-table tbody tr",
				"table tbody tr",
			},
			Roles: scrape.RoleMap{
				scrape.RoleMonth:       0,
				scrape.RoleLast:        3,
				scrape.RoleChange:      4,
				scrape.RolePriorSettle: 5,
				scrape.RoleOpen:        6,
				scrape.RoleHigh:        7,
				scrape.RoleLow:         8,
				scrape.RoleVolume:      9,
				scrape.RoleTime:        10,
			},
			Bounds: map[scrape.Role]scrape.Bounds{
				scrape.RoleLast: {Min: 0.05, Max: 1},
			},
			Spec:        scrape.AssetSpec{Class: scrape.ClassFX, DeriveRange: true},
			TTL:         5 * time.Second,
			MaxRows:     15,
			MinCells:    5,
			Rework:      globexContract,
			BlobPattern: reBlobGlobex,
		},
		{
			ID:        "usdBRL",
			URL:       "https://br.investing.com/currencies/streaming-forex-rates-majors",
			Headers:   ptBRHeaders,
			Selectors: append([]string{"table#forex-rates tbody tr"}, investingSelectors...),
			Roles: scrape.RoleMap{
				scrape.RoleName:          1,
				scrape.RoleLast:          2,
				scrape.RoleChange:        3,
				scrape.RoleChangePercent: 4,
				scrape.RoleHigh:          5,
				scrape.RoleLow:           6,
			},
			Bounds: map[scrape.Role]scrape.Bounds{
				scrape.RoleLast: {Min: 1, Max: 10},
			},
			Spec:     scrape.AssetSpec{Class: scrape.ClassFX},
			TTL:      5 * time.Second,
			MaxRows:  1,
			MinCells: 5,
			NameOK: func(name string) bool {
				upper := strings.ToUpper(name)
				return strings.Contains(upper, "USD/BRL") || strings.Contains(upper, "USD BRL")
			},
			BlobPattern: regexp.MustCompile(`(?i)USD/?BRL`),
		},
		{
			ID:        "worldIndices",
			URL:       "https://br.investing.com/indices/major-indices",
			Headers:   ptBRHeaders,
			Selectors: append([]string{"#indices_table tbody tr", "table#cr1 tbody tr"}, investingSelectors...),
			Roles:     indexQuoteRoles,
			AltRoles:  indexCompactRoles,
			Spec:      scrape.AssetSpec{Class: scrape.ClassIndex},
			TTL:       5 * time.Second,
			MaxRows:   30,
			MinCells:  5,
		},
		{
			ID:        "dollarMajors",
			URL:       "https://br.investing.com/currencies/streaming-forex-rates-majors",
			Headers:   ptBRHeaders,
			Selectors: investingSelectors,
			Roles:     fxQuoteRoles,
			Spec:      scrape.AssetSpec{Class: scrape.ClassFX},
			TTL:       5 * time.Second,
			MaxRows:   25,
			MinCells:  5,
			NameOK:    pairName,
		},
		{
			ID:        "dollarEmerging",
			URL:       "https://br.investing.com/currencies/exotic-currency-pairs",
			Headers:   ptBRHeaders,
			Selectors: investingSelectors,
			Roles:     fxQuoteRoles,
			Spec:      scrape.AssetSpec{Class: scrape.ClassFX},
			TTL:       5 * time.Second,
			MaxRows:   15,
			MinCells:  5,
			NameOK:    pairName,
		},
		{
			ID:        "americasFutures",
			URL:       "https://br.investing.com/indices/us-indices-futures",
			Headers:   ptBRHeaders,
			Selectors: investingSelectors,
			Roles:     indexCompactRoles,
			Spec:      scrape.AssetSpec{Class: scrape.ClassIndex, DeriveRange: true},
			TTL:       5 * time.Second,
			MaxRows:   20,
			MinCells:  6,
		},
		{
			ID:        "europeIndices",
			URL:       "https://www.investing.com/indices/european-indices",
			Headers:   enUSHeaders,
			Selectors: investingSelectors,
			Roles:     indexCompactRoles,
			Spec:      scrape.AssetSpec{Class: scrape.ClassIndex},
			TTL:       5 * time.Second,
			MaxRows:   15,
			MinCells:  6,
		},
		{
			ID:        "asiaPacific",
			URL:       "https://br.investing.com/indices/asia-pacific",
			Headers:   ptBRHeaders,
			Selectors: investingSelectors,
			Roles:     indexCompactRoles,
			Spec:      scrape.AssetSpec{Class: scrape.ClassIndex},
			TTL:       5 * time.Second,
			MaxRows:   15,
			MinCells:  6,
		},
		{
			ID:        "crypto",
			URL:       "https://br.investing.com/crypto/",
			Headers:   ptBRHeaders,
			Selectors: append([]string{"#crypto_table tbody tr"}, investingSelectors...),
			Roles:     fxQuoteRoles,
			Spec:      scrape.AssetSpec{Class: scrape.ClassIndex},
			TTL:       5 * time.Second,
			MaxRows:   15,
			MinCells:  5,
		},
		{
			ID:      "economicCalendar",
			URL:     "https://br.investing.com/economic-calendar",
			Headers: ptBRHeaders,
			Kind:    scrape.KindCalendar,
			TTL:     5 * time.Minute,
		},
		{
			ID:  "b3Indicators",
			URL: "https://www.b3.com.br/pt_br/market-data-e-indices/servicos-de-dados/market-data/consultas/mercado-de-derivativos/indicadores/indicadores-financeiros/",
			Headers: map[string]string{
				"Accept-Language": "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7",
				"Referer":         "https://www.b3.com.br/",
			},
			Kind:        scrape.KindIndicators,
			TTL:         5 * time.Minute,
			ScriptHints: []string{"cupom", "dif oper", "spot"},
			Indicators: []scrape.IndicatorPattern{
				{
					Key:   "difOperCasada",
					Label: "DIF OPER CASADA - COMPRA",
					Patterns: []*regexp.Regexp{
						regexp.MustCompile(`(?is)DIF\s*OPER\s*CASADA.{0,200}?(\d+[.,]\d+)`),
						regexp.MustCompile(`(?is)difOperCasada.{0,100}?["']?(\d+[.,]\d+)`),
					},
				},
				{
					Key:   "cupomLimpo",
					Label: "DÓLAR CUPOM LIMPO",
					Patterns: []*regexp.Regexp{
						regexp.MustCompile(`(?is)DÓLAR\s*CUPOM\s*LIMPO.{0,200}?(\d+[.,]\d+)`),
						regexp.MustCompile(`(?is)cupomLimpo.{0,100}?["']?(\d+[.,]\d+)`),
					},
				},
				{
					Key:   "spot2Dias",
					Label: "DÓLAR BMF SPOT - 2 DIAS",
					Patterns: []*regexp.Regexp{
						regexp.MustCompile(`(?is)DÓLAR\s*BMF\s*SPOT.{0,200}?(\d+[.,]\d+)`),
						regexp.MustCompile(`(?is)spot2Dias.{0,100}?["']?(\d+[.,]\d+)`),
					},
				},
				{
					Key:   "spot1Dia",
					Label: "DOLAR SPOT BMF PARA 1 DIA",
					Patterns: []*regexp.Regexp{
						regexp.MustCompile(`(?is)SPOT\s*BMF\s*PARA\s*1\s*DIA.{0,200}?(\d+[.,]\d+)`),
						regexp.MustCompile(`(?is)spot1Dia.{0,100}?["']?(\d+[.,]\d+)`),
					},
				},
			},
		},
	}
}

// SectionFor maps a source to its dashboard section key.
func SectionFor(sourceID string) string {
	switch sourceID {
	case "brazilianReal":
		return "dolarAmericas"
	case "worldIndices":
		return "moedas"
	case "dollarMajors":
		return "dolarMundo"
	case "dollarEmerging":
		return "dolarEmergentes"
	case "americasFutures":
		return "americas"
	case "europeIndices":
		return "europa"
	case "asiaPacific":
		return "asiaOceania"
	case "crypto":
		return "criptomoedas"
	case "b3Indicators":
		return "dolarCupom"
	default:
		// treasuries, economicCalendar, usdBRL keep their own names.
		return sourceID
	}
}
