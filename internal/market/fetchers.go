package market

import (
	"context"

	"marketbot/internal/adapters"
	"marketbot/internal/domain"

	"github.com/sirupsen/logrus"
)

// EquitySymbols is the fixed basket polled for the equity-index category,
// kept small to fit the upstream's 5-calls-per-minute quota.
var EquitySymbols = []string{"AAPL", "MSFT", "AMZN", "GOOGL"}

// IndexProxySymbol tracks the S&P 500 through the SPY ETF; the index level
// is approximately ten times the ETF price.
const IndexProxySymbol = "SPY"

// Commodities maps upstream symbols to display names for the commodity basket.
var Commodities = []struct{ Symbol, Name string }{
	{"GOLD", "Gold (XAU/USD)"},
}

// CurrencyPairs is the fixed pair list for the currency-basket category.
// Quote == "" means the pair is derived from the USD table as 1/rate[Base];
// otherwise it is the cross rate (1/rate[Base]) * rate[Quote].
var CurrencyPairs = []CurrencyPair{
	{Label: "USD/EUR", Base: "EUR"},
	{Label: "GBP/USD", Base: "GBP"},
	{Label: "USD/JPY", Base: "JPY"},
	{Label: "USD/CHF", Base: "CHF"},
	{Label: "EUR/GBP", Base: "EUR", Quote: "GBP"},
	{Label: "AUD/USD", Base: "AUD"},
	{Label: "USD/CAD", Base: "CAD"},
	{Label: "NZD/USD", Base: "NZD"},
	{Label: "EUR/JPY", Base: "EUR", Quote: "JPY"},
	{Label: "GBP/JPY", Base: "GBP", Quote: "JPY"},
}

type CurrencyPair struct {
	Label string
	Base  string
	Quote string
}

// UZSBasket is the fixed comparison basket for the uzs-basket category.
var UZSBasket = []string{"UZS", "USD", "GBP", "JPY", "EUR", "RUB", "QAR", "KZT"}

// TopCoinCount is how many coins the crypto category shows.
const TopCoinCount = 10

// EquityIndexFetcher pulls daily closes for the equity basket plus the index
// proxy. Individual symbol failures degrade to unavailable items; the
// snapshot is failure-shaped only when nothing at all could be fetched.
type EquityIndexFetcher struct {
	quotes adapters.QuoteClient
}

func NewEquityIndexFetcher(quotes adapters.QuoteClient) *EquityIndexFetcher {
	return &EquityIndexFetcher{quotes: quotes}
}

func (f *EquityIndexFetcher) Category() domain.Category { return domain.CategoryEquityIndex }

func (f *EquityIndexFetcher) Fetch(ctx context.Context) domain.Snapshot {
	items := make([]domain.Item, 0, len(EquitySymbols)+1)
	available := 0

	for _, symbol := range EquitySymbols {
		price, err := f.quotes.DailyClose(ctx, symbol)
		if err != nil {
			logrus.WithError(err).Warnf("Could not fetch data for %s", symbol)
			items = append(items, domain.Item{Label: symbol})
			continue
		}
		items = append(items, domain.Item{Label: symbol, Value: price, Available: true})
		available++
	}

	indexItem := domain.Item{Label: domain.IndexLabel}
	if price, err := f.quotes.DailyClose(ctx, IndexProxySymbol); err != nil {
		logrus.WithError(err).Warnf("Could not fetch data for %s", IndexProxySymbol)
	} else {
		indexItem.Value = price * 10
		indexItem.Available = true
		available++
	}
	items = append(items, indexItem)

	if available == 0 {
		return domain.FailedSnapshot(f.Category(),
			"Failed to fetch S&P 500 data. The API may be down or the API key may be invalid.")
	}
	return domain.Snapshot{Category: f.Category(), Items: items}
}

// CryptoFetcher pulls the top coins in one call; the whole category fails
// together since there is no per-coin request to degrade on.
type CryptoFetcher struct {
	coins adapters.CoinClient
}

func NewCryptoFetcher(coins adapters.CoinClient) *CryptoFetcher {
	return &CryptoFetcher{coins: coins}
}

func (f *CryptoFetcher) Category() domain.Category { return domain.CategoryCrypto }

func (f *CryptoFetcher) Fetch(ctx context.Context) domain.Snapshot {
	coins, err := f.coins.TopCoins(ctx, TopCoinCount)
	if err != nil {
		logrus.WithError(err).Error("Error fetching cryptocurrency prices")
		return domain.FailedSnapshot(f.Category(), "Unable to fetch cryptocurrency prices.")
	}

	items := make([]domain.Item, 0, len(coins))
	for _, coin := range coins {
		items = append(items, domain.Item{Label: coin.Symbol, Value: coin.PriceUSD, Available: true})
	}
	return domain.Snapshot{Category: f.Category(), Items: items}
}

// CommodityFetcher pulls daily closes for the commodity basket with the same
// per-item degradation rules as the equity fetcher.
type CommodityFetcher struct {
	quotes adapters.QuoteClient
}

func NewCommodityFetcher(quotes adapters.QuoteClient) *CommodityFetcher {
	return &CommodityFetcher{quotes: quotes}
}

func (f *CommodityFetcher) Category() domain.Category { return domain.CategoryCommodity }

func (f *CommodityFetcher) Fetch(ctx context.Context) domain.Snapshot {
	items := make([]domain.Item, 0, len(Commodities))
	available := 0

	for _, c := range Commodities {
		price, err := f.quotes.DailyClose(ctx, c.Symbol)
		if err != nil {
			logrus.WithError(err).Warnf("Could not fetch data for %s (%s)", c.Name, c.Symbol)
			items = append(items, domain.Item{Label: c.Name})
			continue
		}
		items = append(items, domain.Item{Label: c.Name, Value: price, Available: true})
		available++
	}

	if available == 0 {
		return domain.FailedSnapshot(f.Category(), "Error fetching commodity prices. Please try again later.")
	}
	return domain.Snapshot{Category: f.Category(), Items: items}
}

// CurrencyPairsFetcher derives the fixed pair list from a single USD rate
// table. Missing codes degrade to per-pair unavailable items.
type CurrencyPairsFetcher struct {
	rates adapters.RateClient
}

func NewCurrencyPairsFetcher(rates adapters.RateClient) *CurrencyPairsFetcher {
	return &CurrencyPairsFetcher{rates: rates}
}

func (f *CurrencyPairsFetcher) Category() domain.Category { return domain.CategoryCurrencyBasket }

func (f *CurrencyPairsFetcher) Fetch(ctx context.Context) domain.Snapshot {
	table, err := f.rates.GetExchangeRates(ctx, "USD")
	if err != nil {
		logrus.WithError(err).Error("Error fetching currency prices")
		return domain.FailedSnapshot(f.Category(), "Unable to fetch currency prices.")
	}
	if len(table) == 0 {
		return domain.FailedSnapshot(f.Category(), "Unable to fetch currency prices.")
	}

	items := make([]domain.Item, 0, len(CurrencyPairs))
	available := 0
	for _, p := range CurrencyPairs {
		item := domain.Item{Label: p.Label}
		if value, ok := derivePair(table, p); ok {
			item.Value = value
			item.Available = true
			available++
		}
		items = append(items, item)
	}

	if available == 0 {
		return domain.FailedSnapshot(f.Category(), "Unable to fetch currency prices.")
	}
	return domain.Snapshot{Category: f.Category(), Items: items}
}

func derivePair(table map[string]float64, p CurrencyPair) (float64, bool) {
	base, ok := table[p.Base]
	if !ok || base == 0 {
		return 0, false
	}
	if p.Quote == "" {
		return 1 / base, true
	}
	quote, ok := table[p.Quote]
	if !ok {
		return 0, false
	}
	return (1 / base) * quote, true
}

// UZSBasketFetcher pulls the UZS rate table once and reads the fixed basket
// out of it, marking missing codes unavailable.
type UZSBasketFetcher struct {
	rates adapters.RateClient
}

func NewUZSBasketFetcher(rates adapters.RateClient) *UZSBasketFetcher {
	return &UZSBasketFetcher{rates: rates}
}

func (f *UZSBasketFetcher) Category() domain.Category { return domain.CategoryUZSBasket }

func (f *UZSBasketFetcher) Fetch(ctx context.Context) domain.Snapshot {
	table, err := f.rates.GetExchangeRates(ctx, "UZS")
	if err != nil {
		logrus.WithError(err).Error("Error fetching UZS exchange rates")
		return domain.FailedSnapshot(f.Category(), "Error: Unable to fetch currency rates.")
	}
	if len(table) == 0 {
		return domain.FailedSnapshot(f.Category(), "Error: Unable to fetch currency rates.")
	}

	items := make([]domain.Item, 0, len(UZSBasket))
	available := 0
	for _, code := range UZSBasket {
		item := domain.Item{Label: code}
		if rate, ok := table[code]; ok && rate != 0 {
			item.Value = rate
			item.Available = true
			available++
		}
		items = append(items, item)
	}

	if available == 0 {
		return domain.FailedSnapshot(f.Category(), "Error: Unable to fetch currency rates.")
	}
	return domain.Snapshot{Category: f.Category(), Items: items}
}
