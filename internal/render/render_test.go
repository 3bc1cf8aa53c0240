package render

import (
	"testing"

	"marketbot/internal/convert"
	"marketbot/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestSnapshot_EquityIndexHTML(t *testing.T) {
	snap := domain.Snapshot{
		Category: domain.CategoryEquityIndex,
		Items: []domain.Item{
			{Label: "AAPL", Value: 227.5, Available: true},
			{Label: "MSFT", Available: false},
			{Label: domain.IndexLabel, Value: 5123.0, Available: true},
		},
	}

	got := Snapshot(snap, HTML)

	require.Equal(t,
		"<b>S&P 500 Stock Prices 📈</b>\n"+
			"AAPL: $227.50\n"+
			"MSFT: N/A\n"+
			"<b>S&P 500 Index:</b> 5123.00\n",
		got)
}

func TestSnapshot_EquityIndexPlainDropsTags(t *testing.T) {
	snap := domain.Snapshot{
		Category: domain.CategoryEquityIndex,
		Items:    []domain.Item{{Label: "AAPL", Value: 227.5, Available: true}},
	}

	got := Snapshot(snap, Plain)

	require.NotContains(t, got, "<b>")
	require.Contains(t, got, "S&P 500 Stock Prices 📈\n")
	require.Contains(t, got, "AAPL: $227.50\n")
}

func TestSnapshot_CryptoGroupsThousands(t *testing.T) {
	snap := domain.Snapshot{
		Category: domain.CategoryCrypto,
		Items: []domain.Item{
			{Label: "BTC", Value: 64123.456, Available: true},
			{Label: "ETH", Value: 3123.1, Available: true},
			{Label: "DOGE", Value: 0.12, Available: true},
		},
	}

	got := Snapshot(snap, HTML)

	require.Contains(t, got, "<b>Crypto Market 🚀</b>\n")
	require.Contains(t, got, "BTC: $64,123.46\n")
	require.Contains(t, got, "ETH: $3,123.10\n")
	require.Contains(t, got, "DOGE: $0.12\n")
}

func TestSnapshot_Commodity(t *testing.T) {
	snap := domain.Snapshot{
		Category: domain.CategoryCommodity,
		Items:    []domain.Item{{Label: "Gold (XAU/USD)", Value: 2412.2, Available: true}},
	}

	got := Snapshot(snap, HTML)

	require.Contains(t, got, "<b>Commodity Market ⛏️</b>\n")
	require.Contains(t, got, "Gold (XAU/USD): $2,412.20\n")
}

func TestSnapshot_CurrencyPairs(t *testing.T) {
	snap := domain.Snapshot{
		Category: domain.CategoryCurrencyBasket,
		Items: []domain.Item{
			{Label: "USD/EUR", Value: 1.0869565217, Available: true},
			{Label: "USD/JPY", Available: false},
		},
	}

	got := Snapshot(snap, HTML)

	require.Contains(t, got, "<b>Currency Market 💱</b>\n")
	require.Contains(t, got, "USD/EUR: 1.09\n")
	require.Contains(t, got, "USD/JPY: N/A\n")
}

func TestSnapshot_UZSBasketInvertsRates(t *testing.T) {
	snap := domain.Snapshot{
		Category: domain.CategoryUZSBasket,
		Items: []domain.Item{
			{Label: "UZS", Value: 1.0, Available: true},
			{Label: "USD", Value: 0.00008, Available: true},
			{Label: "KZT", Available: false},
		},
	}

	got := Snapshot(snap, HTML)

	require.Contains(t, got, "<b>🇺🇿 UZS Exchange Rates</b>\n\n")
	require.Contains(t, got, "1 UZS = 1 UZS\n")
	require.Contains(t, got, "1 USD = 12500 UZS\n")
	require.Contains(t, got, "1 KZT = N/A\n")
}

func TestSnapshot_FailureRendersCause(t *testing.T) {
	snap := domain.FailedSnapshot(domain.CategoryCrypto, "Unable to fetch cryptocurrency prices.")

	require.Equal(t, "❌ Unable to fetch cryptocurrency prices.", Snapshot(snap, HTML))
	require.Equal(t, "❌ Unable to fetch cryptocurrency prices.", Snapshot(snap, Plain))
}

func TestOutcome_Prompts(t *testing.T) {
	require.Equal(t, "💱 Choose the currency you want to convert from:",
		Outcome(convert.Outcome{Kind: convert.OutcomePromptFrom}, HTML))
	require.Equal(t, "💱 Now, choose the currency you want to convert to:",
		Outcome(convert.Outcome{Kind: convert.OutcomePromptTo, From: "USD"}, HTML))
	require.Equal(t, "💱 Enter the amount you want to convert:",
		Outcome(convert.Outcome{Kind: convert.OutcomePromptAmount}, HTML))
	require.Equal(t, "Please enter a valid number.",
		Outcome(convert.Outcome{Kind: convert.OutcomePromptAmount, Retry: true}, HTML))
}

func TestOutcome_Report(t *testing.T) {
	out := convert.Outcome{
		Kind:      convert.OutcomeReport,
		From:      "USD",
		To:        "UZS",
		Amount:    2.5,
		Converted: 31625.0,
	}

	require.Equal(t, "2.5 USD = 31625 UZS 💱", Outcome(out, HTML))
}

func TestOutcome_Failures(t *testing.T) {
	require.Equal(t, "❌ Error fetching exchange rate.",
		Outcome(convert.Outcome{Kind: convert.OutcomeRateUnavailable}, HTML))
	require.Equal(t, "Conversion cancelled.",
		Outcome(convert.Outcome{Kind: convert.OutcomeCancelled}, HTML))
	require.Empty(t, Outcome(convert.Outcome{Kind: convert.OutcomeNone}, HTML))
}

func TestMenus(t *testing.T) {
	require.Equal(t, "<b>🌟 Welcome to UDEA Finance Bot! 🌟</b>\n\nChoose an option below:", MainMenu(true, HTML))
	require.Equal(t, "<b>🌟 Choose an option below:</b>", MainMenu(false, HTML))
	require.Equal(t, "🌟 Choose an option below:", MainMenu(false, Plain))
	require.Equal(t, "<b>📈 Market Prices 📉</b>\n\nSelect a market to explore:", MarketsMenu(HTML))
}
