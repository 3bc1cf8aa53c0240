package telegram

// Callback names routed by the bot loop. The from_/to_ prefixes carry a
// currency code after the underscore.
const (
	CallbackAboutBot        = "about_bot"
	CallbackAdminContact    = "admin_contact"
	CallbackMarketPrices    = "market_prices"
	CallbackUZSComparison   = "uzs_comparison"
	CallbackCurrencyCalc    = "currency_calculator"
	CallbackMarketSP500     = "market_sp500"
	CallbackMarketCrypto    = "market_crypto"
	CallbackMarketCommodity = "market_commodity"
	CallbackMarketCurrency  = "market_currency"
	CallbackBackToMain      = "back_to_main"

	FromPrefix = "from_"
	ToPrefix   = "to_"
)

func MainMenuKeyboard() *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{
			{Text: "ℹ️ About", CallbackData: CallbackAboutBot},
			{Text: "📈 Markets", CallbackData: CallbackMarketPrices},
		},
		{
			{Text: "🇺🇿 UZS Rates", CallbackData: CallbackUZSComparison},
			{Text: "💱 Convert", CallbackData: CallbackCurrencyCalc},
		},
		{
			{Text: "👨‍💼 Contact Admin", CallbackData: CallbackAdminContact},
		},
	}}
}

func MarketsMenuKeyboard() *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{
			{Text: "📊 S&P 500", CallbackData: CallbackMarketSP500},
			{Text: "🚀 Crypto", CallbackData: CallbackMarketCrypto},
		},
		{
			{Text: "⛏️ Commodities", CallbackData: CallbackMarketCommodity},
			{Text: "💵 Currencies", CallbackData: CallbackMarketCurrency},
		},
		{
			{Text: "⬅️ Back to Main", CallbackData: CallbackBackToMain},
		},
	}}
}

// CurrencyKeyboard lays the supported codes out four to a row, each button
// carrying prefix+code as its callback.
func CurrencyKeyboard(prefix string, codes []string) *InlineKeyboardMarkup {
	var rows [][]InlineKeyboardButton
	for i := 0; i < len(codes); i += 4 {
		end := min(i+4, len(codes))
		row := make([]InlineKeyboardButton, 0, end-i)
		for _, code := range codes[i:end] {
			row = append(row, InlineKeyboardButton{Text: code, CallbackData: prefix + code})
		}
		rows = append(rows, row)
	}
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}
