package render

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"marketbot/internal/convert"
	"marketbot/internal/domain"
)

// Format selects the message markup tier. Messages are composed as HTML
// first; when Telegram rejects the entity parsing the same message is re-sent
// as plain text, so every renderer supports both tiers.
type Format int

const (
	HTML Format = iota
	Plain
)

const (
	LiveDataFooter = "⚡ Real-time data updates automatically using API!"

	unavailableMark = "N/A"
)

var categoryHeaders = map[domain.Category]string{
	domain.CategoryEquityIndex:    "S&P 500 Stock Prices 📈",
	domain.CategoryCrypto:         "Crypto Market 🚀",
	domain.CategoryCommodity:      "Commodity Market ⛏️",
	domain.CategoryCurrencyBasket: "Currency Market 💱",
	domain.CategoryUZSBasket:      "🇺🇿 UZS Exchange Rates",
}

// Snapshot renders a market snapshot into a chat message. Failed snapshots
// collapse to the stored cause behind the failure mark.
func Snapshot(snap domain.Snapshot, f Format) string {
	if snap.Failed() {
		return "❌ " + snap.FailureCause
	}

	var b strings.Builder
	b.WriteString(bold(categoryHeaders[snap.Category], f))
	b.WriteString("\n")
	if snap.Category == domain.CategoryUZSBasket {
		b.WriteString("\n")
	}

	for _, item := range snap.Items {
		b.WriteString(itemLine(snap.Category, item, f))
		b.WriteString("\n")
	}
	return b.String()
}

func itemLine(category domain.Category, item domain.Item, f Format) string {
	label := escape(item.Label, f)

	switch category {
	case domain.CategoryEquityIndex:
		if item.Label == domain.IndexLabel {
			if !item.Available {
				return bold(item.Label+":", f) + " " + unavailableMark
			}
			return bold(item.Label+":", f) + " " + fmt.Sprintf("%.2f", item.Value)
		}
		if !item.Available {
			return label + ": " + unavailableMark
		}
		return fmt.Sprintf("%s: $%.2f", label, item.Value)

	case domain.CategoryCrypto, domain.CategoryCommodity:
		if !item.Available {
			return label + ": " + unavailableMark
		}
		return fmt.Sprintf("%s: $%s", label, groupThousands(item.Value))

	case domain.CategoryUZSBasket:
		// Stored values are UZS -> code; users read them code -> UZS.
		if !item.Available || item.Value == 0 {
			return "1 " + label + " = " + unavailableMark
		}
		return fmt.Sprintf("1 %s = %s UZS", label, trimFloat(math.Round(1/item.Value*100)/100))

	default:
		if !item.Available {
			return label + ": " + unavailableMark
		}
		return fmt.Sprintf("%s: %.2f", label, item.Value)
	}
}

// Outcome renders a conversion dialogue step into a chat message.
func Outcome(out convert.Outcome, f Format) string {
	switch out.Kind {
	case convert.OutcomePromptFrom:
		return "💱 Choose the currency you want to convert from:"
	case convert.OutcomePromptTo:
		return "💱 Now, choose the currency you want to convert to:"
	case convert.OutcomePromptAmount:
		if out.Retry {
			return "Please enter a valid number."
		}
		return "💱 Enter the amount you want to convert:"
	case convert.OutcomeReport:
		return fmt.Sprintf("%s %s = %s %s 💱",
			trimFloat(out.Amount), escape(out.From, f), trimFloat(out.Converted), escape(out.To, f))
	case convert.OutcomeRateUnavailable:
		return "❌ Error fetching exchange rate."
	case convert.OutcomeCancelled:
		return "Conversion cancelled."
	default:
		return ""
	}
}

// MainMenu is shown after most interactions; the welcome variant greets a
// verified member on /start.
func MainMenu(welcome bool, f Format) string {
	if welcome {
		return bold("🌟 Welcome to UDEA Finance Bot! 🌟", f) + "\n\nChoose an option below:"
	}
	return bold("🌟 Choose an option below:", f)
}

func MarketsMenu(f Format) string {
	return bold("📈 Market Prices 📉", f) + "\n\nSelect a market to explore:"
}

func bold(s string, f Format) string {
	if f == HTML {
		return "<b>" + s + "</b>"
	}
	return s
}

func escape(s string, f Format) string {
	if f == HTML {
		return html.EscapeString(s)
	}
	return s
}

// trimFloat prints a rounded value without trailing zeros: 2.5 not 2.50.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// groupThousands formats a price with comma-separated thousands and two
// decimals, e.g. 64123.456 -> "64,123.46".
func groupThousands(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	intPart, fracPart, _ := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(",")
		}
		b.WriteRune(digit)
	}
	b.WriteString(".")
	b.WriteString(fracPart)
	return b.String()
}
