package domain

// Category identifies one of the fixed market-data domains the bot serves.
// Each category owns exactly one cache slot and one fetcher.
type Category string

const (
	CategoryEquityIndex    Category = "equity-index"
	CategoryCrypto         Category = "crypto"
	CategoryCommodity      Category = "commodity"
	CategoryCurrencyBasket Category = "currency-basket"
	CategoryUZSBasket      Category = "uzs-basket"
)

// Categories returns all known categories in presentation order.
func Categories() []Category {
	return []Category{
		CategoryEquityIndex,
		CategoryCrypto,
		CategoryCommodity,
		CategoryCurrencyBasket,
		CategoryUZSBasket,
	}
}

// ValidCategory reports whether c names a known category.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryEquityIndex, CategoryCrypto, CategoryCommodity, CategoryCurrencyBasket, CategoryUZSBasket:
		return true
	}
	return false
}
