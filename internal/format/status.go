package format

// Stock levels returned by StockStatus.
const (
	StockOut    = "out"
	StockLow    = "low"
	StockMedium = "medium"
	StockHigh   = "high"
)

// StockMultiplier marks the upper bound of the medium band as a multiple of
// the minimum stock.
const StockMultiplier = 2

// Badge is a display label with its CSS class.
type Badge struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Class string `json:"class"`
}

const neutralClass = "bg-gray-100 text-gray-800"

var stockBadges = map[string]Badge{
	StockOut:    {StockOut, "Rupture de stock", "bg-red-100 text-red-800"},
	StockLow:    {StockLow, "Stock faible", "bg-orange-100 text-orange-800"},
	StockMedium: {StockMedium, "Stock moyen", "bg-yellow-100 text-yellow-800"},
	StockHigh:   {StockHigh, "En stock", "bg-green-100 text-green-800"},
}

// StockStatus classifies a quantity against its minimum stock threshold.
func StockStatus(quantity, minStock int) Badge {
	switch {
	case quantity <= 0:
		return stockBadges[StockOut]
	case quantity <= minStock:
		return stockBadges[StockLow]
	case quantity <= minStock*StockMultiplier:
		return stockBadges[StockMedium]
	default:
		return stockBadges[StockHigh]
	}
}

var orderBadges = map[string]Badge{
	"pending":   {"pending", "En attente", "bg-yellow-100 text-yellow-800"},
	"confirmed": {"confirmed", "Confirmée", "bg-blue-100 text-blue-800"},
	"preparing": {"preparing", "En préparation", "bg-indigo-100 text-indigo-800"},
	"ready":     {"ready", "Prête", "bg-purple-100 text-purple-800"},
	"delivered": {"delivered", "Livrée", "bg-green-100 text-green-800"},
	"cancelled": {"cancelled", "Annulée", "bg-red-100 text-red-800"},
}

var paymentBadges = map[string]Badge{
	"cash":         {"cash", "Espèces", "bg-green-100 text-green-800"},
	"mobile_money": {"mobile_money", "Mobile Money", "bg-blue-100 text-blue-800"},
	"card":         {"card", "Carte bancaire", "bg-indigo-100 text-indigo-800"},
	"credit":       {"credit", "Crédit", "bg-orange-100 text-orange-800"},
}

// OrderStatus looks up the badge for an order status. Unknown keys are
// echoed back as their own label.
func OrderStatus(key string) Badge {
	return lookup(orderBadges, key)
}

// PaymentMethod looks up the badge for a payment method.
func PaymentMethod(key string) Badge {
	return lookup(paymentBadges, key)
}

func lookup(m map[string]Badge, key string) Badge {
	if b, ok := m[key]; ok {
		return b
	}
	return Badge{Key: key, Label: key, Class: neutralClass}
}
