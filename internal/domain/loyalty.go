package domain

import "github.com/shopspring/decimal"

// AmountPerPoint is how much currency must be spent to earn one point.
const AmountPerPoint = 100

// Tier levels, lowest first.
const (
	LevelBronze = "Bronze"
	LevelArgent = "Argent"
	LevelOr     = "Or"
)

type tierRule struct {
	level     string
	minPoints int64
	benefits  []string
}

var tierRules = []tierRule{
	{LevelBronze, 0, []string{
		"1 point pour 100 FCFA dépensés",
		"Offres exclusives membres",
	}},
	{LevelArgent, 2000, []string{
		"1 point pour 100 FCFA dépensés",
		"5% de réduction sur toute la boutique",
		"Offres exclusives membres",
	}},
	{LevelOr, 5000, []string{
		"1 point pour 100 FCFA dépensés",
		"10% de réduction sur toute la boutique",
		"Livraison gratuite",
		"Accès prioritaire aux promotions",
	}},
}

// LoyaltyTier describes where a customer stands in the loyalty program.
type LoyaltyTier struct {
	Level     string `json:"level"`
	MinPoints int64  `json:"minPoints"`
	// NextLevel is empty at the top tier.
	NextLevel    string   `json:"nextLevel,omitempty"`
	PointsToNext int64    `json:"pointsToNext"`
	Progress     float64  `json:"progress"`
	Benefits     []string `json:"benefits"`
}

// IsMax reports whether no higher tier exists.
func (t LoyaltyTier) IsMax() bool {
	return t.NextLevel == ""
}

// PointsEarned converts a purchase amount into loyalty points, rounding down.
// The result for a negative amount is undefined.
func PointsEarned(amount decimal.Decimal) int64 {
	return amount.Div(decimal.NewFromInt(AmountPerPoint)).Floor().IntPart()
}

// TierFor derives the tier for a cumulative point balance.
func TierFor(points int64) LoyaltyTier {
	idx := 0
	for i, r := range tierRules {
		if points >= r.minPoints {
			idx = i
		}
	}
	cur := tierRules[idx]
	t := LoyaltyTier{
		Level:     cur.level,
		MinPoints: cur.minPoints,
		Benefits:  append([]string(nil), cur.benefits...),
		Progress:  100,
	}
	if idx+1 < len(tierRules) {
		next := tierRules[idx+1]
		t.NextLevel = next.level
		t.PointsToNext = next.minPoints - points
		span := float64(next.minPoints - cur.minPoints)
		t.Progress = float64(points-cur.minPoints) / span * 100
		if t.Progress < 0 {
			t.Progress = 0
		}
	}
	return t
}

// Tiers lists the program configuration, lowest tier first.
func Tiers() []LoyaltyTier {
	out := make([]LoyaltyTier, 0, len(tierRules))
	for _, r := range tierRules {
		out = append(out, TierFor(r.minPoints))
	}
	return out
}
