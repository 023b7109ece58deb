package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// Canonical units all raw spellings fold into
const (
	UnitKilogram = "kg"
	UnitLiter    = "ltr"
	UnitPiece    = "pcs"
	UnitPack     = "pack"
	UnitBox      = "box"
	UnitBunch    = "bunch"
	UnitBottle   = "btl"
)

// unitMapping folds a raw unit spelling into its canonical unit. Factor is
// the multiplier that converts a price per raw unit into a price per
// canonical unit (grams and milliliters price 1000x higher per kg/ltr).
type unitMapping struct {
	canonical string
	factor    float64
}

// unitAliases maps lower-cased raw unit spellings (multi-language) to
// canonical units. Maintained by hand; unknown spellings pass through
// unchanged and are handled downstream as non-comparable.
var unitAliases = map[string]unitMapping{
	// Mass
	"kg": {UnitKilogram, 1}, "kilo": {UnitKilogram, 1},
	"kilogram": {UnitKilogram, 1}, "kilograms": {UnitKilogram, 1},
	"kgs": {UnitKilogram, 1}, "kilogramo": {UnitKilogram, 1},
	"g": {UnitKilogram, 1000}, "gr": {UnitKilogram, 1000},
	"gram": {UnitKilogram, 1000}, "grams": {UnitKilogram, 1000},
	"gramo": {UnitKilogram, 1000}, "gramos": {UnitKilogram, 1000},
	// Volume
	"l": {UnitLiter, 1}, "lt": {UnitLiter, 1}, "ltr": {UnitLiter, 1},
	"liter": {UnitLiter, 1}, "liters": {UnitLiter, 1},
	"litre": {UnitLiter, 1}, "litres": {UnitLiter, 1},
	"litro": {UnitLiter, 1}, "litros": {UnitLiter, 1},
	"ml": {UnitLiter, 1000}, "milliliter": {UnitLiter, 1000},
	"milliliters": {UnitLiter, 1000}, "mililitro": {UnitLiter, 1000},
	// Count
	"pcs": {UnitPiece, 1}, "pc": {UnitPiece, 1}, "piece": {UnitPiece, 1},
	"pieces": {UnitPiece, 1}, "unit": {UnitPiece, 1}, "units": {UnitPiece, 1},
	"each": {UnitPiece, 1}, "ea": {UnitPiece, 1},
	"biji": {UnitPiece, 1}, "butir": {UnitPiece, 1}, "buah": {UnitPiece, 1},
	"ekor": {UnitPiece, 1}, "pza": {UnitPiece, 1}, "pieza": {UnitPiece, 1},
	// Pass-through packaging categories
	"pack": {UnitPack, 1}, "pak": {UnitPack, 1}, "pkt": {UnitPack, 1},
	"packet": {UnitPack, 1}, "paket": {UnitPack, 1}, "paquete": {UnitPack, 1},
	"box": {UnitBox, 1}, "dus": {UnitBox, 1}, "karton": {UnitBox, 1},
	"carton": {UnitBox, 1}, "caja": {UnitBox, 1},
	"bunch": {UnitBunch, 1}, "ikat": {UnitBunch, 1}, "sisir": {UnitBunch, 1},
	"btl": {UnitBottle, 1}, "bottle": {UnitBottle, 1},
	"botol": {UnitBottle, 1}, "botella": {UnitBottle, 1},
}

// UnitNormalizer folds raw unit spellings into the canonical unit set and
// computes per-canonical-unit prices for comparison
type UnitNormalizer struct{}

// NewUnitNormalizer creates a unit normalizer
func NewUnitNormalizer() *UnitNormalizer {
	return &UnitNormalizer{}
}

// CanonicalUnit maps a raw unit spelling to its canonical unit. Unknown
// units pass through lower-cased and trimmed; unit mismatch is handled by
// the comparator, not by failing here.
func (u *UnitNormalizer) CanonicalUnit(rawUnit string) string {
	cleaned := strings.ToLower(strings.TrimSpace(rawUnit))
	if mapping, ok := unitAliases[cleaned]; ok {
		return mapping.canonical
	}
	return cleaned
}

// StandardizedUnit is the catalog form of a raw unit: CanonicalUnit with an
// omitted unit defaulting to the count unit. Catalog entries created from
// unitless lines carry this default, so every unit comparison must apply it
// too or unitless observations would never be comparable to their own product.
func (u *UnitNormalizer) StandardizedUnit(rawUnit string) string {
	if strings.TrimSpace(rawUnit) == "" {
		return UnitPiece
	}
	return u.CanonicalUnit(rawUnit)
}

// UnitPrice computes the price per one canonical unit: amount divided by
// quantity, scaled when the raw unit is a sub-unit of the canonical one
// (500g costing 2000 becomes 4000 per kg). Returns ErrInvalidQuantity for
// quantity <= 0; the result is always finite.
func (u *UnitNormalizer) UnitPrice(amount, quantity float64, rawUnit string) (float64, error) {
	if quantity <= 0 || math.IsNaN(quantity) {
		return 0, fmt.Errorf("%w: got %v", domain.ErrInvalidQuantity, quantity)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: amount %v is not finite", domain.ErrInvalidQuantity, amount)
	}

	factor := 1.0
	cleaned := strings.ToLower(strings.TrimSpace(rawUnit))
	if mapping, ok := unitAliases[cleaned]; ok {
		factor = mapping.factor
	}

	price := amount / quantity * factor
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: unit price for amount %v quantity %v is not finite",
			domain.ErrInvalidQuantity, amount, quantity)
	}
	return price, nil
}
