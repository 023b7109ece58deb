package domain

// PriceStatus classifies a scanned price against the market for the product
type PriceStatus string

const (
	PriceStatusNormal       PriceStatus = "normal"
	PriceStatusSuspicious   PriceStatus = "suspiciously_low"
	PriceStatusOverpriced   PriceStatus = "overpriced"
	PriceStatusAboveAverage PriceStatus = "above_average"
	PriceStatusBelowAverage PriceStatus = "below_average"
)

// PriceStats summarizes the currently-active observations considered for a comparison
type PriceStats struct {
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Avg           float64 `json:"avg"`
	SupplierCount int     `json:"supplierCount"`
}

// BetterDeal is an alternative supplier's active price that undercuts the
// scanned price by at least the configured savings margin
type BetterDeal struct {
	SupplierID     string  `json:"supplierId"`
	Price          float64 `json:"price"`
	SavingsPercent float64 `json:"savingsPercent"`
}

// MatchedProductRef identifies the matched catalog entry inside a report
type MatchedProductRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// PriceComparisonReport is the comparison result consumed by the
// presentation collaborator. An empty BetterDeals list is a normal result.
type PriceComparisonReport struct {
	MatchedProduct MatchedProductRef `json:"matchedProduct"`
	ScannedPrice   float64           `json:"scannedPrice"`
	PriceStats     PriceStats        `json:"priceStats"`
	BetterDeals    []BetterDeal      `json:"betterDeals"`
	Status         PriceStatus       `json:"status"`
}

// LineOutcome describes what happened to a single ingested price line
type LineOutcome string

const (
	LineMatched LineOutcome = "matched" // matched an existing catalog entry
	LineCreated LineOutcome = "created" // no match, new catalog entry created
	LineSkipped LineOutcome = "skipped" // rejected (missing name, bad quantity)
)

// LineResult is the per-line outcome of a document ingest
type LineResult struct {
	Query      MatchQuery             `json:"query"`
	Outcome    LineOutcome            `json:"outcome"`
	Product    *CanonicalProduct      `json:"product,omitempty"`
	Score      int                    `json:"score,omitempty"`
	Comparison *PriceComparisonReport `json:"comparison,omitempty"`
	Reason     string                 `json:"reason,omitempty"` // populated for skipped lines
}

// DocumentReport aggregates the outcomes of one ingested document
type DocumentReport struct {
	UploadID string       `json:"uploadId,omitempty"`
	Lines    []LineResult `json:"lines"`
	Matched  int          `json:"matched"`
	Created  int          `json:"created"`
	Skipped  int          `json:"skipped"`
}
