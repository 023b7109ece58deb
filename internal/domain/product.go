package domain

import "time"

// CanonicalProduct is a deduplicated catalog entry. The pair
// (StandardizedName, StandardizedUnit) is unique across the catalog.
type CanonicalProduct struct {
	ID               string    `json:"id"`
	StandardizedName string    `json:"standardizedName"`
	StandardizedUnit string    `json:"standardizedUnit"`
	Category         string    `json:"category,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// PriceObservation is one supplier's quoted price for one catalog product.
// A nil ValidTo means the observation is currently active; at most one
// observation per (ProductID, SupplierID) pair may be active at a time.
type PriceObservation struct {
	ID             string     `json:"id"`
	ProductID      string     `json:"productId"`
	SupplierID     string     `json:"supplierId"`
	Amount         float64    `json:"amount"`
	RawUnit        string     `json:"rawUnit"`
	UnitPrice      float64    `json:"unitPrice"` // price per canonical unit
	SourceUploadID string     `json:"sourceUploadId,omitempty"`
	ValidFrom      time.Time  `json:"validFrom"`
	ValidTo        *time.Time `json:"validTo,omitempty"`
}

// PriceChange is an append-only history record created when a supplier's
// price for a product is superseded by a different amount.
type PriceChange struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	SupplierID string    `json:"supplierId"`
	OldAmount  float64   `json:"oldAmount"`
	NewAmount  float64   `json:"newAmount"`
	ChangePct  float64   `json:"changePct"`
	RecordedAt time.Time `json:"recordedAt"`
}

// MatchQuery is one extracted price line submitted for catalog matching.
// It is ephemeral: produced by the extraction collaborator, consumed
// entirely within one matching request.
type MatchQuery struct {
	RawName    string  `json:"rawName" binding:"required"`
	RawUnit    string  `json:"rawUnit,omitempty"`
	RawPrice   float64 `json:"rawPrice,omitempty"`
	Quantity   float64 `json:"quantity,omitempty"`
	SupplierID string  `json:"supplierId,omitempty"`
}

// MatchResult is the outcome of scoring a query against the catalog
type MatchResult struct {
	Product *CanonicalProduct `json:"product"`
	Score   int               `json:"score"`
}
