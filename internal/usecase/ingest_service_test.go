package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

func newIngestFixture(t *testing.T) (*IngestService, *stubCatalogRepo, *stubCache) {
	t.Helper()
	repo := newStubRepo()
	cache := newStubCache()
	units := NewUnitNormalizer()
	matcher := newTestMatcher()
	comparison := NewComparisonService(repo, units, DefaultComparisonConfig())
	comparison.now = func() time.Time { return comparisonNow }

	svc := NewIngestService(repo, cache, matcher, comparison, units, IngestConfig{})
	svc.now = func() time.Time { return comparisonNow }
	return svc, repo, cache
}

func TestProcessDocumentEmpty(t *testing.T) {
	svc, _, _ := newIngestFixture(t)

	_, err := svc.ProcessDocument(context.Background(), "upload-1", nil)
	if !errors.Is(err, domain.ErrEmptyDocument) {
		t.Errorf("error = %v, want ErrEmptyDocument", err)
	}
}

func TestProcessDocumentOutcomes(t *testing.T) {
	svc, repo, _ := newIngestFixture(t)
	ctx := context.Background()

	if _, err := repo.CreateProduct(ctx, "tomato", "kg", ""); err != nil {
		t.Fatalf("seeding product: %v", err)
	}

	queries := []domain.MatchQuery{
		{RawName: "Tomato", RawUnit: "kg", RawPrice: 50000, Quantity: 1, SupplierID: "supplier-a"},
		{RawName: "Dragonfruit", RawUnit: "kg", RawPrice: 80000, Quantity: 1, SupplierID: "supplier-a"},
		{RawName: "", RawUnit: "kg", RawPrice: 10000},
	}

	report, err := svc.ProcessDocument(ctx, "upload-1", queries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Matched != 1 || report.Created != 1 || report.Skipped != 1 {
		t.Errorf("tallies = %d/%d/%d, want 1 matched, 1 created, 1 skipped",
			report.Matched, report.Created, report.Skipped)
	}
	if len(report.Lines) != 3 {
		t.Errorf("len(Lines) = %d, want 3", len(report.Lines))
	}
	if report.UploadID != "upload-1" {
		t.Errorf("UploadID = %q, want upload-1", report.UploadID)
	}
}

func TestProcessLineMatched(t *testing.T) {
	svc, repo, _ := newIngestFixture(t)
	ctx := context.Background()

	seeded, err := repo.CreateProduct(ctx, "carrot", "kg", "")
	if err != nil {
		t.Fatalf("seeding product: %v", err)
	}

	result, err := svc.ProcessLine(ctx, "upload-1", domain.MatchQuery{
		RawName:    "Wortel Segar", // normalizes to "carrot fresh"
		RawUnit:    "kg",
		RawPrice:   25000,
		Quantity:   1,
		SupplierID: "supplier-a",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome != domain.LineMatched {
		t.Fatalf("Outcome = %q, want matched", result.Outcome)
	}
	if result.Product.ID != seeded.ID {
		t.Errorf("matched product %q, want %q", result.Product.ID, seeded.ID)
	}
	if result.Score <= 0 {
		t.Errorf("Score = %d, want > 0", result.Score)
	}

	active, err := repo.ActiveObservations(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("loading observations: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("active observations = %d, want 1", len(active))
	}
	if active[0].SourceUploadID != "upload-1" {
		t.Errorf("SourceUploadID = %q, want upload-1", active[0].SourceUploadID)
	}
}

// The same unseen product on two documents must create exactly one catalog
// entry; the second ingest matches it.
func TestProcessLineCreateThenMatch(t *testing.T) {
	svc, repo, _ := newIngestFixture(t)
	ctx := context.Background()

	query := domain.MatchQuery{RawName: "Dragonfruit", RawUnit: "kg", RawPrice: 80000, Quantity: 1, SupplierID: "supplier-a"}

	first, err := svc.ProcessLine(ctx, "upload-1", query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Outcome != domain.LineCreated {
		t.Fatalf("first Outcome = %q, want created", first.Outcome)
	}

	query.SupplierID = "supplier-b"
	second, err := svc.ProcessLine(ctx, "upload-2", query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Outcome != domain.LineMatched {
		t.Fatalf("second Outcome = %q, want matched", second.Outcome)
	}
	if second.Product.ID != first.Product.ID {
		t.Errorf("second ingest got product %q, want %q", second.Product.ID, first.Product.ID)
	}

	products, _ := repo.ListProducts(ctx)
	if len(products) != 1 {
		t.Errorf("catalog entries = %d, want 1", len(products))
	}
}

// A repeated quote from the same supplier supersedes the old observation
// and writes a price-change record.
func TestProcessLinePriceSupersede(t *testing.T) {
	svc, repo, _ := newIngestFixture(t)
	ctx := context.Background()

	base := domain.MatchQuery{RawName: "Tomato", RawUnit: "kg", Quantity: 1, SupplierID: "supplier-a"}

	base.RawPrice = 50000
	first, err := svc.ProcessLine(ctx, "upload-1", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base.RawPrice = 55000
	if _, err := svc.ProcessLine(ctx, "upload-2", base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	productID := first.Product.ID
	active, err := repo.ActiveObservations(ctx, productID)
	if err != nil {
		t.Fatalf("loading observations: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("active observations = %d, want 1 after supersede", len(active))
	}
	if active[0].Amount != 55000 {
		t.Errorf("active amount = %v, want 55000", active[0].Amount)
	}

	changes, err := repo.PriceChanges(ctx, productID)
	if err != nil {
		t.Fatalf("loading price changes: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("price changes = %d, want 1", len(changes))
	}
	if changes[0].ChangePct != 10 {
		t.Errorf("ChangePct = %v, want 10", changes[0].ChangePct)
	}
}

func TestProcessLineSkips(t *testing.T) {
	svc, _, _ := newIngestFixture(t)
	ctx := context.Background()

	t.Run("missing name", func(t *testing.T) {
		result, err := svc.ProcessLine(ctx, "upload-1", domain.MatchQuery{RawUnit: "kg", RawPrice: 10000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Outcome != domain.LineSkipped {
			t.Errorf("Outcome = %q, want skipped", result.Outcome)
		}
		if result.Reason == "" {
			t.Error("Reason is empty, want the rejection cause")
		}
	})

	t.Run("negative quantity", func(t *testing.T) {
		result, err := svc.ProcessLine(ctx, "upload-1", domain.MatchQuery{
			RawName: "Tomato", RawUnit: "kg", RawPrice: 10000, Quantity: -1,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Outcome != domain.LineSkipped {
			t.Errorf("Outcome = %q, want skipped", result.Outcome)
		}
	})

	t.Run("name normalizing to empty", func(t *testing.T) {
		result, err := svc.ProcessLine(ctx, "upload-1", domain.MatchQuery{RawName: "???", RawUnit: "kg"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Outcome != domain.LineSkipped {
			t.Errorf("Outcome = %q, want skipped", result.Outcome)
		}
	})
}

func TestProcessLineMissingQuantityDefaultsToOne(t *testing.T) {
	svc, repo, _ := newIngestFixture(t)
	ctx := context.Background()

	result, err := svc.ProcessLine(ctx, "upload-1", domain.MatchQuery{
		RawName: "Tomato", RawUnit: "kg", RawPrice: 50000, SupplierID: "supplier-a",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != domain.LineCreated {
		t.Fatalf("Outcome = %q, want created", result.Outcome)
	}

	active, _ := repo.ActiveObservations(ctx, result.Product.ID)
	if len(active) != 1 || active[0].UnitPrice != 50000 {
		t.Errorf("observations = %+v, want one at unit price 50000", active)
	}
}

func TestProcessLineComparisonAttached(t *testing.T) {
	svc, repo, _ := newIngestFixture(t)
	ctx := context.Background()

	product, err := repo.CreateProduct(ctx, "tomato", "kg", "")
	if err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	err = repo.RecordObservation(ctx, domain.PriceObservation{
		ProductID:  product.ID,
		SupplierID: "supplier-b",
		Amount:     40000,
		RawUnit:    "kg",
		UnitPrice:  40000,
		ValidFrom:  comparisonNow.AddDate(0, 0, -1),
	})
	if err != nil {
		t.Fatalf("seeding observation: %v", err)
	}

	result, err := svc.ProcessLine(ctx, "upload-1", domain.MatchQuery{
		RawName: "Tomato", RawUnit: "kg", RawPrice: 50000, Quantity: 1, SupplierID: "supplier-a",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Comparison == nil {
		t.Fatal("Comparison = nil, want a report")
	}
	if len(result.Comparison.BetterDeals) != 1 {
		t.Fatalf("BetterDeals = %+v, want supplier-b's cheaper quote", result.Comparison.BetterDeals)
	}
	if result.Comparison.BetterDeals[0].SupplierID != "supplier-b" {
		t.Errorf("deal from %q, want supplier-b", result.Comparison.BetterDeals[0].SupplierID)
	}
}

// Lines without a unit column must stay comparable across suppliers: the
// product is created as per-piece and the unitless observations fold onto it.
func TestProcessLineUnitlessAcrossSuppliers(t *testing.T) {
	svc, repo, _ := newIngestFixture(t)
	ctx := context.Background()

	first, err := svc.ProcessLine(ctx, "upload-1", domain.MatchQuery{
		RawName: "Dragonfruit", RawPrice: 50000, SupplierID: "supplier-a",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Outcome != domain.LineCreated {
		t.Fatalf("first Outcome = %q, want created", first.Outcome)
	}
	if first.Product.StandardizedUnit != UnitPiece {
		t.Fatalf("StandardizedUnit = %q, want pcs for a unitless line", first.Product.StandardizedUnit)
	}

	second, err := svc.ProcessLine(ctx, "upload-2", domain.MatchQuery{
		RawName: "Dragonfruit", RawPrice: 60000, SupplierID: "supplier-b",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Outcome != domain.LineMatched {
		t.Fatalf("second Outcome = %q, want matched", second.Outcome)
	}

	if second.Comparison == nil {
		t.Fatal("Comparison = nil, want a report")
	}
	if second.Comparison.PriceStats.SupplierCount != 1 {
		t.Fatalf("SupplierCount = %d, want 1 (supplier-a's unitless quote counted)",
			second.Comparison.PriceStats.SupplierCount)
	}
	if len(second.Comparison.BetterDeals) != 1 || second.Comparison.BetterDeals[0].SupplierID != "supplier-a" {
		t.Errorf("BetterDeals = %+v, want supplier-a's cheaper quote", second.Comparison.BetterDeals)
	}

	active, err := repo.ActiveObservations(ctx, first.Product.ID)
	if err != nil {
		t.Fatalf("loading observations: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("active observations = %d, want one per supplier", len(active))
	}
}

func TestProcessLineNoObservationWithoutSupplier(t *testing.T) {
	svc, repo, _ := newIngestFixture(t)
	ctx := context.Background()

	result, err := svc.ProcessLine(ctx, "upload-1", domain.MatchQuery{
		RawName: "Tomato", RawUnit: "kg", RawPrice: 50000, Quantity: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active, _ := repo.ActiveObservations(ctx, result.Product.ID)
	if len(active) != 0 {
		t.Errorf("observations = %d, want 0 without a supplier", len(active))
	}
}

func TestCatalogCacheInvalidation(t *testing.T) {
	svc, _, cache := newIngestFixture(t)
	ctx := context.Background()

	// first line populates the snapshot, creating a product invalidates it
	if _, err := svc.ProcessLine(ctx, "upload-1", domain.MatchQuery{RawName: "Tomato", RawUnit: "kg"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists, _ := cache.Exists(ctx, catalogCacheKey); exists {
		t.Error("catalog snapshot still cached after a create")
	}

	// a pure match refills and keeps the snapshot
	if _, err := svc.ProcessLine(ctx, "upload-2", domain.MatchQuery{RawName: "Tomato", RawUnit: "kg"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists, _ := cache.Exists(ctx, catalogCacheKey); !exists {
		t.Error("catalog snapshot not cached after a match")
	}
}

func TestProcessLineStorageFailure(t *testing.T) {
	svc, repo, _ := newIngestFixture(t)
	repo.failListProducts = errors.New("disk gone")

	_, err := svc.ProcessLine(context.Background(), "upload-1", domain.MatchQuery{RawName: "Tomato"})
	if err == nil {
		t.Fatal("error = nil, want storage failure surfaced")
	}
}
