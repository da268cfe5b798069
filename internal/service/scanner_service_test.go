package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/warelane/stockscan/internal/domain"
	"github.com/warelane/stockscan/internal/service"
	"github.com/warelane/stockscan/pkg/events"
)

// ---------- Mocks ----------

type mockCatalogRepo struct {
	items     map[string]string // normalized code -> description
	templates map[string]string // code -> description
	locations map[string]string // location code -> description
	details   []domain.DetailRow
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{
		items:     make(map[string]string),
		templates: make(map[string]string),
		locations: make(map[string]string),
	}
}

func (m *mockCatalogRepo) ItemDescription(_ context.Context, code string) (string, bool, error) {
	desc, ok := m.items[code]
	return desc, ok, nil
}

func (m *mockCatalogRepo) EnsureTemplate(_ context.Context, code, description string) (bool, error) {
	if _, ok := m.templates[code]; ok {
		return false, nil
	}
	m.templates[code] = description
	return true, nil
}

func (m *mockCatalogRepo) LatestLocationCode(_ context.Context, code string) (string, error) {
	for i := len(m.details) - 1; i >= 0; i-- {
		if m.details[i].Code == code {
			return m.details[i].Location, nil
		}
	}
	return "", nil
}

func (m *mockCatalogRepo) LocationDescription(_ context.Context, locationCode string) (string, error) {
	return m.locations[locationCode], nil
}

func (m *mockCatalogRepo) LocationCodeByDescription(_ context.Context, description string) (string, bool, error) {
	for code, desc := range m.locations {
		if strings.EqualFold(strings.TrimSpace(desc), strings.TrimSpace(description)) {
			return code, true, nil
		}
	}
	return "", false, nil
}

func (m *mockCatalogRepo) ListLocationDescriptions(_ context.Context) ([]string, error) {
	var out []string
	for _, desc := range m.locations {
		out = append(out, desc)
	}
	return out, nil
}

func (m *mockCatalogRepo) AppendDetail(_ context.Context, row *domain.DetailRow) (int64, error) {
	var max int64
	for _, d := range m.details {
		if d.DtlKey > max {
			max = d.DtlKey
		}
	}
	r := *row
	r.DtlKey = max + 1
	m.details = append(m.details, r)
	return r.DtlKey, nil
}

// ---------- Tests ----------

func setupScanner() (service.ScannerService, *mockCatalogRepo) {
	catalog := newMockCatalogRepo()
	return service.NewScannerService(catalog, events.NoopPublisher{}), catalog
}

func alice() *domain.Identity {
	return &domain.Identity{Email: "alice@example.com", Name: "Alice"}
}

func TestResolve_BlankCode(t *testing.T) {
	svc, _ := setupScanner()

	if _, err := svc.Resolve(context.Background(), "    "); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolve_UnknownCodeNeverWrites(t *testing.T) {
	svc, catalog := setupScanner()

	result, err := svc.Resolve(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if result.Exists {
		t.Fatal("unknown code should not exist")
	}
	if len(catalog.templates) != 0 || len(catalog.details) != 0 {
		t.Fatal("resolving an unknown code must not write")
	}
}

func TestResolve_ProvisionsTemplateOnce(t *testing.T) {
	svc, catalog := setupScanner()
	catalog.items["ABC123"] = "Widget"

	result, err := svc.Resolve(context.Background(), " abc123 ")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !result.Exists || result.Description != "Widget" {
		t.Fatalf("got %+v", result)
	}
	if result.LocationCode != "" || result.LocationDescription != "" {
		t.Fatal("no history yet; location fields must be empty strings")
	}
	if len(catalog.templates) != 1 || catalog.templates["ABC123"] != "Widget" {
		t.Fatalf("template not provisioned: %+v", catalog.templates)
	}

	// Second sequential call creates no duplicate.
	if _, err := svc.Resolve(context.Background(), "ABC123"); err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if len(catalog.templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(catalog.templates))
	}
}

func TestResolve_TranslatesLatestLocation(t *testing.T) {
	svc, catalog := setupScanner()
	catalog.items["ABC123"] = "Widget"
	catalog.locations["A1"] = "Aisle 1"
	catalog.locations["B2"] = "Aisle 2"
	catalog.details = []domain.DetailRow{
		{DtlKey: 1, Code: "ABC123", Location: "B2"},
		{DtlKey: 2, Code: "ABC123", Location: "A1"},
	}

	result, err := svc.Resolve(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if result.LocationCode != "A1" {
		t.Fatalf("expected most recent location code A1, got %q", result.LocationCode)
	}
	if result.LocationDescription != "Aisle 1" {
		t.Fatalf("expected Aisle 1, got %q", result.LocationDescription)
	}
}

func TestResolve_MissingLocationReferenceIsEmptyString(t *testing.T) {
	svc, catalog := setupScanner()
	catalog.items["ABC123"] = "Widget"
	catalog.details = []domain.DetailRow{{DtlKey: 1, Code: "ABC123", Location: "GONE"}}

	result, err := svc.Resolve(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if result.LocationCode != "GONE" || result.LocationDescription != "" {
		t.Fatalf("got %+v", result)
	}
}

func TestAssignLocation_RequiresIdentity(t *testing.T) {
	svc, catalog := setupScanner()
	catalog.locations["A1"] = "Aisle 1"

	err := svc.AssignLocation(context.Background(), nil, &domain.AssignLocationRequest{
		Code: "ABC123", LocationDesc: "Aisle 1",
	})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if len(catalog.details) != 0 {
		t.Fatal("unauthenticated call must not write")
	}
}

func TestAssignLocation_BlankCode(t *testing.T) {
	svc, _ := setupScanner()

	err := svc.AssignLocation(context.Background(), alice(), &domain.AssignLocationRequest{
		Code: "", LocationDesc: "Aisle 1",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAssignLocation_UnknownLocation(t *testing.T) {
	svc, catalog := setupScanner()
	catalog.locations["A1"] = "Aisle 1"

	err := svc.AssignLocation(context.Background(), alice(), &domain.AssignLocationRequest{
		Code: "ABC123", LocationDesc: "Nowhere",
	})
	if !errors.Is(err, domain.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
	if len(catalog.details) != 0 {
		t.Fatal("unknown location must not write")
	}
}

func TestAssignLocation_AppendsTranslatedHistoryRow(t *testing.T) {
	svc, catalog := setupScanner()
	catalog.locations["A1"] = "Aisle 1"

	err := svc.AssignLocation(context.Background(), alice(), &domain.AssignLocationRequest{
		Code: " abc123 ", LocationDesc: "aisle 1",
		Remark1: "r1", Remark2: "r2", Remark3: "r3",
	})
	if err != nil {
		t.Fatalf("AssignLocation: %v", err)
	}

	if len(catalog.details) != 1 {
		t.Fatalf("expected 1 detail row, got %d", len(catalog.details))
	}
	row := catalog.details[0]
	if row.Code != "ABC123" || row.Location != "A1" {
		t.Fatalf("got row %+v", row)
	}
	if row.TranUser != "Alice" {
		t.Fatalf("acting user not recorded: %q", row.TranUser)
	}
	if row.Remark1 != "r1" || row.Remark2 != "r2" || row.Remark3 != "r3" {
		t.Fatalf("remarks not carried: %+v", row)
	}
	if time.Since(row.TranDate) > time.Minute {
		t.Fatal("timestamp should be server-generated now")
	}
}

func TestAssignLocation_SequenceKeysIncrease(t *testing.T) {
	svc, catalog := setupScanner()
	catalog.locations["A1"] = "Aisle 1"

	for i := 0; i < 3; i++ {
		err := svc.AssignLocation(context.Background(), alice(), &domain.AssignLocationRequest{
			Code: "ABC123", LocationDesc: "Aisle 1",
		})
		if err != nil {
			t.Fatalf("assign %d: %v", i+1, err)
		}
	}

	for i, row := range catalog.details {
		if row.DtlKey != int64(i+1) {
			t.Fatalf("expected keys 1..3, got %+v", catalog.details)
		}
	}
}

func TestLocations_EmptyIsSliceNotNil(t *testing.T) {
	svc, _ := setupScanner()

	locations, err := svc.Locations(context.Background())
	if err != nil {
		t.Fatalf("Locations: %v", err)
	}
	if locations == nil {
		t.Fatal("expected empty slice, got nil")
	}
}
