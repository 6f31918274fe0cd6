package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/scansafe/scansafe/internal/core/domain"
)

type remoteRepoFake struct {
	createErr error
	listErr   error
	scans     []domain.ProductDetails
}

func (f *remoteRepoFake) Create(_ context.Context, details *domain.ProductDetails) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.scans = append(f.scans, *details)
	return nil
}

func (f *remoteRepoFake) GetByID(_ context.Context, id string) (*domain.ProductDetails, error) {
	for i := range f.scans {
		if f.scans[i].ID == id {
			copyDetails := f.scans[i]
			return &copyDetails, nil
		}
	}
	return nil, domain.WrapError(domain.ErrScanNotFound, "get scan", errors.New(id))
}

func (f *remoteRepoFake) ListByUser(_ context.Context, userID string) ([]domain.ProductDetails, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.ProductDetails
	for _, scan := range f.scans {
		if scan.UserID == userID {
			out = append(out, scan)
		}
	}
	return out, nil
}

func (f *remoteRepoFake) UpdateRecallInfo(_ context.Context, id string, info domain.RecallInfo) error {
	for i := range f.scans {
		if f.scans[i].ID == id {
			f.scans[i].RecallInfo = info
			return nil
		}
	}
	return domain.WrapError(domain.ErrScanNotFound, "update recall info", errors.New(id))
}

type localStoreFake struct {
	appendErr error
	listErr   error
	byUser    map[string][]domain.ProductDetails
}

func (f *localStoreFake) Append(_ context.Context, userID string, details *domain.ProductDetails) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	if f.byUser == nil {
		f.byUser = map[string][]domain.ProductDetails{}
	}
	f.byUser[userID] = append(f.byUser[userID], *details)
	return nil
}

func (f *localStoreFake) ListByUser(_ context.Context, userID string) ([]domain.ProductDetails, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byUser[userID], nil
}

func sampleDetails(id, userID string, scanDate time.Time) *domain.ProductDetails {
	return &domain.ProductDetails{
		ID:     id,
		UserID: userID,
		RecallInfo: domain.RecallInfo{
			IsRecalled:   true,
			ProductName:  "Oat Bar",
			RecallReason: "undeclared peanuts",
		},
		Nutrition: &domain.NutritionalInfo{Calories: "250kcal", Fats: "12g", Carbs: "30g", Proteins: "8g"},
		ScanDate:  scanDate,
		CreatedAt: scanDate,
	}
}

func TestHistoryRoundTripViaRemote(t *testing.T) {
	remote := &remoteRepoFake{}
	local := &localStoreFake{}
	uc := NewHistoryUseCase(remote, local)
	ctx := context.Background()

	saved := sampleDetails("scan-1", "u-1", time.Now().UTC())
	uc.Save(ctx, "u-1", saved)

	scans := uc.List(ctx, "u-1")
	if len(scans) != 1 {
		t.Fatalf("expected 1 scan, got %d", len(scans))
	}
	if !reflect.DeepEqual(scans[0].RecallInfo, saved.RecallInfo) {
		t.Fatalf("recall info round-trip mismatch: %+v", scans[0].RecallInfo)
	}
	if len(local.byUser) != 0 {
		t.Fatalf("local store must stay untouched when remote write succeeds")
	}
}

func TestHistoryRoundTripViaLocalFallback(t *testing.T) {
	remote := &remoteRepoFake{
		createErr: errors.New("Missing or insufficient permissions"),
		listErr:   errors.New("Missing or insufficient permissions"),
	}
	local := &localStoreFake{}
	uc := NewHistoryUseCase(remote, local)
	ctx := context.Background()

	saved := sampleDetails("scan-1", "u-1", time.Now().UTC())
	uc.Save(ctx, "u-1", saved)

	scans := uc.List(ctx, "u-1")
	if len(scans) != 1 {
		t.Fatalf("expected fallback entry, got %d scans", len(scans))
	}
	if !reflect.DeepEqual(scans[0].RecallInfo, saved.RecallInfo) {
		t.Fatalf("recall info round-trip mismatch: %+v", scans[0].RecallInfo)
	}
}

func TestHistoryListSortsNewestFirst(t *testing.T) {
	remote := &remoteRepoFake{}
	local := &localStoreFake{}
	uc := NewHistoryUseCase(remote, local)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	uc.Save(ctx, "u-1", sampleDetails("old", "u-1", base))
	uc.Save(ctx, "u-1", sampleDetails("new", "u-1", base.Add(time.Hour)))

	scans := uc.List(ctx, "u-1")
	if len(scans) != 2 || scans[0].ID != "new" || scans[1].ID != "old" {
		t.Fatalf("expected newest first, got %+v", scans)
	}
}

func TestHistorySaveSkipsMissingUserID(t *testing.T) {
	remote := &remoteRepoFake{}
	local := &localStoreFake{}
	uc := NewHistoryUseCase(remote, local)

	uc.Save(context.Background(), "  ", sampleDetails("scan-1", "", time.Now()))
	if len(remote.scans) != 0 || len(local.byUser) != 0 {
		t.Fatalf("save without user id must be a no-op")
	}
}

func TestHistoryListEmptyNeverNil(t *testing.T) {
	uc := NewHistoryUseCase(&remoteRepoFake{}, &localStoreFake{})

	scans := uc.List(context.Background(), "nobody")
	if scans == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(scans) != 0 {
		t.Fatalf("expected no scans, got %d", len(scans))
	}
}

func TestHistoryListEmptyWhenBothStoresFail(t *testing.T) {
	remote := &remoteRepoFake{listErr: errors.New("unavailable")}
	local := &localStoreFake{listErr: errors.New("disk broken")}
	uc := NewHistoryUseCase(remote, local)

	scans := uc.List(context.Background(), "u-1")
	if scans == nil || len(scans) != 0 {
		t.Fatalf("expected empty list on total failure, got %+v", scans)
	}
}
