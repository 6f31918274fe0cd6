package usecase

import (
	"context"
	"testing"

	"github.com/scansafe/scansafe/internal/core/domain"
)

func TestRecheckUpdatesWhenRegistryChanged(t *testing.T) {
	repo := &remoteRepoFake{scans: []domain.ProductDetails{{
		ID:         "scan-1",
		UserID:     "u-1",
		RecallInfo: domain.RecallInfo{ProductName: "Oat Bar"},
	}}}
	recalls := &recallFake{info: domain.RecallInfo{IsRecalled: true, RecallReason: "undeclared peanuts"}}
	uc := NewRecheckUseCase(repo, recalls)

	if err := uc.RecheckByID(context.Background(), "scan-1"); err != nil {
		t.Fatalf("recheck: %v", err)
	}
	if !repo.scans[0].RecallInfo.IsRecalled {
		t.Fatalf("expected stored recall info refreshed, got %+v", repo.scans[0].RecallInfo)
	}
	if repo.scans[0].RecallInfo.RecallReason != "undeclared peanuts" {
		t.Fatalf("recall reason: got %q", repo.scans[0].RecallInfo.RecallReason)
	}
}

func TestRecheckNoopWhenUnchanged(t *testing.T) {
	repo := &remoteRepoFake{scans: []domain.ProductDetails{{
		ID:         "scan-1",
		RecallInfo: domain.RecallInfo{ProductName: "Oat Bar"},
	}}}
	uc := NewRecheckUseCase(repo, &recallFake{})

	if err := uc.RecheckByID(context.Background(), "scan-1"); err != nil {
		t.Fatalf("recheck: %v", err)
	}
}

func TestRecheckMissingScan(t *testing.T) {
	uc := NewRecheckUseCase(&remoteRepoFake{}, &recallFake{})

	err := uc.RecheckByID(context.Background(), "nope")
	if err == nil {
		t.Fatalf("expected error for unknown scan")
	}
	if !domain.IsKind(err, domain.ErrScanNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
}
