package usecase

import (
	"context"
	"fmt"

	"github.com/scansafe/scansafe/internal/core/ports"
)

// RecheckUseCase re-evaluates the recall status of a stored scan. Recall
// notices can land after a product was scanned; the worker replays stored
// scans against the current registry.
type RecheckUseCase struct {
	repo    ports.ScanRepository
	recalls ports.RecallChecker
}

func NewRecheckUseCase(repo ports.ScanRepository, recalls ports.RecallChecker) *RecheckUseCase {
	return &RecheckUseCase{
		repo:    repo,
		recalls: recalls,
	}
}

func (uc *RecheckUseCase) RecheckByID(ctx context.Context, scanID string) error {
	details, err := uc.repo.GetByID(ctx, scanID)
	if err != nil {
		return fmt.Errorf("fetch scan by id: %w", err)
	}

	info, err := uc.recalls.Check(ctx, details.RecallInfo.ProductName)
	if err != nil {
		return fmt.Errorf("recall check: %w", err)
	}
	if info == details.RecallInfo {
		return nil
	}

	if err := uc.repo.UpdateRecallInfo(ctx, scanID, info); err != nil {
		return fmt.Errorf("update recall info: %w", err)
	}
	return nil
}
