package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/scansafe/scansafe/internal/core/domain"
	"github.com/scansafe/scansafe/internal/core/ports"
)

// HistoryUseCase persists and lists a user's scans with a remote-primary,
// local-fallback policy. Write failures are absorbed: the worst observable
// outcome is an empty list, never an error.
type HistoryUseCase struct {
	remote ports.ScanRepository
	local  ports.LocalHistoryStore
}

func NewHistoryUseCase(remote ports.ScanRepository, local ports.LocalHistoryStore) *HistoryUseCase {
	return &HistoryUseCase{
		remote: remote,
		local:  local,
	}
}

func (uc *HistoryUseCase) Save(ctx context.Context, userID string, details *domain.ProductDetails) {
	if strings.TrimSpace(userID) == "" {
		slog.Warn("history_save_skipped", "reason", "missing user id")
		return
	}
	details.UserID = userID

	err := uc.remote.Create(ctx, details)
	if err == nil {
		return
	}
	slog.Warn("remote_history_write_failed",
		"user_id", userID,
		"scan_id", details.ID,
		"permission_denied", isPermissionDenied(err),
		"error", err,
	)

	if err := uc.local.Append(ctx, userID, details); err != nil {
		slog.Error("local_history_write_failed", "user_id", userID, "scan_id", details.ID, "error", err)
	}
}

func (uc *HistoryUseCase) List(ctx context.Context, userID string) []domain.ProductDetails {
	if strings.TrimSpace(userID) == "" {
		return []domain.ProductDetails{}
	}

	scans, err := uc.remote.ListByUser(ctx, userID)
	if err != nil {
		slog.Warn("remote_history_read_failed", "user_id", userID, "error", err)
		scans, err = uc.local.ListByUser(ctx, userID)
		if err != nil {
			slog.Error("local_history_read_failed", "user_id", userID, "error", err)
			return []domain.ProductDetails{}
		}
	}

	sort.SliceStable(scans, func(i, j int) bool {
		return scans[i].ScanDate.After(scans[j].ScanDate)
	})
	if scans == nil {
		scans = []domain.ProductDetails{}
	}
	return scans
}

// Permission errors carry no portable type across document stores; the
// original contract detects them by substring.
func isPermissionDenied(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "permission")
}
