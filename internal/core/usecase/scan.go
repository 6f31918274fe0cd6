package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scansafe/scansafe/internal/core/domain"
	"github.com/scansafe/scansafe/internal/core/ports"
)

// ScanUseCase is the end-to-end scan flow: analyze the image, cross-reference
// the recall registry, persist the record and announce it. Every collaborator
// failure is absorbed so the caller always receives a well-formed record.
type ScanUseCase struct {
	analyzer ports.ProductAnalyzer
	recalls  ports.RecallChecker
	history  ports.HistoryService
	queue    ports.MessageQueue
}

// NewScanUseCase wires the scan flow. queue may be nil when eventing is
// disabled.
func NewScanUseCase(
	analyzer ports.ProductAnalyzer,
	recalls ports.RecallChecker,
	history ports.HistoryService,
	queue ports.MessageQueue,
) *ScanUseCase {
	return &ScanUseCase{
		analyzer: analyzer,
		recalls:  recalls,
		history:  history,
		queue:    queue,
	}
}

func (uc *ScanUseCase) ScanProduct(ctx context.Context, userID, localPath string) *domain.ProductDetails {
	analysis := uc.analyzer.AnalyzeProductImage(ctx, localPath)

	recallInfo, err := uc.recalls.Check(ctx, analysis.ProductName)
	if err != nil {
		slog.Warn("recall_check_failed", "product_name", analysis.ProductName, "error", err)
		recallInfo = domain.RecallInfo{ProductName: analysis.ProductName}
	}

	now := time.Now().UTC()
	details := &domain.ProductDetails{
		ID:          uuid.NewString(),
		UserID:      userID,
		RecallInfo:  recallInfo,
		Nutrition:   analysis.Nutrition,
		Description: analysis.Description,
		ImageURI:    analysis.ImageURI,
		ScanDate:    now,
		CreatedAt:   now,
	}

	uc.history.Save(ctx, userID, details)

	if uc.queue != nil && strings.TrimSpace(userID) != "" {
		if err := uc.queue.PublishScanRecorded(ctx, details.ID); err != nil {
			slog.Warn("scan_event_publish_failed", "scan_id", details.ID, "error", err)
		}
	}

	return details
}
