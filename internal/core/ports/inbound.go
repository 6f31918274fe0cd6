package ports

import (
	"context"

	"github.com/scansafe/scansafe/internal/core/domain"
)

// ProductAnalyzer is the inbound contract for single-image analysis.
// Implementations are total: any internal failure surfaces as the sentinel
// analysis, never as an error.
type ProductAnalyzer interface {
	AnalyzeProductImage(ctx context.Context, localPath string) domain.ProductAnalysis
}

// ScanService is the end-to-end inbound contract: analyze an image, check
// recall status, persist and announce the result. Total like the analyzer;
// the worst case observable result carries the sentinel analysis.
type ScanService interface {
	ScanProduct(ctx context.Context, userID, localPath string) *domain.ProductDetails
}

// HistoryService is the inbound contract for the per-user scan history.
type HistoryService interface {
	Save(ctx context.Context, userID string, details *domain.ProductDetails)
	List(ctx context.Context, userID string) []domain.ProductDetails
}

// RecallRechecker re-evaluates the recall status of a stored scan.
type RecallRechecker interface {
	RecheckByID(ctx context.Context, scanID string) error
}
