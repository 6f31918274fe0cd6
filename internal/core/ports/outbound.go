package ports

import (
	"context"
	"io"

	"github.com/scansafe/scansafe/internal/core/domain"
)

// ScanRepository is the remote structured-document store for scan records.
type ScanRepository interface {
	Create(ctx context.Context, details *domain.ProductDetails) error
	GetByID(ctx context.Context, id string) (*domain.ProductDetails, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ProductDetails, error)
	UpdateRecallInfo(ctx context.Context, id string, info domain.RecallInfo) error
}

// LocalHistoryStore is the append-only local fallback for scan records,
// keyed by user. Used when the remote store rejects a write or a read.
type LocalHistoryStore interface {
	Append(ctx context.Context, userID string, details *domain.ProductDetails) error
	ListByUser(ctx context.Context, userID string) ([]domain.ProductDetails, error)
}

// ObjectStorage stores uploaded scan images and serves them by URL.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	PublicURL(key string) string
}

// MediaIngestor turns a local image file into a durable, fetchable
// reference. Total from the caller's perspective: a storage failure degrades
// to an inline data: URI.
type MediaIngestor interface {
	Store(ctx context.Context, localPath string) (string, error)
}

// VisionModel sends an instruction plus an image reference to a
// vision-capable chat completion endpoint and returns the free-text answer.
type VisionModel interface {
	DescribeProduct(ctx context.Context, imageURL string) (string, error)
}

// VisionDescriber is the resilient composition of media ingestion and the
// vision call: cached by source image, retried with backoff.
type VisionDescriber interface {
	Describe(ctx context.Context, localPath string) (domain.VisionAnalysis, error)
}

// FieldExtractor recovers named fields from unstructured model output.
// The boolean reports presence; absence is not an error.
type FieldExtractor interface {
	Extract(text, key string, altKeys ...string) (string, bool)
	ProductName(text string) (string, bool)
	Description(text string) (string, bool)
}

// RecallChecker cross-references a product name against known recalls.
type RecallChecker interface {
	Check(ctx context.Context, productName string) (domain.RecallInfo, error)
}

// MessageQueue publishes/consumes scan lifecycle events.
type MessageQueue interface {
	PublishScanRecorded(ctx context.Context, scanID string) error
	SubscribeScanRecorded(ctx context.Context, handler func(context.Context, string) error) error
}
