// Package vision composes media ingestion and the vision model call into
// one resilient operation: cached by source image, retried with backoff.
package vision

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/scansafe/scansafe/internal/core/domain"
	"github.com/scansafe/scansafe/internal/core/ports"
	"github.com/scansafe/scansafe/internal/infrastructure/resilience"
)

const operationName = "analyze_product_image"

// CredentialChecker is implemented by model clients that can tell whether
// they are configured at all.
type CredentialChecker interface {
	HasCredential() bool
}

type Describer struct {
	media      ports.MediaIngestor
	model      ports.VisionModel
	executor   *resilience.Executor
	classifier resilience.ErrorClassifier
}

func NewDescriber(
	media ports.MediaIngestor,
	model ports.VisionModel,
	executor *resilience.Executor,
	classifier resilience.ErrorClassifier,
) *Describer {
	return &Describer{
		media:      media,
		model:      model,
		executor:   executor,
		classifier: classifier,
	}
}

// Describe uploads the image and asks the model about it. A missing
// credential fails fast before any upload or retry is attempted. The cache is
// keyed by a digest of the image bytes, not the file path: the same photo
// re-submitted within the cache window reuses the prior answer without
// touching storage or the model, even from a different spool file.
func (d *Describer) Describe(ctx context.Context, localPath string) (domain.VisionAnalysis, error) {
	if checker, ok := d.model.(CredentialChecker); ok && !checker.HasCredential() {
		return domain.VisionAnalysis{}, domain.WrapError(
			domain.ErrMissingCredential, operationName, errors.New("vision api key is not configured"))
	}

	fingerprint, err := sourceFingerprint(localPath)
	if err != nil {
		return domain.VisionAnalysis{}, fmt.Errorf("fingerprint source image: %w", err)
	}

	cacheKey := resilience.CacheKey(operationName, fingerprint)
	return resilience.Execute(ctx, d.executor, operationName, cacheKey, func(ctx context.Context) (domain.VisionAnalysis, error) {
		imageURI, err := d.media.Store(ctx, localPath)
		if err != nil {
			return domain.VisionAnalysis{}, err
		}
		text, err := d.model.DescribeProduct(ctx, imageURI)
		if err != nil {
			return domain.VisionAnalysis{}, err
		}
		return domain.VisionAnalysis{Text: text, ImageURI: imageURI}, nil
	}, d.classifier)
}

func sourceFingerprint(localPath string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
