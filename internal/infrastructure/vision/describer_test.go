package vision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/scansafe/scansafe/internal/core/domain"
	"github.com/scansafe/scansafe/internal/infrastructure/resilience"
)

type mediaFake struct {
	url   string
	err   error
	calls int
}

func (f *mediaFake) Store(context.Context, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type modelFake struct {
	text       string
	err        error
	credential bool
	calls      int
}

func (f *modelFake) DescribeProduct(context.Context, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *modelFake) HasCredential() bool { return f.credential }

func newTestExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: 2,
		RetryBaseDelay:   time.Millisecond,
		RetryMaxBackoff:  time.Millisecond,
		BreakerEnabled:   false,
	}, nil)
}

func writeImage(t *testing.T, name string, payload []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func TestDescribeCachesBySourceImage(t *testing.T) {
	media := &mediaFake{url: "http://x/files/scans/a.jpg"}
	model := &modelFake{text: "Product Name: Oat Bar", credential: true}
	describer := NewDescriber(media, model, newTestExecutor(), nil)

	path := writeImage(t, "a.jpg", []byte("jpeg-bytes"))
	for i := 0; i < 3; i++ {
		analysis, err := describer.Describe(context.Background(), path)
		if err != nil {
			t.Fatalf("Describe() error = %v", err)
		}
		if analysis.Text != "Product Name: Oat Bar" || analysis.ImageURI != media.url {
			t.Fatalf("unexpected analysis %+v", analysis)
		}
	}
	if media.calls != 1 || model.calls != 1 {
		t.Fatalf("expected single upload/model call, got %d/%d", media.calls, model.calls)
	}
}

func TestDescribeCacheKeyedByContentNotPath(t *testing.T) {
	media := &mediaFake{url: "http://x/files/scans/a.jpg"}
	model := &modelFake{text: "Product Name: Oat Bar", credential: true}
	describer := NewDescriber(media, model, newTestExecutor(), nil)

	// same photo spooled to two different temp files
	first := writeImage(t, "upload-1.jpg", []byte("jpeg-bytes"))
	second := writeImage(t, "upload-2.jpg", []byte("jpeg-bytes"))
	for _, path := range []string{first, second} {
		if _, err := describer.Describe(context.Background(), path); err != nil {
			t.Fatalf("Describe() error = %v", err)
		}
	}
	if model.calls != 1 {
		t.Fatalf("identical bytes must share one cache entry, got %d model calls", model.calls)
	}

	other := writeImage(t, "upload-3.jpg", []byte("other-jpeg-bytes"))
	if _, err := describer.Describe(context.Background(), other); err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if model.calls != 2 {
		t.Fatalf("different bytes must miss the cache, got %d model calls", model.calls)
	}
}

func TestDescribeFailsFastWithoutCredential(t *testing.T) {
	media := &mediaFake{url: "http://x/files/scans/a.jpg"}
	model := &modelFake{credential: false}
	describer := NewDescriber(media, model, newTestExecutor(), nil)

	path := writeImage(t, "a.jpg", []byte("jpeg-bytes"))
	_, err := describer.Describe(context.Background(), path)
	if !domain.IsKind(err, domain.ErrMissingCredential) {
		t.Fatalf("expected missing credential error, got %v", err)
	}
	if media.calls != 0 || model.calls != 0 {
		t.Fatalf("credential check must run before upload and model call")
	}
}

func TestDescribeUnreadableSource(t *testing.T) {
	media := &mediaFake{url: "http://x/files/scans/a.jpg"}
	model := &modelFake{text: "Product Name: Oat Bar", credential: true}
	describer := NewDescriber(media, model, newTestExecutor(), nil)

	_, err := describer.Describe(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	if err == nil {
		t.Fatalf("expected error for unreadable source")
	}
	if media.calls != 0 || model.calls != 0 {
		t.Fatalf("unreadable source must not reach upload or model")
	}
}

func TestDescribePropagatesModelFailure(t *testing.T) {
	errModel := errors.New("model down")
	media := &mediaFake{url: "http://x/files/scans/a.jpg"}
	model := &modelFake{err: errModel, credential: true}
	describer := NewDescriber(media, model, newTestExecutor(), nil)

	path := writeImage(t, "a.jpg", []byte("jpeg-bytes"))
	_, err := describer.Describe(context.Background(), path)
	if !errors.Is(err, errModel) {
		t.Fatalf("expected model error, got %v", err)
	}
}
