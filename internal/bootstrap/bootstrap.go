package bootstrap

import (
	"context"
	"fmt"

	"github.com/scansafe/scansafe/internal/config"
	"github.com/scansafe/scansafe/internal/core/ports"
	"github.com/scansafe/scansafe/internal/core/usecase"
	"github.com/scansafe/scansafe/internal/infrastructure/extractor/fieldtext"
	"github.com/scansafe/scansafe/internal/infrastructure/llm/openai"
	"github.com/scansafe/scansafe/internal/infrastructure/media"
	"github.com/scansafe/scansafe/internal/infrastructure/queue/nats"
	"github.com/scansafe/scansafe/internal/infrastructure/recall"
	"github.com/scansafe/scansafe/internal/infrastructure/repository/postgres"
	"github.com/scansafe/scansafe/internal/infrastructure/repository/sqlite"
	"github.com/scansafe/scansafe/internal/infrastructure/resilience"
	"github.com/scansafe/scansafe/internal/infrastructure/storage/localfs"
	"github.com/scansafe/scansafe/internal/infrastructure/vision"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.ScanRepository
	Storage   ports.ObjectStorage
	ScanUC    ports.ScanService
	HistoryUC ports.HistoryService
	RecheckUC ports.RecallRechecker

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewScanRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	localStore, err := sqlite.NewHistoryStore(cfg.LocalHistoryPath)
	if err != nil {
		return nil, fmt.Errorf("open local history store: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath, cfg.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: cfg.RetryMaxAttempts,
		RetryBaseDelay:   cfg.RetryBaseDelay,
		RetryMaxBackoff:  cfg.RetryMaxBackoff,
		CacheTTL:         cfg.AnalysisCacheTTL,
		BreakerEnabled:   true,
	}, resilience.NewMemoryCache(cfg.AnalysisCacheTTL, nil))

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	notices, err := recall.LoadNotices(cfg.RecallFeedPath)
	if err != nil {
		return nil, fmt.Errorf("load recall feed: %w", err)
	}
	registry := recall.NewRegistry(notices)

	visionModel := openai.New(cfg.VisionBaseURL, cfg.VisionAPIKey, cfg.VisionModel)
	uploader := media.NewUploader(storage)
	describer := vision.NewDescriber(uploader, visionModel, executor, openai.ClassifyError)

	analyzeUC := usecase.NewAnalyzeUseCase(describer, fieldtext.NewService())
	historyUC := usecase.NewHistoryUseCase(repo, localStore)
	scanUC := usecase.NewScanUseCase(analyzeUC, registry, historyUC, queue)
	recheckUC := usecase.NewRecheckUseCase(repo, registry)

	return &App{
		Config: cfg,

		Queue:     queue,
		Repo:      repo,
		Storage:   storage,
		ScanUC:    scanUC,
		HistoryUC: historyUC,
		RecheckUC: recheckUC,

		closeFn: func() {
			queue.Close()
			_ = localStore.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
