package bootstrap

import (
	"context"
	"fmt"

	"github.com/askdoc/askdoc/internal/config"
	"github.com/askdoc/askdoc/internal/core/ports"
	"github.com/askdoc/askdoc/internal/core/usecase"
	"github.com/askdoc/askdoc/internal/infrastructure/chunking"
	"github.com/askdoc/askdoc/internal/infrastructure/extractor/pdf"
	"github.com/askdoc/askdoc/internal/infrastructure/llm/ollama"
	"github.com/askdoc/askdoc/internal/infrastructure/queue/nats"
	"github.com/askdoc/askdoc/internal/infrastructure/repository/postgres"
	"github.com/askdoc/askdoc/internal/infrastructure/resilience"
	"github.com/askdoc/askdoc/internal/infrastructure/storage/localfs"
	"github.com/askdoc/askdoc/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	QueryUC   ports.DocumentQueryService
	DocsUC    ports.DocumentManager

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, executor)
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	extractor := pdf.NewExtractor(storage)

	tuning, err := retrievalTuning(cfg)
	if err != nil {
		return nil, err
	}

	mode := usecase.ModeHybrid
	if cfg.RAGRetrievalMode == "semantic" {
		mode = usecase.ModeSemantic
	}
	retriever := usecase.NewHybridRetriever(embedder, vectorDB, mode, tuning)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, extractor, chunker, embedder, vectorDB)
	queryUC := usecase.NewQueryUseCase(retriever, generator, tuning)
	docsUC := usecase.NewDocumentAdminUseCase(repo, storage, vectorDB)

	return &App{
		Config: cfg,
		Queue:  queue,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		QueryUC:   queryUC,
		DocsUC:    docsUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func retrievalTuning(cfg config.Config) (usecase.RetrievalTuning, error) {
	tuning := usecase.DefaultRetrievalTuning()
	tuning.DefaultTopK = cfg.RAGTopK
	tuning.CandidateLimit = cfg.RAGCandidateLimit
	tuning.ContextCharBudget = cfg.ContextCharBudget

	if err := config.LoadTuningOverride(cfg.RAGTuningPath, &tuning); err != nil {
		return usecase.RetrievalTuning{}, fmt.Errorf("load retrieval tuning: %w", err)
	}
	return tuning, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
