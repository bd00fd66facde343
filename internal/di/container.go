package di

import (
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"newschat/internal/adapter/chathttp"
	"newschat/internal/adapter/embedding"
	"newschat/internal/adapter/feed"
	"newschat/internal/adapter/llm"
	"newschat/internal/adapter/repository"
	"newschat/internal/domain"
	"newschat/internal/infra/config"
	"newschat/internal/infra/httpclient"
	"newschat/internal/infra/logger"
	"newschat/internal/usecase"
	"newschat/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	// Repositories
	ArticleStore domain.ArticleStore
	Sessions     domain.SessionRepository

	// Usecases
	RetrieveUsecase usecase.RetrieveArticlesUsecase
	ChatUsecase     usecase.ChatUsecase
	IngestUsecase   usecase.IngestArticlesUsecase

	// HTTP surface
	Handler *chathttp.Handler

	// Worker
	Worker *worker.RefreshWorker
}

// NewApplicationComponents wires all dependencies from config and database pool.
func NewApplicationComponents(cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) *ApplicationComponents {
	// Repositories
	articleStore := repository.NewArticleStore(pool, log)
	sessions := repository.NewSessionRepository(pool)

	// Shared HTTP clients with connection pooling
	embedderHTTP := httpclient.NewPooledClient(time.Duration(cfg.Embedder.Timeout) * time.Second)
	generatorHTTP := httpclient.NewPooledClient(time.Duration(cfg.Generator.Timeout) * time.Second)
	feedHTTP := httpclient.NewPooledClient(time.Duration(cfg.Ingest.FetchTimeout) * time.Second)

	// External clients
	embedder := embedding.NewOllamaEmbedder(cfg.Embedder.URL, cfg.Embedder.Model, embedderHTTP, log)
	generator := llm.NewOllamaGenerator(cfg.Generator.URL, cfg.Generator.Model, generatorHTTP)

	// Heuristic tables
	vocab := buildVocabulary(cfg)

	// Retrieval core
	retrieveUsecase := usecase.NewRetrieveArticlesUsecase(
		articleStore, embedder, vocab, log,
		usecase.WithScanLimit(cfg.Retrieval.ScanLimit),
	)

	// Chat usecase
	promptBuilder := usecase.NewXMLPromptBuilder()
	chatUsecase := usecase.NewChatUsecase(
		retrieveUsecase, sessions, generator, promptBuilder,
		cfg.Generator.MaxTokens, cfg.Retrieval.HistoryLimit, log,
		usecase.WithAnswerCache(cfg.Cache.Size, time.Duration(cfg.Cache.TTLMinutes)*time.Minute),
	)

	// Ingestion
	pacer := feed.NewHostPacer(time.Duration(cfg.Ingest.PerHostDelaySecs) * time.Second)
	collector := feed.NewRSSCollector(cfg.Ingest.Feeds, feedHTTP, pacer, log)
	ctxLog := logger.NewContextLoggerWith(log, "newschat")
	ingestUsecase := usecase.NewIngestArticlesUsecase(collector, articleStore, embedder, ctxLog)

	// HTTP surface
	handler := chathttp.NewHandler(chatUsecase, ingestUsecase, sessions, cfg.Retrieval.HistoryLimit)

	// Worker
	refreshWorker := worker.NewRefreshWorker(
		ingestUsecase,
		time.Duration(cfg.Ingest.IntervalMinutes)*time.Minute,
		log,
	)

	return &ApplicationComponents{
		ArticleStore:    articleStore,
		Sessions:        sessions,
		RetrieveUsecase: retrieveUsecase,
		ChatUsecase:     chatUsecase,
		IngestUsecase:   ingestUsecase,
		Handler:         handler,
		Worker:          refreshWorker,
	}
}

// buildVocabulary merges the built-in tables with configured extensions:
// extra denylist terms are appended, a configured reference word list
// replaces the default set entirely.
func buildVocabulary(cfg *config.Config) domain.Vocabulary {
	vocab := domain.DefaultVocabulary()
	vocab.Denylist = append(vocab.Denylist, cfg.Vocab.ExtraDenylist...)
	if len(cfg.Vocab.ReferenceWords) > 0 {
		vocab.ReferenceWords = cfg.Vocab.ReferenceWords
	}
	return vocab
}
