package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"docvault/internal/auth"
	"docvault/internal/capabilities"
	"docvault/internal/config"
	"docvault/internal/embedding"
	"docvault/internal/handler"
	"docvault/internal/middleware"
	"docvault/internal/repository/postgres"
	"docvault/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	var logOut io.Writer = os.Stdout
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		logFile, err := config.SetupLogFile(dir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Embedding model registry feeds chunking and dimension defaults
	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}
	if err := cfg.ApplyModelDefaults(capabilityRegistry); err != nil {
		log.Fatalf("Failed to apply model defaults: %v", err)
	}
	logger.Info("capability registry initialized",
		"model", cfg.Embedding.Model,
		"dimensions", cfg.Embedding.Dimensions,
		"chunk_window", cfg.Chunking.Window,
		"chunk_overlap", cfg.Chunking.Overlap,
	)

	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()
	logger.Info("database connected")

	// Repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	versionRepo := postgres.NewVersionRepository(repoConfig)
	chunkRepo := postgres.NewChunkRepository(repoConfig)
	shareRepo := postgres.NewShareRepository(repoConfig)
	tagRepo := postgres.NewTagRepository(repoConfig)
	commentRepo := postgres.NewCommentRepository(repoConfig)
	extractedRepo := postgres.NewExtractedDatumRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Services
	embedder := embedding.NewClient(cfg.Embedding, logger)
	chunker := service.NewChunker(cfg.Chunking.Window, cfg.Chunking.Overlap)
	purger := service.NewDocumentPurger(docRepo, versionRepo, chunkRepo, shareRepo, commentRepo, tagRepo, extractedRepo)

	accessService := service.NewAccessService(docRepo, shareRepo, logger)
	versionService := service.NewVersionService(versionRepo, docRepo, accessService, txManager, logger)
	indexerService := service.NewIndexerService(docRepo, chunkRepo, txManager, embedder, chunker, logger)
	searchService := service.NewSearchService(chunkRepo, accessService, embedder, logger)
	docService := service.NewDocumentService(docRepo, folderRepo, versionService, indexerService, accessService, purger, txManager, logger)
	folderService := service.NewFolderService(folderRepo, docRepo, purger, txManager, logger)
	tagService := service.NewTagService(tagRepo, docRepo, accessService, logger)
	shareService := service.NewShareService(shareRepo, docRepo, accessService, logger)
	commentService := service.NewCommentService(commentRepo, docRepo, accessService, logger)
	extractionService := service.NewExtractionService(extractedRepo, docRepo, accessService, logger)

	// Background reindex worker
	go indexerService.Start(ctx)

	// Handlers
	docHandler := handler.NewDocumentHandler(docService, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	versionHandler := handler.NewVersionHandler(versionService, logger)
	searchHandler := handler.NewSearchHandler(searchService, logger)
	tagHandler := handler.NewTagHandler(tagService, logger)
	shareHandler := handler.NewShareHandler(shareService, logger)
	commentHandler := handler.NewCommentHandler(commentService, logger)
	extractionHandler := handler.NewExtractionHandler(extractionService, logger)
	modelsHandler := handler.NewModelsHandler(capabilityRegistry, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Folders
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders", folderHandler.ListContents) // root level
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("GET /api/folders/{id}/contents", folderHandler.ListContents)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("GET /api/tree", folderHandler.GetTree)

	// Documents
	mux.HandleFunc("POST /api/documents", docHandler.CreateDocument)
	mux.HandleFunc("GET /api/documents/search", searchHandler.Search) // must precede {id}
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", docHandler.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)
	mux.HandleFunc("POST /api/import/html", docHandler.ImportHTML)

	// Version ledger
	mux.HandleFunc("POST /api/documents/{id}/versions", versionHandler.CommitVersion)
	mux.HandleFunc("GET /api/documents/{id}/versions", versionHandler.ListVersions)
	mux.HandleFunc("POST /api/documents/{id}/versions/{version}/restore", versionHandler.RestoreVersion)

	// Tags
	mux.HandleFunc("POST /api/tags", tagHandler.CreateTag)
	mux.HandleFunc("GET /api/tags", tagHandler.ListTags)
	mux.HandleFunc("DELETE /api/tags/{id}", tagHandler.DeleteTag)
	mux.HandleFunc("PUT /api/documents/{id}/tags/{tagID}", tagHandler.AttachTag)
	mux.HandleFunc("DELETE /api/documents/{id}/tags/{tagID}", tagHandler.DetachTag)
	mux.HandleFunc("GET /api/documents/{id}/tags", tagHandler.ListDocumentTags)

	// Shares
	mux.HandleFunc("POST /api/documents/{id}/shares", shareHandler.GrantShare)
	mux.HandleFunc("GET /api/documents/{id}/shares", shareHandler.ListShares)
	mux.HandleFunc("PATCH /api/documents/{id}/shares/{userID}", shareHandler.UpdateShare)
	mux.HandleFunc("DELETE /api/documents/{id}/shares/{userID}", shareHandler.RevokeShare)

	// Comments
	mux.HandleFunc("POST /api/documents/{id}/comments", commentHandler.AddComment)
	mux.HandleFunc("GET /api/documents/{id}/comments", commentHandler.ListComments)
	mux.HandleFunc("DELETE /api/comments/{id}", commentHandler.DeleteComment)

	// Extracted data
	mux.HandleFunc("POST /api/documents/{id}/extracted-data", extractionHandler.RecordDatum)
	mux.HandleFunc("GET /api/documents/{id}/extracted-data", extractionHandler.ListData)

	// Model registry
	mux.HandleFunc("GET /api/models/capabilities", modelsHandler.GetCapabilities)

	// Middleware chain, applied in reverse order:
	// CORS -> Recovery -> Auth -> Routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(jwtVerifier)(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
