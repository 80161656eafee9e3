package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"docvault/internal/capabilities"
	"docvault/internal/config"
	"docvault/internal/embedding"
	"docvault/internal/repository/postgres"
	"docvault/internal/seed"
	"docvault/internal/service"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	clearData := flag.Bool("clear-data", false, "Clear the seed user's data (keep schema)")
	seedUserID := flag.String("user", "00000000-0000-0000-0000-000000000001", "User ID to seed data for")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// Never run destructive flags against production tables
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatal("refusing to run --drop-tables or --clear-data in production")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	registry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}
	if err := cfg.ApplyModelDefaults(registry); err != nil {
		log.Fatalf("Failed to apply model defaults: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("dropping all tables...")
		if err := seed.DropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Printf("ensuring schema (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	if err := seed.RunSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("schema ready (schema-only mode)")
		return
	}

	if *clearData {
		if err := seed.ClearUserData(ctx, pool, tables, *seedUserID); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("data cleared")
		return
	}

	// Wire the service stack; seeding goes through the same code paths as
	// live traffic
	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	versionRepo := postgres.NewVersionRepository(repoConfig)
	chunkRepo := postgres.NewChunkRepository(repoConfig)
	shareRepo := postgres.NewShareRepository(repoConfig)
	tagRepo := postgres.NewTagRepository(repoConfig)
	commentRepo := postgres.NewCommentRepository(repoConfig)
	extractedRepo := postgres.NewExtractedDatumRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	embedder := embedding.NewClient(cfg.Embedding, logger)
	chunker := service.NewChunker(cfg.Chunking.Window, cfg.Chunking.Overlap)
	purger := service.NewDocumentPurger(docRepo, versionRepo, chunkRepo, shareRepo, commentRepo, tagRepo, extractedRepo)

	accessService := service.NewAccessService(docRepo, shareRepo, logger)
	versionService := service.NewVersionService(versionRepo, docRepo, accessService, txManager, logger)
	indexerService := service.NewIndexerService(docRepo, chunkRepo, txManager, embedder, chunker, logger)
	docService := service.NewDocumentService(docRepo, folderRepo, versionService, indexerService, accessService, purger, txManager, logger)
	folderService := service.NewFolderService(folderRepo, docRepo, purger, txManager, logger)
	tagService := service.NewTagService(tagRepo, docRepo, accessService, logger)

	log.Printf("clearing previous seed data for user %s", *seedUserID)
	if err := seed.ClearUserData(ctx, pool, tables, *seedUserID); err != nil {
		log.Printf("warning: could not clear data: %v", err)
	}

	log.Println("seeding documents, folders and tags...")
	seeder := seed.NewSeeder(docService, folderService, tagService, logger)
	if err := seeder.Seed(ctx, *seedUserID); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("seeding complete")
}
