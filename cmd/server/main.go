package main

import (
	"fmt"
	"log"

	"invodex/internal/config"
	"invodex/internal/extract"
	"invodex/internal/handler"
	"invodex/internal/pipeline"
	"invodex/internal/port"
	"invodex/internal/repository/postgres"
	"invodex/internal/represent"
	"invodex/internal/router"
	"invodex/internal/service"
	s3storage "invodex/internal/storage/s3"

	// Extraction providers register themselves with the factory.
	_ "invodex/internal/extract/claude"
	_ "invodex/internal/extract/openai"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewInvoiceRepo(db)

	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	extractor, err := buildExtractor(&cfg.Extract)
	if err != nil {
		return err
	}

	rasterizer := represent.NewRasterizer(&cfg.PDF)
	if err := rasterizer.Available(); err != nil {
		log.Printf("warning: %v; pdf uploads will be rejected", err)
	}

	processor := pipeline.NewProcessor(extractor, rasterizer)
	svc := service.NewInvoiceService(repo, storage, processor, cfg.S3.Bucket)

	invoiceH := handler.NewInvoiceHandler(svc, cfg.Server.MaxUploadMB)
	healthH := handler.NewHealthHandler(db, rasterizer)

	r := router.Setup(invoiceH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// buildExtractor assembles the configured providers, chaining them behind a
// rate-limit-aware fallback when more than one is configured.
func buildExtractor(cfg *config.ExtractConfig) (port.FieldExtractor, error) {
	var (
		extractors []port.FieldExtractor
		names      []string
	)
	for _, pc := range []config.ExtractProviderConfig{cfg.Primary, cfg.Secondary} {
		if pc.Provider == "" {
			continue
		}
		e, err := extract.NewExtractor(&pc)
		if err != nil {
			return nil, fmt.Errorf("failed to build extractor: %w", err)
		}
		extractors = append(extractors, e)
		names = append(names, pc.Provider)
	}
	switch len(extractors) {
	case 0:
		return nil, fmt.Errorf("no extraction provider configured")
	case 1:
		return extractors[0], nil
	default:
		return extract.NewFallbackExtractor(extractors, names), nil
	}
}
