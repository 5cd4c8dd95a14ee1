package main

import (
	"context"
	"fmt"
	"log"

	"agriverify/internal/config"
	"agriverify/internal/email/noop"
	"agriverify/internal/email/ses"
	"agriverify/internal/extract"
	"agriverify/internal/handler"
	"agriverify/internal/match"
	"agriverify/internal/port"
	"agriverify/internal/quality"
	"agriverify/internal/recognizer"
	"agriverify/internal/recognizer/tesseract"
	"agriverify/internal/recognizer/vision"
	"agriverify/internal/repository/postgres"
	"agriverify/internal/router"
	"agriverify/internal/scoring"
	"agriverify/internal/service"
	s3storage "agriverify/internal/storage/s3"
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

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	farmerRepo := postgres.NewFarmerRepo(db)
	docRepo := postgres.NewVerificationRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email sender
	emailSender, err := newEmailSender(&cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	// Initialize OCR recognizers with rate-limit fallback
	rec, err := newRecognizer(&cfg.OCR)
	if err != nil {
		return fmt.Errorf("failed to initialize recognizers: %w", err)
	}

	// Pipeline components
	analyzer := scoring.NewClient(&cfg.Quality)
	policy := quality.NewPolicy(cfg.Quality)
	extractor := extract.NewExtractor()
	matcher := match.NewMatcher(cfg.Matcher)

	// Initialize services
	registrySvc := service.NewRegistryService(farmerRepo)
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	userSvc := service.NewUserService(userRepo)
	farmerSvc := service.NewFarmerService(farmerRepo, registrySvc)
	docSvc := service.NewDocumentService(docRepo, s3Client, cfg.S3)
	verifySvc := service.NewVerificationService(
		analyzer, policy, rec, extractor, matcher,
		registrySvc, s3Client, docRepo, emailSender,
		cfg.S3, cfg.Email,
	)

	// Load the farmer registry snapshot and keep it fresh in the background.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if count, err := registrySvc.Refresh(ctx); err != nil {
		log.Printf("initial registry refresh failed: %v", err)
	} else {
		log.Printf("registry loaded with %d farmers", count)
	}
	refresher := service.NewRegistryRefresher(registrySvc, cfg.Registry.RefreshInterval)
	go refresher.Start(ctx)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	verifyH := handler.NewVerifyHandler(verifySvc)
	farmerH := handler.NewFarmerHandler(farmerSvc)
	docH := handler.NewDocumentHandler(docSvc)
	registryH := handler.NewRegistryHandler(registrySvc)
	userH := handler.NewUserHandler(userSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, verifyH, farmerH, docH, registryH, userH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func newEmailSender(cfg *config.EmailConfig) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName)
	default:
		return noop.NewNoopSender(), nil
	}
}

func newRecognizer(cfg *config.OCRConfig) (port.TextRecognizer, error) {
	recognizer.RegisterProvider("vision", func(c *config.OCRProviderConfig) (port.TextRecognizer, error) {
		if c.APIKey == "" {
			return nil, fmt.Errorf("vision recognizer requires an API key")
		}
		return vision.NewRecognizer(c), nil
	})
	recognizer.RegisterProvider("tesseract", func(c *config.OCRProviderConfig) (port.TextRecognizer, error) {
		return tesseract.NewRecognizer(c), nil
	})

	primary, err := recognizer.NewRecognizer(&cfg.Primary)
	if err != nil {
		return nil, fmt.Errorf("primary recognizer: %w", err)
	}
	recognizers := []port.TextRecognizer{primary}
	names := []string{cfg.Primary.Provider}

	if secondary := cfg.SecondaryConfig(); secondary != nil {
		rec, err := recognizer.NewRecognizer(secondary)
		if err != nil {
			return nil, fmt.Errorf("secondary recognizer: %w", err)
		}
		recognizers = append(recognizers, rec)
		names = append(names, secondary.Provider)
	}

	return recognizer.NewFallbackRecognizer(recognizers, names), nil
}
