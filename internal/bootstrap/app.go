package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "screening-backend/internal/auth"
	"screening-backend/internal/batches"
	"screening-backend/internal/jobdescriptions"
	"screening-backend/internal/jobs"
	"screening-backend/internal/ledger"
	"screening-backend/internal/llm"
	openai "screening-backend/internal/llm/openai"
	"screening-backend/internal/parser"
	"screening-backend/internal/pipeline"
	"screening-backend/internal/queue"
	"screening-backend/internal/results"
	"screening-backend/internal/resumes"
	"screening-backend/internal/shared/config"
	"screening-backend/internal/shared/metrics"
	"screening-backend/internal/shared/server"
	"screening-backend/internal/shared/storage/db"
	"screening-backend/internal/shared/storage/object"
	localstore "screening-backend/internal/shared/storage/object/local"
	s3store "screening-backend/internal/shared/storage/object/s3"
	"screening-backend/internal/tenants"
	"screening-backend/internal/usage"
	"screening-backend/internal/users"
)

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Store    object.ObjectStore
	Notifier queue.Notifier
	Metrics  *metrics.Metrics

	TenantsService *tenants.Service
	UsersService   *users.Service
	ResumesService *resumes.Service
	JDService      *jobdescriptions.Service
	BatchesService *batches.Service
	JobsService    *jobs.Service
	ResultsService *results.Service
	LedgerService  *ledger.Service
	UsageService   *usage.Service
	Runner         *pipeline.Runner
	GoogleAuth     *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	notifier, err := buildNotifier(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Notifier: notifier,
		Metrics:  metrics.New(),
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:     app.Config,
		Metrics:    app.Metrics,
		Tenants:    tenants.NewHandler(app.TenantsService),
		Users:      users.NewHandler(app.UsersService),
		Resumes:    resumes.NewHandler(app.ResumesService),
		JDs:        jobdescriptions.NewHandler(app.JDService),
		Batches:    batches.NewHandler(app.BatchesService),
		Jobs:       jobs.NewHandler(app.JobsService),
		Results:    results.NewHandler(app.ResultsService),
		Usage:      usage.NewHandler(app.UsageService),
		GoogleAuth: app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildNotifier(cfg config.Config) (queue.Notifier, error) {
	if strings.TrimSpace(cfg.AMQPURL) == "" {
		return queue.Noop{}, nil
	}
	return queue.NewAMQPClient(cfg.AMQPURL, cfg.AMQPQueue)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var (
		tenantRepo tenants.Repo
		userRepo   users.Repo
		resumeRepo resumes.Repo
		jdRepo     jobdescriptions.Repo
		batchRepo  batches.Repo
		jobRepo    jobs.Repo
		resultRepo results.Repo
		ledgerRepo ledger.Repo
	)
	if app.DB != nil {
		tenantRepo = &tenants.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		jdRepo = &jobdescriptions.PGRepo{DB: app.DB}
		batchRepo = &batches.PGRepo{DB: app.DB}
		jobRepo = &jobs.PGRepo{DB: app.DB}
		resultRepo = &results.PGRepo{DB: app.DB}
		ledgerRepo = &ledger.PGRepo{DB: app.DB}
	} else {
		tenantRepo = tenants.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
		jdRepo = jobdescriptions.NewMemoryRepo()
		batchRepo = batches.NewMemoryRepo()
		jobRepo = jobs.NewMemoryRepo()
		resultRepo = results.NewMemoryRepo()
		ledgerRepo = ledger.NewMemoryRepo()
	}

	var usageSvc *usage.Service
	if app.DB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB))
	} else {
		usageSvc = usage.NewService()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "openai" {
		openaiClient, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), app.Config.LLMModel)
		if err != nil {
			return err
		}
		llmClient = openaiClient
	}

	jobSvc := jobs.NewService(jobRepo)
	jobSvc.MaxAttempts = app.Config.MaxAttempts
	resumeSvc := &resumes.Service{Store: app.Store, Repo: resumeRepo}
	jdSvc := &jobdescriptions.Service{Repo: jdRepo}
	resultSvc := &results.Service{Repo: resultRepo, Store: app.Store}
	ledgerSvc := &ledger.Service{Repo: ledgerRepo}
	batchSvc := &batches.Service{
		Repo:     batchRepo,
		Jobs:     jobSvc,
		JDs:      jdRepo,
		Resumes:  resumeRepo,
		Quota:    usageSvc,
		Notifier: app.Notifier,
	}
	userSvc := users.NewService(userRepo)

	app.TenantsService = &tenants.Service{Repo: tenantRepo}
	app.UsersService = userSvc
	app.ResumesService = resumeSvc
	app.JDService = jdSvc
	app.BatchesService = batchSvc
	app.JobsService = jobSvc
	app.ResultsService = resultSvc
	app.LedgerService = ledgerSvc
	app.UsageService = usageSvc
	app.Runner = &pipeline.Runner{
		Jobs:    jobSvc,
		Resumes: resumeSvc,
		JDs:     jdSvc,
		Parser:  parser.New(llmClient),
		Results: resultSvc,
		Ledger:  ledgerSvc,
		Store:   app.Store,
		Metrics: app.Metrics,

		PromptVersion: app.Config.PromptVersion,
	}
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.Config.DefaultTenantID,
		userSvc,
	)

	return nil
}
