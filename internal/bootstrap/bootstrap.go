package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/seykim2025/kgoverment-proj/internal/config"
	"github.com/seykim2025/kgoverment-proj/internal/core/ports"
	"github.com/seykim2025/kgoverment-proj/internal/core/usecase"
	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/extractor/pdf"
	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/queue/nats"
	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/repository/postgres"
	"github.com/seykim2025/kgoverment-proj/internal/infrastructure/storage/localfs"
	"github.com/seykim2025/kgoverment-proj/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Queue  *nats.Queue
	Parser ports.DocumentParser

	IngestUC     *usecase.IngestNoticeUseCase
	ProcessUC    ports.NoticeProcessor
	ProfileUC    ports.ProfileService
	AssessmentUC ports.AssessmentService

	closeFn func()
}

// New wires storage, queue, engine and use cases. Assessment metrics are
// registered on registerer; a nil registerer keeps them private.
func New(ctx context.Context, cfg config.Config, service string, registerer prometheus.Registerer) (*App, error) {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	companies := postgres.NewCompanyRepository(db)
	projects := postgres.NewProjectRepository(db)
	notices := postgres.NewNoticeRepository(db)
	assessments := postgres.NewAssessmentRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		_ = storage.Close()
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	recorder := metrics.NewAssessmentMetrics(service, registerer)
	assessor, err := NewAssessor(ctx, cfg, recorder)
	if err != nil {
		queue.Close()
		_ = storage.Close()
		_ = db.Close()
		return nil, err
	}

	parser := pdf.NewParser(cfg.PDFPageWorkers)

	return &App{
		Config: cfg,
		Queue:  queue,
		Parser: parser,

		IngestUC:     usecase.NewIngestNoticeUseCase(notices, storage, queue, parser, cfg.MaxUploadBytes),
		ProcessUC:    usecase.NewProcessNoticeUseCase(notices, storage, parser),
		ProfileUC:    usecase.NewProfileUseCase(companies, projects, assessments),
		AssessmentUC: usecase.NewAssessmentUseCase(assessor, companies, projects, notices, assessments, recorder),

		closeFn: func() {
			queue.Close()
			_ = storage.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
