package sheet

import (
	"context"
	"errors"
	"fmt"

	"github.com/shandysiswandi/gosheets/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gosheets/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gosheets/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gosheets/internal/pkg/pkguid"
	"github.com/shandysiswandi/gosheets/internal/sheet/inbound"
	"github.com/shandysiswandi/gosheets/internal/sheet/job"
	"github.com/shandysiswandi/gosheets/internal/sheet/outbound"
	"github.com/shandysiswandi/gosheets/internal/sheet/store"
	"github.com/shandysiswandi/gosheets/internal/sheet/usecase"
	"google.golang.org/api/option"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID

	// Sheets replaces the Google client, mainly for tests.
	Sheets usecase.Sheets
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.Config == nil || dep.Router == nil {
		return nil, errors.New("sheet: config and router are required")
	}

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}
	if dep.Context == nil {
		dep.Context = context.Background()
	}

	sheets := dep.Sheets
	if sheets == nil {
		client, err := newGoogleClient(dep.Context, dep.Config)
		if err != nil {
			return nil, err
		}
		sheets = client
	}

	cfg := dep.Config
	storage := store.NewInMemoryStore(cfg.GetDuration("upload.status_retention"))
	queue := job.NewQueue(int(cfg.GetInt("upload.queue_size")))

	uc := usecase.New(usecase.Dependency{
		Sheets: sheets,
		Store:  storage,
		Jobs:   queue,
		Clock:  nil,
		ID:     dep.ID,
		Config: usecase.Config{
			MaxFileSize:    cfg.GetInt("upload.max_file_size"),
			ChunkSize:      int(cfg.GetInt("upload.chunk_size")),
			CellLimit:      cfg.GetInt("upload.cell_limit"),
			BatchSize:      int(cfg.GetInt("upload.batch_size")),
			MaxAttempts:    int(cfg.GetInt("upload.max_attempts")),
			BaseBackoff:    cfg.GetDuration("upload.base_backoff"),
			CleanupOrphans: cfg.GetBool("google.cleanup_orphans"),
		},
	})

	var runner job.Runner
	if dep.Goroutine != nil {
		runner = dep.Goroutine
	}

	worker := job.NewWorker(queue, job.HandlerFunc(uc.ProcessJob), runner, job.WorkerConfig{
		Workers: int(cfg.GetInt("upload.workers")),
	})
	worker.Start(dep.Context)

	inbound.RegisterHTTPEndpoint(dep.Router, uc, inbound.EndpointConfig{
		MaxFileSize: cfg.GetInt("upload.max_file_size"),
	})

	return worker.Stop, nil
}

func newGoogleClient(ctx context.Context, cfg pkgconfig.Config) (*outbound.Client, error) {
	opts := []option.ClientOption{}

	auth, err := outbound.ClientOption(ctx, outbound.AuthConfig{
		CredentialsFile: cfg.GetString("google.credentials_file"),
		TokenB64:        cfg.GetString("google.token_b64"),
		TokenPath:       cfg.GetString("google.token_path"),
		AllowDefault:    cfg.GetBool("google.use_default_credentials"),
	})
	if err != nil {
		return nil, fmt.Errorf("sheet: google auth: %w", err)
	}
	opts = append(opts, auth)

	if ua := cfg.GetString("google.user_agent"); ua != "" {
		opts = append(opts, option.WithUserAgent(ua))
	}

	sheetsSvc, driveSvc, err := outbound.NewServices(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheet: %w", err)
	}

	return outbound.NewClient(sheetsSvc, driveSvc, outbound.ClientConfig{
		RequestsPerMinute: int(cfg.GetInt("google.requests_per_minute")),
		CallTimeout:       cfg.GetDuration("google.call_timeout"),
	}), nil
}
