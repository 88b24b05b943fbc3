// Package app wires the stores, the ingestion pipeline and the job service
// together for the binaries under cmd/.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/content"
	"github.com/akolanti/ContentAPI/internal/customHttpClient"
	"github.com/akolanti/ContentAPI/internal/data/redisStore"
	"github.com/akolanti/ContentAPI/internal/data/store"
	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/internal/domain/jobModel"
	"github.com/akolanti/ContentAPI/internal/ingest"
	"github.com/akolanti/ContentAPI/internal/job"
	"github.com/akolanti/ContentAPI/internal/website"
	"github.com/akolanti/ContentAPI/internal/youtube"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
)

type Components struct {
	Store      *store.ContentStore
	Pipeline   *ingest.Pipeline
	Extractor  *ingest.PageExtractor
	JobService *job.Service
	Content    *content.Service
	Client     *http.Client
}

// Options control the parts that differ between the server and the cli.
type Options struct {
	// WithJobs routes ingestion through the worker pool. The caller starts
	// the pool with worker.InitServices and worker.InitWorkerPool.
	WithJobs bool
}

func Build(ctx context.Context, settings config.Settings, opts Options) (*Components, error) {
	logger := logger_i.NewLogger("app")
	redisOpts := redisStore.Options{Addr: settings.RedisAddr, Password: settings.RedisPassword}

	backend, err := recordBackend(ctx, settings, redisOpts, logger)
	if err != nil {
		return nil, err
	}
	contentStore, err := store.NewContentStore(backend, store.Layout{
		DataDir:   settings.DataDir,
		UploadDir: settings.UploadDir,
		ImageDir:  settings.ImageDir,
	}, logger_i.NewLogger("ContentStore"))
	if err != nil {
		return nil, err
	}

	extractor := ingest.NewPageExtractor(logger_i.NewLogger("PageExtractor"))
	walker := ingest.NewWalker(extractor, config.PageWorkers, logger_i.NewLogger("DocumentWalker"))
	pipeline := ingest.NewPipeline(walker, contentStore, logger_i.NewLogger("Pipeline"))

	client := customHttpClient.NewClient()
	c := &Components{
		Store:     contentStore,
		Pipeline:  pipeline,
		Extractor: extractor,
		Client:    client,
	}

	if opts.WithJobs {
		c.JobService = job.InitJobService(job.ServiceConfig{
			JobChannel:        make(chan job.Task, config.BufferLimit),
			DispatcherChannel: make(chan bool, 1),
			JobStore:          jobStore(ctx, redisOpts, logger),
		})
	}

	c.Content = content.NewService(content.Config{
		Store:       contentStore,
		Pipeline:    pipeline,
		Jobs:        c.JobService,
		Transcripts: youtube.NewTranscriptFetcher(client, youtube.DefaultBaseURL, logger_i.NewLogger("YouTube")),
		Articles:    website.NewFetcher(client, logger_i.NewLogger("Website")),
		Client:      client,
		Logger:      logger_i.NewLogger("ContentService"),
	})
	return c, nil
}

func recordBackend(ctx context.Context, settings config.Settings, redisOpts redisStore.Options, logger *logger_i.Logger) (contentModel.RecordBackend, error) {
	switch settings.RecordBackend {
	case config.RecordBackendMemory:
		logger.Info("Using in-memory record backend")
		return store.InitInMemoryRecordBackend(), nil
	case config.RecordBackendRedis:
		if b := store.GetRedisRecordBackend(ctx, redisOpts); b != nil {
			logger.Info("Using redis record backend")
			return b, nil
		}
		if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
			return nil, fmt.Errorf("redis record backend at %s is offline", redisOpts.Addr)
		}
		logger.Error("Redis record backend is offline, falling back to files")
	case config.RecordBackendFile, "":
	default:
		return nil, fmt.Errorf("unknown record backend %q", settings.RecordBackend)
	}
	return store.NewFileRecordBackend(settings.DataDir)
}

func jobStore(ctx context.Context, redisOpts redisStore.Options, logger *logger_i.Logger) jobModel.JobStore {
	if s := store.GetRedisJobStore(ctx, redisOpts); s != nil {
		return s
	}
	logger.Error("Redis job store is offline, using in-memory job store")
	return store.InitInMemoryJobStore()
}
