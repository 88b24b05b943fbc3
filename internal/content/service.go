package content

import (
	"context"
	"net/http"
	"time"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/data/store"
	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/akolanti/ContentAPI/internal/domain/jobModel"
	"github.com/akolanti/ContentAPI/internal/job"
	"github.com/akolanti/ContentAPI/internal/website"
	"github.com/akolanti/ContentAPI/internal/youtube"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
	"github.com/google/uuid"
)

// Ingester turns raw PDF bytes into a persisted record.
type Ingester interface {
	Ingest(ctx context.Context, raw []byte, contentID, sourcePath string) (contentModel.ContentRecord, error)
}

type ArticleFetcher interface {
	Fetch(ctx context.Context, rawURL string) (website.Article, error)
}

type Config struct {
	Store       *store.ContentStore
	Pipeline    Ingester
	Jobs        *job.Service
	Transcripts youtube.TranscriptFetcher
	Articles    ArticleFetcher
	Client      *http.Client
	Logger      *logger_i.Logger
}

// Service is the entry point for every ingestion and lookup.
type Service struct {
	store       *store.ContentStore
	pipeline    Ingester
	jobs        *job.Service
	transcripts youtube.TranscriptFetcher
	articles    ArticleFetcher
	client      *http.Client
	logger      *logger_i.Logger

	newID func() string
	now   func() time.Time
}

func NewService(cfg Config) *Service {
	return &Service{
		store:       cfg.Store,
		pipeline:    cfg.Pipeline,
		jobs:        cfg.Jobs,
		transcripts: cfg.Transcripts,
		articles:    cfg.Articles,
		client:      cfg.Client,
		logger:      cfg.Logger,
		newID:       func() string { return uuid.New().String() },
		now:         time.Now,
	}
}

// run executes work as a tracked job on the worker pool, or inline when
// no pool is configured.
func (s *Service) run(ctx context.Context, j jobModel.Job, work job.Work) error {
	if tid, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		j.TraceId = tid
	}
	if s.jobs == nil {
		return work(ctx, &j)
	}
	return s.jobs.Submit(ctx, j, work)
}

type outcome[T any] struct {
	val T
	err error
}

// runJob runs work through run and hands its value back over a channel.
// When the caller's ctx ends first, the late value is dropped and the zero
// value is returned with run's error.
func runJob[T any](ctx context.Context, s *Service, j jobModel.Job, work func(ctx context.Context, j *jobModel.Job) (T, error)) (T, error) {
	out := make(chan outcome[T], 1)
	err := s.run(ctx, j, func(ctx context.Context, j *jobModel.Job) error {
		val, err := work(ctx, j)
		out <- outcome[T]{val: val, err: err}
		return err
	})

	select {
	case o := <-out:
		return o.val, o.err
	default:
		var zero T
		return zero, err
	}
}

func (s *Service) Record(ctx context.Context, id string) (contentModel.ContentRecord, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Page(ctx context.Context, id string, n int) (contentModel.PageRecord, error) {
	return s.store.GetPage(ctx, id, n)
}

// Delete removes every artifact of id; deleting twice is not an error.
func (s *Service) Delete(ctx context.Context, id string) ([]string, error) {
	return s.store.Delete(ctx, id)
}

func (s *Service) Source(id string) (path, name string, err error) {
	return s.store.FindSource(id)
}

// Transcript returns a youtube record that has a transcript.
func (s *Service) Transcript(ctx context.Context, id string) (contentModel.ContentRecord, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return rec, err
	}
	if rec.ContentType != contentModel.YouTube {
		return rec, contentModel.InvalidInput("Content is not a YouTube video")
	}
	if rec.Transcript == "" {
		return rec, contentModel.NotFound("No transcript available for this content")
	}
	return rec, nil
}

func (s *Service) JobStatus(ctx context.Context, id string) (jobModel.Job, bool) {
	if s.jobs == nil {
		return jobModel.Job{}, false
	}
	return s.jobs.Status(ctx, id)
}

func (s *Service) DataFile(id string) string {
	return s.store.DataFile(id)
}
