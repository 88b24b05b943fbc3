package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internals in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	//ingestion limits
	MaxUploadBytes     int64 = 50 << 20 //50MiB raw upload ceiling
	MaxDocumentChars         = 100_000
	TextPreviewChars         = 200
	PageSummaryChars         = 100
	Base64PreviewChars       = 100
	PageExtractTimeout       = 10 * time.Second
	PageWorkers              = 4

	//layout mode defaults used for stored content
	LayoutSpaceVertically = true
	LayoutScaleWeight     = 1.0
	LayoutStripRotated    = true

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	IngestJobTimeout                = 2 * time.Minute

	//serverTimeouts
	ReadTimeout            = 30 * time.Second
	WriteTimeout           = 3 * time.Minute
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	DefaultAllowedOrigin = "http://localhost:3000"

	//server listening port
	ServerListenAddr = ":8000"

	//job requests buffer limit
	BufferLimit = 100

	//on-disk layout
	DataDir   = "data"
	UploadDir = "uploads"
	ImageDir  = "data/images"

	//record backends
	RecordBackendFile   = "file"
	RecordBackendRedis  = "redis"
	RecordBackendMemory = "memory"

	//outbound http
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second
	OutboundTimeout     = 30 * time.Second
	OutboundUserAgent   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore    = 0
	RedisRecordStore = 1

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour
)
