// @title           Learning Content API
// @version         1.0
// @description     Ingests PDFs, PDF links, YouTube transcripts and web articles into page level JSON records.
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https

// swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
// redis for RECORD_BACKEND=redis: docker run -p 6379:6379 -d redis
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/ContentAPI/internal/app"
	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/handlers"
	"github.com/akolanti/ContentAPI/internal/server"
	"github.com/akolanti/ContentAPI/internal/worker"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
)

var (
	listenAddr        string
	envFile           string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	//config
	flag.StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address, overrides LISTEN_ADDR")
	flag.Parse()

	settings := config.LoadSettings(envFile)
	if listenAddr != "" {
		settings.ListenAddr = listenAddr
	}

	logger_i.Init(settings.IsProd)
	var logger = logger_i.NewLogger("main")

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	logger.Info("Starting content service", "recordBackend", settings.RecordBackend)
	components, err := app.Build(serviceContext, settings, app.Options{WithJobs: true})
	if err != nil {
		logger.Error("Could not initialize services. Shutting down.", "error", err)
		os.Exit(1)
	}

	handlers.InitContentHandler(components.Content)

	//init worker pool
	stopWorkerChannel = make(chan bool, 1)
	worker.InitServices(components.JobService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(server.Params{
		ListenAddr:     settings.ListenAddr,
		UploadDir:      settings.UploadDir,
		ImageDir:       settings.ImageDir,
		AllowedOrigins: settings.AllowedOrigins,
	})

	<-stopExecution
	logger.Info("Server stopped")
}
