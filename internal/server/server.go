package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/ContentAPI/internal/adapter/utils"
	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/middleware"
	"github.com/akolanti/ContentAPI/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var (
	server     *http.Server
	_logger    *logger_i.Logger
	loggerOnce sync.Once
)

func serverLogger() *logger_i.Logger {
	loggerOnce.Do(func() { _logger = logger_i.NewLogger("Server") })
	return _logger
}

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// Params configures the listener and the directories served as static files.
type Params struct {
	ListenAddr     string
	UploadDir      string
	ImageDir       string
	AllowedOrigins []string
}

// Routes registers every endpoint on the shared router.
func Routes(params Params) *chi.Mux {
	r := utils.GetRouter(middleware.Cors(params.AllowedOrigins))

	r.Router.Get("/", middleware.RootHandler)
	r.Router.Get("/health", middleware.GetHandler)

	r.Router.Post("/upload-pdf", middleware.UploadPDFHandler)
	r.Router.Post("/upload-content", middleware.UploadContentHandler)
	r.Router.Post("/youtube-transcript", middleware.YouTubeTranscriptHandler)

	r.Router.Route("/content/{id}", func(cr chi.Router) {
		cr.Get("/", middleware.GetContentHandler)
		cr.Delete("/", middleware.DeleteContentHandler)
		cr.Get("/page/{page}", middleware.GetPageHandler)
		cr.Get("/summary", middleware.GetSummaryHandler)
		cr.Get("/topic-extractor-format", middleware.GetTopicExtractorHandler)
		cr.Get("/transcript", middleware.GetTranscriptHandler)
	})
	r.Router.Get("/pdf/{id}", middleware.GetPDFHandler)
	r.Router.Head("/pdf/{id}", middleware.GetPDFHandler)
	r.Router.Get("/status/{id}", middleware.GetStatusHandler)

	staticFiles(r.Router, "/uploads", params.UploadDir)
	staticFiles(r.Router, "/images", params.ImageDir)
	return r.Router
}

func staticFiles(r chi.Router, prefix, dir string) {
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	r.Handle(prefix+"/*", fs)
}

func NewHTTPServer(params Params) *http.Server {
	return &http.Server{
		Addr:         params.ListenAddr,
		Handler:      Routes(params),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
}

// ListenAndServe blocks until srv stops; a shutdown is not an error.
func ListenAndServe(srv *http.Server) error {
	serverLogger().Info("Server is listening at", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func CreateServer(params Params) {
	server = NewHTTPServer(params)
	if err := ListenAndServe(server); err != nil {
		serverLogger().Error("Server crashed", "error", err.Error(), "addr", params.ListenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	log := serverLogger()
	log.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		if server != nil {
			server.SetKeepAlivesEnabled(false)
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Could not shutdown gracefully", "error", err)
			}
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		log.Info("Gracefully shut down")
	case <-ctx.Done():
		log.Info("Force Shut down")
		os.Exit(1)
	}
}
