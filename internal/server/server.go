package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/ragassistant/internal/adapter/utils"
	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/middleware"
	"github.com/akolanti/ragassistant/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var (
	server  *http.Server
	_logger = logger_i.NewLogger("Server")
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// Handler returns a router with every API route registered.
func Handler() http.Handler {
	r := utils.NewRouter()
	r.Get("/health", middleware.GetHandler)
	r.Route("/chat", func(chat chi.Router) {
		chat.Post("/", middleware.ChatHandler)
		chat.Get("/{chatId}/history", middleware.GetChatHistoryHandler)
	})
	r.Get("/status/{id}", middleware.GetStatusHandler)
	r.Post("/ingest", middleware.PostIngestHandler)
	r.Post("/index", middleware.PostIndexHandler)
	r.Post("/reset", middleware.PostResetHandler)
	return r
}

func CreateServer(listenAddr string) {
	server = &http.Server{
		Addr:         listenAddr,
		Handler:      Handler(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err, "addr", listenAddr)
	}
}

// ShutDownHandler waits for a signal, stops the server and then the workers.
func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		if server != nil {
			server.SetKeepAlivesEnabled(false)
			if err := server.Shutdown(ctx); err != nil {
				_logger.Error("Could not shutdown gracefully", "error", err)
			}
		}

		close(shutdownParams.WorkerStop)
		// cancels a job that is still running
		shutdownParams.CloseServices()
		shutdownParams.Group.Wait()
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Graceful shutdown complete")
	case <-ctx.Done():
		_logger.Error("Forced shutdown, workers did not stop in time")
	}
	close(shutdownParams.StopExecution)
}
