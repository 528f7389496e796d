// @title           Research Assistant API
// @version         1.0
// @description     Upload documents, index them and ask questions answered from their content. Every request becomes a job tracked through /status/{id}.
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/ragassistant/internal/bootstrap"
	"github.com/akolanti/ragassistant/internal/config"
	jobmodel "github.com/akolanti/ragassistant/internal/domain/jobModel"
	"github.com/akolanti/ragassistant/internal/handlers"
	"github.com/akolanti/ragassistant/internal/job"
	"github.com/akolanti/ragassistant/internal/middleware"
	"github.com/akolanti/ragassistant/internal/server"
	"github.com/akolanti/ragassistant/internal/worker"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

var (
	configPath        string
	listenAddr        string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	flag.StringVar(&configPath, "config", "", "optional YAML settings file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address, overrides LISTEN_ADDR")
	flag.Parse()

	settings, err := config.Load(configPath)
	if err != nil {
		logger_i.Init(false, "info")
		logger_i.NewLogger("main").Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger_i.Init(settings.IsProd, settings.LogLevel)
	logger := logger_i.NewLogger("main")

	if listenAddr == "" {
		listenAddr = settings.ListenAddr
	}
	if settings.RedisAddr == "" {
		settings.RedisAddr = config.RedisAddr
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	app, err := bootstrap.NewApp(serviceContext, settings)
	if err != nil {
		logger.Error("External services failed to initialize. Shutting down.", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Error closing vector store", "error", err)
		}
	}()

	stores := bootstrap.NewJobStores(serviceContext, settings)
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Error("Error closing job stores", "error", err)
		}
	}()

	logger.Info("Starting job service")
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:   make(chan jobmodel.Job, config.BufferLimit),
		JobStore:     stores.JobStore,
		MessageStore: stores.MessageStore,
	})

	handlers.InitJobHandler(service, settings.DataDir)
	middleware.Init(settings.AuthToken)

	stopWorkerChannel = make(chan bool)
	worker.InitServices(service, app.Service)
	worker.InitWorkerPool(serviceContext, stopWorkerChannel, &workerWaitGroup)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	go server.ShutDownHandler(server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	})
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
