package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/traitconf/internal/api"
	"github.com/eugenenazirov/traitconf/internal/application"
	"github.com/eugenenazirov/traitconf/internal/storage"
)

const (
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
)

type serverSettings struct {
	port           int64
	rateLimitRPS   float64
	rateLimitBurst int64
	requestLogging bool
	shutdownGrace  time.Duration
}

func readServerSettings(app *application.Application) (serverSettings, error) {
	server, err := app.Component("Server")
	if err != nil {
		return serverSettings{}, err
	}
	values := server.Values()

	port, okPort := values["port"].(int64)
	rps, okRPS := values["rate_limit_rps"].(float64)
	burst, okBurst := values["rate_limit_burst"].(int64)
	reqLogging, okLogging := values["request_logging"].(bool)
	grace, okGrace := values["shutdown_grace_seconds"].(float64)
	if !okPort || !okRPS || !okBurst || !okLogging || !okGrace {
		return serverSettings{}, fmt.Errorf("unexpected Server trait values: %v", values)
	}

	return serverSettings{
		port:           port,
		rateLimitRPS:   rps,
		rateLimitBurst: burst,
		requestLogging: reqLogging,
		shutdownGrace:  time.Duration(grace * float64(time.Second)),
	}, nil
}

// newServer builds the inspection server over the application.
func newServer(app *application.Application, settings serverSettings, logger *zap.Logger) *http.Server {
	handler := api.NewHandler(storage.NewMemoryStorage(app))
	router := api.NewRouter(handler, logger,
		api.WithLogging(settings.requestLogging),
		api.WithRateLimit(settings.rateLimitRPS, int(settings.rateLimitBurst)),
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", settings.port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

func serve(app *application.Application, logger *zap.Logger) error {
	settings, err := readServerSettings(app)
	if err != nil {
		return err
	}
	server := newServer(app, settings, logger)

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	shutdown(server, settings.shutdownGrace, logger)
	return nil
}
