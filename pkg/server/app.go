package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	domrepo "StockPilot/internal/domain/repository"
	"StockPilot/pkg/config"
	xhttp "StockPilot/pkg/http"
	pkgkafka "StockPilot/pkg/kafka"
	applogger "StockPilot/pkg/logger"
	pkgqueue "StockPilot/pkg/queue"
)

// App encapsulates the application lifecycle: the HTTP API, the Kafka demand
// ingest, the supplier dispatch queue and their shutdown order.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	httpServer *xhttp.Server

	series    domrepo.SeriesStore
	sink      domrepo.EventSink
	consumer  *pkgkafka.Consumer
	demand    pkgkafka.MessageHandler
	dispatchQ *pkgqueue.RedisQueue
	redisCli  *redis.Client
}

// New creates a new App instance. Consumer, queue and redis client may be nil
// when the corresponding subsystem is disabled in config.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	series domrepo.SeriesStore,
	sink domrepo.EventSink,
	consumer *pkgkafka.Consumer,
	demand pkgkafka.MessageHandler,
	dispatchQ *pkgqueue.RedisQueue,
	redisCli *redis.Client,
) *App {
	return &App{
		cfg:       cfg,
		logger:    l,
		handler:   handler,
		series:    series,
		sink:      sink,
		consumer:  consumer,
		demand:    demand,
		dispatchQ: dispatchQ,
		redisCli:  redisCli,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.consumer != nil && a.demand != nil {
		a.consumer.RegisterHandler(a.demand)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.logger.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.logger.Info("kafka consumer started", applogger.String("topic", a.demand.Topic()))
	}

	if a.dispatchQ != nil {
		if err := a.dispatchQ.Start(); err != nil {
			a.logger.Error("dispatch queue start error", applogger.Error(err))
		} else {
			a.logger.Info("supplier dispatch queue started", applogger.Int("workers", a.cfg.Queue.Workers))
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(context.Background())
}

// shutdown stops subsystems in reverse dependency order: stop accepting HTTP
// traffic first, then ingest, then flush and close infrastructure.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.logger.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.dispatchQ != nil {
		if err := a.dispatchQ.Stop(shutdownCtx); err != nil {
			a.logger.Warn("dispatch queue stop error", applogger.Error(err))
		}
	}

	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			a.logger.Warn("event sink close error", applogger.Error(err))
		}
	}

	if a.series != nil {
		if err := a.series.Close(); err != nil {
			a.logger.Warn("series store close error", applogger.Error(err))
		}
	}

	if a.redisCli != nil {
		if err := a.redisCli.Close(); err != nil {
			a.logger.Warn("redis close error", applogger.Error(err))
		}
	}

	a.logger.RemoveCollector()
	a.logger.Info("shutdown complete")
	return nil
}
