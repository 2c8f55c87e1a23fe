package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/matst80/slask-facets/pkg/catalog"
	"github.com/matst80/slask-facets/pkg/common"
	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/config"
	"github.com/matst80/slask-facets/pkg/messaging"
	"github.com/matst80/slask-facets/pkg/server"
	"github.com/matst80/slask-facets/pkg/session"
	"github.com/matst80/slask-facets/pkg/tracking"
	"github.com/matst80/slask-facets/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var configPath = flag.String("config", "", "path to a config file")

type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	fetcher  session.Fetcher
	cached   *catalog.CachedFetcher
	cache    *catalog.Cache
	tracker  *tracking.RabbitTracking
	conn     *amqp.Connection
	sessions *server.SessionStore
}

func (a *app) setupFetcher() {
	client := catalog.NewClient(a.cfg.ApiBaseUrl, a.cfg.Collection, a.cfg.FetchTimeout, a.logger.Named("catalog"))
	a.fetcher = client
	if a.cfg.Redis.Url == "" {
		a.logger.Info("redis not configured, fetching without cache")
		return
	}
	a.cache = catalog.NewCache(a.cfg.Redis.Url, a.cfg.Redis.Password, a.cfg.Redis.DB)
	a.cached = &catalog.CachedFetcher{
		Fetcher:    client,
		Store:      a.cache,
		Collection: a.cfg.Collection,
		TTL:        a.cfg.Redis.TTL,
		Logger:     a.logger.Named("cache"),
	}
	a.fetcher = a.cached
}

func (a *app) connectAmqp() {
	if a.cfg.Rabbit.Url == "" {
		a.logger.Info("rabbit not configured, tracking disabled")
		return
	}
	tracker, err := tracking.NewRabbitTracking(a.cfg.Rabbit.Url, a.cfg.Country, a.logger.Named("tracking"))
	if err != nil {
		a.logger.Error("failed to connect tracking", zap.Error(err))
	} else {
		a.tracker = tracker
	}
	if a.cached == nil {
		return
	}
	conn, err := amqp.Dial(a.cfg.Rabbit.Url)
	if err != nil {
		a.logger.Error("failed to connect to RabbitMQ", zap.Error(err))
		return
	}
	a.conn = conn
	ch, err := conn.Channel()
	if err != nil {
		a.logger.Error("failed to open a channel", zap.Error(err))
		return
	}
	err = messaging.ListenToTopic(ch, a.cfg.Country, messaging.CollectionChanged, a.logger, func(d amqp.Delivery) error {
		var change messaging.CollectionChange
		if err := jsoncompat.Unmarshal(d.Body, &change); err != nil {
			a.logger.Warn("failed to decode collection change", zap.Error(err))
			return nil
		}
		if change.Collection != "" && change.Collection != a.cfg.Collection {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.cached.Invalidate(ctx); err != nil {
			a.logger.Warn("failed to invalidate collection cache", zap.Error(err))
		}
		return nil
	})
	if err != nil {
		a.logger.Error("failed to listen for collection changes", zap.Error(err))
		return
	}
	a.logger.Info("listening for collection changes")
}

func (a *app) trackingSink() types.Tracking {
	if a.tracker == nil {
		return nil
	}
	return a.tracker
}

func (a *app) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := a.sessions.Sweep(a.cfg.SessionTTL); removed > 0 {
				a.logger.Debug("removed idle sessions", zap.Int("removed", removed), zap.Int("active", a.sessions.Len()))
			}
		}
	}
}

func (a *app) debugServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return &http.Server{Addr: a.cfg.DebugListen, Handler: mux}
}

func (a *app) shutdownHooks(stopSweep context.CancelFunc) []common.ShutdownHook {
	hooks := []common.ShutdownHook{
		func(ctx context.Context) error {
			stopSweep()
			return nil
		},
	}
	if a.tracker != nil {
		hooks = append(hooks, func(ctx context.Context) error {
			return a.tracker.Close()
		})
	}
	if a.conn != nil {
		hooks = append(hooks, func(ctx context.Context) error {
			return a.conn.Close()
		})
	}
	if a.cache != nil {
		hooks = append(hooks, func(ctx context.Context) error {
			return a.cache.Close()
		})
	}
	return hooks
}

func main() {
	flag.Parse()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	priority, err := cfg.PriorityOrder()
	if err != nil {
		logger.Fatal("invalid priority order", zap.Error(err))
	}

	a := &app{cfg: cfg, logger: logger}
	a.setupFetcher()
	a.connectAmqp()
	a.sessions = server.NewSessionStore(a.fetcher, priority, logger.Named("session"))

	ws := server.NewWebServer(a.sessions, a.trackingSink(), cfg.Locations, logger.Named("api"))

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go a.sweepSessions(sweepCtx)

	debug := a.debugServer()
	srv := common.NewServerWithTimeouts(&http.Server{Addr: cfg.Listen, Handler: ws.Handle()}, cfg.Timeouts)
	common.RunServersWithShutdown(logger, cfg.Timeouts, []common.NamedServer{
		{Name: "facets", Server: srv},
		{Name: "debug", Server: debug},
	}, a.shutdownHooks(stopSweep)...)
}
