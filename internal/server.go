package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/aquaclub/swimtrack/internal/auth"
	"github.com/aquaclub/swimtrack/internal/coach"
	"github.com/aquaclub/swimtrack/internal/config"
	"github.com/aquaclub/swimtrack/internal/middleware"
	"github.com/aquaclub/swimtrack/internal/telemetry/metrics"
	"github.com/aquaclub/swimtrack/internal/telemetry/tracing"
	"github.com/aquaclub/swimtrack/internal/trainlog"
	trainlogsync "github.com/aquaclub/swimtrack/internal/trainlog/sync"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config     *config.Config
	localStore *trainlog.LocalStore
	syncClient *trainlogsync.Client

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service
	coachCreds   *auth.Coach

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	SyncToken               string
	CoachUsername           string
	CoachPasswordHash       string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("swimtrack", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewService(auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "swimtrack-backend")
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	localStore, err := trainlog.NewLocalStore(
		params.Config.StoreRootPath,
		trainlog.RetentionPolicy{
			MaxAgeDays: params.Config.RetentionDays,
			MaxRecords: params.Config.RetentionMaxCount,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("new local store: %w", err)
	}
	metricsManager.GaugeStoredSessions.Set(float64(localStore.Count()))

	s := &Server{
		config:      params.Config,
		versionInfo: params.VersionInfo,
		localStore:  localStore,
		syncClient: trainlogsync.NewClient(
			params.Config.SyncEndpoint,
			params.SyncToken,
			tracedHttpClient,
		),

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),
		coachCreds: &auth.Coach{
			Username:     params.CoachUsername,
			PasswordHash: params.CoachPasswordHash,
		},

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	sessionsHandler := trainlog.NewHandler(s.localStore, s.syncClient, s.metricsManager)
	r.HandleFunc("/sessions", sessionsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-session")
	r.HandleFunc("/sessions", sessionsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-sessions")
	r.HandleFunc("/sessions/limit/{limit}", sessionsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-sessions-limit")
	r.HandleFunc("/sessions/fetch", sessionsHandler.HandleFetch).Methods("POST", "OPTIONS").Name("fetch-sessions")
	r.HandleFunc("/sessions", sessionsHandler.HandleClear).Methods("DELETE", "OPTIONS").Name("clear-sessions")
	r.HandleFunc("/sessions/export/{format}", sessionsHandler.HandleExport).Methods("GET", "OPTIONS").Name("export-sessions")
	r.HandleFunc("/stats/kpi", sessionsHandler.HandleKpi).Methods("GET", "OPTIONS").Name("stats-kpi")
	r.HandleFunc("/stats/series/{field}", sessionsHandler.HandleSeries).Methods("GET", "OPTIONS").Name("stats-series")
	r.HandleFunc("/profile", sessionsHandler.HandleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profile", sessionsHandler.HandleSetProfile).Methods("PUT", "OPTIONS").Name("set-profile")

	r.HandleFunc("/version", s.handleGetVersionInfo).Methods("GET").Name("version")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	coachHandler := coach.NewHandler(
		s.syncClient,
		s.authService,
		s.coachCreds,
		s.config.LoginRateLimitAllowedPerMin,
	)
	coachHandler.SetupRoutes(r, reqRateLimiter, authMiddleware)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte(s.versionInfo)); err != nil {
		log.Errorf("write version response: %s", err)
	}
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
