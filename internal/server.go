package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/mcutler508/GymApp/internal/auth"
	"github.com/mcutler508/GymApp/internal/config"
	"github.com/mcutler508/GymApp/internal/db"
	"github.com/mcutler508/GymApp/internal/kvstore"
	"github.com/mcutler508/GymApp/internal/middleware"
	"github.com/mcutler508/GymApp/internal/misc"
	"github.com/mcutler508/GymApp/internal/routines"
	"github.com/mcutler508/GymApp/internal/telemetry/metrics"
	"github.com/mcutler508/GymApp/internal/telemetry/tracing"
	"github.com/mcutler508/GymApp/internal/workouts"
	"github.com/mcutler508/GymApp/internal/workouts/logbook"
)

const sessionsCleanupInterval = time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config     *config.Config
	dbPool     *pgxpool.Pool
	store      kvstore.Store
	closeStore func() error

	redisClient    *redis.Client
	authService    *auth.Service
	loginChecker   auth.Checker
	logbookService *logbook.Service
	routineService *routines.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	JWTSecret               string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	if params.JWTSecret == "" {
		return nil, errors.New("jwt secret not set")
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}
	if err := db.Migrate(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("gymapp", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymapp-backend")
	if err != nil {
		return nil, err
	}

	store, closeStore, err := newStore(ctx, cfg, rdb, dbPool)
	if err != nil {
		return nil, fmt.Errorf("setup %s store: %w", cfg.StorageBackend, err)
	}
	if cfg.CacheEnabled {
		cached := kvstore.NewCachedStore(store, cfg.CacheSizeMB*1024*1024, cfg.CacheTTL)
		metricsManager.RegisterCacheHitRate(cached.HitRate)
		store = cached
		log.Debugf("kv store cache enabled: %d MB, ttl %s", cfg.CacheSizeMB, cfg.CacheTTL)
	}
	serializedStore := kvstore.NewSerialized(store)

	clock := workouts.SystemClock
	assigner := workouts.NewSessionAssigner(clock, cfg.SessionWindow)
	log.Debugf("free workout session window: %s", assigner.Window())
	workoutsRepo := workouts.NewRepo(serializedStore)

	authService := auth.NewService(auth.ServiceParams{
		Users:          auth.NewUsersRepo(dbPool),
		RedisClient:    rdb,
		Secret:         params.JWTSecret,
		TTL:            cfg.AuthSessionTTL,
		BcryptCost:     cfg.BcryptCost,
		MetricsManager: metricsManager,
	})
	go func() {
		ticker := time.NewTicker(sessionsCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				authService.ScanAndClean(ctx)
			}
		}
	}()

	s := &Server{
		config:      cfg,
		dbPool:      dbPool,
		store:       store,
		closeStore:  closeStore,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: authService.Checker(),
		logbookService: logbook.NewService(
			workoutsRepo,
			assigner,
			clock,
			metricsManager,
		),
		routineService: routines.NewService(
			routines.NewRepo(serializedStore),
			workoutsRepo,
			assigner,
			clock,
			metricsManager,
		),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	return s, nil
}

// newStore opens the backend holding the users' collections. The returned
// func releases resources owned by the store only.
func newStore(ctx context.Context, cfg *config.Config, rdb *redis.Client, dbPool *pgxpool.Pool) (kvstore.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.StorageBackend {
	case config.StorageRedis:
		return kvstore.NewRedisStore(rdb), noop, nil
	case config.StoragePostgres:
		return kvstore.NewPostgresStore(dbPool), noop, nil
	case config.StorageSQLite:
		sqliteStore, err := kvstore.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqliteStore, sqliteStore.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	miscHandler := misc.NewHandler(s.versionInfo, auth.NewHandler(s.authService))
	miscHandler.SetupRoutes(r, misc.SetupRoutesParams{
		RateLimiter:    redis_rate.NewLimiter(s.redisClient),
		MetricsManager: s.metricsManager,
		AllowedPerMin:  s.config.LoginRateLimitAllowedPerMin,
	})

	logbookHandler := logbook.NewHandler(s.logbookService)
	r.HandleFunc("/workouts/log", logbookHandler.HandleRecord).Methods("POST", "OPTIONS").Name("record-workout")
	r.HandleFunc("/workouts/log", logbookHandler.HandleListEntries).Methods("GET", "OPTIONS").Name("list-entries")
	r.HandleFunc("/workouts/sessions", logbookHandler.HandleSessions).Methods("GET", "OPTIONS").Name("list-sessions")
	r.HandleFunc("/workouts/sessions/{id}/finish", logbookHandler.HandleFinishSession).Methods("POST", "OPTIONS").Name("finish-session")
	r.HandleFunc("/workouts/sessions/{id}", logbookHandler.HandleDeleteSession).Methods("DELETE", "OPTIONS").Name("delete-session")
	r.HandleFunc("/workouts/stats", logbookHandler.HandleStats).Methods("GET", "OPTIONS").Name("stats")
	r.HandleFunc("/workouts/breakdown", logbookHandler.HandleBreakdown).Methods("GET", "OPTIONS").Name("breakdown")
	r.HandleFunc("/workouts/progression", logbookHandler.HandleProgression).Methods("GET", "OPTIONS").Name("progression")
	r.HandleFunc("/workouts/exercises/{id}/summary", logbookHandler.HandleExerciseSummary).Methods("GET", "OPTIONS").Name("exercise-summary")
	r.HandleFunc("/workouts/exercises/{id}/last", logbookHandler.HandleLastPerformance).Methods("GET", "OPTIONS").Name("last-performance")
	r.HandleFunc("/workouts/catalog", logbookHandler.HandleListCatalog).Methods("GET", "OPTIONS").Name("list-catalog")
	r.HandleFunc("/workouts/catalog", logbookHandler.HandleAddCatalogExercise).Methods("POST", "OPTIONS").Name("add-catalog-exercise")
	r.HandleFunc("/workouts/catalog/{id}", logbookHandler.HandleDeleteCatalogExercise).Methods("DELETE", "OPTIONS").Name("delete-catalog-exercise")

	routinesHandler := routines.NewHandler(s.routineService)
	r.HandleFunc("/routines", routinesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-routines")
	r.HandleFunc("/routines", routinesHandler.HandleCreate).Methods("POST", "OPTIONS").Name("create-routine")
	r.HandleFunc("/routines/{id}", routinesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-routine")
	r.HandleFunc("/routines/{id}", routinesHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-routine")
	r.HandleFunc("/routines/{id}", routinesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-routine")
	r.HandleFunc("/routines/{id}/start", routinesHandler.HandleStart).Methods("POST", "OPTIONS").Name("start-routine")
	r.HandleFunc("/routines/{id}/complete", routinesHandler.HandleCompleteExercise).Methods("POST", "OPTIONS").Name("complete-routine-exercise")
	r.HandleFunc("/routines/{id}/finish", routinesHandler.HandleFinish).Methods("POST", "OPTIONS").Name("finish-routine")
	r.HandleFunc("/routines/{id}/duplicate", routinesHandler.HandleDuplicate).Methods("POST", "OPTIONS").Name("duplicate-routine")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
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

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.closeStore != nil {
		if err := s.closeStore(); err != nil {
			log.Errorf("failed to close kv store: %s", err)
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
