package wire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	goredis "github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/agent-marketplace/internal/adapter/embedded"
	"github.com/alanyang/agent-marketplace/internal/adapter/file"
	"github.com/alanyang/agent-marketplace/internal/adapter/memory"
	pgdb "github.com/alanyang/agent-marketplace/internal/adapter/postgres"
	pgcatalog "github.com/alanyang/agent-marketplace/internal/adapter/postgres/catalog"
	pgeventbus "github.com/alanyang/agent-marketplace/internal/adapter/postgres/eventbus"
	pglocker "github.com/alanyang/agent-marketplace/internal/adapter/postgres/locker"
	redisadapter "github.com/alanyang/agent-marketplace/internal/adapter/redis"
	"github.com/alanyang/agent-marketplace/internal/config"
	portcatalog "github.com/alanyang/agent-marketplace/internal/port/catalog"
	porteventbus "github.com/alanyang/agent-marketplace/internal/port/eventbus"
	portlocker "github.com/alanyang/agent-marketplace/internal/port/locker"
	portrun "github.com/alanyang/agent-marketplace/internal/port/run"
	catalogsvc "github.com/alanyang/agent-marketplace/internal/service/catalog"
	runsvc "github.com/alanyang/agent-marketplace/internal/service/run"
	"github.com/alanyang/agent-marketplace/internal/transport"
	mcptransport "github.com/alanyang/agent-marketplace/internal/transport/mcp"
)

// Core holds the services shared by the HTTP server and the CLI commands.
type Core struct {
	Catalog  *catalogsvc.Service
	Runs     *runsvc.Service
	EventBus porteventbus.EventBus
	Registry *mcptransport.SessionRegistry

	pool  *pgxpool.Pool
	pgBus *pgeventbus.EventBus
	redis *goredis.Client
}

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	*Core
	Server    *http.Server
	MCPServer *mcptransport.Server
}

// BuildCore is the composition root for everything below the transport
// layer. The catalog is loaded before it returns.
func BuildCore(ctx context.Context, cfg config.Config) (*Core, error) {
	c := &Core{}

	// ── Catalog sources ──────────────────────────────────────────────────────
	var sources []portcatalog.Source
	switch cfg.Catalog.Source {
	case config.SourceFile:
		sources = append(sources, file.New(cfg.Catalog.Dir))
	case config.SourcePostgres:
		pool, err := connectCatalogDB(ctx, cfg.Catalog.DatabaseURL)
		if err != nil {
			// The embedded catalog still serves; a bad database is not fatal.
			slog.ErrorContext(ctx, "catalog database unavailable", "error", err)
		} else {
			c.pool = pool
			sources = append(sources, pgcatalog.New(pool))
		}
	}
	sources = append(sources, embedded.New())

	// ── Run storage ──────────────────────────────────────────────────────────
	var (
		store portrun.Store
		guard portlocker.Guard
	)
	switch cfg.Run.Store {
	case config.StoreRedis:
		client, err := redisadapter.Connect(ctx, cfg.Run.RedisAddr)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		c.redis = client
		store = redisadapter.New(client)
		guard = redisadapter.NewGuard(client)
	default:
		store = memory.NewRunStore()
		guard = memory.NewGuard()
		if c.pool != nil {
			// Servers sharing the catalog database also share in-flight runs.
			guard = pglocker.New(c.pool)
		}
	}

	// ── Services ─────────────────────────────────────────────────────────────
	validator, err := catalogsvc.NewValidator()
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("compiling result schemas: %w", err)
	}

	// Servers sharing a catalog database share their event feed too.
	if c.pool != nil {
		c.pgBus = pgeventbus.New(c.pool)
		c.EventBus = c.pgBus
	} else {
		c.EventBus = memory.NewEventBus()
	}
	c.Catalog = catalogsvc.NewService(c.EventBus, validator, sources...)
	c.Catalog.Reload(ctx)

	c.Registry = mcptransport.NewSessionRegistry()
	c.Runs = runsvc.NewService(
		c.Catalog,
		store,
		guard,
		c.EventBus,
		c.Registry, // implements port/notifier.RunNotifier
		runsvc.Config{Delay: cfg.Run.Delay, TTL: cfg.Run.TTL},
	)

	if cfg.Catalog.Refresh > 0 {
		startRefresher(ctx, c.Catalog, cfg.Catalog.Refresh)
	}
	return c, nil
}

// Build wires the HTTP server on top of BuildCore.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	core, err := BuildCore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	mcpServer := mcptransport.New(core.Registry, core.Catalog, core.Runs)

	// ── Transport ─────────────────────────────────────────────────────────────
	router, err := transport.NewRouter(
		ctx,
		cfg.Server.Mode,
		core.Catalog,
		core.Runs,
		core.EventBus,
		mcpServer.Handler(),
	)
	if err != nil {
		_ = core.Close()
		return nil, fmt.Errorf("building router: %w", err)
	}

	server := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: router,
	}

	slog.Info("application wired",
		"port", cfg.Server.Port,
		"catalog_source", core.Catalog.Snapshot().Source,
		"run_store", cfg.Run.Store,
	)

	return &App{
		Core:      core,
		Server:    server,
		MCPServer: mcpServer,
	}, nil
}

// Shutdown stops background runs, then releases connections.
func (c *Core) Shutdown(ctx context.Context) error {
	var errs []error
	if c.Runs != nil {
		if err := c.Runs.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stopping runs: %w", err))
		}
	}
	if err := c.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Close releases the database pool and the Redis client, if any.
func (c *Core) Close() error {
	if c.pgBus != nil {
		c.pgBus.Close()
		c.pgBus = nil
	}
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
	if c.redis != nil {
		err := c.redis.Close()
		c.redis = nil
		if err != nil {
			return fmt.Errorf("closing redis: %w", err)
		}
	}
	return nil
}

func connectCatalogDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgdb.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pgdb.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return pool, nil
}
