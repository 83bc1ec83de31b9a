package container

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/quotaguard/internal/account"
	"github.com/serroba/quotaguard/internal/audit"
	"github.com/serroba/quotaguard/internal/counter"
	"github.com/serroba/quotaguard/internal/handlers"
	"github.com/serroba/quotaguard/internal/health"
	"github.com/serroba/quotaguard/internal/messaging"
	"github.com/serroba/quotaguard/internal/middleware"
	"github.com/serroba/quotaguard/internal/quota"
	"github.com/serroba/quotaguard/internal/ratelimit"
	"github.com/serroba/quotaguard/internal/store"
	"go.uber.org/zap"
)

type Options struct {
	Port            int    `default:"8888"           help:"Port to listen on"                                               short:"p"`
	RedisAddr       string `default:"localhost:6379" help:"Redis server address"                                            short:"r"`
	RedisNamespace  string `default:"quotaguard:"    help:"Prefix for every counter key"`
	PostgresDSN     string `default:""               help:"Postgres DSN for accounts and audit; empty disables persistence"`
	AccountCacheTTL int    `default:"300"            help:"Seconds to cache account tier lookups"`
	LogFormat       string `default:"console"        help:"Log format: console or json"`
}

// defaultRateLimit guards endpoints registered without an explicit budget.
// It fails closed: an unannotated endpoint is an oversight, and a store
// outage should not turn it into an unlimited one.
var defaultRateLimit = ratelimit.Config{
	Prefix:      "default",
	Window:      time.Minute,
	MaxRequests: 60,
}

// auditConsumerGroup names the Redis stream consumer group shared by every
// consumer process, so audit events are divided between replicas instead of
// duplicated.
const auditConsumerGroup = "quotaguard-audit"

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the pgx pool backing account rows and audit
// history. The pool is nil when no DSN is configured; dependents fall back
// to their storage-free variants.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)
		if options.PostgresDSN == "" {
			return nil, nil
		}

		return pgxpool.New(context.Background(), options.PostgresDSN)
	})
}

// CounterPackage provides the Redis counter store shared by the rate
// limiter and the quota engine.
func CounterPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (counter.Store, error) {
		options := do.MustInvoke[*Options](i)
		client := do.MustInvoke[*redis.Client](i)

		return store.NewRedisCounters(client, options.RedisNamespace), nil
	})
}

// AccountPackage provides the account tier lookup. With Postgres configured
// lookups hit the accounts table through a Redis cache; without it every
// identifier resolves to the free tier.
func AccountPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (account.Lookup, error) {
		pool := do.MustInvoke[*pgxpool.Pool](i)
		if pool == nil {
			return account.NewStaticLookup(nil), nil
		}

		options := do.MustInvoke[*Options](i)
		client := do.MustInvoke[*redis.Client](i)
		ttl := time.Duration(options.AccountCacheTTL) * time.Second

		return store.NewCachedAccounts(store.NewPostgresAccounts(pool), client, ttl), nil
	})
}

// RateLimitPackage provides the rate limiter.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.Limiter, error) {
		counters := do.MustInvoke[counter.Store](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return ratelimit.NewLimiter(counters, logger), nil
	})
}

// QuotaPackage provides the quota engine.
func QuotaPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*quota.Engine, error) {
		counters := do.MustInvoke[counter.Store](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return quota.NewEngine(counters, logger), nil
	})
}

// AuditPackage provides the audit store: Postgres when configured, a
// logging no-op otherwise.
func AuditPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (audit.Store, error) {
		pool := do.MustInvoke[*pgxpool.Pool](i)
		if pool == nil {
			logger := do.MustInvoke[*zap.Logger](i)

			return audit.NewNoop(logger), nil
		}

		return store.NewPostgresAudit(pool), nil
	})
}

// PublisherGroupPackage provides the audit event publishers over a Redis
// stream, plus one typed publish function per event type. The group owns
// the underlying publisher's lifecycle.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: client,
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[audit.DeductionEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[audit.DeductionEvent](group.Publisher(), audit.TopicQuotaDeducted), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[audit.DenialEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[audit.DenialEvent](group.Publisher(), audit.TopicLimitDenied), nil
	})
}

// ConsumerGroupPackage provides the consumer group that drains audit events
// into the audit store.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)
		audits := do.MustInvoke[audit.Store](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client,
			ConsumerGroup: auditConsumerGroup,
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)

		group.Add(messaging.NewConsumer(subscriber, audit.TopicQuotaDeducted,
			func(ctx context.Context, event *audit.DeductionEvent) error {
				return audits.SaveDeduction(ctx, event)
			}, logger))

		group.Add(messaging.NewConsumer(subscriber, audit.TopicLimitDenied,
			func(ctx context.Context, event *audit.DenialEvent) error {
				return audits.SaveDenial(ctx, event)
			}, logger))

		return group, nil
	})
}

// HTTPPackage provides the router and the API. Invoking huma.API registers
// every route and middleware, so the server main only has to invoke it once
// before listening.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		limiter := do.MustInvoke[*ratelimit.Limiter](i)
		engine := do.MustInvoke[*quota.Engine](i)
		accounts := do.MustInvoke[account.Lookup](i)
		publishDeducted := do.MustInvoke[messaging.Publish[audit.DeductionEvent]](i)
		publishDenied := do.MustInvoke[messaging.Publish[audit.DenialEvent]](i)

		api := humachi.New(router, huma.DefaultConfig("QuotaGuard", "1.0.0"))

		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(middleware.RateLimit(api, limiter, defaultRateLimit, publishDenied, logger))

		rateLimits := handlers.NewRateLimitHandler(limiter, logger)
		quotas := handlers.NewQuotaHandler(engine, accounts, publishDeducted, publishDenied, logger)
		handlers.RegisterRoutes(api, rateLimits, quotas)

		redisClient := do.MustInvoke[*redis.Client](i)

		var postgresChecker health.Checker

		if pool := do.MustInvoke[*pgxpool.Pool](i); pool != nil {
			postgresChecker = health.NewPostgresChecker(pool)
		}

		health.RegisterRoutes(api, health.NewHandler(health.NewRedisChecker(redisClient), postgresChecker))

		router.Handle("/metrics", promhttp.Handler())

		return api, nil
	})
}
