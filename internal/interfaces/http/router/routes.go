package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/partshop/backend/internal/infrastructure/config"
	"github.com/partshop/backend/internal/infrastructure/logger"
	"github.com/partshop/backend/internal/interfaces/http/handler"
	"github.com/partshop/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the endpoint groups served by the shop API
type Handlers struct {
	Invoices *handler.InvoiceHandler
	Stock    *handler.StockHandler
	Parts    *handler.PartHandler
	Parties  *handler.PartyHandler
	Reports  *handler.ReportHandler
	System   *handler.SystemHandler
}

// Options configure the middleware stack
type Options struct {
	Logger *zap.Logger
	HTTP   config.HTTPConfig
	// Auth validates bearer tokens on /api routes. nil serves them unauthenticated.
	Auth        middleware.TokenValidator
	Tracing     middleware.TracingConfig
	Meter       metric.Meter
	RateLimiter *middleware.RateLimiter
}

// New builds the engine with the middleware stack and every route.
//
// Global order: request id, recovery, access log, tracing, metrics, CORS,
// security headers, body limit, rate limit, timeout. /api routes add JWT
// auth and span attributes on top.
func New(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Tracing(opts.Tracing),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(opts.Meter, log),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     opts.HTTP.CORSAllowOrigins,
			AllowMethods:     opts.HTTP.CORSAllowMethods,
			AllowHeaders:     opts.HTTP.CORSAllowHeaders,
			ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.Secure(),
		middleware.BodyLimit(opts.HTTP.MaxBodySize),
	)
	if opts.RateLimiter != nil {
		engine.Use(middleware.RateLimit(opts.RateLimiter))
	}
	engine.Use(middleware.Timeout(opts.HTTP.RequestTimeout))
	engine.NoRoute(middleware.NoRoute())

	if h.System != nil {
		engine.GET("/health", h.System.Health)
		engine.GET("/ready", h.System.Ready)
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	if opts.Auth != nil {
		jwtCfg := middleware.DefaultJWTConfig(opts.Auth)
		jwtCfg.Logger = log
		r.Use(middleware.JWTAuth(jwtCfg))
	} else {
		log.Warn("API authentication disabled")
	}
	r.Use(middleware.TracingAttributeInjector())

	for _, g := range domainGroups(h) {
		r.Register(g)
		log.Debug("Mounted route group",
			zap.String("group", g.Name()),
			zap.String("prefix", r.BasePath()+g.Prefix()),
			zap.Int("routes", len(g.Routes())),
		)
	}
	r.Setup()
	return engine
}

func domainGroups(h Handlers) []*DomainGroup {
	var groups []*DomainGroup

	if h.Invoices != nil {
		invoices := NewDomainGroup("invoicing", "/invoices")
		invoices.POST("", h.Invoices.Create).
			GET("", h.Invoices.List).
			GET("/next-number", h.Invoices.NextNumber).
			GET("/lookup", h.Invoices.GetByNumber).
			POST("/bulk/status", h.Invoices.BulkUpdateStatus).
			POST("/bulk/delete", h.Invoices.BulkDelete).
			GET("/:id", h.Invoices.GetByID).
			PUT("/:id", h.Invoices.Update).
			DELETE("/:id", h.Invoices.Delete)
		groups = append(groups, invoices)
	}

	if h.Stock != nil {
		stock := NewDomainGroup("inventory", "/stock")
		stock.GET("", h.Stock.List).
			GET("/export", h.Stock.Export).
			POST("/export/archive", h.Stock.Archive).
			GET("/:part_id", h.Stock.Get).
			GET("/:part_id/ledger", h.Stock.Ledger).
			POST("/:part_id/adjust", h.Stock.Adjust)
		groups = append(groups, stock)
	}

	if h.Parts != nil {
		parts := NewDomainGroup("catalog", "/parts")
		parts.PUT("", h.Parts.Upsert).
			GET("", h.Parts.List).
			POST("/import", h.Parts.Import).
			GET("/:id", h.Parts.GetByID).
			DELETE("/:id", h.Parts.Delete).
			POST("/:id/restore", h.Parts.Restore)
		groups = append(groups, parts)
	}

	if h.Parties != nil {
		parties := NewDomainGroup("partner", "/parties")
		parties.POST("", h.Parties.Create).
			GET("", h.Parties.List).
			GET("/:id", h.Parties.GetByID).
			PUT("/:id", h.Parties.Update).
			DELETE("/:id", h.Parties.Delete)
		groups = append(groups, parties)
	}

	if h.Reports != nil {
		reports := NewDomainGroup("report", "/reports")
		reports.GET("/dashboard", h.Reports.Dashboard).
			GET("/rollup", h.Reports.Rollup).
			GET("/top-parts", h.Reports.TopParts).
			GET("/profit-loss", h.Reports.ProfitLoss).
			GET("/balance-sheet", h.Reports.BalanceSheet).
			GET("/cash-flow", h.Reports.CashFlow)
		groups = append(groups, reports)
	}

	if h.System != nil {
		groups = append(groups, NewDomainGroup("system", "/system").GET("/info", h.System.Info))
	}
	return groups
}
