package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/siamtransfer/fareengine/internal/config"
	"github.com/siamtransfer/fareengine/internal/observability"
	obsmiddleware "github.com/siamtransfer/fareengine/internal/observability/logger"
	obsmetrics "github.com/siamtransfer/fareengine/internal/observability/metrics"
	obstracing "github.com/siamtransfer/fareengine/internal/observability/tracing"
	ruledomain "github.com/siamtransfer/fareengine/internal/pricingrule/domain"
	historydomain "github.com/siamtransfer/fareengine/internal/ratehistory/domain"
	"github.com/siamtransfer/fareengine/internal/ratelimit"
	ratingdomain "github.com/siamtransfer/fareengine/internal/rating/domain"
	ratedomain "github.com/siamtransfer/fareengine/internal/servicerate/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	ratingSvc      ratingdomain.Service
	serviceRateSvc ratedomain.Service
	pricingRuleSvc ruledomain.Service
	rateHistorySvc historydomain.Service
	quoteLimiter   *ratelimit.QuoteLimiter
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	RatingSvc      ratingdomain.Service
	ServiceRateSvc ratedomain.Service
	PricingRuleSvc ruledomain.Service
	RateHistorySvc historydomain.Service
	QuoteLimiter   *ratelimit.QuoteLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		ratingSvc:      p.RatingSvc,
		serviceRateSvc: p.ServiceRateSvc,
		pricingRuleSvc: p.PricingRuleSvc,
		rateHistorySvc: p.RateHistorySvc,
		quoteLimiter:   p.QuoteLimiter,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/quotes", s.CalculateQuote)

	rates := v1.Group("/service-rates")
	rates.POST("", s.CreateServiceRate)
	rates.GET("", s.ListServiceRates)
	rates.GET("/:id", s.GetServiceRateByID)
	rates.PATCH("/:id", s.UpdateServiceRate)
	rates.DELETE("/:id", s.DeleteServiceRate)

	rules := v1.Group("/pricing-rules")
	rules.POST("", s.CreatePricingRule)
	rules.GET("", s.ListPricingRules)
	rules.GET("/:id", s.GetPricingRuleByID)
	rules.PATCH("/:id", s.UpdatePricingRule)
	rules.DELETE("/:id", s.DeletePricingRule)

	history := v1.Group("/rate-history")
	history.POST("", s.RecordRateHistory)
	history.GET("", s.ListRateHistory)
	history.GET("/:booking_id", s.GetRateHistoryByBookingID)
}
