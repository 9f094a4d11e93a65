package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/personacoreio/personacore/internal/config"
	"github.com/personacoreio/personacore/internal/conversation"
	"github.com/personacoreio/personacore/internal/creator"
	creatordomain "github.com/personacoreio/personacore/internal/creator/domain"
	"github.com/personacoreio/personacore/internal/fan"
	fandomain "github.com/personacoreio/personacore/internal/fan/domain"
	"github.com/personacoreio/personacore/internal/identity"
	identitydomain "github.com/personacoreio/personacore/internal/identity/domain"
	"github.com/personacoreio/personacore/internal/notifier"
	"github.com/personacoreio/personacore/internal/payment"
	"github.com/personacoreio/personacore/internal/payout"
	"github.com/personacoreio/personacore/internal/providers/email"
	"github.com/personacoreio/personacore/internal/provisioning"
	provisioningdomain "github.com/personacoreio/personacore/internal/provisioning/domain"
	"github.com/personacoreio/personacore/internal/subscription"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(newRegistry),
	fx.Provide(registerGin),
	creator.Module,
	identity.Module,
	fan.Module,
	subscription.Module,
	conversation.Module,
	payout.Module,
	payment.Module,
	email.Module,
	notifier.Module,
	provisioning.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func newRegistry() (*prometheus.Registry, prometheus.Registerer) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, reg
}

func NewEngine(log *zap.Logger, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return r
}

func registerGin(log *zap.Logger, reg *prometheus.Registry) *gin.Engine {
	return NewEngine(log, reg)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
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
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	log             *zap.Logger
	provisioningSvc provisioningdomain.Service
	creatorSvc      creatordomain.Service
	identitySvc     identitydomain.Service
	fanSvc          fandomain.Service
	notifierSvc     *notifier.Service
	loginLimiter    *rateLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	Log             *zap.Logger
	ProvisioningSvc provisioningdomain.Service
	CreatorSvc      creatordomain.Service
	IdentitySvc     identitydomain.Service
	FanSvc          fandomain.Service
	NotifierSvc     *notifier.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		log:             p.Log.Named("http.server"),
		provisioningSvc: p.ProvisioningSvc,
		creatorSvc:      p.CreatorSvc,
		identitySvc:     p.IdentitySvc,
		fanSvc:          p.FanSvc,
		notifierSvc:     p.NotifierSvc,
		loginLimiter:    newRateLimiter(5, 10*time.Minute),
	}

	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.POST("/webhooks/:provider", s.HandleWebhook)

	api.POST("/auth/fan-login", s.FanLogin)
	api.GET("/auth/callback", s.AuthCallback)

	api.GET("/creators", s.ListCreators)
	api.GET("/creator/:slug/summary", s.CreatorSummary)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/api/admin")

	admin.GET("/creators", s.ListCreators)
	admin.GET("/fan", s.GetFanByEmail)
}
