package handler

import (
	"deposit-reconciler/internal/adapter/http/middleware"
	"deposit-reconciler/internal/core/ports"
	"deposit-reconciler/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Registry       ports.RegistryService
	Dispatcher     ports.VerificationDispatcher
	Workflows      ports.WorkflowController
	TokenSvc       ports.TokenService         // nil = authentication disabled
	RateLimitStore middleware.RateLimitStore  // nil = rate limiting disabled
	AuditSvc       ports.AuditService         // nil = audit logging disabled
	Metrics        *metrics.Collector         // nil = /metrics not exposed
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBodyBytes))
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1", middleware.JWTAuth(deps.TokenSvc, deps.Logger))

	deposits := NewDepositHandler(deps.Registry, deps.Dispatcher)
	dep := v1.Group("/deposits")
	{
		dep.GET("", rl("deposits_read"), deposits.List)
		dep.POST("", rl("deposits_submit"), deposits.Submit)
		dep.GET("/:id", rl("deposits_read"), deposits.Get)
		dep.POST("/:id/verify", rl("verify"), deposits.Verify)
	}

	workflows := NewWorkflowHandler(deps.Workflows)
	wf := v1.Group("/workflows", rl("workflows"))
	{
		wf.POST("", workflows.Start)
		wf.GET("/:id", workflows.Get)
		wf.POST("/:id/provider", rl("verify"), workflows.SelectProvider)
		wf.POST("/:id/confirm", workflows.Confirm)
		wf.POST("/:id/cancel", workflows.Cancel)
	}

	return r
}
