// Package bridge exposes the spreadsheet functions over a local HTTP
// endpoint so add-in hosts can call them without linking Go code.
package bridge

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"algogrid/config"
	"algogrid/internal/functions"
	"algogrid/logger"
)

// Server hosts the Gin-powered function bridge.
type Server struct {
	cfg        config.ServerConfig
	svc        *functions.Service
	log        *logger.Entry
	httpServer *http.Server
	limiters   *ipLimiters
}

func NewServer(cfg config.ServerConfig, svc *functions.Service) *Server {
	cfg.Address = normalizeAddress(cfg.Address)

	if cfg.RateLimit.RequestsPerSecond <= 0 {
		cfg.RateLimit.RequestsPerSecond = 10
	}
	if cfg.RateLimit.BurstSize <= 0 {
		cfg.RateLimit.BurstSize = 20
	}

	return &Server{
		cfg:      cfg,
		svc:      svc,
		log:      logger.GetLogger().WithComponent("bridge"),
		limiters: newIPLimiters(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize),
	}
}

// Run starts the bridge HTTP server and blocks until the provided context is
// cancelled or the underlying HTTP server exits with an error.
func (s *Server) Run(ctx context.Context) error {
	router, err := s.buildRouter()
	if err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:    s.cfg.Address,
		Handler: router,
	}

	s.log.WithFields(logger.Fields{"address": s.cfg.Address}).Info("bridge server listening")

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if err == nil {
			return nil
		}
		return err
	}
}

// Address reports the network address the bridge server listens on.
func (s *Server) Address() string {
	return s.cfg.Address
}

func (s *Server) buildRouter() (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	// The bridge binds to loopback; nothing upstream rewrites client IPs.
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	router.Use(s.rateLimit())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/fn/:name", s.handleCall)

	return router, nil
}

// rateLimit rejects callers that exceed the per-IP request budget. A runaway
// recalculation loop in the host would otherwise hammer the trading API.
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiters.allow(c.ClientIP()) {
			s.log.WithFields(logger.Fields{"client": c.ClientIP()}).Warn("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// ipLimiters keeps one token bucket per client IP.
type ipLimiters struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	perIP map[string]*rate.Limiter
}

func newIPLimiters(limit rate.Limit, burst int) *ipLimiters {
	return &ipLimiters{
		limit: limit,
		burst: burst,
		perIP: make(map[string]*rate.Limiter),
	}
}

func (l *ipLimiters) allow(ip string) bool {
	l.mu.Lock()
	limiter, ok := l.perIP[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.perIP[ip] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

func normalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "127.0.0.1:8800"
	}
	if strings.HasPrefix(addr, ":") {
		return "127.0.0.1" + addr
	}
	if host, port, err := net.SplitHostPort(addr); err == nil {
		if host == "" {
			host = "127.0.0.1"
		}
		return net.JoinHostPort(host, port)
	}
	return addr
}
