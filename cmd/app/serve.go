package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/net/netutil"

	"antibias-assessment/internal/controller"
	"antibias-assessment/internal/repository"
	"antibias-assessment/internal/service"
	"antibias-assessment/pkg/middleware"
	"antibias-assessment/utilities"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web questionnaire",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	printStartUpBanner()

	a, err := loadApp()
	if err != nil {
		return err
	}
	if err := a.setupLogging(true); err != nil {
		return err
	}
	defer utilities.SyncLogging()

	// Create repositories.
	sessions := repository.NewSessionRepository(a.cfg.SessionTTL())
	defer sessions.Close()

	// Create services.
	bus := utilities.NewEventBus()
	service.LogSubmissions(bus)
	assessmentService := service.NewAssessmentService(a.questions, sessions, service.AssessmentOptions{
		Title:   a.cfg.Assessment.Title,
		Scale:   a.scale,
		Shuffle: a.cfg.Assessment.Shuffle,
		Events:  bus,
	})
	tokens := utilities.NewSessionTokens(a.cfg.Session.Secret, a.cfg.SessionTTL())

	// Initialize Gin router.
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	if a.cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}
	controller.RegisterRoutes(r, assessmentService, tokens, controller.RouteOptions{
		CookieName:   a.cfg.Session.CookieName,
		CookieMaxAge: int(a.cfg.SessionTTL().Seconds()),
		AllowOrigins: a.cfg.Server.AllowOrigins,
		RateLimit:    a.cfg.Server.RateLimit,
		Report:       a.document(),
	})

	ln, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.Addr(), err)
	}
	if a.cfg.Server.MaxConns > 0 {
		ln = netutil.LimitListener(ln, a.cfg.Server.MaxConns)
	}
	srv := &http.Server{
		Handler:      r,
		ReadTimeout:  time.Duration(a.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(a.cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()
	utilities.Info("listening on %s (scale 1-%d, shuffle %t, max %d connections)",
		ln.Addr(), a.scale.Max, a.cfg.Assessment.Shuffle, a.cfg.Server.MaxConns)

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	utilities.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	bus.Wait()
	return nil
}
