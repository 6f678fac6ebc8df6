package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/config"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/handlers"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/inits"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/logger"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/mailer"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/router"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/routines"
	"github.com/AsifAhmedTanjid/portfolio_contact_relay/validators"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the contact relay server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// LOG_LEVEL and ENVIRONMENT may come from the env file.
	if _, err := config.LoadEnvFile(envFile); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.InitLogger()
	log := logger.GetLogger()

	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := handlers.ContactOptions{
		Recipient:    cfg.Recipient,
		ExposeErrors: cfg.Relay.ExposeErrors,
		EscapeHTML:   cfg.Mail.EscapeHTML,
		SendTimeout:  cfg.Mail.SendTimeout,
		DedupeWindow: cfg.Relay.DedupeWindow,
	}
	if cfg.Relay.DedupeWindow > 0 {
		db, err := inits.DBInit()
		if err != nil {
			return fmt.Errorf("delivery store: %w", err)
		}
		opts.Deliveries = db
		go routines.StartCleanupRoutine(ctx, db, cfg.Relay.CleanupInterval)
	}
	if cfg.Relay.TurnstileSecret != "" {
		testToken := ""
		if !cfg.IsProduction() {
			testToken = cfg.Relay.TurnstileTestToken
		}
		opts.Verifier = validators.NewTurnstileVerifier(cfg.Relay.TurnstileSecret, testToken)
	}

	contact := handlers.NewContactHandler(buildMailer(cfg, reg), opts)
	engine := router.SetupRouter(router.Dependencies{Config: cfg, Contact: contact, Gatherer: reg})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func buildMailer(cfg *config.Config, reg prometheus.Registerer) mailer.Mailer {
	var m mailer.Mailer
	switch cfg.Mail.Provider {
	case config.ProviderResend:
		m = mailer.NewResendMailer(cfg.ResendAPIKey)
	default:
		m = mailer.NewSMTPMailer(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Credentials)
	}
	return mailer.NewInstrumented(m, cfg.Mail.Provider, reg)
}
