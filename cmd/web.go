/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/labwave/narrative"
	"github.com/humaidq/labwave/routes"
	"github.com/humaidq/labwave/static"
	"github.com/humaidq/labwave/templates"
)

// shutdownTimeout bounds how long in-flight requests may finish on exit.
const shutdownTimeout = 10 * time.Second

var CmdServe = &cli.Command{
	Name:    "serve",
	Aliases: []string{"start", "run"},
	Usage:   "Start the web server",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "port",
			Value:   "8080",
			Sources: cli.EnvVars("PORT"),
			Usage:   "the web server port",
		},
		&cli.StringFlag{
			Name:    "session-secret",
			Sources: cli.EnvVars(sessionSecretEnvVar),
			Usage:   "secret used to sign CSRF tokens",
		},
		&cli.BoolFlag{
			Name:  "dev",
			Value: false,
			Usage: "enables development mode (templates are read from disk)",
		},
	}, scoringFlags()...),
	Action: serve,
}

type webOptions struct {
	secret string
	dev    bool
}

// sessionSecret returns the configured secret. Outside production a missing
// secret is replaced by a random one that lives as long as the process.
func sessionSecret(value string, production bool) (string, error) {
	secret := strings.TrimSpace(value)
	if secret != "" {
		return secret, nil
	}

	if production {
		return "", errSessionSecretRequired
	}

	webLogger.Warn("no session secret set, using an ephemeral development secret")

	return uuid.NewString(), nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	production, err := isProduction()
	if err != nil {
		return err
	}

	secret, err := sessionSecret(cmd.String("session-secret"), production)
	if err != nil {
		return err
	}

	policy, err := loadPolicy(cmd)
	if err != nil {
		return err
	}

	narrativeConfig, err := narrative.ConfigFromEnv()
	if err != nil {
		webLogger.Info("narrative generation disabled", "reason", err)
		narrativeConfig = nil
	}

	analyzer := routes.NewAnalyzer(policy, loadCatalog(cmd), narrativeConfig)

	f, err := newWebApp(analyzer, webOptions{secret: secret, dev: cmd.Bool("dev")})
	if err != nil {
		return err
	}

	port := cmd.String("port")
	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", port),
		Handler:           f,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Narratives stream for up to the model client timeout.
		WriteTimeout: 6 * time.Minute,
		ErrorLog:     requestStdLogger,
	}

	errCh := make(chan error, 1)

	go func() {
		appLogger.Info("starting web server", "port", port, "production", production, "narrative", narrativeConfig != nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	appLogger.Info("shutting down web server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}

	return nil
}

func newWebApp(a *routes.Analyzer, opts webOptions) (*flamego.Flame, error) {
	f := flamego.New()
	f.Use(flamego.Recovery())
	f.Use(routes.RequestLogger)
	f.Use(routes.NoCacheHeaders())

	tmplOpts := template.Options{Directory: "templates"}
	if !opts.dev {
		fs, err := template.EmbedFS(templates.Templates, ".", []string{".html"})
		if err != nil {
			return nil, fmt.Errorf("failed to load templates: %w", err)
		}

		tmplOpts = template.Options{FileSystem: fs}
	}

	f.Use(session.Sessioner())
	f.Use(csrf.Csrfer(csrf.Options{Secret: opts.secret}))
	f.Use(template.Templater(tmplOpts))
	f.Use(flamego.Static(flamego.StaticOptions{
		FileSystem: http.FS(static.Static),
	}))
	f.Use(func(c flamego.Context) {
		c.Map(a)
	})

	configureEmptyNotFoundHandler(f)

	f.Get("/healthz", routes.Healthz)
	f.Post("/api/metrics", routes.APIMetrics)
	f.Post("/api/narrative", routes.APINarrative)

	f.Group("", func() {
		f.Get("/", routes.Index)
		f.Post("/report", csrf.Validate, routes.CreateReport)
	}, routes.CSRFInjector(), routes.FlashInjector())

	return f, nil
}

// configureEmptyNotFoundHandler answers unknown routes with a bare 404.
func configureEmptyNotFoundHandler(f *flamego.Flame) {
	f.NotFound(func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
	})
}

func isProduction() (bool, error) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(runtimeEnvVar))) {
	case "", "development", "dev":
		return false, nil
	case "production", "prod":
		return true, nil
	default:
		return false, errInvalidRuntimeEnv
	}
}
