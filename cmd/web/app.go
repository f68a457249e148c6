package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"luxesalon.cz/salon-web/internal/cms"
	"luxesalon.cz/salon-web/internal/config"
	"luxesalon.cz/salon-web/internal/i18n"
	mw "luxesalon.cz/salon-web/internal/middleware"
	"luxesalon.cz/salon-web/internal/sections"
	"luxesalon.cz/salon-web/internal/throttle"
)

// app bundles the process-wide, read-only collaborators of the handlers.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	bundle    *i18n.Bundle
	content   *cms.Client
	limiter   throttle.Limiter
	sessions  *mw.Sessions
	templates *templateSet
	validate  *validator.Validate
	closers   []func() error
}

func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	bundle, err := i18n.Load(cfg.I18n.Dir, cfg.I18n.DefaultLanguage())
	if err != nil {
		return nil, fmt.Errorf("load i18n: %w", err)
	}
	templates, err := newTemplateSet(cfg.Server.Templates, cfg.Server.Dev, bundle)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	a := &app{
		cfg:       cfg,
		logger:    logger,
		bundle:    bundle,
		content:   cms.NewClient(cfg.Content.BaseURL, cfg.Content.Token),
		sessions:  mw.NewSessions(cfg.Session.SigningKey, cfg.Server.Prod()),
		templates: templates,
		validate:  validator.New(),
	}
	if a.content.Fallback() {
		logger.Warn("content.base_url not set; serving bundled content")
	}
	if a.sessions.Ephemeral() {
		logger.Warn("session: using ephemeral signing key; set SALON_WEB_SESSION_SIGNING_KEY for production")
	}

	rl := cfg.Contact.RateLimit
	if rl.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: rl.RedisAddr, Password: rl.RedisPassword, DB: rl.RedisDB})
		a.limiter = throttle.NewRedis(client, rl.PerHour, time.Hour)
		a.closers = append(a.closers, client.Close)
	} else {
		a.limiter = throttle.NewMemory(rl.PerHour, time.Hour)
	}
	return a, nil
}

// routes builds the router. Order matters: the session must exist before
// locale and CSRF read it.
func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(a.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/static/*", mw.AssetsWithCache(filepath.Join(a.cfg.Server.Public, "static"), "/static", a.cfg.Server.Dev))

	r.Group(func(r chi.Router) {
		r.Use(mw.HTMX)
		r.Use(a.sessions.Middleware)
		r.Use(mw.Locale(a.bundle, a.sessions.Secure()))
		r.Use(mw.CSRF(a.sessions.Secure(), a.maxContactBody(), http.HandlerFunc(a.contactTooLarge)))
		r.Use(mw.VaryLocale)

		r.Get("/", a.homeHandler)
		r.Get("/gallery", a.galleryHandler)
		r.Post("/contact", a.contactSubmitHandler)
		r.Get("/contact/new", a.contactNewHandler)
	})
	return r
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("close", zap.Error(err))
		}
	}
}

// maxContactBody bounds the whole multipart request: the attachment plus
// room for the text fields.
func (a *app) maxContactBody() int64 {
	return a.cfg.Contact.MaxUploadBytes + 1<<20
}

func (a *app) servicesOptions() sections.ServicesOptions {
	return sections.ServicesOptions{
		Query: cms.ServiceQuery{
			CategoryField:  a.cfg.Content.CategoryField,
			SortByCategory: a.cfg.Content.SortByCategory,
		},
		LoadCategories: a.cfg.Content.LoadCategories,
	}
}

func (a *app) contactOptions() sections.ContactOptions {
	return sections.ContactOptions{
		Collection: a.cfg.Content.LeadsCollection,
		Subject:    a.cfg.Contact.Subject,
		Folder:     a.cfg.Content.UploadFolder,
	}
}

type loadable interface {
	Load(ctx context.Context) sections.State
	Deactivate()
}

// activate loads sections concurrently. Each section records its own
// failure, so one never cancels another. A request cancelled mid-load
// deactivates the sections so late results are dropped.
func activate(ctx context.Context, secs ...loadable) {
	var g errgroup.Group
	for _, s := range secs {
		stop := context.AfterFunc(ctx, s.Deactivate)
		g.Go(func() error {
			s.Load(ctx)
			if !stop() {
				s.Deactivate()
			}
			return nil
		})
	}
	_ = g.Wait()
}
