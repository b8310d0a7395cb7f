package api

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/samiti-foundation/server/internal/api/handlers"
	"github.com/samiti-foundation/server/internal/api/middleware"
	"github.com/samiti-foundation/server/internal/auth"
	"github.com/samiti-foundation/server/internal/config"
	"github.com/samiti-foundation/server/internal/domain/admins"
	"github.com/samiti-foundation/server/internal/domain/blogs"
	"github.com/samiti-foundation/server/internal/domain/events"
	"github.com/samiti-foundation/server/internal/domain/registrations"
	"github.com/samiti-foundation/server/internal/domain/site"
	"github.com/samiti-foundation/server/internal/media"
	"github.com/samiti-foundation/server/internal/metrics"
	"github.com/samiti-foundation/server/internal/storage"
)

// Version is injected at build time via ldflags.
var Version = "dev"

// NewRouter wires repositories, services and handlers into the HTTP
// surface.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool, repo storage.Repository, uploader *media.Uploader) http.Handler {
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)

	adminsService := admins.NewService(repo.Admins(), tokens, logger)
	siteService := site.NewService(repo.Site(), logger)
	eventsService := events.NewService(repo.Events())
	registrationsService := registrations.NewService(repo.Registrations(), repo.Events(), logger)
	blogsService := blogs.NewService(repo.Blogs(), logger)

	env := cfg.Environment
	maxBytes := cfg.Uploads.MaxBytes

	authHandler := handlers.NewAuthHandler(adminsService, env)
	siteHandler := handlers.NewSiteHandler(siteService, uploader, env)
	imagesHandler := handlers.NewImagesHandler(siteService, uploader, maxBytes, env)
	teamHandler := handlers.NewTeamHandler(siteService, uploader, maxBytes, env)
	eventsHandler := handlers.NewEventsHandler(eventsService, uploader, maxBytes, env)
	registrationsHandler := handlers.NewRegistrationsHandler(registrationsService, uploader, maxBytes, env)
	blogsHandler := handlers.NewBlogsHandler(blogsService, uploader, maxBytes, env)
	uploadsHandler := handlers.NewUploadsHandler(cfg.Uploads.Dir, env)
	healthHandler := handlers.NewHealthHandler(pool, Version)

	adminAuth := middleware.AdminAuth(tokens, repo.Admins(), env)
	submitLimit := middleware.SubmitRateLimit(cfg.RateLimit)

	publicSize := middleware.PublicRequestSize()
	adminSize := middleware.AdminRequestSize()
	// Multipart framing adds overhead on top of the file cap itself.
	uploadSize := middleware.RequestSize(maxBytes + (64 << 10))

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", healthHandler.Healthz)
	mux.HandleFunc("GET /readyz", healthHandler.Readyz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /uploads/{path...}", uploadsHandler.Serve)

	// Public content.
	mux.HandleFunc("GET /api/v1/intro", siteHandler.GetIntro)
	mux.HandleFunc("GET /api/v1/images", imagesHandler.List)
	mux.HandleFunc("GET /api/v1/team", teamHandler.List)
	mux.HandleFunc("GET /api/v1/events", eventsHandler.List)
	mux.HandleFunc("GET /api/v1/events/{id}", eventsHandler.Get)
	mux.HandleFunc("GET /api/v1/blogs", blogsHandler.List)
	mux.HandleFunc("GET /api/v1/blogs/{id}", blogsHandler.Get)

	// Public registration.
	mux.Handle("POST /api/v1/events/{id}/register",
		submitLimit(publicSize(http.HandlerFunc(registrationsHandler.Submit))))
	mux.HandleFunc("GET /api/v1/events/{id}/check-email", registrationsHandler.CheckEmail)
	mux.Handle("POST /api/v1/uploads/screenshots",
		submitLimit(uploadSize(http.HandlerFunc(registrationsHandler.UploadScreenshot))))

	// Auth.
	mux.Handle("POST /api/v1/auth/login", publicSize(http.HandlerFunc(authHandler.Login)))

	// Admin surface. JSON routes carry the admin body cap, multipart
	// routes the upload cap.
	admin := func(h http.HandlerFunc) http.Handler { return adminAuth(adminSize(h)) }
	adminUpload := func(h http.HandlerFunc) http.Handler { return adminAuth(uploadSize(h)) }
	mux.Handle("GET /api/v1/admin/me", admin(authHandler.Me))

	mux.Handle("PUT /api/v1/admin/intro", admin(siteHandler.PutIntro))
	mux.Handle("GET /api/v1/admin/contact", admin(siteHandler.GetContactInfo))
	mux.Handle("PUT /api/v1/admin/contact", admin(siteHandler.PutContactInfo))

	mux.Handle("POST /api/v1/admin/images", adminUpload(imagesHandler.Upload))
	mux.Handle("DELETE /api/v1/admin/images/{id}", admin(imagesHandler.Delete))

	mux.Handle("POST /api/v1/admin/team", admin(teamHandler.Create))
	mux.Handle("PUT /api/v1/admin/team/{id}", admin(teamHandler.Update))
	mux.Handle("DELETE /api/v1/admin/team/{id}", admin(teamHandler.Delete))
	mux.Handle("POST /api/v1/admin/team/photo", adminUpload(teamHandler.UploadPhoto))

	mux.Handle("POST /api/v1/admin/events", admin(eventsHandler.Create))
	mux.Handle("PUT /api/v1/admin/events/{id}", admin(eventsHandler.Update))
	mux.Handle("DELETE /api/v1/admin/events/{id}", admin(eventsHandler.Delete))
	mux.Handle("PUT /api/v1/admin/events/{id}/form", admin(eventsHandler.DefineForm))
	mux.Handle("POST /api/v1/admin/events/{id}/cover", adminUpload(eventsHandler.UploadCover))
	mux.Handle("POST /api/v1/admin/events/{id}/qr", adminUpload(eventsHandler.UploadQR))

	mux.Handle("GET /api/v1/admin/events/{id}/registrations", admin(registrationsHandler.ListByEvent))
	mux.Handle("GET /api/v1/admin/events/{id}/registrations/export", admin(registrationsHandler.Export))
	mux.Handle("PUT /api/v1/admin/registrations/{id}/status", admin(registrationsHandler.SetStatus))
	mux.Handle("GET /api/v1/admin/registrations/{id}/screenshot", admin(registrationsHandler.Screenshot))

	mux.Handle("POST /api/v1/admin/blogs", admin(blogsHandler.Create))
	mux.Handle("PUT /api/v1/admin/blogs/{id}", admin(blogsHandler.Update))
	mux.Handle("DELETE /api/v1/admin/blogs/{id}", admin(blogsHandler.Delete))
	mux.Handle("POST /api/v1/admin/blogs/cover", adminUpload(blogsHandler.UploadCover))

	var handler http.Handler = mux
	handler = middleware.Metrics()(handler)
	handler = middleware.Recover(env)(handler)
	handler = middleware.CORS()(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}
