package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/struffoli/facecard/config"
	"github.com/struffoli/facecard/handlers"
	"github.com/struffoli/facecard/middleware"
	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/repository"
	"github.com/struffoli/facecard/services"
)

// initRoutes builds the router. Static segments ("card", "comment", ...)
// sit next to {id} params under the same prefix; chi matches static
// segments first.
func initRoutes(
	h *Handlers,
	authService services.AuthService,
	userRepo repository.UserRepository,
	cfg *config.Config,
) http.Handler {
	authMw := middleware.NewAuthMiddleware(authService, userRepo)

	r := chi.NewRouter()

	// ─── Global middleware ───
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		pkg.ErrorWithMessage(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		pkg.ErrorWithMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/assets/*", assetsHandler(cfg.Upload.Dir))

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit.RequestsPerMinute > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit.RequestsPerMinute, time.Minute))
		}

		r.Get("/health", handlers.Health)

		// Auth
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.Post("/forgot-password", h.Auth.ForgotPassword)
			r.Post("/reset-password", h.Auth.ResetPassword)
			r.With(authMw.Require).Get("/me", h.Auth.Me)
		})

		// Everything below requires a session.
		r.Group(func(r chi.Router) {
			r.Use(authMw.Require)

			r.Route("/users", func(r chi.Router) {
				r.Get("/{id}/profile", h.User.GetUser)
				r.Put("/{id}/profile", h.User.UpdateProfile)
				r.Get("/{id}/friends", h.User.GetFriends)
				r.Post("/{id}/picture", h.User.UploadPicture)
				r.Patch("/{id}/{friendId}", h.User.ToggleFriend)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Post("/", h.Post.Create)
				r.Get("/", h.Post.Feed)
				r.Get("/{id}/feed", h.Post.Feed)
				r.Get("/{id}", h.Post.UserPosts)
				r.Patch("/{id}/like", h.Post.Like)
				r.Delete("/{id}", h.Post.Delete)
			})

			r.Route("/products", func(r chi.Router) {
				r.Post("/", h.Product.Create)
				r.Get("/{id}", h.Product.Get)
				r.Get("/{id}/likes", h.Product.Liked)
				r.Get("/{id}/holyGrails", h.Product.HolyGrails)
				r.Patch("/{id}", h.Product.Update)
				r.Patch("/{id}/like", h.Product.Like)
				r.Patch("/{id}/holyGrail", h.Product.HolyGrail)
				r.Delete("/{id}", h.Product.Delete)
			})

			r.Route("/cards", func(r chi.Router) {
				// Create
				r.Post("/card", h.Card.CreateCard)
				r.Post("/{id}/comment", h.Card.AddComment)
				r.Post("/{id}/{commentId}/reply", h.Card.AddReply)
				r.Post("/{id}/step", h.Card.AddStep)

				// Read
				r.Get("/{id}", h.Card.GetCard)
				r.Get("/{id}/comments", h.Card.GetComments)
				r.Get("/{id}/{commentId}/replies", h.Card.GetReplies)
				r.Get("/{id}/steps", h.Card.GetSteps)

				// Update
				r.Patch("/card/{id}", h.Card.RenameCard)
				r.Patch("/comment/{id}", h.Card.EditComment)
				r.Patch("/reply/{id}", h.Card.EditReply)
				r.Patch("/step/{id}/{stepId}", h.Card.UpdateStep)
				r.Put("/{id}/steps/order", h.Card.ReorderSteps)

				// Delete
				r.Delete("/card/{id}", h.Card.DeleteCard)
				r.Delete("/comment/{id}", h.Card.DeleteComment)
				r.Delete("/reply/{id}", h.Card.DeleteReply)
				r.Delete("/step/{id}", h.Card.DeleteStep)
			})

			r.Route("/notifs", func(r chi.Router) {
				r.Post("/", h.Notification.Create)
				r.Get("/{id}/active", h.Notification.Active)
				r.Get("/{id}", h.Notification.All)
				r.Patch("/{id}/clear", h.Notification.Clear)
			})
		})
	})

	return r
}

// assetsHandler serves uploaded pictures. Only flat file names are
// accepted; anything with a path separator is a 404.
func assetsHandler(dir string) http.HandlerFunc {
	fs := http.StripPrefix("/assets/", http.FileServer(http.Dir(dir)))
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "*")
		if name == "" || strings.ContainsAny(name, `/\`) {
			pkg.ErrorWithMessage(w, http.StatusNotFound, "file not found")
			return
		}
		fs.ServeHTTP(w, r)
	}
}
