package main

import (
	"database/sql"

	"github.com/struffoli/facecard/config"
	"github.com/struffoli/facecard/pkg/email"
	"github.com/struffoli/facecard/pkg/logging"
	"github.com/struffoli/facecard/pkg/ratelimit"
	"github.com/struffoli/facecard/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Post         services.PostService
	Product      services.ProductService
	Card         services.CardService
	Notification services.NotificationService
	Upload       services.UploadService
	Maintenance  services.Maintenance
}

type RateLimiters struct {
	Login *ratelimit.LoginRateLimiter
}

func initServices(db *sql.DB, repos *Repositories, cfg *config.Config) (*Services, *RateLimiters) {
	// Password reset is disabled without Resend credentials. The sender
	// must stay a nil interface in that case, not a nil pointer.
	var emailSender email.EmailSender
	if cfg.Email.Enabled() {
		emailSender = email.WithCircuitBreaker(
			email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Email.AppURL),
			email.BreakerSettings{},
		)
		logging.Info().Str("from", cfg.Email.FromEmail).Msg("[main] email service enabled")
	} else {
		logging.Warn().Msg("[main] email service disabled, password reset unavailable")
	}

	svcs := &Services{
		Auth:         services.NewAuthService(repos.User, repos.ResetToken, emailSender, cfg.JWT.Secret, cfg.JWT.Expiry()),
		User:         services.NewUserService(db, repos.User),
		Post:         services.NewPostService(repos.Post, repos.User),
		Product:      services.NewProductService(repos.Product),
		Card:         services.NewCardService(db, repos.Card, repos.Comment, repos.Reply, repos.Step, repos.Product),
		Notification: services.NewNotificationService(repos.Notification, repos.User),
		Upload:       services.NewUploadService(cfg.Upload.Dir, cfg.Upload.MaxSize),
		Maintenance:  services.NewMaintenance(repos.ResetToken, cfg.Maintenance.Schedule),
	}

	limiters := &RateLimiters{
		Login: ratelimit.NewLoginRateLimiter(cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.LoginWindow),
	}

	return svcs, limiters
}
