package main

import (
	"github.com/struffoli/facecard/config"
	"github.com/struffoli/facecard/handlers"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Post         *handlers.PostHandler
	Product      *handlers.ProductHandler
	Card         *handlers.CardHandler
	Notification *handlers.NotificationHandler
}

func initHandlers(svcs *Services, limiters *RateLimiters, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:         handlers.NewAuthHandler(svcs.Auth, limiters.Login, cfg.JWT.CookieSecure),
		User:         handlers.NewUserHandler(svcs.User, svcs.Upload, cfg.Upload.MaxSize),
		Post:         handlers.NewPostHandler(svcs.Post),
		Product:      handlers.NewProductHandler(svcs.Product, svcs.Upload, cfg.Upload.MaxSize),
		Card:         handlers.NewCardHandler(svcs.Card),
		Notification: handlers.NewNotificationHandler(svcs.Notification),
	}
}
