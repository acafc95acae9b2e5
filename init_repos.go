package main

import (
	"database/sql"

	"github.com/struffoli/facecard/repository"
)

// Repositories holds one instance of every repository, all sharing the pool.
type Repositories struct {
	User         repository.UserRepository
	Post         repository.PostRepository
	Product      repository.ProductRepository
	Card         repository.CardRepository
	Comment      repository.CommentRepository
	Reply        repository.ReplyRepository
	Step         repository.StepRepository
	Notification repository.NotificationRepository
	ResetToken   repository.PasswordResetRepository
}

func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		User:         repository.NewSQLiteUserRepo(conn),
		Post:         repository.NewSQLitePostRepo(conn),
		Product:      repository.NewSQLiteProductRepo(conn),
		Card:         repository.NewSQLiteCardRepo(conn),
		Comment:      repository.NewSQLiteCommentRepo(conn),
		Reply:        repository.NewSQLiteReplyRepo(conn),
		Step:         repository.NewSQLiteStepRepo(conn),
		Notification: repository.NewSQLiteNotificationRepo(conn),
		ResetToken:   repository.NewSQLiteResetTokenRepo(conn),
	}
}
