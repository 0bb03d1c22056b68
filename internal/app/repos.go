package app

import (
	"gorm.io/gorm"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/repos"
)

type Repos struct {
	User          repos.UserRepo
	CreditHistory repos.CreditHistoryRepo
	Project       repos.ProjectRepo
	ProjectVideo  repos.ProjectVideoRepo
	Video         repos.VideoRepo
	Question      repos.QuestionRepo
	Quiz          repos.QuizRepo
	QuizQuestion  repos.QuizQuestionRepo
	Attempt       repos.AttemptRepo
	Report        repos.ReportRepo
	Notes         repos.NotesRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		CreditHistory: repos.NewCreditHistoryRepo(db, log),
		Project:       repos.NewProjectRepo(db, log),
		ProjectVideo:  repos.NewProjectVideoRepo(db, log),
		Video:         repos.NewVideoRepo(db, log),
		Question:      repos.NewQuestionRepo(db, log),
		Quiz:          repos.NewQuizRepo(db, log),
		QuizQuestion:  repos.NewQuizQuestionRepo(db, log),
		Attempt:       repos.NewAttemptRepo(db, log),
		Report:        repos.NewReportRepo(db, log),
		Notes:         repos.NewNotesRepo(db, log),
	}
}
