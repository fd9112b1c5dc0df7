package controller

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"study-buddy/internal/service"
	"study-buddy/utilities"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Auth      service.AuthService
	Notes     service.NoteService
	Quizzes   service.QuizService
	Attempts  service.AttemptService
	Results   service.ResultService
	Dashboard service.DashboardService
	Reports   service.ReportService
}

func RegisterRoutes(
	r *gin.Engine,
	svc Services,
	tokens *utilities.JWTManager,
	cookie CookieSettings,
	ping Pinger,
	log *slog.Logger,
) {
	r.GET("/health", Health(ping))

	// Auth routes.
	authCtrl := NewAuthController(svc.Auth, tokens, cookie, log)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authCtrl.Register)
		authRoutes.POST("/login", authCtrl.Login)
		authRoutes.POST("/refresh", authCtrl.Refresh)
		authRoutes.POST("/logout", authCtrl.Logout)
	}

	protected := r.Group("/", utilities.AuthMiddleware(tokens, cookie.Name))

	// Dashboard routes.
	dashboardCtrl := NewDashboardController(svc.Dashboard, log)
	protected.GET("/", dashboardCtrl.GetDashboard)
	protected.GET("/dashboard", dashboardCtrl.GetDashboard)

	// Note routes.
	noteCtrl := NewNoteController(svc.Notes, svc.Quizzes, log)
	noteRoutes := protected.Group("/notes")
	{
		noteRoutes.POST("", noteCtrl.CreateNote)
		noteRoutes.GET("", noteCtrl.ListNotes)
		noteRoutes.GET("/:id", noteCtrl.GetNote)
		noteRoutes.POST("/:id/summarize", noteCtrl.Summarize)
		noteRoutes.POST("/:id/quiz", noteCtrl.GenerateQuiz)
	}

	// Quiz routes.
	quizCtrl := NewQuizController(svc.Quizzes, svc.Attempts, svc.Results, log)
	quizRoutes := protected.Group("/quizzes")
	{
		quizRoutes.GET("/:id", quizCtrl.GetQuiz)
		quizRoutes.GET("/:id/take", quizCtrl.GetQuiz)
		quizRoutes.POST("/:id/take", quizCtrl.SubmitQuiz)
		quizRoutes.GET("/:id/results", quizCtrl.ListResults)
	}

	// Result routes.
	resultCtrl := NewResultController(svc.Results, svc.Reports, log)
	resultRoutes := protected.Group("/results")
	{
		resultRoutes.GET("/:id", resultCtrl.GetResult)
		resultRoutes.GET("/:id/report", resultCtrl.DownloadReport)
	}
}
