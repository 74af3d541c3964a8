package match

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crictally/config"
	mw "github.com/DhavalSuthar-24/crictally/internal/middleware"
)

// MatchRoutes sets up all match-related routes.
func MatchRoutes(router *gin.RouterGroup, db *gorm.DB, live LiveStateStore, appConfig *config.Config, jwtSecret string) {
	matchRepo := NewGormMatchRepository(db)
	matchController := NewMatchController(matchRepo, live, appConfig)

	// Authenticated scoring routes
	authRoutes := router.Group("/matches")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		authRoutes.POST("", matchController.CreateMatch)
		authRoutes.DELETE("/:id", matchController.DeleteMatch)

		authRoutes.POST("/:id/start", matchController.StartMatch)
		authRoutes.POST("/:id/ball", matchController.AddBall)
		authRoutes.POST("/:id/change-bowler", matchController.ChangeBowler)
		authRoutes.POST("/:id/end-innings", matchController.EndInnings)
		authRoutes.POST("/:id/start-innings2", matchController.StartInnings2)
		authRoutes.GET("/:id/state", matchController.GetMatchState)
	}

	// Public scoreboard routes
	publicRoutes := router.Group("/public/matches")
	{
		publicRoutes.GET("/live", matchController.GetLiveMatches)
		publicRoutes.GET("/upcoming", matchController.GetUpcomingMatches)
		publicRoutes.GET("/completed", matchController.GetCompletedMatches)
		publicRoutes.GET("/:id/scorecard", matchController.GetMatchScorecard)
	}
}
