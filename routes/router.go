package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crictally/config"
	"github.com/DhavalSuthar-24/crictally/internal/auth"
	"github.com/DhavalSuthar-24/crictally/internal/match"
)

func SetupRoutes(db *gorm.DB, live match.LiveStateStore, appConfig *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default()) // allows all origins, GET/POST/PUT

	// Welcome page
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "CricTally",
			"status":  "ok",
			"swagger": "/swagger/index.html",
		})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, appConfig)
	match.MatchRoutes(api, db, live, appConfig, appConfig.JWT.AccessTokenSecret)

	return r
}
