package routes

import (
	"query-hub/controllers"

	"github.com/gin-gonic/gin"
)

// Controllers groups the per-collection controllers served by the API.
type Controllers struct {
	MyQueries       *controllers.DocumentController
	BlogPosts       *controllers.DocumentController
	Recommendations *controllers.DocumentController
}

// RegisterRoutes sets up the collection routes, the root banner and the
// health check.
func RegisterRoutes(r *gin.Engine, c Controllers) {
	r.GET("/", controllers.Root)
	r.GET("/health", controllers.Health)

	blogRoutes := r.Group("/blogPosts")
	{
		blogRoutes.GET("", c.BlogPosts.List)
		blogRoutes.GET("/:id", c.BlogPosts.Get)
	}

	queryRoutes := r.Group("/myQueries")
	{
		queryRoutes.GET("", c.MyQueries.List)
		queryRoutes.POST("", c.MyQueries.Create)
		queryRoutes.GET("/:id", c.MyQueries.Get)
		queryRoutes.PUT("/:id", c.MyQueries.Update)
		queryRoutes.DELETE("/:id", c.MyQueries.Delete)
	}

	recommendationRoutes := r.Group("/recommendations")
	{
		recommendationRoutes.GET("", c.Recommendations.List)
		recommendationRoutes.POST("", c.Recommendations.Create)
		recommendationRoutes.GET("/:id", c.Recommendations.Get)
		recommendationRoutes.DELETE("/:id", c.Recommendations.Delete)
	}
}
