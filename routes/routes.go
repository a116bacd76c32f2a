package routes

import (
	"net/http"

	"catalogdemo/config"
	"catalogdemo/controllers"
	"catalogdemo/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func RegisterRoutes(r *gin.Engine, s *config.Settings, log logrus.FieldLogger) {
	r.Use(middleware.RequestID(), middleware.AccessLog(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/products", controllers.GetProducts)
		api.GET("/products/:id", controllers.GetProduct)
		api.GET("/stats/categories", controllers.GetCategoryTotals)
		api.GET("/stats/avg-price", controllers.GetAveragePrice)

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware([]byte(s.JWTSecret)), middleware.AdminMiddleware())
		{
			admin.POST("/products", controllers.CreateProduct)
			admin.POST("/products/batch", controllers.CreateProducts)
			admin.PUT("/products/:id", controllers.UpdateProduct)
			admin.POST("/products/:id/inc", controllers.IncrementProduct)
			admin.DELETE("/products/:id", controllers.DeleteProduct)
			admin.DELETE("/products", controllers.DeleteProductsByCategory)
		}
	}
}
