package controller

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/hospital_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterOptions параметры HTTP-роутера
type RouterOptions struct {
	AllowOrigins []string
	Production   bool
}

// NewRouter регистрирует все маршруты API
func NewRouter(h *handlers.Handlers, opts RouterOptions, logger *zap.Logger) *gin.Engine {
	if opts.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(handlers.RequestID())
	r.Use(handlers.Logger(logger))
	r.Use(cors.New(corsConfig(opts.AllowOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// Без авторизации
		api.POST("/user", h.Register)
		api.POST("/auth/login", h.Login)

		authorized := api.Group("")
		authorized.Use(h.JWTAuth())
		{
			appointments := authorized.Group("/appointment")
			{
				appointments.POST("", h.Book)
				appointments.PUT("/:id", h.Rebook)
				appointments.DELETE("/:id", h.Cancel)
				appointments.GET("/GetAvailableSlots", h.GetAvailableSlots)
				appointments.GET("/me", h.MyAppointments)
			}

			patients := authorized.Group("/patient")
			{
				patients.POST("", h.CreatePatient)
				patients.GET("/me", h.MyPatient)
			}

			admin := handlers.RoleAuth(model.RoleAdmin)

			doctors := authorized.Group("/doctor")
			{
				doctors.GET("", h.ListDoctors)
				doctors.GET("/:id", h.GetDoctor)
				doctors.POST("", admin, h.CreateDoctor)
			}

			departments := authorized.Group("/department")
			{
				departments.GET("", h.ListDepartments)
				departments.POST("", admin, h.CreateDepartment)
			}

			authorized.POST("/user/:id/roles", admin, h.AssignRole)
		}
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
