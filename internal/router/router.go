package router

import (
	"net/http"
	"time"

	_ "github.com/franciscosanchezn/gin-fastfood-api/docs" // Register swagger spec
	"github.com/franciscosanchezn/gin-fastfood-api/internal/auth"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/config"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/controllers"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/middleware"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/services"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/storage"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// NewRouter wires services, controllers and middleware into a gin engine
func NewRouter(conf *config.Config, db *gorm.DB) *gin.Engine {
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize services
	sanitizer := services.NewSanitizer()
	fastFoodService := services.NewFastFoodService(db, sanitizer)
	comboService := services.NewComboService(db, sanitizer)
	categoryService := services.NewCategoryService(db, sanitizer)
	orderService := services.NewOrderService(db, sanitizer)
	userService := services.NewUserService(db, sanitizer)
	clientService := services.NewClientService(db)

	tokenTTL := time.Duration(conf.TokenTTLHours) * time.Hour
	oauthService := auth.NewOAuthService(db, conf.JWTSecret, tokenTTL)
	images := storage.NewLocalImageStore(conf.UploadDir, conf.PublicBaseURL)

	// Initialize controllers
	authController := controllers.NewAuthController(userService, auth.NewTokenIssuer(conf.JWTSecret, tokenTTL))
	fastFoodController := controllers.NewFastFoodController(fastFoodService, images)
	comboController := controllers.NewComboController(comboService, images)
	categoryController := controllers.NewCategoryController(categoryService)
	orderController := controllers.NewOrderController(orderService, conf.RecentOrderDays)
	userController := controllers.NewUserController(userService)
	clientController := controllers.NewClientController(clientService)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(conf.CORSOrigins))
	router.MaxMultipartMemory = storage.MaxImageSize

	router.GET("/health", healthCheckHandler(db))
	router.Static("/images", conf.UploadDir)

	// Credential endpoints share one budget
	loginLimit := rateLimit(conf, middleware.LoginPolicy)

	v1 := router.Group("/api/v1")
	{
		authApi := v1.Group("/auth", loginLimit)
		{
			authApi.POST("/register", authController.Register)
			authApi.POST("/login", authController.Login)
		}

		v1.POST("/oauth/token", loginLimit, oauthService.HandleToken)

		publicApi := v1.Group("/public", rateLimit(conf, middleware.AnonymousPolicy))
		{
			publicApi.GET("/fastfoods", fastFoodController.GetActiveFastFoods)
			publicApi.GET("/fastfoods/:id", fastFoodController.GetFastFoodByID)
			publicApi.GET("/combos", comboController.GetActiveCombos)
			publicApi.GET("/combos/:id", comboController.GetComboByID)
			publicApi.GET("/categories", categoryController.GetCategories)
		}

		// Protected routes accept login tokens and client credentials tokens alike
		protectedApi := v1.Group("/protected")
		protectedApi.Use(middleware.JWTAuth([]byte(conf.JWTSecret)))
		{
			customerApi := protectedApi.Group("", rateLimit(conf, middleware.AuthenticatedPolicy))
			customerApi.POST("/orders", orderController.CreateOrder)
			customerApi.GET("/orders/user/:userId", orderController.GetOrdersByUser)
			customerApi.GET("/orders/:id", orderController.GetOrder)
			customerApi.GET("/users/:id", userController.GetUser)

			adminApi := protectedApi.Group("/admin")
			adminApi.Use(middleware.RequireRole(models.RoleAdmin), rateLimit(conf, middleware.AdminPolicy))
			{
				adminApi.GET("/orders", orderController.GetRecentOrders)
				adminApi.PUT("/orders/:id", orderController.UpdateOrderStatus)

				adminApi.GET("/fastfoods", fastFoodController.GetAllFastFoods)
				adminApi.POST("/fastfoods", fastFoodController.CreateFastFood)
				adminApi.PUT("/fastfoods/:id", fastFoodController.UpdateFastFood)
				adminApi.DELETE("/fastfoods/:id", fastFoodController.DeleteFastFood)
				adminApi.PUT("/fastfoods/:id/lock", fastFoodController.ToggleFastFood)
				adminApi.POST("/fastfoods/:id/image", fastFoodController.UploadFastFoodImage)

				adminApi.GET("/combos", comboController.GetAllCombos)
				adminApi.POST("/combos", comboController.CreateCombo)
				adminApi.PUT("/combos/:id", comboController.UpdateCombo)
				adminApi.DELETE("/combos/:id", comboController.DeleteCombo)
				adminApi.PUT("/combos/:id/lock", comboController.ToggleCombo)
				adminApi.POST("/combos/:id/image", comboController.UploadComboImage)

				adminApi.POST("/categories", categoryController.CreateCategory)
				adminApi.PUT("/categories/:id", categoryController.UpdateCategory)
				adminApi.DELETE("/categories/:id", categoryController.DeleteCategory)

				adminApi.GET("/users", userController.ListUsers)
				adminApi.POST("/users", userController.CreateUser)
				adminApi.PUT("/users/:id", userController.UpdateUser)
				adminApi.DELETE("/users/:id", userController.DeleteUser)
				adminApi.PUT("/users/:id/lock", userController.ToggleUser)

				adminApi.GET("/clients", clientController.ListClients)
				adminApi.POST("/clients", clientController.CreateClient)
				adminApi.DELETE("/clients/:id", clientController.DeleteClient)
			}
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}

// rateLimit returns the limiter for policy, or a pass-through when limits are disabled
func rateLimit(conf *config.Config, policy middleware.RateLimitPolicy) gin.HandlerFunc {
	if !conf.RateLimitEnabled {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(policy)
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service and its database are reachable
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "gin-fastfood-api",
		})
	}
}
