package app

import (
	"mindleap_backend/docs"
	"mindleap_backend/internal/controller"
	"mindleap_backend/internal/middleware"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/service"
	"mindleap_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.Config.JWT.Secret))
	{
		// 所有角色通用
		authGroup.PUT("/password", c.auth.ChangePassword)

		// 学生接口
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员/子管理员接口
	a.registerAdminRoutes(router, c, s)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/subjects", c.catalog.ListSubjects)
		public.GET("/webinars", c.event.PublicWebinars)
		public.GET("/workshops", c.event.PublicWorkshops)

		public.POST("/school-requests", c.inquiry.SubmitSchoolRequest)
		public.POST("/contact", c.inquiry.SubmitContact)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	student := rg.Group("")
	student.Use(middleware.RoleMiddleware(model.RoleStudent))
	{
		student.GET("/profile", c.student.GetProfile)
		student.PUT("/profile", c.student.UpdateProfile)

		// 每日挑战
		streak := student.Group("/streak")
		{
			streak.GET("/today", c.streak.Today)
			streak.GET("/week", c.streak.Week)
			streak.POST("/answer", c.streak.Answer)
			streak.GET("/summary", c.streak.Summary)
		}

		student.GET("/leaderboard", c.leaderboard.Leaderboard)
		student.GET("/reports/monthly", c.report.Monthly)

		// 测验
		quizzes := student.Group("/quizzes")
		{
			quizzes.GET("", c.quiz.ListOpen)
			quizzes.GET("/attempts/me", c.quiz.MyAttempts)
			quizzes.GET("/:id", c.quiz.Get)
			quizzes.POST("/:id/attempts", c.quiz.Submit)
		}
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, s *services) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(a.Config.JWT.Secret), middleware.RoleMiddleware(model.RoleSubAdmin))
	{
		// 题库与科目
		catalog := admin.Group("")
		catalog.Use(middleware.PermissionMiddleware(s.subAdmin, service.PermCatalog))
		{
			catalog.POST("/subjects", c.catalog.CreateSubject)
			catalog.PUT("/subjects/:id", c.catalog.UpdateSubject)
			catalog.DELETE("/subjects/:id", c.catalog.DeleteSubject)
			catalog.GET("/subjects/:id/questions", c.catalog.ListQuestions)
			catalog.POST("/subjects/:id/questions", c.catalog.CreateQuestion)
			catalog.GET("/questions/:id", c.catalog.GetQuestion)
			catalog.PUT("/questions/:id", c.catalog.UpdateQuestion)
			catalog.DELETE("/questions/:id", c.catalog.DeleteQuestion)
			catalog.POST("/uploads/image", c.catalog.UploadImage)
		}

		quizzes := admin.Group("/quizzes")
		quizzes.Use(middleware.PermissionMiddleware(s.subAdmin, service.PermQuizzes))
		{
			quizzes.GET("", c.quiz.AdminList)
			quizzes.POST("", c.quiz.Create)
			quizzes.PUT("/:id", c.quiz.Update)
			quizzes.DELETE("/:id", c.quiz.Delete)
			quizzes.GET("/:id/attempts", c.quiz.Attempts)
		}

		a.registerEventRoutes(admin, c.event, s)

		inquiries := admin.Group("")
		inquiries.Use(middleware.PermissionMiddleware(s.subAdmin, service.PermInquiries))
		{
			inquiries.GET("/school-requests", c.inquiry.ListSchoolRequests)
			inquiries.PUT("/school-requests/:id/status", c.inquiry.UpdateSchoolRequestStatus)
			inquiries.GET("/contact-queries", c.inquiry.ListContactQueries)
			inquiries.PUT("/contact-queries/:id/resolve", c.inquiry.ResolveContactQuery)
		}

		// 以下仅限管理员
		owner := admin.Group("")
		owner.Use(middleware.RoleMiddleware(model.RoleAdmin))
		{
			owner.POST("/sub-admins", c.subAdmin.Create)
			owner.GET("/sub-admins", c.subAdmin.List)
			owner.PUT("/sub-admins/:id", c.subAdmin.UpdatePermissions)
			owner.DELETE("/sub-admins/:id", c.subAdmin.Delete)

			owner.GET("/users", c.user.GetUsers)
			owner.PUT("/users/:id/disable", c.user.DisableUser)
			owner.PUT("/users/:id/reset-password", c.user.ResetPassword)

			owner.GET("/students", c.student.ListStudents)
			owner.GET("/leaderboard", c.leaderboard.AdminLeaderboard)
		}
	}
}

func (a *App) registerEventRoutes(admin *gin.RouterGroup, ec *controller.EventController, s *services) {
	events := admin.Group("")
	events.Use(middleware.PermissionMiddleware(s.subAdmin, service.PermEvents))
	{
		events.GET("/webinars", ec.ListWebinars)
		events.POST("/webinars", ec.CreateWebinar)
		events.PUT("/webinars/:id", ec.UpdateWebinar)
		events.DELETE("/webinars/:id", ec.DeleteWebinar)
		events.POST("/webinars/:id/recording", ec.UploadRecording)

		events.GET("/workshops", ec.ListWorkshops)
		events.POST("/workshops", ec.CreateWorkshop)
		events.PUT("/workshops/:id", ec.UpdateWorkshop)
		events.DELETE("/workshops/:id", ec.DeleteWorkshop)
	}
}
