package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/online-courses-api/database"
	"github.com/sahilchouksey/online-courses-api/handlers"
	auth_handlers "github.com/sahilchouksey/online-courses-api/handlers/auth"
	category_handlers "github.com/sahilchouksey/online-courses-api/handlers/category"
	course_handlers "github.com/sahilchouksey/online-courses-api/handlers/course"
	enrollment_handlers "github.com/sahilchouksey/online-courses-api/handlers/enrollment"
	lesson_handlers "github.com/sahilchouksey/online-courses-api/handlers/lesson"
	report_handlers "github.com/sahilchouksey/online-courses-api/handlers/report"
	"github.com/sahilchouksey/online-courses-api/repository"
	"github.com/sahilchouksey/online-courses-api/services"
	"github.com/sahilchouksey/online-courses-api/services/cron"
	"github.com/sahilchouksey/online-courses-api/utils"
	"github.com/sahilchouksey/online-courses-api/utils/auth"
	"github.com/sahilchouksey/online-courses-api/utils/cache"
	"github.com/sahilchouksey/online-courses-api/utils/middleware"
)

// Dependencies are the long-lived objects the routes are built from
type Dependencies struct {
	Store      database.Storage
	JWT        *auth.JWTManager
	Blacklist  *auth.BlacklistService
	Redis      *cache.RedisCache // nil disables brute force protection
	Dispatcher report_handlers.Dispatcher
	ReportJob  cron.Job
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	db := deps.Store.GetDB()

	// Repositories
	userRepo := repository.NewUserRepo(db)
	courseRepo := repository.NewCourseRepo(db)
	lessonRepo := repository.NewLessonRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	enrollmentRepo := repository.NewEnrollmentRepo(db)

	// Services
	authService := services.NewAuthService(userRepo, deps.JWT, deps.Blacklist)
	courseService := services.NewCourseService(courseRepo, categoryRepo)
	lessonService := services.NewLessonService(lessonRepo, courseRepo)
	enrollmentService := services.NewEnrollmentService(enrollmentRepo, courseRepo)

	// Middleware
	var bruteForceProtection *middleware.BruteForceProtection
	if deps.Redis != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(deps.Redis)
	}
	authMiddleware := middleware.NewAuthMiddleware(deps.JWT, deps.Blacklist, userRepo)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(authService, bruteForceProtection)
	courseHandler := course_handlers.NewCourseHandler(courseService)
	lessonHandler := lesson_handlers.NewLessonHandler(lessonService)
	categoryHandler := category_handlers.NewCategoryHandler(categoryRepo, courseService)
	enrollmentHandler := enrollment_handlers.NewEnrollmentHandler(enrollmentService)
	reportHandler := report_handlers.NewReportHandler(deps.Dispatcher, deps.ReportJob)

	// ========== Public routes ==========
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, deps.Store))
	app.Post("/login", bruteForceProtection.CheckLockout(), authHandler.Login)

	// ========== Protected routes ==========
	protected := app.Group("", authMiddleware.Required())

	protected.Post("/logout", authHandler.Logout)
	protected.Post("/refresh", authHandler.Refresh)
	protected.Get("/me", authHandler.Me)

	// Static segments are registered before /:id so they are not captured by it
	courses := protected.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)
	courses.Get("/published", courseHandler.ListPublishedCourses)
	courses.Get("/slug/:slug", courseHandler.GetCourseBySlug)
	courses.Get("/:id", courseHandler.GetCourse)
	courses.Post("/", courseHandler.CreateCourse)
	courses.Put("/:id", courseHandler.UpdateCourse)
	courses.Delete("/:id", courseHandler.DeleteCourse)
	courses.Get("/:id/lessons", lessonHandler.ListCourseLessons)
	courses.Get("/:id/enrollments", courseHandler.GetCourseEnrollments)
	courses.Post("/:id/enroll", enrollmentHandler.Enroll)

	lessons := protected.Group("/lessons")
	lessons.Get("/", lessonHandler.ListLessons)
	lessons.Get("/free", lessonHandler.ListFreeLessons)
	lessons.Get("/slug/:slug", lessonHandler.GetLessonBySlug)
	lessons.Get("/:id", lessonHandler.GetLesson)
	lessons.Post("/", lessonHandler.CreateLesson)
	lessons.Put("/:id", lessonHandler.UpdateLesson)
	lessons.Patch("/:id/order", lessonHandler.UpdateLessonOrder)
	lessons.Delete("/:id", lessonHandler.DeleteLesson)

	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.ListCategories)
	categories.Get("/:id/courses", categoryHandler.ListCategoryCourses)

	enrollments := protected.Group("/enrollments")
	enrollments.Get("/", enrollmentHandler.ListEnrollments)
	enrollments.Put("/:id/progress", enrollmentHandler.UpdateProgress)

	protected.Post("/reports/courses", reportHandler.GenerateCourseReport)
}
