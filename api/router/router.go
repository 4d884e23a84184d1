package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"blogpilot/api/handlers"
	_ "blogpilot/docs"
	"blogpilot/scheduler"
	"blogpilot/services"
)

// Services bundles the application services the API exposes.
type Services struct {
	Categories *services.CategoryService
	Topics     *services.TopicService
	Blogs      *services.BlogService
	Ops        *services.OpsService
}

func New(database *mongo.Database, svcs Services, sched *scheduler.Scheduler) *gin.Engine {
	r := gin.Default()

	r.GET("/health", handlers.HealthHandler(database))

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.GET("/categories", handlers.ListCategoriesHandler(svcs.Categories))
		api.POST("/categories", handlers.CreateCategoryHandler(svcs.Categories))
		api.PATCH("/categories/:id", handlers.UpdateCategoryHandler(svcs.Categories))

		api.GET("/topics", handlers.ListTopicsHandler(svcs.Topics))
		api.GET("/topics/upcoming", handlers.ListUpcomingTopicsHandler(svcs.Topics))

		api.GET("/blogs", handlers.ListBlogsHandler(svcs.Blogs))
		api.GET("/blogs/:id", handlers.GetBlogHandler(svcs.Blogs))

		api.POST("/jobs/generate-topics", handlers.TriggerJobHandler(sched, "topic_generation"))
		api.POST("/jobs/publish-blog", handlers.TriggerJobHandler(sched, "blog_publishing"))

		api.GET("/scheduler/jobs", handlers.ListScheduledJobsHandler(sched))
		api.POST("/scheduler/run/:job_id", handlers.TriggerJobHandler(sched, ""))

		api.GET("/stats", handlers.StatsHandler(svcs.Ops))
		api.GET("/logs", handlers.ListLogsHandler(svcs.Ops))
	}

	return r
}
