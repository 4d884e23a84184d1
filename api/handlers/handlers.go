package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"blogpilot/db"
	"blogpilot/scheduler"
	"blogpilot/services"
)

// ListCategoriesHandler godoc
// @Summary      List categories
// @Description  List content categories, optionally only active ones
// @Tags         categories
// @Param        active_only  query  bool  false  "Show only active categories"
// @Produce      json
// @Success      200  {array}  dto.CategoryDTO
// @Router       /categories [get]
func ListCategoriesHandler(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "false"))
		items, err := svc.List(c.Request.Context(), activeOnly)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// CreateCategoryHandler godoc
// @Summary      Create category
// @Description  Create a new content category with a unique name
// @Tags         categories
// @Accept       json
// @Param        category  body  services.CreateCategoryInput  true  "Category"
// @Produce      json
// @Success      201  {object}  dto.CategoryDTO
// @Failure      400  {object}  map[string]string
// @Router       /categories [post]
func CreateCategoryHandler(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreateCategoryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		created, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			if errors.Is(err, services.ErrCategoryExists) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "category already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// UpdateCategoryHandler godoc
// @Summary      Update category
// @Description  Update name, description or active flag of a category
// @Tags         categories
// @Accept       json
// @Param        id        path  string                        true  "ObjectID"
// @Param        category  body  services.UpdateCategoryInput  true  "Fields to update"
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /categories/{id} [patch]
func UpdateCategoryHandler(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.UpdateCategoryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := svc.Update(c.Request.Context(), c.Param("id"), in); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "category updated"})
	}
}

// ListTopicsHandler godoc
// @Summary      List topics
// @Description  List topics with optional status filter and pagination
// @Tags         topics
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Param        status     query  string  false  "pending|in_progress|completed|failed"
// @Produce      json
// @Success      200  {object}  dto.PaginationTopicDTO
// @Router       /topics [get]
func ListTopicsHandler(svc *services.TopicService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
		result, err := svc.List(c.Request.Context(), services.ListTopicsInput{
			Page:     page,
			PageSize: pageSize,
			Status:   c.Query("status"),
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// ListUpcomingTopicsHandler godoc
// @Summary      Upcoming topics
// @Description  List pending topics scheduled within the next N days
// @Tags         topics
// @Param        days  query  int  false  "Days to look ahead (default 7)"
// @Produce      json
// @Success      200  {array}  dto.TopicDTO
// @Router       /topics/upcoming [get]
func ListUpcomingTopicsHandler(svc *services.TopicService) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
		items, err := svc.Upcoming(c.Request.Context(), days)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// ListBlogsHandler godoc
// @Summary      List blogs
// @Description  List blogs with optional status filter and pagination
// @Tags         blogs
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Param        status     query  string  false  "draft|published|failed"
// @Produce      json
// @Success      200  {object}  dto.PaginationBlogDTO
// @Router       /blogs [get]
func ListBlogsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
		result, err := svc.List(c.Request.Context(), services.ListBlogsInput{
			Page:     page,
			PageSize: pageSize,
			Status:   c.Query("status"),
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GetBlogHandler godoc
// @Summary      Get blog by id
// @Description  Get full blog detail including content, topic and category
// @Tags         blogs
// @Param        id  path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.BlogDetailDTO
// @Failure      404  {object}  map[string]string
// @Router       /blogs/{id} [get]
func GetBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		blog, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, blog)
	}
}

// TriggerJobHandler godoc
// @Summary      Trigger job
// @Description  Start a pipeline job in the background
// @Tags         jobs
// @Param        job_id  path  string  true  "topic_generation|blog_publishing"
// @Produce      json
// @Success      202  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /scheduler/run/{job_id} [post]
func TriggerJobHandler(sched *scheduler.Scheduler, jobID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := jobID
		if id == "" {
			id = c.Param("job_id")
		}
		switch err := sched.RunNow(id); {
		case errors.Is(err, scheduler.ErrUnknownJob):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown job: " + id})
		case errors.Is(err, scheduler.ErrAlreadyRunning):
			c.JSON(http.StatusConflict, gin.H{"error": "job is already running"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusAccepted, gin.H{"message": "job " + id + " triggered"})
		}
	}
}

// ListScheduledJobsHandler godoc
// @Summary      List scheduled jobs
// @Description  List registered jobs with cron specs and next run times
// @Tags         jobs
// @Produce      json
// @Success      200  {array}  scheduler.JobInfo
// @Router       /scheduler/jobs [get]
func ListScheduledJobsHandler(sched *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, sched.Jobs())
	}
}

// StatsHandler godoc
// @Summary      System statistics
// @Description  Counts of categories, topics and blogs by state
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  dto.StatsDTO
// @Router       /stats [get]
func StatsHandler(svc *services.OpsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// ListLogsHandler godoc
// @Summary      Job run logs
// @Description  List pipeline run logs, newest first, optionally by job type
// @Tags         monitoring
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Param        job_type   query  string  false  "topic_generation|blog_publishing"
// @Produce      json
// @Success      200  {object}  dto.PaginationRunLogDTO
// @Router       /logs [get]
func ListLogsHandler(svc *services.OpsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
		result, err := svc.Logs(c.Request.Context(), services.ListLogsInput{
			Page:     page,
			PageSize: pageSize,
			JobType:  c.Query("job_type"),
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// HealthHandler godoc
// @Summary      Health check
// @Description  Pings storage and reports service health
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func HealthHandler(database *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(c.Request.Context(), database); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"mongo":  "down",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
