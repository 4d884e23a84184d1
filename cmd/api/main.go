package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"blogpilot/api/router"
	"blogpilot/clients/gemini"
	"blogpilot/clients/hashnode"
	"blogpilot/clients/news"
	"blogpilot/config"
	"blogpilot/db"
	_ "blogpilot/docs" // swag will generate this package
	"blogpilot/jobs"
	"blogpilot/logger"
	"blogpilot/repositories"
	"blogpilot/retry"
	"blogpilot/scheduler"
	"blogpilot/services"
	"blogpilot/storage"
)

// @title           BlogPilot API
// @version         1.0
// @description     API for managing automated blog topic generation and publishing
// @BasePath        /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("load config: %v", err)
	}
	logger.Init(cfg.Logging.Level)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	database, err := db.Connect(ctx, cfg.Mongo)
	cancel()
	if err != nil {
		logger.Log.Fatalf("connect mongo: %v", err)
	}

	policy := retry.Default()

	gen, err := gemini.New(context.Background(), cfg.Gemini, policy)
	if err != nil {
		logger.Log.Fatalf("init gemini client: %v", err)
	}
	publisher := hashnode.New(cfg.Hashnode, policy)

	var newsClient jobs.NewsFetcher
	if cfg.News.Enabled {
		newsClient = news.New(cfg.News)
	}

	var uploader jobs.Uploader
	if cfg.Images.Enabled && cfg.Storage.Configured() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		store, err := storage.NewMinIOStorage(ctx, cfg.Storage)
		cancel()
		if err != nil {
			logger.Log.Fatalf("init object storage: %v", err)
		}
		uploader = store
	}

	categories := repositories.NewCategoryRepository(database)
	topics := repositories.NewTopicRepository(database)
	blogs := repositories.NewBlogRepository(database)
	history := repositories.NewGenerationHistoryRepository(database)
	runLogs := repositories.NewRunLogRepository(database)

	topicGen := &jobs.TopicGenerator{
		Categories: categories,
		Topics:     topics,
		History:    history,
		RunLogs:    runLogs,
		Gen:        gen,
		News:       newsClient,
		Cfg:        cfg.Topics,
	}
	blogPub := &jobs.BlogPublisher{
		Categories: categories,
		Topics:     topics,
		Blogs:      blogs,
		RunLogs:    runLogs,
		Gen:        gen,
		Images:     gen,
		Upload:     uploader,
		Publish:    publisher,
		ImagesOn:   cfg.Images.Enabled && uploader != nil,
	}

	sched := scheduler.New()
	if err := sched.Register("topic_generation", "Weekly topic generation", cfg.Schedule.TopicGeneration, topicGen.Run); err != nil {
		logger.Log.Fatalf("register topic generation job: %v", err)
	}
	if err := sched.Register("blog_publishing", "Daily blog publishing", cfg.Schedule.BlogPublishing, blogPub.Run); err != nil {
		logger.Log.Fatalf("register blog publishing job: %v", err)
	}
	sched.Start()

	r := router.New(database, router.Services{
		Categories: services.NewCategoryService(categories),
		Topics:     services.NewTopicService(topics),
		Blogs:      services.NewBlogService(blogs, topics, categories),
		Ops:        services.NewOpsService(categories, topics, blogs, runLogs),
	}, sched)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: cors.Default().Handler(r),
	}

	go func() {
		logger.InfoWithFields("server listening", logger.Fields{"addr": cfg.Server.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	sched.Stop()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("shutdown: %v", err)
	}
}
