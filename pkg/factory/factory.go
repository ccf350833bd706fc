package factory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"forumapi/internal/config"
	"forumapi/internal/database"
	"forumapi/internal/domain"
	"forumapi/internal/repository"
	"forumapi/internal/service"
	"forumapi/internal/session"
	"forumapi/internal/upload"
	"forumapi/pkg/logger"
)

// sessionPrefix namespaces every session key in redis.
const sessionPrefix = "forumapi"

type Factory interface {
	GetLogger() logger.Logger
	GetConfig() *config.Config
	GetDB() *sql.DB
	GetRedisClient() *redis.Client
	GetSessionStore() domain.SessionStore
	GetUploadStore() *upload.Store

	GetUserRepository() domain.UserRepository
	GetPostRepository() domain.PostRepository
	GetCommentRepository() domain.CommentRepository

	GetUserService() domain.UserService
	GetPostService() domain.PostService
	GetCommentService() domain.CommentService
}

type AppFactory struct {
	config       *config.Config
	logger       logger.Logger
	db           *sql.DB
	redisClient  *redis.Client
	sessionStore domain.SessionStore
	uploadStore  *upload.Store

	userRepository    domain.UserRepository
	postRepository    domain.PostRepository
	commentRepository domain.CommentRepository

	userService    domain.UserService
	postService    domain.PostService
	commentService domain.CommentService
}

func NewFactory() (Factory, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.LogLevel(cfg.LogLevel), nil)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}

	factory := &AppFactory{
		config:       cfg,
		logger:       log,
		db:           db,
		redisClient:  redisClient,
		sessionStore: session.NewRedisStore(redisClient, log, sessionPrefix, cfg.Session.TTL),
		uploadStore:  upload.NewStore(cfg.Uploads.Dir, log),
	}

	factory.initRepositories()
	factory.initServices()

	return factory, nil
}

func (f *AppFactory) initRepositories() {
	f.userRepository = repository.NewUserRepository(f.db, f.logger)
	f.postRepository = repository.NewPostRepository(f.db, f.logger)
	f.commentRepository = repository.NewCommentRepository(f.db, f.logger)
}

func (f *AppFactory) initServices() {
	f.userService = service.NewUserService(
		f.userRepository,
		f.postRepository,
		f.commentRepository,
		f.sessionStore,
		f.uploadStore,
		f.logger,
	)
	f.postService = service.NewPostService(f.postRepository, f.uploadStore, f.logger)
	f.commentService = service.NewCommentService(f.commentRepository, f.postRepository, f.logger)
}

func (f *AppFactory) GetLogger() logger.Logger {
	return f.logger
}

func (f *AppFactory) GetConfig() *config.Config {
	return f.config
}

func (f *AppFactory) GetDB() *sql.DB {
	return f.db
}

func (f *AppFactory) GetRedisClient() *redis.Client {
	return f.redisClient
}

func (f *AppFactory) GetSessionStore() domain.SessionStore {
	return f.sessionStore
}

func (f *AppFactory) GetUploadStore() *upload.Store {
	return f.uploadStore
}

func (f *AppFactory) GetUserRepository() domain.UserRepository {
	return f.userRepository
}

func (f *AppFactory) GetPostRepository() domain.PostRepository {
	return f.postRepository
}

func (f *AppFactory) GetCommentRepository() domain.CommentRepository {
	return f.commentRepository
}

func (f *AppFactory) GetUserService() domain.UserService {
	return f.userService
}

func (f *AppFactory) GetPostService() domain.PostService {
	return f.postService
}

func (f *AppFactory) GetCommentService() domain.CommentService {
	return f.commentService
}
