package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/schoolink/comms/internal/appointments"
	"github.com/schoolink/comms/internal/chat"
	"github.com/schoolink/comms/internal/database"
	"github.com/schoolink/comms/internal/handlers"
	"github.com/schoolink/comms/internal/relay"
	"github.com/schoolink/comms/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	Hub        *relay.Hub
	JWTManager *auth.JWTManager
	Logger     *zap.Logger
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	logger := NewLogger(os.Getenv("APP_ENV"))

	db, err := database.Connect()
	if err != nil {
		logger.Fatal("postgres connect failed", zap.Error(err))
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		logger.Fatal("invalid REDIS_URL", zap.Error(err))
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("redis connect failed", zap.Error(err))
	}

	jwtMgr := auth.NewJWTManager(os.Getenv("JWT_SECRET"), 24*time.Hour)

	hub := relay.NewHub(logger)
	go hub.Run()

	apptSvc := appointments.NewService(db, logger)
	chatSvc := chat.NewService(db, hub, logger)

	apptH := handlers.NewAppointmentHandler(apptSvc, hub, logger)
	msgH := handlers.NewMessageHandler(chatSvc, logger)
	userH := handlers.NewUserHandler(db, logger)
	sessionH := handlers.NewSessionHandler(jwtMgr, rdb)
	socketH := handlers.NewSocketHandler(hub, handlers.NewChatSocket(apptSvc, chatSvc, hub, logger), logger)

	router := gin.Default()
	APIEndpoints(router, jwtMgr, rdb, apptH, msgH, userH, sessionH, socketH)

	return &Server{
		Router:     router,
		DB:         db,
		Redis:      rdb,
		Hub:        hub,
		JWTManager: jwtMgr,
		Logger:     logger,
	}
}

// Run serves until SIGINT or SIGTERM, then drains HTTP and tears the relay
// down so no pump goroutine is left blocked on a dead hub.
func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: s.Router}

	go func() {
		s.Logger.Info("server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Fatal("server run error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.Logger.Info("server stopping")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Logger.Error("http shutdown error", zap.Error(err))
	}

	s.Hub.Stop()
	if err := s.Redis.Close(); err != nil {
		s.Logger.Error("redis close error", zap.Error(err))
	}
	s.Logger.Info("server stopped")
}
