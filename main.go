package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/VSO-Labs/Daddy-John-Backend/config"
	"github.com/VSO-Labs/Daddy-John-Backend/controller"
	"github.com/VSO-Labs/Daddy-John-Backend/dao"
	"github.com/VSO-Labs/Daddy-John-Backend/logger"
	"github.com/VSO-Labs/Daddy-John-Backend/logic"
	"github.com/VSO-Labs/Daddy-John-Backend/middleware"
	"github.com/VSO-Labs/Daddy-John-Backend/models"
	"github.com/VSO-Labs/Daddy-John-Backend/pkg"
)

func main() {
	// Initialize config
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run main.go <config.yaml>")
	}
	configFile := os.Args[1]
	if err := config.LoadConfig(configFile); err != nil {
		log.Fatalf("Failed to load config from %s: %v", configFile, err)
	}
	cfg := &config.GlobalConfig

	baseLog, err := logger.New(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer baseLog.Sync()

	// Initialize database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		baseLog.Fatal("failed to connect to database", "error", err.Error())
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.SubscriptionPlan{},
		&models.UserSubscription{},
		&models.DailyUsage{},
	); err != nil {
		baseLog.Fatal("failed to migrate database", "error", err.Error())
	}

	usageLoc, err := time.LoadLocation(cfg.Usage.Timezone)
	if err != nil {
		baseLog.Fatal("invalid usage timezone", "timezone", cfg.Usage.Timezone, "error", err.Error())
	}

	// Initialize DAOs
	userDAO := dao.NewUserDAO(db)
	convoDAO := dao.NewConversationDAO(db)
	messageDAO := dao.NewMessageDAO(db)
	planDAO := dao.NewSubscriptionPlanDAO(db)
	subDAO := dao.NewUserSubscriptionDAO(db)
	usageDAO := dao.NewDailyUsageDAO(db)

	// Seed plan reference data; the Free plan is a deployment precondition
	if err := planDAO.SeedDefaultPlans(context.Background()); err != nil {
		baseLog.Fatal("failed to seed subscription plans", "error", err.Error())
	}

	// Initialize outbound clients
	chatClient := pkg.NewChatClient(
		cfg.Chatbot.URL,
		cfg.ConnectTimeout(),
		cfg.ResponseTimeout(),
		cfg.Chatbot.MaxRetries,
		cfg.RetryBase(),
		baseLog,
	)
	fileStore := pkg.NewFileStore(cfg.Upload.Dir, cfg.Upload.BaseURL, baseLog)

	// Initialize Logics
	userLogic := logic.NewUserLogic(userDAO, cfg.Auth.Secret, cfg.Auth.ExpHour, baseLog)
	convoLogic := logic.NewConversationLogic(userDAO, convoDAO, messageDAO, fileStore, baseLog)
	subLogic := logic.NewSubscriptionLogic(subDAO, planDAO, baseLog)
	usageLogic := logic.NewUsageLogic(usageDAO, subLogic, usageLoc, time.Now, baseLog)
	messageLogic := logic.NewMessageLogic(
		convoLogic, messageDAO, usageLogic, chatClient, fileStore,
		cfg.Chatbot.MaxHistory,
		cfg.Upload.MaxPhotos,
		int64(cfg.Upload.MaxPhotoSizeMB)*1024*1024,
		baseLog,
	)

	// Initialize Controllers
	userCtrl := controller.NewUserController(userLogic)
	convoCtrl := controller.NewConversationController(convoLogic)
	messageCtrl := controller.NewMessageController(messageLogic)
	subCtrl := controller.NewSubscriptionController(subLogic, usageLogic, userDAO)

	// Setup Gin router
	if cfg.Server.Mode == "prod" || cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Static("/files", cfg.Upload.Dir)

	r.POST("/api/auth/register", userCtrl.Register)
	r.POST("/api/auth/login", userCtrl.Login)

	api := r.Group("/api", middleware.Auth)
	api.POST("/conversations", convoCtrl.CreateConversation)
	api.GET("/conversations", convoCtrl.GetConversations)
	api.PUT("/conversations/:id", convoCtrl.RenameConversation)
	api.DELETE("/conversations/:id", convoCtrl.DeleteConversation)
	api.POST("/conversations/:id/messages", messageCtrl.SendMessage)
	api.POST("/conversations/:id/messages/with-photos", messageCtrl.SendMessageWithPhotos)
	api.GET("/conversations/:id/messages", messageCtrl.GetMessages)
	api.GET("/conversations/:id/messages/summary", messageCtrl.GetSummary)
	api.GET("/conversations/:id/messages/:messageId", messageCtrl.GetMessage)
	api.DELETE("/conversations/:id/messages/:messageId", messageCtrl.DeleteMessage)
	api.GET("/subscription", subCtrl.GetSubscription)
	api.POST("/subscription", subCtrl.ActivatePlan)
	api.GET("/usage/today", subCtrl.GetTodayUsage)

	baseLog.Info("server starting", "port", cfg.Server.Port)
	if err := r.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		baseLog.Fatal("failed to run server", "error", err.Error())
	}
}
