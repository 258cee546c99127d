package main

import (
	"log"
	"time"

	"doc2quiz-service/internal/config"
	"doc2quiz-service/internal/event"
	"doc2quiz-service/internal/handlers"
	"doc2quiz-service/internal/llm"
	"doc2quiz-service/internal/repository"
	"doc2quiz-service/internal/selection"
	"doc2quiz-service/internal/service"
	"doc2quiz-service/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	if cfg.LLMAPIKey == "" {
		log.Println("DASHSCOPE_API_KEY not set, oracle calls will be unauthenticated")
	}

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURI != "" && cfg.RabbitMQExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	store := storage.NewStore(cfg.DataDir)
	oracle := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)

	// Repositories over the flat JSON store
	knowledgeRepo := repository.NewKnowledgeRepository(store)
	questionRepo := repository.NewQuestionRepository(store)
	bankRepo := repository.NewBankRepository(store)
	quizRepo := repository.NewQuizRepository(store)

	// Services
	knowledgeService := service.NewKnowledgeService(knowledgeRepo, oracle, cfg.FileDir)
	questionService := service.NewQuestionService(questionRepo, knowledgeRepo, oracle, cfg.FileDir)
	bankService := service.NewBankService(bankRepo, questionRepo, knowledgeRepo)
	quizService := service.NewQuizService(quizRepo, questionRepo, selection.NewComposer())

	// Handlers
	knowledgeHandler := handlers.NewKnowledgeHandler(knowledgeService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	bankHandler := handlers.NewBankHandler(bankService)
	quizHandler := handlers.NewQuizHandler(quizService)

	r := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	knowledge := r.Group("/api/knowledge")
	{
		knowledge.POST("/file/upload", knowledgeHandler.UploadFile)
		knowledge.POST("/file/upload-multiple", knowledgeHandler.UploadMultipleFiles)
		knowledge.GET("/file/list", knowledgeHandler.ListFiles)
		knowledge.POST("/tree/save", func(c *gin.Context) {
			knowledgeHandler.SaveTree(c)
			if publisher != nil {
				publisher.Publish(event.KnowledgeTreeSaved, gin.H{"timestamp": time.Now()})
			}
		})
		knowledge.GET("/tree/load", knowledgeHandler.LoadTree)
		knowledge.POST("/point/extract", func(c *gin.Context) {
			knowledgeHandler.ExtractPoints(c)
			if publisher != nil {
				publisher.Publish(event.KnowledgePointsMerged, gin.H{"timestamp": time.Now()})
			}
		})
		knowledge.GET("/point/list", knowledgeHandler.ListPoints)
		knowledge.DELETE("/point/delete", func(c *gin.Context) {
			knowledgeHandler.DeletePoints(c)
			if publisher != nil {
				publisher.Publish(event.KnowledgePointsPurged, gin.H{
					"knowledge_item_id": c.Query("knowledge_item_id"),
					"timestamp":         time.Now(),
				})
			}
		})
	}

	generation := r.Group("/api/quiz")
	{
		generation.POST("/generate", questionHandler.Generate)
		generation.GET("/history", questionHandler.History)
	}

	bank := r.Group("/api/bank")
	{
		bank.POST("/bank/create", func(c *gin.Context) {
			bankHandler.CreateBank(c)
			if publisher != nil {
				publisher.Publish(event.BankCreated, gin.H{"timestamp": time.Now()})
			}
		})
		bank.GET("/bank/list", bankHandler.ListBanks)
		bank.POST("/question/save", func(c *gin.Context) {
			bankHandler.SaveQuestions(c)
			if publisher != nil {
				publisher.Publish(event.QuestionBatchSaved, gin.H{"timestamp": time.Now()})
			}
		})
		bank.POST("/question/update-bank", func(c *gin.Context) {
			bankHandler.UpdateQuestionBank(c)
			if publisher != nil {
				publisher.Publish(event.QuestionBankAssigned, gin.H{"timestamp": time.Now()})
			}
		})
		bank.GET("/question/list", bankHandler.ListQuestions)
		bank.DELETE("/question/delete", bankHandler.DeleteQuestion)
		bank.GET("/question/type-statistics", bankHandler.TypeStatistics)
		bank.POST("/quiz/compose", func(c *gin.Context) {
			quizHandler.Compose(c)
			if publisher != nil {
				publisher.Publish(event.QuizComposed, gin.H{"timestamp": time.Now()})
			}
		})
		bank.GET("/tree/load-for-compose", bankHandler.LoadTreeForCompose)
		bank.GET("/quiz-bank/list", quizHandler.ListQuizzes)
		bank.GET("/quiz/:quiz_id/questions", quizHandler.QuizQuestions)
		bank.POST("/quiz/create", func(c *gin.Context) {
			quizHandler.CreateQuiz(c)
			if publisher != nil {
				publisher.Publish(event.QuizCreated, gin.H{"timestamp": time.Now()})
			}
		})
		bank.POST("/quiz/update-quiz-info", quizHandler.UpdateQuizInfo)
	}

	r.Run(":" + cfg.Port)
}
