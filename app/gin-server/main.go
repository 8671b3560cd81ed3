package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/trident-ems/trident/config"
	"github.com/trident-ems/trident/internal/api/handlers"
	"github.com/trident-ems/trident/internal/api/middleware"
	"github.com/trident-ems/trident/internal/api/routes"
	"github.com/trident-ems/trident/internal/audio"
	"github.com/trident-ems/trident/internal/cache"
	"github.com/trident-ems/trident/internal/logger"
	"github.com/trident-ems/trident/internal/models"
	"github.com/trident-ems/trident/internal/providers/asr"
	"github.com/trident-ems/trident/internal/providers/bioacoustic"
	"github.com/trident-ems/trident/internal/providers/nlp"
	mongorepo "github.com/trident-ems/trident/internal/repositories/mongo"
	pgrepo "github.com/trident-ems/trident/internal/repositories/postgres"
	"github.com/trident-ems/trident/internal/services"
	"github.com/trident-ems/trident/internal/session"
	"github.com/trident-ems/trident/internal/storage"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()
	ctx := context.Background()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.PostgresDB.AutoMigrate(&models.LiveCall{}); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	l.Info("PostgreSQL connected")

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	l.Info("MongoDB connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	tuning := config.LoadTuning()

	// Providers are process-lifetime singletons shared by every call.
	speech, err := asr.NewGoogleSpeech(ctx, tuning.SampleRate, os.Getenv("SPEECH_LANGUAGE"))
	if err != nil {
		log.Fatalf("Speech client init error: %v", err)
	}
	defer speech.Close()

	extractor := bioacoustic.NewExtractor(tuning.SampleRate)

	gemini, err := nlp.NewVertexGemini(ctx,
		os.Getenv("VERTEX_PROJECT_ID"),
		os.Getenv("VERTEX_LOCATION"),
		os.Getenv("VERTEX_MODEL"),
	)
	if err != nil {
		log.Fatalf("Vertex client init error: %v", err)
	}
	defer gemini.Close()

	// Audio retention is optional; without a bucket flagged calls simply
	// have no recording to review.
	var uploader *storage.GCSUploader
	if bucket := os.Getenv("GCS_AUDIO_BUCKET"); bucket != "" {
		uploader, err = storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer uploader.Close()
	}

	callRepo := pgrepo.NewCallRepo(config.PostgresDB)
	utteranceRepo := mongorepo.NewUtteranceRepo(config.MongoClient.Database(config.MongoDBName()))
	redisCache := cache.NewRedisCache(config.RedisClient)

	callSvc := services.NewCallService(callRepo, redisCache, 0)
	analyzeSvc := services.NewAnalyzeService(speech, extractor, gemini)

	sessionDeps := session.Deps{
		ASR:        speech,
		Bio:        extractor,
		NLP:        gemini,
		Calls:      callSvc,
		Utterances: utteranceRepo,
		Logger:     l,
	}
	var signer storage.Signer
	if uploader != nil {
		sessionDeps.Uploader = uploader
		signer = uploader
	}

	liveOpts := handlers.LiveOptions{
		Buffer: audio.BufferConfig{
			SampleRate:      tuning.SampleRate,
			EnergyThreshold: tuning.EnergyThreshold,
			SilenceDuration: tuning.SilenceDuration,
			OverflowCap:     tuning.OverflowCap,
		},
		MinFinalizeBuffer: tuning.MinFinalizeBuffer,
		UtteranceTTL:      tuning.UtteranceTTL,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Calls:   handlers.NewCallHandler(callSvc, signer),
		Analyze: handlers.NewAnalyzeHandler(analyzeSvc),
		Live:    handlers.NewLiveHandler(sessionDeps, liveOpts, l),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
