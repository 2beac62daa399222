package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"github.com/MonsefRH/E-learn/application/services"
	"github.com/MonsefRH/E-learn/config"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/MonsefRH/E-learn/infrastructure/adapters"
	"github.com/MonsefRH/E-learn/infrastructure/gin_interface/controllers"
	"github.com/MonsefRH/E-learn/infrastructure/kafka"
	"github.com/MonsefRH/E-learn/infrastructure/scheduler"
	"github.com/MonsefRH/E-learn/middleware"
	mockgenerator "github.com/MonsefRH/E-learn/mock"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatal().Err(err).Msg("Failed to load .env file")
	}

	loggingConfig := config.GetLoggingConfig()
	zeroLogger := adapters.NewZerologWrapper(loggingConfig.Level, loggingConfig.Format)

	artifactsConfig, err := config.GetArtifactsConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get artifacts config")
	}

	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get pipeline config")
	}

	speechConfig, err := config.GetSpeechConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get speech config")
	}

	captureConfig, err := config.GetCaptureConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get capture config")
	}

	ffmpegConfig, err := config.GetFFmpegConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get ffmpeg config")
	}

	gatewayConfig, err := config.GetGatewayConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get gateway config")
	}

	modelConfig, err := config.GetModelConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get model config")
	}

	serverConfig, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get server config")
	}

	inboundAuthConfig, err := config.GetInboundAuthConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get inbound auth config")
	}

	authConfig, err := config.NewAuthorizerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get authorizer config")
	}

	s3Config, err := config.GetS3Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get s3 config")
	}

	dynamoConfig, err := config.GetDynamoConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get dynamo config")
	}

	redisConfig, err := config.GetRedisConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get redis config")
	}

	kafkaConfig, err := config.GetKafkaConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get kafka config")
	}

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	ioPool, err := ants.NewPool(pipelineConfig.IOWorkers, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create io worker pool")
	}
	defer ioPool.Release()

	mediaPool, err := ants.NewPool(pipelineConfig.MediaWorkers, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create media worker pool")
	}
	defer mediaPool.Release()

	layout := domain.NewArtifactLayout(artifactsConfig.Root)

	var audioGenerator outbound.AudioGeneratorPort
	var voices adapters.VoiceTable
	switch speechConfig.Backend {
	case config.SpeechBackendElevenLabs:
		elevenLabsConfig, err := config.GetElevenLabsConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get eleven labs config")
		}
		fetcher := adapters.NewContentFetcher(zeroLogger, &http.Client{Timeout: speechConfig.Timeout})
		audioGenerator = adapters.NewElevenLabsAudioGenerator(fetcher, elevenLabsConfig, zeroLogger)
		voices = adapters.NewVoiceTable(elevenLabsConfig.DefaultVoiceID, elevenLabsConfig.Voices)
	default:
		audioGenerator = adapters.NewEdgeTTSAudioGenerator(adapters.NewExecRunner(speechConfig.Timeout), speechConfig.EdgeTTSBinary, zeroLogger)
		voices = adapters.NewVoiceTable(speechConfig.DefaultVoice, speechConfig.Voices)
	}
	speechSynthesizer := adapters.NewSpeechSynthesizer(zeroLogger, audioGenerator, voices)

	slideRenderer, err := adapters.NewHTMLSlideRenderer(zeroLogger, adapters.DefaultSlideLabels())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create slide renderer")
	}

	browserPool := adapters.NewBrowserPool(zeroLogger, captureConfig.PoolSize,
		adapters.ChromeAllocatorOptions(captureConfig.ChromePath, captureConfig.Width, captureConfig.Height))
	defer browserPool.Close()

	slideCapturer := adapters.NewChromedpSlideCapturer(zeroLogger, browserPool, adapters.CaptureSettings{
		Width:       captureConfig.Width,
		Height:      captureConfig.Height,
		SettleDelay: captureConfig.SettleDelay,
		Timeout:     captureConfig.Timeout,
	})

	clipMuxer := adapters.NewFFmpegClipMuxer(zeroLogger, adapters.NewExecRunner(ffmpegConfig.MuxTimeout),
		ffmpegConfig.FFmpegPath, ffmpegConfig.AudioBitrate)
	clipConcatenator := adapters.NewFFmpegClipConcatenator(zeroLogger, adapters.NewExecRunner(ffmpegConfig.ConcatTimeout),
		ffmpegConfig.FFmpegPath, ffmpegConfig.ProbeTimeout)

	var sess *session.Session
	if s3Config != nil || dynamoConfig != nil {
		options := session.Options{SharedConfigState: session.SharedConfigEnable}
		if s3Config != nil {
			options.Config = aws.Config{Region: aws.String(s3Config.Region)}
		}
		sess = session.Must(session.NewSessionWithOptions(options))
	}

	jobStore := adapters.NewMemoryJobStore()
	if dynamoConfig != nil {
		jobStore = adapters.NewDynamoJobStore(zeroLogger, dynamodb.New(sess), dynamoConfig)
	}

	var videoArchive outbound.VideoArchivePort
	if s3Config != nil {
		videoArchive = adapters.NewS3VideoArchive(zeroLogger, s3.New(sess), s3Config)
	}

	jobLock := adapters.NewFileJobLock(zeroLogger, layout)
	if redisConfig != nil {
		rdb := redis.NewClient(&redis.Options{
			Addr:     redisConfig.Addr,
			Password: redisConfig.Password,
			DB:       redisConfig.DB,
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("Failed to connect to redis")
		}
		cancel()
		jobLock = adapters.NewRedisJobLock(zeroLogger, rdb, redisConfig.LockTTL)
	}

	var authorizer adapters.Authorizer
	if authConfig != nil {
		authorizer = adapters.NewClientCredentialsAuthorizer(zeroLogger, authConfig, &http.Client{Timeout: 30 * time.Second})
	}
	upstreamGateway := adapters.NewHTTPUpstreamGateway(zeroLogger, &http.Client{Timeout: gatewayConfig.Timeout},
		gatewayConfig.StoreApiUrl, gatewayConfig.ApiKey, authorizer)

	router := gin.Default()

	err = router.SetTrustedProxies(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	modelClient := mockgenerator.Init(router, ioPool, zeroLogger, serverConfig.MockLessonPath)
	if modelConfig != nil {
		modelFetcher := adapters.NewContentFetcher(zeroLogger, &http.Client{Timeout: modelConfig.Timeout})
		modelClient = adapters.NewModelApiClient(modelFetcher, zeroLogger, modelConfig.ApiUrl)
	} else {
		zeroLogger.Warn("MODEL_API_URL not set, serving the mock lesson")
	}

	renderStage := services.NewSlideRenderStage(zeroLogger, slideRenderer, ioPool)
	narrationStage := services.NewNarrationStage(zeroLogger, speechSynthesizer, ioPool, pipelineConfig.SynthesisRetries)
	clipStage := services.NewClipBuildStage(zeroLogger, slideCapturer, clipMuxer, mediaPool, pipelineConfig.CaptureRetries)

	pipeline := services.NewPresentationPipeline(zeroLogger, layout, jobLock, jobStore, renderStage, narrationStage,
		clipStage, clipConcatenator, mediaPool)
	delivery := services.NewPresentationDelivery(zeroLogger, layout, modelClient, pipeline, upstreamGateway, videoArchive, jobStore)
	query := services.NewPresentationQuery(layout, jobStore)

	var jwtMiddleware gin.HandlerFunc
	if inboundAuthConfig.JwksUrl != "" {
		authHandler, err := middleware.NewAuthHandler(zeroLogger, inboundAuthConfig.JwksUrl, inboundAuthConfig.RequiredScope)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth handler!")
		}
		jwtMiddleware = authHandler.AuthMiddleware()
	}

	presentationsController := controllers.NewPresentationsController(zeroLogger, delivery, query, time.Second)
	presentationsController.RegisterRoutes(router, middleware.APIKeyMiddleware(inboundAuthConfig.ApiKey, jwtMiddleware))

	janitor := services.NewArtifactJanitor(zeroLogger, layout, jobLock, serverConfig.JanitorMaxAge)
	janitorScheduler := scheduler.NewJanitorScheduler(zeroLogger, janitor)
	if err := janitorScheduler.Start(serverConfig.JanitorSchedule); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule janitor")
	}
	defer janitorScheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if kafkaConfig != nil {
		consumer, err := kafka.NewConsumer(zeroLogger, kafka.ConsumerConfig{
			Brokers: kafkaConfig.Brokers,
			Topic:   kafkaConfig.Topic,
			GroupID: kafkaConfig.GroupID,
			Handler: kafka.NewGenerationRequestHandler(zeroLogger, delivery),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create kafka consumer")
		}
		defer consumer.Close()
		go func() {
			if err := consumer.Start(ctx); err != nil {
				zeroLogger.Error(err, "Failed to start kafka consumer")
			}
		}()
	}

	server := &http.Server{
		Addr:    serverConfig.Addr,
		Handler: router,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server!")
		}
	}()
	zeroLogger.InfoWithFields("Server started", map[string]interface{}{
		"addr": serverConfig.Addr,
	})

	<-ctx.Done()
	zeroLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zeroLogger.Error(err, "Failed to shut down server")
	}
}
