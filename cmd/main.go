package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/cctfd/config"
	"github.com/lshigami/cctfd/database"
	_ "github.com/lshigami/cctfd/docs" // Swagger docs - generated by swag init
	"github.com/lshigami/cctfd/internal/cache"
	"github.com/lshigami/cctfd/internal/controller/challenge"
	"github.com/lshigami/cctfd/internal/controller/community"
	"github.com/lshigami/cctfd/internal/extension"
	"github.com/lshigami/cctfd/internal/keys"
	"github.com/lshigami/cctfd/internal/logger"
	"github.com/lshigami/cctfd/internal/middleware"
	"github.com/lshigami/cctfd/internal/model"
	"github.com/lshigami/cctfd/internal/plugin"
	"github.com/lshigami/cctfd/internal/repository"
	"github.com/lshigami/cctfd/internal/service"
	"github.com/lshigami/cctfd/internal/storage"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Community Challenges API
// @version 1.0
// @description Lets CTF participants submit their own challenges. The submitting team earns the challenge value when another team solves it first.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewChallengeRepository,
			repository.NewCommunityChallengeRepository,
			repository.NewKeyRepository,
			repository.NewSolveRepository,
			repository.NewWrongKeyRepository,
			repository.NewAwardRepository,
			repository.NewFileRepository,
			repository.NewTagRepository,
			repository.NewHintRepository,
			repository.NewTeamRepository,
			repository.NewUnlockRepository,
		),

		fx.Provide(
			keys.NewRegistry,
			storage.NewLocalFileStorage,
			cache.NewChallengeCache,
			extension.NewHost,
		),

		fx.Provide(
			service.NewChallengeTypeRegistry,
			service.NewCTFStateService,
			service.NewChallengeService,
			service.NewChallengeListService,
		),

		fx.Provide(
			challenge.NewChallengeController,
			community.NewCommunityController,
		),

		// Migrations run before any challenge type touches the database.
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterStandardType),
		fx.Invoke(plugin.Load),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application")
	}
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.DebugMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.Session(cfg.Session.Secret))
	r.MaxMultipartMemory = 32 << 20

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterStandardType installs the host's built-in challenge type. Plugins
// add theirs on top.
func RegisterStandardType(registry *service.ChallengeTypeRegistry, deps service.ChallengeTypeDeps) error {
	return registry.Register(service.NewStandardChallengeService(deps))
}

// RegisterRoutesAndStartServer mounts the host routes and manages the server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	challengeCtrl *challenge.ChallengeController,
) {
	challengeCtrl.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("CTF server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
