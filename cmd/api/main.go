package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/cognitiva-api/internal/application/auth"
	"github.com/jhoicas/cognitiva-api/internal/application/ports"
	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
	infraai "github.com/jhoicas/cognitiva-api/internal/infrastructure/ai"
	"github.com/jhoicas/cognitiva-api/internal/infrastructure/cache"
	"github.com/jhoicas/cognitiva-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/cognitiva-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cognitiva-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cognitiva-api/internal/server"
	"github.com/jhoicas/cognitiva-api/pkg/config"
	"github.com/jhoicas/cognitiva-api/pkg/logger"

	_ "github.com/jhoicas/cognitiva-api/docs"
)

// @title						Cognitiva API
// @version					1.0
// @description				Acompañamiento pedagógico de alumnos con necesidades educativas especiales.
// @BasePath					/api
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()

	var repos server.Repos
	if cfg.App.UsesMemory() {
		store := memory.NewStore()
		repos = server.MemoryRepos(store)
		log.Warn().Msg("STORAGE=memory: los datos se pierden al reiniciar")
		if cfg.Bootstrap.AdminRegistro != "" {
			res, err := usecase.NewBootstrapUseCase(repos.Schools, repos.Teachers, repos.Conditions).
				Run(ctx, bootstrapInput(cfg.Bootstrap), usecase.DefaultConditions)
			if err != nil {
				log.Fatal().Err(err).Msg("bootstrap")
			}
			log.Info().Str("school_id", res.SchoolID).Str("admin_id", res.AdminID).Msg("administrador inicial creado")
		}
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		for _, v := range applied {
			log.Info().Str("version", v).Msg("migración aplicada")
		}
		repos = server.PostgresRepos(pool)
	}

	var lock ports.GenerationLock
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		lock = cache.NewRedisLock(rdb, "cognitiva:lock:", cache.DefaultLockTTL)
	} else {
		lock = cache.NewMemoryLock(cache.DefaultLockTTL)
	}

	llm, err := infraai.NewFromConfig(cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("proveedor de IA")
	}

	app := server.New(repos, server.Options{
		AppName: cfg.App.Name,
		JWT: auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		LLM:         llm,
		Lock:        lock,
		PDF:         infrapdf.NewMarotoPDFGenerator(),
		Log:         log,
		SwaggerFile: "./docs/swagger.json",
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func bootstrapInput(c config.BootstrapConfig) usecase.BootstrapInput {
	return usecase.BootstrapInput{
		SchoolName:    c.SchoolName,
		AdminName:     c.AdminName,
		AdminRegistro: c.AdminRegistro,
		AdminSenha:    c.AdminSenha,
	}
}
