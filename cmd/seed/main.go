// seed aplica las migraciones y crea la escuela, el administrador inicial y el catálogo
// de condiciones. Es idempotente: puede ejecutarse en cada despliegue.
//
// Uso: go run ./cmd/seed [-condicoes condicoes.csv] [-latin1]
// Credenciales del administrador: BOOTSTRAP_ADMIN_REGISTRO y BOOTSTRAP_ADMIN_SENHA.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/cognitiva-api/internal/application/usecase"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cognitiva-api/pkg/config"
	"github.com/jhoicas/cognitiva-api/pkg/logger"
)

func main() {
	csvPath := flag.String("condicoes", "", "CSV nome;cid;descricao con el catálogo de condiciones (por defecto el catálogo CID-10 base)")
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	catalogue := usecase.DefaultConditions
	if *csvPath != "" {
		catalogue, err = readCatalogue(*csvPath, *latin1)
		if err != nil {
			log.Fatal().Err(err).Str("file", *csvPath).Msg("leer catálogo")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

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

	bootstrap := usecase.NewBootstrapUseCase(
		postgres.NewSchoolRepository(pool),
		postgres.NewTeacherRepository(pool),
		postgres.NewConditionRepository(pool),
	)
	res, err := bootstrap.Run(ctx, usecase.BootstrapInput{
		SchoolName:    cfg.Bootstrap.SchoolName,
		AdminName:     cfg.Bootstrap.AdminName,
		AdminRegistro: cfg.Bootstrap.AdminRegistro,
		AdminSenha:    cfg.Bootstrap.AdminSenha,
	}, catalogue)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap")
	}
	log.Info().
		Str("school_id", res.SchoolID).
		Str("admin_id", res.AdminID).
		Bool("admin_created", res.AdminCreated).
		Int("conditions_created", res.ConditionsCreated).
		Msg("seed completado")
}

func readCatalogue(path string, latin1 bool) ([]entity.MedicalCondition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseCatalogue(f, latin1)
}
