// cognitiva cliente de consola de la API: sesión, selector de escuela, listados e insights.
//
// Uso: cognitiva <comando> [opciones]. "cognitiva help" lista los comandos.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/cognitiva-api/internal/client/api"
	"github.com/jhoicas/cognitiva-api/internal/client/session"
	"github.com/jhoicas/cognitiva-api/pkg/config"
	"github.com/jhoicas/cognitiva-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	level := "warn"
	if os.Getenv("LOG_LEVEL") != "" {
		level = cfg.App.LogLevel
	}
	log := logger.New(logger.Config{Env: "production", Level: level, Output: os.Stderr}).Named("cognitiva")

	nav := session.NavigatorFunc(func(route string) {
		log.Debug().Str("route", route).Msg("navegar")
	})
	store := session.New(session.NewFileStorage(cfg.Client.SessionFile), nav, session.WithLogger(log))
	store.Restore()

	cli := newCommandLine(store, api.New(cfg.Client.APIURL, store, api.WithLogger(log)), os.Stdout, bufio.NewReader(os.Stdin))
	cli.log = log
	if err := cli.run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintf(os.Stderr, "erro: %s\n", err)
		}
		os.Exit(1)
	}
}
