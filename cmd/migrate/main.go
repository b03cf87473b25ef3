// migrate aplica o revierte las migraciones embebidas en internal/infrastructure/postgres.
//
// Uso: go run ./cmd/migrate [-log-level info] up|down|steps N|version
// La conexión se toma de la misma configuración que la API (DATABASE_URL o DB_*).
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

func main() {
	logLevel := flag.String("log-level", "info", "nivel de log (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: *logLevel})

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		if len(args) < 2 {
			usage()
			os.Exit(1)
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal().Str("steps", args[1]).Msg("steps debe ser un entero")
		}
		err = m.Steps(n)
	case "version":
		v, dirty, verr := m.Version()
		if verr == nil {
			fmt.Printf("versión %d (dirty=%t)\n", v, dirty)
		}
		err = verr
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		log.Error().Err(err).Str("command", args[0]).Msg("migración fallida")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "uso: migrate [-log-level nivel] up|down|steps N|version")
}
