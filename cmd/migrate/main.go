// migrate aplica o revierte las migraciones embebidas del ledger.
//
// Uso: go run ./cmd/migrate [up|down|steps N|version]
// Sin argumentos aplica las pendientes (up).
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	pool, err := postgres.NewPool(context.Background(), cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	mg, err := postgres.NewMigrator(pool, log)
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer func() {
		if err := mg.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()

	switch cmd {
	case "up":
		err = mg.Up()
	case "down":
		err = mg.Down()
	case "steps":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Uso: migrate steps N")
			os.Exit(2)
		}
		n, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			fmt.Fprintf(os.Stderr, "N inválido: %v\n", convErr)
			os.Exit(2)
		}
		err = mg.Steps(n)
	case "version":
		v, dirty, vErr := mg.Version()
		if vErr == nil {
			fmt.Printf("versión %d (dirty=%t)\n", v, dirty)
		}
		err = vErr
	default:
		fmt.Fprintf(os.Stderr, "Comando desconocido %q (up|down|steps N|version)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("cmd", cmd).Msg("migración fallida")
		os.Exit(1)
	}
}
