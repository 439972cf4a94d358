// seed_products carga el catálogo inicial de productos desde un CSV.
//
// Uso: go run ./cmd/seed_products [ruta/productos.csv] [latin1]
// Columnas: nombre;descripcion;precio;unidad;nivel_alerta;stock_inicial
// La primera fila es el encabezado. Con "latin1" el archivo se lee como ISO-8859-1
// (exportaciones de hojas de cálculo en Windows). Un stock inicial > 0 genera la
// orden sintética que respalda ese stock en el ledger.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

func main() {
	csvPath := "productos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	latin1 := len(os.Args) > 2 && strings.EqualFold(os.Args[2], "latin1")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseProducts(f, latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var tx inventory.TxRunner
	if cfg.DB.Driver == config.DriverMemory {
		tx = memory.New()
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		tx = postgres.NewTxRunner(pool, cfg.DB.LockTimeoutMS)
	}

	audit := inventory.NewAuditWriter(cfg.Ledger.AuditStrict, log)
	orders := inventory.NewReceiveOrderUseCase(tx, audit, log)
	products := inventory.NewProductUseCase(tx, audit, orders, log)
	clock := inventory.SystemClock(cfg.App.Location())

	created := 0
	for _, in := range rows {
		in.Stamp = inventory.Stamp{Actor: cfg.Ledger.SystemActor, Now: clock()}
		p, err := products.Create(ctx, in)
		if err != nil {
			log.Error().Err(err).Str("product", in.Name).Msg("crear producto")
			continue
		}
		created++
		log.Debug().Int64("product_id", p.ID).Str("name", p.Name).Msg("producto creado")
	}
	fmt.Printf("Cargados %d de %d productos desde %s\n", created, len(rows), csvPath)
}

// parseProducts lee el CSV separado por ';' y devuelve una entrada por fila.
// Las columnas numéricas vacías valen cero; la coma decimal se acepta.
func parseProducts(r io.Reader, latin1 bool) ([]inventory.CreateProductInput, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []inventory.CreateProductInput
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 {
			continue
		}
		if len(rec) < 6 {
			return nil, fmt.Errorf("línea %d: se esperaban 6 columnas, hay %d", line, len(rec))
		}
		in := inventory.CreateProductInput{
			Name:        strings.TrimSpace(rec[0]),
			Description: strings.TrimSpace(rec[1]),
			Unit:        strings.TrimSpace(rec[3]),
		}
		if in.Name == "" {
			continue
		}
		nums := []*decimal.Decimal{&in.Price, &in.WarningStockLevel, &in.InitialStock}
		for i, col := range []int{2, 4, 5} {
			d, err := parseDecimal(rec[col])
			if err != nil {
				return nil, fmt.Errorf("línea %d, columna %d: %w", line, col+1, err)
			}
			*nums[i] = d
		}
		out = append(out, in)
	}
	return out, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}
