package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const header = "nombre;descripcion;precio;unidad;nivel_alerta;stock_inicial\n"

func TestParseProducts_FilasValidas(t *testing.T) {
	csv := header +
		"Arroz;Bolsa 1kg;3,50;kg;10;25\n" +
		"Sal;;1;kg;;\n" +
		";sin nombre;1;u;1;1\n"

	rows, err := parseProducts(strings.NewReader(csv), false)
	require.NoError(t, err)
	require.Len(t, rows, 2, "las filas sin nombre se omiten")

	assert.Equal(t, "Arroz", rows[0].Name)
	assert.Equal(t, "3.5", rows[0].Price.String())
	assert.Equal(t, "10", rows[0].WarningStockLevel.String())
	assert.Equal(t, "25", rows[0].InitialStock.String())

	assert.Equal(t, "Sal", rows[1].Name)
	assert.True(t, rows[1].InitialStock.IsZero())
}

func TestParseProducts_Latin1(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String(header + "Azúcar morena;Año;2;kg;5;0\n")
	require.NoError(t, err)

	rows, err := parseProducts(bytes.NewReader([]byte(raw)), true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Azúcar morena", rows[0].Name)
	assert.Equal(t, "Año", rows[0].Description)
}

func TestParseProducts_NumeroInvalido(t *testing.T) {
	_, err := parseProducts(strings.NewReader(header+"Arroz;;abc;kg;1;1\n"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
}

func TestParseProducts_ColumnasFaltantes(t *testing.T) {
	_, err := parseProducts(strings.NewReader(header+"Arroz;x;1\n"), false)
	require.Error(t, err)
}
