package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

func TestPageRequest_DefaultPage(t *testing.T) {
	cases := []struct {
		name       string
		in         dto.PageRequest
		wantLimit  int
		wantOffset int
	}{
		{"ceros toman el límite por defecto", dto.PageRequest{}, dto.DefaultPageLimit, 0},
		{"negativos se normalizan", dto.PageRequest{Limit: -5, Offset: -1}, dto.DefaultPageLimit, 0},
		{"dentro del rango no cambia", dto.PageRequest{Limit: 50, Offset: 10}, 50, 10},
		{"justo en el máximo", dto.PageRequest{Limit: dto.MaxPageLimit}, dto.MaxPageLimit, 0},
		{"sobre el máximo se recorta", dto.PageRequest{Limit: 500, Offset: 3}, dto.MaxPageLimit, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			p.DefaultPage()
			assert.Equal(t, tc.wantLimit, p.Limit)
			assert.Equal(t, tc.wantOffset, p.Offset)
		})
	}
}

func TestNewListResponse_NilSeSerializaComoArreglo(t *testing.T) {
	raw, err := json.Marshal(dto.NewListResponse[dto.UserResponse](nil, dto.PageRequest{Limit: 20}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"page":{"limit":20,"offset":0}}`, string(raw))
}
