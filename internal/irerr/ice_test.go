package irerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/actorc/internal/ast"
)

func TestNewResolvesPhaseFromCodePrefix(t *testing.T) {
	tests := []struct {
		code      string
		wantPhase string
	}{
		{BUILD001, "build"},
		{RENAME002, "alpha-rename"},
		{CPS003, "cps"},
		{SHOW001, "show-desugar"},
		{PIPE002, "pipeline"},
		{"NOPE999", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			ice := New(tt.code, "boom", ast.Pos{})
			assert.Equal(t, tt.wantPhase, ice.Phase)
			assert.Equal(t, "actorc.ice/v1", ice.Schema)
		})
	}
}

func TestErrorFormatsLocationOnlyWhenSpanKnown(t *testing.T) {
	withSpan := New(RENAME002, "no binder", ast.Pos{File: "f.ir", Line: 3, Column: 5})
	assert.Contains(t, withSpan.Error(), "at f.ir:3:5")

	noSpan := New(RENAME002, "no binder", ast.Pos{})
	assert.NotContains(t, noSpan.Error(), " at ")
	assert.Equal(t, "RENAME002 [alpha-rename]: no binder", noSpan.Error())
}

func TestNilICEErrorIsSafe(t *testing.T) {
	var ice *ICE
	assert.Equal(t, "unknown internal compiler error", ice.Error())
}

func TestWithDataAttachesAndReturnsReceiver(t *testing.T) {
	ice := New(CPS004, "meta continuation reused", ast.Pos{}).WithData("kontID", 7)
	assert.Equal(t, 7, ice.Data["kontID"])
}

func TestAsUnwrapsWrappedICE(t *testing.T) {
	ice := New(BUILD003, "not mutable", ast.Pos{})
	wrapped := fmt.Errorf("build: %w", ice)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, BUILD003, got.Code)

	_, ok = As(errors.New("plain error"))
	assert.False(t, ok)
}

func TestToJSONRoundTripsFields(t *testing.T) {
	ice := New(SHOW002, "constructor type", ast.Pos{File: "x.ir", Line: 1, Column: 1}).WithData("typ", "List<a>")
	js, err := ice.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, js, `"code": "SHOW002"`)
	assert.Contains(t, js, `"phase": "show-desugar"`)
	assert.Contains(t, js, "\"typ\": \"List\\u003ca\\u003e\"")
}
