package irerr

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sunholo/actorc/internal/ast"
)

// ICE is the canonical structured error type for internal compiler errors.
// Every pass entry point that detects a precondition violation returns one
// wrapped with New, rather than panicking, so a caller (a test, a CLI, a
// future driver) can print a located diagnostic.
type ICE struct {
	Schema  string         `json:"schema"` // always "actorc.ice/v1"
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    ast.Pos        `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

func (e *ICE) Error() string {
	if e == nil {
		return "unknown internal compiler error"
	}
	loc := ""
	if !e.Span.IsZero() {
		loc = " at " + e.Span.String()
	}
	return fmt.Sprintf("%s [%s]%s: %s", e.Code, e.Phase, loc, e.Message)
}

// New builds an ICE for the given code, resolving its phase from the code
// prefix automatically.
func New(code, message string, span ast.Pos) *ICE {
	return &ICE{
		Schema:  "actorc.ice/v1",
		Code:    code,
		Phase:   phaseForCode(code),
		Message: message,
		Span:    span,
	}
}

// WithData attaches structured context data and returns the receiver.
func (e *ICE) WithData(key string, value any) *ICE {
	if e.Data == nil {
		e.Data = make(map[string]any)
	}
	e.Data[key] = value
	return e
}

// As extracts an *ICE from an error chain.
func As(err error) (*ICE, bool) {
	var ice *ICE
	if errors.As(err, &ice) {
		return ice, true
	}
	return nil, false
}

// ToJSON renders the ICE as deterministic JSON for tooling.
func (e *ICE) ToJSON() (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
