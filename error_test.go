package twowaysql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twowaysql/twowaysql/engine"
)

func TestParseErrorsAggregatesMessages(t *testing.T) {
	e := ParseErrors{Errors: []error{
		engine.ParseError{Kind: engine.Required, Pos: engine.Pos{File: "a.sql", Line: 2, Col: 1}, Name: "id"},
		assertAnError{},
	}}
	msg := e.Error()
	assert.Contains(t, msg, "2 template(s) failed to parse")
	assert.Contains(t, msg, "a.sql:2:1")
	assert.Contains(t, msg, "boom")
}

type assertAnError struct{}

func (assertAnError) Error() string { return "boom" }
