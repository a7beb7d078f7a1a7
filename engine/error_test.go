package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "Unterminated", Unterminated.String())
	assert.Equal(t, "Required", Required.String())
	assert.Equal(t, "Unknown", ErrorKind(99).String())
}

func TestParseErrorMessageFallsBackToKind(t *testing.T) {
	e := ParseError{Kind: Modifier}
	assert.Equal(t, "Modifier", e.Error())
}

func TestParseErrorIncludesNameAndPosition(t *testing.T) {
	e := ParseError{
		Kind:    Required,
		Name:    "customer_id",
		Pos:     Pos{File: "q.sql", Line: 3, Col: 5},
		Message: "required parameter is absent",
	}
	assert.Equal(t, "q.sql:3:5: required parameter is absent (name=customer_id)", e.Error())
}
