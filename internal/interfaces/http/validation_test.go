package http

import (
	"testing"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBodyValidator_Cargo(t *testing.T) {
	b, err := newBodyValidator()
	require.NoError(t, err)

	type in struct {
		Cargo string `json:"cargo" validate:"required,cargo"`
	}
	assert.NoError(t, b.Struct(in{Cargo: "professor"}))
	err = b.Struct(in{Cargo: "Diretor"})
	require.Error(t, err)
	assert.Equal(t, "cargo deve ser Administrador, Supervisor ou Professor", err.Error())
}

func TestRegisterTag_ErrorNoSeDescarta(t *testing.T) {
	v := validator.New()
	locale := pt_BR.New()
	trans, _ := ut.New(locale, locale).GetTranslator("pt_BR")

	err := registerTag(v, trans, "", func(validator.FieldLevel) bool { return true }, "inválido")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validación: regla")
}
