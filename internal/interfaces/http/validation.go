package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ptbr_translations "github.com/go-playground/validator/v10/translations/pt_BR"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/domain"
)

const cargoTag = "cargo"

// bodyValidator valida DTOs con mensajes en portugués y nombres de campo JSON.
type bodyValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

var requestValidator = mustBodyValidator()

func mustBodyValidator() *bodyValidator {
	b, err := newBodyValidator()
	if err != nil {
		panic(err)
	}
	return b
}

func newBodyValidator() (*bodyValidator, error) {
	v := validator.New()

	locale := pt_BR.New()
	uni := ut.New(locale, locale)
	trans, found := uni.GetTranslator("pt_BR")
	if !found {
		return nil, errors.New("validación: traductor pt_BR no disponible")
	}
	if err := ptbr_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("validación: traducciones: %w", err)
	}

	// nombres JSON en los errores en lugar de los de Go
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := registerTag(v, trans, cargoTag, func(fl validator.FieldLevel) bool {
		_, err := domain.ParseRole(fl.Field().String())
		return err == nil
	}, "deve ser Administrador, Supervisor ou Professor")
	if err != nil {
		return nil, err
	}
	return &bodyValidator{validate: v, translator: trans}, nil
}

// registerTag registra una regla propia con su mensaje en portugués.
func registerTag(v *validator.Validate, trans ut.Translator, tag string, fn validator.Func, msg string) error {
	if err := v.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("validación: regla %q: %w", tag, err)
	}
	err := v.RegisterTranslation(tag, trans,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " " + msg
		},
	)
	if err != nil {
		return fmt.Errorf("validación: mensaje %q: %w", tag, err)
	}
	return nil
}

// Struct devuelve nil o un único mensaje con todos los campos inválidos.
func (b *bodyValidator) Struct(s any) error {
	err := b.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(b.translator))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// parseBody decodifica el JSON y valida los tags. Responde 400 y devuelve false si algo falla.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, badBody(c)
	}
	if err := requestValidator.Struct(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return true, nil
}
