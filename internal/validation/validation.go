// Package validation checks action inputs with struct tags before anything
// reaches the store.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/julianstephens/dailyos/internal/errors"
	"github.com/julianstephens/dailyos/internal/models"
	"github.com/julianstephens/dailyos/internal/utils"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// notblank rejects strings that are empty once trimmed.
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = validate.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return models.WorkUnitStatus(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("horizon", func(fl validator.FieldLevel) bool {
		return models.HorizonType(fl.Field().String()).Column() != ""
	})
	_ = validate.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
		m := fl.Field().String()
		if m == "" {
			return true
		}
		for _, known := range models.Moods {
			if string(known) == m {
				return true
			}
		}
		return false
	})
	_ = validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		return utils.ValidateDateFormat(fl.Field().String())
	})

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// Struct validates v and returns an error wrapping errors.ErrInvalid that
// names every offending field.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Invalidf("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return apperrors.Invalidf("%s", strings.Join(msgs, "; "))
}

// Var validates a single value against tag.
func Var(field string, v any, tag string) error {
	if err := validate.Var(v, tag); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return apperrors.Invalidf("%s %s", field, reason(verrs[0].Tag(), verrs[0].Param()))
		}
		return apperrors.Invalidf("%s: %v", field, err)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	return fe.Field() + " " + reason(fe.Tag(), fe.Param())
}

func reason(tag, param string) string {
	switch tag {
	case "required", "notblank":
		return "is required"
	case "max":
		return "must be at most " + param + " characters"
	case "min":
		return "must be at least " + param
	case "status":
		return "must be one of active, parked, completed, archived"
	case "horizon":
		return "must be one of weekly, monthly, yearly, direction"
	case "mood":
		return "must be one of great, good, okay, tired, stuck"
	case "date":
		return "must be a YYYY-MM-DD date"
	}
	return "failed " + tag
}
