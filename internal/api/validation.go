package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Bounds on request parameters. Fixed dates and moments are limited to
// roughly the same span in days as years.
const (
	maxYear     = 100000
	maxYearSpan = 3000
)

// yearParam is a Persian year; year 0 does not exist.
type yearParam struct {
	Year int `param:"year" validate:"persian_year"`
}

// gregorianYearParam is a Gregorian year, where year 0 is 1 BCE.
type gregorianYearParam struct {
	Year int `param:"gyear" validate:"min=-100000,max=100000"`
}

type fixedParam struct {
	RD int64 `param:"rd" validate:"min=-36600000,max=36600000"`
}

type momentParam struct {
	Moment float64 `param:"moment" validate:"min=-36600000,max=36600000"`
}

// yearRange is an inclusive range of Persian years, at most maxYearSpan long.
type yearRange struct {
	From int `param:"from" validate:"min=-100000,max=100000"`
	To   int `param:"to" validate:"min=-100000,max=100000,gtefield=From"`
}

// ParamValidator checks decoded request parameters.
type ParamValidator struct {
	validate *validator.Validate
}

// NewParamValidator creates a validator with the calendar rules registered.
func NewParamValidator() *ParamValidator {
	v := validator.New()

	// Report fields by their request parameter name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("param"); name != "" {
			return name
		}
		return strings.ToLower(fld.Name)
	})

	v.RegisterValidation("persian_year", validatePersianYear)
	v.RegisterStructValidation(validateYearSpan, yearRange{})

	return &ParamValidator{validate: v}
}

// Validate returns nil when s passes, or a map from parameter name to a
// human-readable failure.
func (pv *ParamValidator) Validate(s any) map[string]string {
	err := pv.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return fields
}

// validatePersianYear accepts non-zero years within ±maxYear.
func validatePersianYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year != 0 && year >= -maxYear && year <= maxYear
}

func validateYearSpan(sl validator.StructLevel) {
	r := sl.Current().Interface().(yearRange)
	if r.To-r.From > maxYearSpan {
		sl.ReportError(r.To, "to", "To", "span", fmt.Sprint(maxYearSpan))
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gtefield":
		return "must not be less than " + strings.ToLower(fe.Param())
	case "persian_year":
		return fmt.Sprintf("must be a non-zero year between %d and %d", -maxYear, maxYear)
	case "span":
		return "must be within " + fe.Param() + " years of from"
	default:
		return "is invalid"
	}
}
