package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"pricedash/internal/dataprocessing"
	apierrors "pricedash/internal/errors"
)

// RangeQuery is the start/end pair accepted by the dashboard and the data API.
type RangeQuery struct {
	Start string `query:"start" validate:"omitempty,pricedate"`
	End   string `query:"end" validate:"omitempty,pricedate"`
}

// Bounds parses the validated fields. A blank field yields nil.
func (q RangeQuery) Bounds() (start, end *time.Time) {
	return parseBound(q.Start), parseBound(q.End)
}

func parseBound(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := dataprocessing.ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

// QueryValidator validates query parameters
type QueryValidator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewQueryValidator creates a new query parameter validator
func NewQueryValidator(logger *slog.Logger) *QueryValidator {
	v := validator.New()
	mustRegisterValidation(v, "pricedate", isPriceDate)

	// Use query tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &QueryValidator{
		validator: v,
		logger:    logger.With(slog.String("component", "query_validator")),
	}
}

// ParseRange reads start and end from the request query. Invalid dates come
// back as a validation APIError carrying one entry per bad field.
func (v *QueryValidator) ParseRange(r *http.Request) (RangeQuery, error) {
	query := r.URL.Query()
	q := RangeQuery{
		Start: strings.TrimSpace(query.Get("start")),
		End:   strings.TrimSpace(query.Get("end")),
	}
	if err := v.ValidateStruct(q); err != nil {
		v.logger.DebugContext(r.Context(), "rejected range query",
			slog.String("start", q.Start),
			slog.String("end", q.End),
		)
		return RangeQuery{}, err
	}
	return q, nil
}

// ValidateStruct validates a struct and returns validation errors
func (v *QueryValidator) ValidateStruct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.Wrap(http.StatusBadRequest, apierrors.CodeInvalidRequest, "invalid query", err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "pricedate":
		return fmt.Sprintf("%s must be a date such as 2026-01-16 or 16/01/2026", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isPriceDate accepts ISO dates and the day-first forms of the price files.
// mustRegisterValidation panics when the tag cannot be registered. A missing
// tag would otherwise surface later as a validator panic on the first request.
func mustRegisterValidation(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

func isPriceDate(fl validator.FieldLevel) bool {
	_, err := dataprocessing.ParseDate(fl.Field().String())
	return err == nil
}
