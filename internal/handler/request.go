package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/DukeRupert/sitewalk/internal/domain"
)

// maxJSONBody bounds JSON request bodies. Media payloads only carry URLs.
const maxJSONBody = 1 << 20

// newValidator returns a validator that reports fields by their JSON names
// and knows the domain enumerations.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("area_status", func(fl validator.FieldLevel) bool {
		return domain.AreaStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return domain.Priority(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("media_type", func(fl validator.FieldLevel) bool {
		return domain.MediaKind(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("site_type", func(fl validator.FieldLevel) bool {
		return domain.SiteType(fl.Field().String()).IsValid()
	})

	return v
}

// decodeJSON reads a JSON body into dst and validates it.
func (h *InspectionHandler) decodeJSON(r *http.Request, op string, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return domain.Invalid(op, "Request body is required")
		default:
			return domain.Invalid(op, "Malformed JSON: "+err.Error())
		}
	}

	return h.validate(op, dst)
}

// validate runs struct tag validation and converts failures to a
// domain.ValidationError keyed by JSON field path.
func (h *InspectionHandler) validate(op string, v any) error {
	err := h.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.Invalid(op, err.Error())
	}

	ve := &domain.ValidationError{Op: op, Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Fields[fieldPath(fe)] = fieldMessage(fe)
	}
	return ve
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "url", "uri":
		return "must be a URL"
	case "area_status":
		return "must be one of not_started, in_progress, completed, skipped"
	case "priority":
		return "must be one of high, medium, low"
	case "media_type":
		return "must be one of photo, audio, document"
	case "site_type":
		return "must be one of industrial, commercial, residential, brownfield"
	default:
		return "is invalid"
	}
}
