package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/SscSPs/invoice_management_app/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// newValidator returns a validator that understands decimal.Decimal fields and
// reports fields under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validationError converts validator output into an ErrValidation with a
// readable message, prefixing each field with prefix.
func validationError(prefix string, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	msgs := lo.Map(ve, func(fe validator.FieldError, _ int) string {
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s%s is required", prefix, fe.Field())
		case "gt":
			return fmt.Sprintf("%s%s must be greater than %s", prefix, fe.Field(), fe.Param())
		case "gte":
			return fmt.Sprintf("%s%s must be at least %s", prefix, fe.Field(), fe.Param())
		default:
			return fmt.Sprintf("%s%s failed on %s", prefix, fe.Field(), fe.Tag())
		}
	})
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, "; "))
}
