// Package serializers holds the request and response shapes of every endpoint and validates requests.
package serializers

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
	"recipe-app-api/app/server/errs"
	"reflect"
	"strconv"
	"strings"
)

// Validator plugs go-playground/validator into echo and reports failures as *errs.ValidationError.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 错误中使用 json 字段名
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", validators.NotBlank)

	// 金额按字符串校验
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	})
	_ = v.RegisterValidation("max_digits", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		limit, _ := strconv.Atoi(fl.Param())
		return digits(d) <= limit
	})
	_ = v.RegisterValidation("max_whole_digits", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		limit, _ := strconv.Atoi(fl.Param())
		return wholeDigits(d) <= limit
	})
	_ = v.RegisterValidation("decimal_places", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		limit, _ := strconv.Atoi(fl.Param())
		return places(d) <= limit
	})

	return &Validator{v: v}
}

// places counts significant decimal places, so 1.50 has one.
func places(d decimal.Decimal) int {
	if d.IsZero() {
		return 0
	}
	exp := d.Exponent()
	coef := d.Coefficient().String()
	for exp < 0 && strings.HasSuffix(coef, "0") {
		coef = coef[:len(coef)-1]
		exp++
	}
	if exp >= 0 {
		return 0
	}
	return int(-exp)
}

func wholeDigits(d decimal.Decimal) int {
	if d.Abs().LessThan(decimal.NewFromInt(1)) {
		return 0
	}
	return len(d.Abs().Truncate(0).String())
}

func digits(d decimal.Decimal) int {
	return wholeDigits(d) + places(d)
}

func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	verr := &errs.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fieldPath(fe), message(fe))
	}
	return verr
}

// fieldPath drops the struct name from the namespace, leaving e.g. "tags[0].name".
func fieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "notblank":
		return "This field may not be blank."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "gte", "nonnegative":
		param := fe.Param()
		if param == "" {
			param = "0"
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", param)
	case "max_digits":
		return fmt.Sprintf("Ensure that there are no more than %s digits in total.", fe.Param())
	case "max_whole_digits":
		return fmt.Sprintf("Ensure that there are no more than %s digits before the decimal point.", fe.Param())
	case "decimal_places":
		return fmt.Sprintf("Ensure that there are no more than %s decimal places.", fe.Param())
	default:
		return fmt.Sprintf("Failed the %q check.", fe.Tag())
	}
}
