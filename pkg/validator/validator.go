package validator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
)

// Validator provides validation functionality
type Validator interface {
	Validate(interface{}) error
	ValidateField(field string, value interface{}, rules string) error
}

type validator struct {
	engine *playground.Validate
}

// New returns a Validator that reads `validate` struct tags and reports
// fields by their JSON names. It knows one extra rule, `integer`.
func New() Validator {
	engine := playground.New()
	engine.RegisterTagNameFunc(jsonTagName)
	if err := RegisterCustom(engine); err != nil {
		panic(err)
	}
	return &validator{engine: engine}
}

// RegisterCustom adds the custom rules to an existing engine, such as
// the one gin binds with.
func RegisterCustom(engine *playground.Validate) error {
	return engine.RegisterValidation("integer", func(fl playground.FieldLevel) bool {
		return IsIntegerLiteral(fl.Field().String())
	})
}

var bindingOnce sync.Once

// RegisterBinding configures the engine gin binds request bodies with:
// JSON field names in errors plus the custom rules. Safe to call more than
// once.
func RegisterBinding() error {
	var err error
	bindingOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*playground.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		engine.RegisterTagNameFunc(jsonTagName)
		err = RegisterCustom(engine)
	})
	return err
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

func (v *validator) Validate(obj interface{}) error {
	if err := v.engine.Struct(obj); err != nil {
		return Describe(err)
	}
	return nil
}

func (v *validator) ValidateField(field string, value interface{}, rules string) error {
	if err := v.engine.Var(value, rules); err != nil {
		var errs playground.ValidationErrors
		if ok := asValidationErrors(err, &errs); ok && len(errs) > 0 {
			return fmt.Errorf("%s failed on the '%s' rule", field, errs[0].Tag())
		}
		return err
	}
	return nil
}

// Describe flattens validation errors into one readable error. Other errors
// are returned unchanged.
func Describe(err error) error {
	var errs playground.ValidationErrors
	if !asValidationErrors(err, &errs) {
		return err
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%s failed on the '%s' rule", e.Field(), e.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func asValidationErrors(err error, target *playground.ValidationErrors) bool {
	errs, ok := err.(playground.ValidationErrors)
	if ok {
		*target = errs
	}
	return ok
}

// IsIntegerLiteral reports whether s is a base-10 integer literal:
// optional surrounding whitespace, an optional sign, and digits that may
// be grouped with single underscores.
func IsIntegerLiteral(s string) bool {
	s = strings.TrimSpace(s)
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	underscore := true
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			underscore = false
		case r == '_' && !underscore:
			underscore = true
		default:
			return false
		}
	}
	return !underscore
}
