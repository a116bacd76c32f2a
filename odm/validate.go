package odm

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a model against its `validate` struct tags.
func Validate(doc any) error {
	t := modelType(doc)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	if err := validate.Struct(doc); err != nil {
		return errors.Join(ErrInvalidDocument, err)
	}
	return nil
}
