package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every repository; the instance is stateless and
// safe for concurrent use.
var validate = validator.New()

// checkStruct runs tag validation over a model about to be written and
// folds the first failure into a ValidationError.
func checkStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return &ValidationError{
			Field:  strings.ToLower(f.Field()),
			Reason: fmt.Sprintf("failed '%s' constraint", f.Tag()),
		}
	}
	return err
}
