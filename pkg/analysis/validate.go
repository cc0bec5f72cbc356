package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notation", func(fl validator.FieldLevel) bool {
		_, err := uttt.FromNotation(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("movetoken", func(fl validator.FieldLevel) bool {
		move := uttt.ParseMoveNotation(fl.Field().String())
		return move != uttt.MoveIllegal && !move.IsNull()
	})
	return v
}

// DecodeError is returned for engine replies that don't match the
// expected schema. Fields lists every failing field.
type DecodeError struct {
	Fields []string
	Err    error
}

func (e *DecodeError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("analysis: malformed response: %v", e.Err)
	}
	return fmt.Sprintf("analysis: malformed response: %s", strings.Join(e.Fields, "; "))
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newDecodeError(err error) *DecodeError {
	return &DecodeError{Fields: describe(err), Err: err}
}

// Human readable description of each failed field
func describe(err error) []string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	details := make([]string, 0, len(errs))
	for _, fe := range errs {
		var detail string
		switch fe.Tag() {
		case "required":
			detail = fmt.Sprintf("%s is required", fe.Namespace())
		case "min":
			detail = fmt.Sprintf("%s must be at least %s", fe.Namespace(), fe.Param())
		case "max":
			detail = fmt.Sprintf("%s must be at most %s", fe.Namespace(), fe.Param())
		case "notation":
			detail = fmt.Sprintf("%s is not a valid position notation: %q", fe.Namespace(), fe.Value())
		case "movetoken":
			detail = fmt.Sprintf("%s is not a valid move token: %q", fe.Namespace(), fe.Value())
		default:
			detail = fmt.Sprintf("%s failed %s validation", fe.Namespace(), fe.Tag())
		}
		details = append(details, detail)
	}
	return details
}

// Decode reads and validates an engine reply
func Decode(r io.Reader) (Response, error) {
	var resp Response
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return Response{}, &DecodeError{Err: err}
	}
	if err := validate.Struct(resp); err != nil {
		return Response{}, newDecodeError(err)
	}
	return resp, nil
}
