package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/avoronkov/authd/internal/apperrors"
)

var validate = validator.New()

func init() {
	// Report on json tag name instead of struct field name
	// Look at documentation of 'RegisterTagNameFunc' for more details
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		// skip if tag key says it should be ignored
		if name == "-" {
			return ""
		}
		return name
	})
}

type Struct any

// JSON sends data with status 200
func JSON(w http.ResponseWriter, data any) {
	JSONStatus(w, data, http.StatusOK)
}

// JSONStatus sends data as json and enforces status code
func JSONStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

// Message renders the uniform error body '{"message": "<text>"}'
func Message(w http.ResponseWriter, message string, code int) {
	type response struct {
		Message string `json:"message"`
	}

	JSONStatus(w, response{Message: message}, code)
}

// BindAndValidate decodes the JSON request body into T and validates it
// with struct tags. Failures come back as classified errors so the
// outermost handler stage renders them uniformly.
func BindAndValidate[T Struct](r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(r.Body).Decode(&value)
	if err != nil {
		return value, apperrors.Wrap(apperrors.KindBadRequest, decodeDetail(err), err)
	}

	err = validate.Struct(value)
	if err != nil {
		// pretty sure cast will be ok cause expecting T is valid struct
		errs := err.(validator.ValidationErrors)
		return value, apperrors.Wrap(apperrors.KindValidationError, validationDetail(errs), err)
	}

	return value, nil
}

func decodeDetail(err error) string {
	switch err := err.(type) {
	case *json.UnmarshalTypeError:
		return fmt.Sprintf("invalid data type for field '%s'", err.Field)
	default:
		return fmt.Sprintf("failed to parse JSON: %s", err.Error())
	}
}

func validationDetail(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))

	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "this field is required"
		case "email":
			message = "not a valid email"
		case "max":
			message = fmt.Sprintf("value is too long (maximum %s)", fieldError.Param())
		default:
			message = "invalid value"
		}

		parts = append(parts, fmt.Sprintf("field '%s': %s", fieldError.Field(), message))
	}

	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
