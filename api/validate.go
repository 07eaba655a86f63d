package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/inkwell-app/inkwell-backend/errs"
)

// validate checks the `validate` struct tags on request payloads. A single
// instance caches struct metadata, so it is shared across handlers.
var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeAndValidate decodes the request body into dst and runs the declared
// validation rules. Any violation rejects the whole request; persistence is
// never reached with a partially valid payload.
func decodeAndValidate(r *http.Request, dst any, payloadName string) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.NewMalformedPayloadError(payloadName, err)
	}

	if err := validate.Struct(dst); err != nil {
		var violations validator.ValidationErrors
		if errors.As(err, &violations) && len(violations) > 0 {
			first := violations[0]
			return errs.NewInvalidFieldError(fieldName(first), fieldMessage(first))
		}
		return errs.NewMalformedPayloadError(payloadName, err)
	}

	return nil
}

func fieldName(fe validator.FieldError) string {
	// Report the JSON name, not the Go field name.
	return strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("should have length of at least %s", fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}
