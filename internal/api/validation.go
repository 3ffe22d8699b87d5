package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"fitrack/routine-app/internal/service"
)

// bindingFieldErrors turns a gin binding failure into a per-field error map
// so the client can highlight individual inputs. Non-validator errors (e.g.
// malformed JSON) come back as a single "body" entry.
func bindingFieldErrors(err error) map[string]string {
	fields := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["body"] = err.Error()
		return fields
	}

	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = name + " is required"
		case "min":
			fields[name] = name + " must be at least " + fe.Param()
		case "max":
			fields[name] = name + " must be at most " + fe.Param()
		case "email":
			fields[name] = name + " must be a valid email address"
		default:
			fields[name] = name + " is invalid"
		}
	}
	return fields
}

// abortWithBindingError writes a 400 with a per-field error map.
func abortWithBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":  "validation failed",
		"fields": bindingFieldErrors(err),
	})
}

// abortWithValidationError writes a 422 carrying the service layer's
// per-field error map.
func abortWithValidationError(c *gin.Context, verr *service.ValidationError) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "validation failed",
		"fields": verr.Fields,
	})
}
