package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

var registerOnce sync.Once

// RegisterValidators installs the custom rules request structs rely on into
// gin's validator and makes errors report JSON field names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("tld", validateTLD)
	})
}

// validateTLD accepts an address whose top-level domain is one of the
// space-separated values in the tag param, e.g. `tld=com net`.
func validateTLD(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	dot := strings.LastIndex(value, ".")
	if dot < 0 || dot == len(value)-1 {
		return false
	}
	tld := strings.ToLower(value[dot+1:])
	for _, allowed := range strings.Fields(fl.Param()) {
		if tld == allowed {
			return true
		}
	}
	return false
}

// bindJSON binds and validates the body into req. On failure it writes a 400
// with a structured list of field errors and returns false.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make([]FieldError, 0, len(ve))
		for _, fe := range ve {
			details = append(details, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errValidation, "details": details})
		return false
	}

	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	return false
}
