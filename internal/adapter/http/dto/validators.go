package dto

import (
	"html"
	"reflect"
	"regexp"
	"strings"

	"deposit-reconciler/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.@]+$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("safe_id", validateSafeID)
		_ = v.RegisterValidation("provider", validateProvider)
	}
}

// validateSafeID allows alphanumeric, underscore, dash, dot and at.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

// validateProvider accepts SAME_BANK, SAME_WALLET and CROSS_PROVIDER in any case.
func validateProvider(fl validator.FieldLevel) bool {
	_, err := domain.ParseProviderChoice(fl.Field().String())
	return err == nil
}

// SanitizeStruct trims whitespace from every exported string field (including
// *string) of a struct pointer. Fields tagged sanitize:"html" are also
// HTML-escaped.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		escape := rt.Field(i).Tag.Get("sanitize") == "html"
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String(), escape))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(sanitize(elem.String(), escape))
			}
		}
	}
}

func sanitize(s string, escape bool) string {
	s = strings.TrimSpace(s)
	if escape {
		s = html.EscapeString(s)
	}
	return s
}
