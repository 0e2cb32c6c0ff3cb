package helper

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct menjalankan validator; hasil kedua = map field → tag yang gagal.
func ValidateStruct(v any) (map[string][]string, error) {
	err := validate.Struct(v)
	if err == nil {
		return nil, nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, err
	}
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		// Namespace: "CreateQuizRequest.Questions[0].Text" → "Questions[0].Text"
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		out[ns] = append(out[ns], fe.Tag())
	}
	return out, nil
}
