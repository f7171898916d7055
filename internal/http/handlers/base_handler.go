// README: Base handler utilities (JSON envelopes, binding, error mapping).
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"freightquote/internal/modules/pricing"
)

const (
	notifySuccess = "success"
	notifyError   = "error"

	msgRequired   = "Este campo é obrigatório"
	msgInvalid    = "Valor inválido"
	msgBadJSON    = "Número inválido"
	msgFormErrors = "Erro no cálculo. Verifique os dados."
	msgInternal   = "internal error"
)

type notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type successResponse struct {
	Data         any           `json:"data"`
	Notification *notification `json:"notification,omitempty"`
}

type errorResponse struct {
	Error        string            `json:"error"`
	Code         string            `json:"code"`
	Fields       map[string]string `json:"fields,omitempty"`
	Notification notification      `json:"notification"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

// writeData answers without a notification (reads).
func writeData(c *gin.Context, status int, data any) {
	writeJSON(c, status, successResponse{Data: data})
}

// writeSuccess answers with the transient success notification.
func writeSuccess(c *gin.Context, status int, data any, msg string) {
	writeJSON(c, status, successResponse{Data: data, Notification: &notification{Type: notifySuccess, Message: msg}})
}

func writeError(c *gin.Context, status int, code, msg string) {
	writeFieldErrors(c, status, code, msg, nil)
}

func writeFieldErrors(c *gin.Context, status int, code, msg string, fields map[string]string) {
	writeJSON(c, status, errorResponse{
		Error:        msg,
		Code:         code,
		Fields:       fields,
		Notification: notification{Type: notifyError, Message: msg},
	})
}

func writeInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	writeError(c, http.StatusInternalServerError, "internal", msgInternal)
}

var registerOnce sync.Once

// RegisterValidation makes binding errors report JSON field names.
func RegisterValidation() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON decodes and validates the body. On failure it writes the response and returns false.
// extra runs on the decoded body when field validation fails so every error is reported at once.
func bindJSON(c *gin.Context, dst any, extra func() map[string]string) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	fields, ok := fieldErrors(err)
	if !ok {
		status, msg := http.StatusBadRequest, msgBadJSON
		if errors.Is(err, io.EOF) {
			msg = msgRequired
		}
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			msg = "JSON inválido"
		}
		writeError(c, status, "invalid_json", msg)
		return false
	}
	if extra != nil {
		for k, v := range extra() {
			if _, seen := fields[k]; !seen {
				fields[k] = v
			}
		}
	}
	writeFieldErrors(c, http.StatusUnprocessableEntity, "validation_failed", msgFormErrors, fields)
	return false
}

func fieldErrors(err error) (map[string]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fieldName(fe.Field())
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = fieldMessage(name, fe)
	}
	return fields, true
}

// fieldName turns map element names like "tolls[6]" into "tolls.6".
func fieldName(field string) string {
	if i := strings.IndexByte(field, '['); i > 0 && strings.HasSuffix(field, "]") {
		return field[:i] + "." + field[i+1:len(field)-1]
	}
	return field
}

func fieldMessage(name string, fe validator.FieldError) string {
	if name == pricing.FieldDistance && fe.Tag() == "lte" {
		return fmt.Sprintf("Valor máximo: %s", fe.Param())
	}
	if msg := pricing.FieldMessage(name); msg != "" {
		return msg
	}
	if fe.Tag() == "required" {
		return msgRequired
	}
	return msgInvalid
}

// validationFields extracts the per-field messages of a pricing validation error.
func validationFields(err error) map[string]string {
	var verr *pricing.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
