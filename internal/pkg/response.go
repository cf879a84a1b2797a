package pkg

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/quizhub/internal/domain"
)

// Response is the envelope of every JSON answer.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ValidationErrorResponse reports failed binding rules keyed by the JSON path
// of the offending field, e.g. "questions[0].answers[1].answer".
type ValidationErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

// Success answers 200 with data.
func Success(c *gin.Context, data any) {
	respond(c, http.StatusOK, "success", data)
}

// Message answers 200 with a custom message, used by state-changing
// endpoints whose outcome deserves a sentence.
func Message(c *gin.Context, message string, data any) {
	respond(c, http.StatusOK, message, data)
}

// Created answers 201 with the new resource.
func Created(c *gin.Context, data any) {
	respond(c, http.StatusCreated, "created", data)
}

// List answers 200 with one page of results, normally a *domain.Page[T].
func List(c *gin.Context, page any) {
	respond(c, http.StatusOK, "success", page)
}

// NoContent answers 204 without a body.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}

// Error answers with the status mapped from err's AppError code. Anything
// else becomes a 500 whose cause is logged but never sent to the client.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)
	msg := "internal error"

	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("route", c.FullPath()),
			slog.Any("error", err),
		)
	}
	respond(c, status, msg, nil)
}

// BindAndValidate binds the request into obj and runs its binding rules.
// On failure it answers 400 and returns false:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	err := c.ShouldBind(obj)
	if err == nil {
		return true
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return false
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[jsonPath(reflect.TypeOf(obj), fe.Namespace())] = rule
	}
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "validation error",
		Errors:  fields,
	})
	return false
}

// jsonPath rewrites a validator namespace such as
// "CreateQuizRequest.Questions[0].Answer" into the JSON names of t's fields.
// Segments that cannot be resolved fall back to their lower-cased Go name.
func jsonPath(t reflect.Type, namespace string) string {
	segments := strings.Split(namespace, ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}

	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		name, index, _ := strings.Cut(seg, "[")
		if index != "" {
			index = "[" + index
		}

		jsonName := strings.ToLower(name)
		t = indirect(t)
		if t != nil && t.Kind() == reflect.Struct {
			if f, ok := t.FieldByName(name); ok {
				if tagged := parseJSONTagName(f.Tag.Get("json")); tagged != "" {
					jsonName = tagged
				}
				t = f.Type
			} else {
				t = nil
			}
		}
		if index != "" && t != nil {
			t = indirect(t)
			if k := t.Kind(); k == reflect.Slice || k == reflect.Array || k == reflect.Map {
				t = t.Elem()
			}
		}
		out = append(out, jsonName+index)
	}
	return strings.Join(out, ".")
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// parseJSONTagName extracts the field name from a JSON struct tag value.
func parseJSONTagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}
