package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oxidgene/oxidgene/internal/domain"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var statusByKind = map[domain.ErrorKind]int{
	domain.ErrorKindNotFound:   http.StatusNotFound,
	domain.ErrorKindValidation: http.StatusBadRequest,
	domain.ErrorKindGedcom:     http.StatusBadRequest,
	domain.ErrorKindDatabase:   http.StatusInternalServerError,
	domain.ErrorKindIO:         http.StatusInternalServerError,
	domain.ErrorKindInternal:   http.StatusInternalServerError,
}

// writeError translates a domain error into the JSON error body. Server
// faults are logged; client faults are not.
func (h *httpHandler) writeError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, errorBody{Error: string(kind), Message: err.Error()})
}

func (h *httpHandler) invalidBody(c *gin.Context, err error) {
	h.writeError(c, domain.ValidationError("invalid request body: %v", err))
}

// pageParams reads the ?first=&after= cursor pair.
func pageParams(c *gin.Context) (domain.PageParams, error) {
	params := domain.PageParams{After: strings.TrimSpace(c.Query("after"))}
	if raw := strings.TrimSpace(c.Query("first")); raw != "" {
		first, err := strconv.Atoi(raw)
		if err != nil {
			return domain.PageParams{}, domain.ValidationError("first must be an integer, got %q", raw)
		}
		params.First = first
	}
	return params, nil
}

// maxDepthParam reads the optional ?max_depth= ancestry bound.
func maxDepthParam(c *gin.Context) (*int, error) {
	raw := strings.TrimSpace(c.Query("max_depth"))
	if raw == "" {
		return nil, nil
	}
	depth, err := strconv.Atoi(raw)
	if err != nil || depth < 0 {
		return nil, domain.ValidationError("max_depth must be a non-negative integer, got %q", raw)
	}
	return &depth, nil
}

func queryPtr(c *gin.Context, name string) *string {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		return nil
	}
	return &value
}

// parseEnum validates an enum string from a request body or query parameter.
func parseEnum[T any](raw string, parse func(string) (T, error)) (T, error) {
	value, err := parse(raw)
	if err != nil {
		var zero T
		return zero, domain.ValidationError("%v", err)
	}
	return value, nil
}

// parseEnumField lifts parseEnum over a three-valued patch field. Absent and
// null pass through untouched; the store decides whether null is legal.
func parseEnumField[T any](field domain.Field[string], parse func(string) (T, error)) (domain.Field[T], error) {
	if !field.Present {
		return domain.Field[T]{}, nil
	}
	if field.Null {
		return domain.SetNull[T](), nil
	}
	value, err := parseEnum(field.Value, parse)
	if err != nil {
		return domain.Field[T]{}, err
	}
	return domain.Set(value), nil
}
