package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/mkarimz/deduction-gateway/internal/model"
	"github.com/mkarimz/deduction-gateway/internal/services"
	xhttp "github.com/mkarimz/deduction-gateway/pkg/http"
	"github.com/mkarimz/deduction-gateway/pkg/logger"
)

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	return json.Unmarshal(ctx.PostBody(), dst)
}

// readJSONStrict rejects bodies that name fields outside the target type.
// Used for PATCH, where blind merges were the original sin.
func readJSONStrict(ctx *xhttp.RequestCtx, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(ctx.PostBody()))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServiceError maps service failures onto the API contract: validation
// problems keep their message, not-found becomes 404, everything else is
// logged and collapsed to a generic 500.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(ctx, 400, verr.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(ctx, 404, err.Error())
	case errors.Is(err, services.ErrMissingAddress),
		errors.Is(err, services.ErrEmptyPatch),
		errors.Is(err, services.ErrUsernameTaken):
		writeError(ctx, 400, err.Error())
	default:
		logger.Error("request failed",
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"error", err)
		writeError(ctx, 500, "internal server error")
	}
}

func pathParam(ctx *xhttp.RequestCtx, name string) string {
	if v, ok := ctx.UserValue(name).(string); ok {
		return v
	}
	return ""
}

func pathParamInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	return strconv.ParseInt(pathParam(ctx, name), 10, 64)
}
