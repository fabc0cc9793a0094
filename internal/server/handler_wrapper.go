// Provides middleware for standardizing HTTP handlers.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"

	"github.com/maruel/discdb/internal/server/dto"
	"github.com/maruel/discdb/internal/server/metrics"
	"github.com/maruel/discdb/internal/server/ratelimit"
	"github.com/maruel/discdb/internal/server/reqctx"
)

// addRequestMetadataToContext adds the client IP to the context.
func addRequestMetadataToContext(ctx context.Context, r *http.Request) context.Context {
	return reqctx.WithClientIP(ctx, reqctx.GetClientIP(r))
}

// checkRateLimit checks the tier matching the request and wraps the response
// writer to emit the rate limit headers. Returns the (possibly wrapped) writer
// and whether the request should proceed.
func checkRateLimit(ctx context.Context, w http.ResponseWriter, r *http.Request, limiters *ratelimit.Config, m *metrics.Metrics) (http.ResponseWriter, bool) {
	tier := limiters.Match(r.Method, r.URL.Path)
	if tier == nil {
		return w, true
	}
	result := tier.Limiter.Allow(ratelimit.BuildKey(reqctx.ClientIP(ctx), tier.Name))
	w = ratelimit.NewResponseWriter(w, result)
	if !result.Allowed {
		if m != nil {
			m.RateLimited.WithLabelValues(tier.Name).Inc()
		}
		writeErrorResponse(ctx, w, dto.RateLimitExceeded(), false)
		return w, false
	}
	return w, true
}

// readAndDecodeBody reads the request body with size limit and decodes JSON
// into input. An empty body leaves input untouched. Returns false if an error
// occurred and was written to the response.
func readAndDecodeBody[In any](ctx context.Context, w http.ResponseWriter, r *http.Request, input *In, maxBytes int64) bool {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	body, err := io.ReadAll(r.Body)
	if err2 := r.Body.Close(); err == nil {
		err = err2
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeErrorResponse(ctx, w, dto.PayloadTooLarge(maxBytesErr.Limit), false)
			return false
		}
		writeErrorResponse(ctx, w, dto.InvalidBody().Wrap(err), false)
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	d := json.NewDecoder(bytes.NewReader(body))
	if err := d.Decode(input); err != nil {
		writeErrorResponse(ctx, w, dto.InvalidBody().Wrap(err), false)
		return false
	}
	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		writeErrorResponse(ctx, w, dto.InvalidBody().Wrap(errors.New("trailing data after JSON value")), false)
		return false
	}
	return true
}

// writeJSONResponse writes a JSON response or error response.
//
// The status is 200 unless output implements dto.StatusCoder.
func writeJSONResponse[Out any](ctx context.Context, w http.ResponseWriter, output *Out, err error, exposeDetail bool) {
	if err != nil {
		writeErrorResponse(ctx, w, err, exposeDetail)
		return
	}
	statusCode := http.StatusOK
	if sc, ok := any(output).(dto.StatusCoder); ok {
		statusCode = sc.StatusCode()
	}
	writeJSON(ctx, w, statusCode, output)
}

// Wrap wraps a handler function to work as an http.Handler.
// The function must have signature: func(context.Context, *In) (*Out, error)
// where Out is JSON encodable. The body is decoded into In only when *In
// implements dto.BodyRequest; other requests ignore the body.
// Path parameters can be extracted by tagging struct fields with
// `path:"name"`. *In must implement dto.Validatable.
//
// Example:
//
//	type GetDiscRequest struct {
//	    ID int64 `path:"id"`
//	}
//
//	func (h *Handler) GetDisc(ctx context.Context, req *GetDiscRequest) (*Response, error)
func Wrap[In any, PtrIn interface {
	*In
	dto.Validatable
}, Out any](fn func(context.Context, PtrIn) (*Out, error), cfg *Config, limiters *ratelimit.Config, m *metrics.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := addRequestMetadataToContext(r.Context(), r)

		var ok bool
		if w, ok = checkRateLimit(ctx, w, r, limiters, m); !ok {
			return
		}

		input := new(In)
		if _, ok := any(input).(dto.BodyRequest); ok {
			if !readAndDecodeBody(ctx, w, r, input, cfg.MaxRequestBodyBytes) {
				return
			}
		}

		if err := populatePathParams(r, input); err != nil {
			writeErrorResponse(ctx, w, err, false)
			return
		}

		if err := PtrIn(input).Validate(); err != nil {
			handleValidationError(ctx, w, err)
			return
		}

		output, err := fn(ctx, PtrIn(input))
		writeJSONResponse(ctx, w, output, err, !cfg.HideErrorDetail)
	})
}

// populatePathParams extracts path parameters from the request and populates
// struct fields tagged with `path:"paramName"`.
//
// int64 fields must hold a base 10 integer; anything else yields a 400 naming
// the parameter.
func populatePathParams(r *http.Request, input any) error {
	val := reflect.ValueOf(input)
	if val.Kind() != reflect.Pointer {
		return nil
	}
	elem := val.Elem()
	if elem.Kind() != reflect.Struct {
		return nil
	}
	typ := elem.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		tag := field.Tag.Get("path")
		if tag == "" {
			continue
		}
		paramValue := r.PathValue(tag)
		switch field.Type.Kind() {
		case reflect.String:
			elem.Field(i).SetString(paramValue)
		case reflect.Int64:
			n, err := strconv.ParseInt(paramValue, 10, 64)
			if err != nil {
				return dto.InvalidPathParam(tag).Wrap(err)
			}
			elem.Field(i).SetInt(n)
		default:
			panic(fmt.Sprintf("unsupported path parameter type %s for %q", field.Type, tag))
		}
	}
	return nil
}

// handleValidationError handles a validation error from a request's Validate method.
func handleValidationError(ctx context.Context, w http.ResponseWriter, err error) {
	var ews dto.ErrorWithStatus
	if !errors.As(err, &ews) {
		err = dto.BadRequest(err.Error())
	}
	writeErrorResponse(ctx, w, err, false)
}

// writeErrorResponse logs err and writes it as JSON. Errors that do not carry
// a status become 500.
func writeErrorResponse(ctx context.Context, w http.ResponseWriter, err error, exposeDetail bool) {
	var ews dto.ErrorWithStatus
	if !errors.As(err, &ews) {
		ews = dto.InternalWithError(err)
	}
	statusCode := ews.StatusCode()
	if statusCode >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "Handler error", "err", err, "statusCode", statusCode, "code", ews.Code(), "rid", reqctx.RequestID(ctx))
	} else {
		slog.InfoContext(ctx, "Client error", "err", err, "statusCode", statusCode, "code", ews.Code(), "rid", reqctx.RequestID(ctx))
	}
	writeJSON(ctx, w, statusCode, ews.Response(exposeDetail))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "Failed to encode response", "err", err)
	}
}
