package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seola0114/ux-writing-plugin/internal/api/openapi"
	apperrors "github.com/seola0114/ux-writing-plugin/internal/pkg/errors"
	"github.com/seola0114/ux-writing-plugin/internal/pkg/logger"
)

// ContractOptions configures the contract validator.
type ContractOptions struct {
	// BasePath is stripped before the route lookup; the contract paths are
	// written without it.
	BasePath string
	// ValidateResponses buffers handler output and checks it too.
	ValidateResponses bool
}

// ContractValidator checks requests (and optionally responses) against the
// embedded OpenAPI document. Paths the document does not describe pass.
type ContractValidator struct {
	router    routers.Router
	basePath  string
	responses bool
	options   *openapi3filter.Options
}

// NewContractValidator loads the embedded document and builds its router.
func NewContractValidator(opts ContractOptions) (*ContractValidator, error) {
	doc, err := openapi.Load()
	if err != nil {
		return nil, fmt.Errorf("load openapi contract: %w", err)
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("create openapi router: %w", err)
	}
	return &ContractValidator{
		router:    router,
		basePath:  normalizeBasePath(opts.BasePath),
		responses: opts.ValidateResponses,
		options: &openapi3filter.Options{
			// Bearer tokens are checked by JWTAuth.
			AuthenticationFunc: func(context.Context, *openapi3filter.AuthenticationInput) error { return nil },
		},
	}, nil
}

// MustOpenAPIValidator validates requests and responses under basePath and
// panics when the embedded document is broken.
func MustOpenAPIValidator(basePath string) gin.HandlerFunc {
	mw, err := NewOpenAPIValidator(basePath)
	if err != nil {
		panic(fmt.Sprintf("init openapi validator: %v", err))
	}
	return mw
}

// NewOpenAPIValidator returns the middleware of a response-checking validator.
func NewOpenAPIValidator(basePath string) (gin.HandlerFunc, error) {
	v, err := NewContractValidator(ContractOptions{BasePath: basePath, ValidateResponses: true})
	if err != nil {
		return nil, err
	}
	return v.Handler(), nil
}

// Handler returns the gin middleware. Request failures are reported through
// c.Error so ErrorHandler renders them like any other AppError.
func (v *ContractValidator) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		input, ok, err := v.route(c.Request)
		if err != nil {
			_ = c.Error(apperrors.Wrap(err, apperrors.CodeInvalidRequest, "request does not match the API contract", http.StatusBadRequest))
			c.Abort()
			return
		}
		if !ok {
			c.Next()
			return
		}

		err = openapi3filter.ValidateRequest(c.Request.Context(), input)
		// The filter replaces the body it read on the lookup request.
		c.Request.Body = input.Request.Body
		if err != nil {
			_ = c.Error(requestContractError(err))
			c.Abort()
			return
		}

		if !v.responses {
			c.Next()
			return
		}
		v.serveValidated(c, input)
	}
}

// route finds the contract operation for req. ok is false for paths the
// contract does not describe.
func (v *ContractValidator) route(req *http.Request) (*openapi3filter.RequestValidationInput, bool, error) {
	lookup := req.Clone(req.Context())
	lookup.URL.Path = normalizeValidationPath(v.basePath, req.URL.Path)
	lookup.URL.RawPath = ""

	route, params, err := v.router.FindRoute(lookup)
	if err != nil {
		if isPathNotFoundError(err) {
			return nil, false, nil
		}
		var routeErr *routers.RouteError
		if errors.As(err, &routeErr) && routeErr.Reason == routers.ErrMethodNotAllowed.Error() {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &openapi3filter.RequestValidationInput{
		Request:    lookup,
		PathParams: params,
		Route:      route,
		Options:    v.options,
	}, true, nil
}

func (v *ContractValidator) serveValidated(c *gin.Context, input *openapi3filter.RequestValidationInput) {
	original := c.Writer
	buffered := newBufferedResponseWriter(original)
	c.Writer = buffered
	c.Next()
	c.Writer = original

	// Errors are rendered by ErrorHandler on the way out.
	if len(c.Errors) > 0 && !buffered.Written() {
		return
	}

	out := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: input,
		Status:                 buffered.Status(),
		Header:                 buffered.Header().Clone(),
		Options:                v.options,
	}
	out.SetBodyBytes(buffered.body.Bytes())

	if err := openapi3filter.ValidateResponse(c.Request.Context(), out); err != nil {
		logger.Error("Response violates the API contract",
			zap.String("request_id", GetRequestID(c.Request.Context())),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", buffered.Status()),
			zap.Error(err),
		)
		original.Header().Set("Content-Type", "application/json; charset=utf-8")
		original.WriteHeader(http.StatusInternalServerError)
		_, _ = original.Write([]byte(`{"code":"INTERNAL_ERROR","message":"response does not conform to the API contract"}`))
		return
	}

	original.WriteHeader(buffered.Status())
	if buffered.body.Len() > 0 {
		if _, err := original.Write(buffered.body.Bytes()); err != nil {
			logger.Warn("failed to flush buffered response",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
		}
	}
}

// requestContractError maps a filter error to an AppError naming the
// offending JSON pointer. Problems inside the node tree get their own code.
func requestContractError(err error) *apperrors.AppError {
	pointer := ""
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer = "/" + strings.Join(schemaErr.JSONPointer(), "/")
	}

	code, msg := apperrors.CodeInvalidRequest, "request does not match the API contract"
	if strings.HasPrefix(pointer, "/selection") {
		code, msg = apperrors.CodeInvalidNodeTree, "node tree does not match the API contract"
	}
	appErr := apperrors.Wrap(err, code, msg, http.StatusBadRequest)
	if pointer != "" {
		appErr.Params = map[string]interface{}{"pointer": pointer}
	}
	return appErr
}

func normalizeBasePath(basePath string) string {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" || basePath == "/" {
		return ""
	}
	return "/" + strings.Trim(basePath, "/")
}

func normalizeValidationPath(basePath, path string) string {
	switch {
	case basePath == "" && path == "":
		return "/"
	case basePath == "":
		return path
	case path == basePath:
		return "/"
	case strings.HasPrefix(path, basePath+"/"):
		return strings.TrimPrefix(path, basePath)
	}
	return path
}

func isPathNotFoundError(err error) bool {
	if errors.Is(err, routers.ErrPathNotFound) {
		return true
	}
	var routeErr *routers.RouteError
	return errors.As(err, &routeErr) && routeErr.Reason == routers.ErrPathNotFound.Error()
}

// bufferedResponseWriter holds the handler output until it is validated.
type bufferedResponseWriter struct {
	gin.ResponseWriter
	body        bytes.Buffer
	statusCode  int
	wroteHeader bool
}

func newBufferedResponseWriter(w gin.ResponseWriter) *bufferedResponseWriter {
	return &bufferedResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (w *bufferedResponseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.statusCode = code
	w.wroteHeader = true
}

func (w *bufferedResponseWriter) WriteHeaderNow() { w.wroteHeader = true }

func (w *bufferedResponseWriter) Write(data []byte) (int, error) {
	w.wroteHeader = true
	return w.body.Write(data)
}

func (w *bufferedResponseWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *bufferedResponseWriter) Status() int { return w.statusCode }

func (w *bufferedResponseWriter) Size() int { return w.body.Len() }

func (w *bufferedResponseWriter) Written() bool { return w.wroteHeader }
