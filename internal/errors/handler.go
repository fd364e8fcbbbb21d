package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"pricedash/internal/dataprocessing"
	"pricedash/pkg/contracts/domain"
)

// sentinelProblem maps a sentinel error to the problem it is reported as.
type sentinelProblem struct {
	err    error
	status int
	typ    string
	title  string
	code   string
	// detail is fixed text; empty means the error message is shown.
	detail string
}

// Checked in order; the first sentinel matched with errors.Is wins.
var sentinelProblems = []sentinelProblem{
	{context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout, "Request Timeout", "",
		"The request took too long to process and was cancelled"},
	{context.Canceled, http.StatusGatewayTimeout, TypeTimeout, "Request Timeout", "",
		"The request took too long to process and was cancelled"},
	{dataprocessing.ErrNotFound, http.StatusNotFound, TypeDataNotFound, "Price Data Not Found", CodeDataNotFound,
		"The price history file could not be found"},
	{dataprocessing.ErrLoadFailed, http.StatusInternalServerError, TypeDataCorrupted, "Price Data Unreadable", CodeDataLoadFailed,
		"The price history file could not be read"},
	{domain.ErrInvalidRange, http.StatusBadRequest, TypeInvalidRange, "Invalid Date Range", CodeInvalidRange, ""},
}

var codeTypes = map[string]string{
	CodeValidationFailed: TypeValidation,
	CodeInvalidRequest:   TypeValidation,
	CodeInvalidRange:     TypeInvalidRange,
	CodeNotFound:         TypeNotFound,
	CodeDataNotFound:     TypeDataNotFound,
	CodeDataLoadFailed:   TypeDataCorrupted,
	CodeRateLimit:        TypeRateLimit,
	CodeUnavailable:      TypeServiceDown,
}

// ErrorHandler renders every failure of the HTTP layer as problem details.
type ErrorHandler struct {
	logger *slog.Logger
	// debug adds panic values and stacks to 5xx responses.
	debug bool
}

// NewErrorHandler creates an error handler. debug is meant for development.
func NewErrorHandler(logger *slog.Logger, debug bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
		debug:  debug,
	}
}

// HandleError logs err and writes it as a problem response. Client errors
// log at warn, server errors at error.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	problem := h.ErrorToProblem(err, r).WithExtension("request_id", reqID)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
		if h.debug {
			problem.WithExtension("stack", string(debug.Stack()))
		}
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	render.Render(w, r, problem)
}

// ErrorToProblem converts err to problem details. Domain sentinels take
// precedence over an *APIError wrapping them.
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	for _, sp := range sentinelProblems {
		if !errors.Is(err, sp.err) {
			continue
		}
		detail := sp.detail
		if detail == "" {
			detail = err.Error()
		}
		problem := NewProblemDetails(sp.status, sp.typ, sp.title, detail, r.URL.Path)
		if sp.code != "" {
			problem.WithExtension("error_code", sp.code)
		}
		return problem
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		typ, ok := codeTypes[apiErr.ErrorCode]
		if !ok {
			typ = TypeInternal
		}
		problem := NewProblemDetails(apiErr.StatusCode, typ, http.StatusText(apiErr.StatusCode), apiErr.Message, r.URL.Path).
			WithExtension("error_code", apiErr.ErrorCode)
		if apiErr.Details != nil {
			problem.WithExtension("details", apiErr.Details)
		}
		return problem
	}

	return NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred while processing your request", r.URL.Path)
}

// HandlePanic logs a recovered panic and answers 500. The panic value is only
// exposed in debug mode.
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered any) {
	reqID := middleware.GetReqID(r.Context())
	stack := string(debug.Stack())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", stack),
	)

	problem := NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred", r.URL.Path).WithExtension("request_id", reqID)
	if h.debug {
		problem.WithExtension("panic", fmt.Sprint(recovered)).WithExtension("stack", stack)
	}
	render.Render(w, r, problem)
}

// NotFound answers unknown routes.
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found",
		"The requested resource was not found", r.URL.Path).
		WithExtension("request_id", middleware.GetReqID(r.Context())))
}

// MethodNotAllowed answers known routes hit with another method.
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, NewProblemDetails(http.StatusMethodNotAllowed, TypeMethod, "Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method), r.URL.Path).
		WithExtension("request_id", middleware.GetReqID(r.Context())))
}

// Recoverer turns panics in next into problem responses. http.ErrAbortHandler
// is re-raised for net/http.
func (h *ErrorHandler) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.HandlePanic(w, r, rec)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
