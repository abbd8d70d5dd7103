// Package ctx provides a request context for handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helper methods for everything:
//
//	func (mc *MealController) Index(c *ctx.Context) {
//	    meals, err := mc.meals.List(c.Context(), c.UserID())
//	    ...
//	    c.JSON(http.StatusOK, meals)
//	}
//
//	// Register with ctx.Wrap:
//	r.Get("/meals", "meals.index", ctx.Wrap(mc.Index))
package ctx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/nutritrack/pkg/auth"
	"github.com/shashiranjanraj/nutritrack/pkg/bind"
	"github.com/shashiranjanraj/nutritrack/pkg/logger"
	"github.com/shashiranjanraj/nutritrack/pkg/response"
	"github.com/shashiranjanraj/nutritrack/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair and provides a rich helper API.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // written status code (0 = not written yet)
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/meals/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a path parameter as a positive integer id.
// ok is false for anything that cannot name a row.
func (c *Context) ParamUint(key string) (id uint, ok bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// Method returns the HTTP method of the request.
func (c *Context) Method() string { return c.R.Method }

// Path returns the request URL path.
func (c *Context) Path() string { return c.R.URL.Path }

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Identity returns the caller resolved by the auth middleware.
func (c *Context) Identity() (auth.Identity, bool) {
	return auth.FromCtx(c.R.Context())
}

// UserID returns the authenticated user's id, or 0 on a public route.
func (c *Context) UserID() uint {
	id, _ := c.Identity()
	return id.UserID
}

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation.
// It writes the response itself and returns false when the handler must stop:
// 400 for a malformed body, 422 for rule failures, 500 for lookup errors.
//
//	var in StoreMealRequest
//	if !c.BindJSON(&in) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		var malformed *bind.MalformedError
		if errors.As(err, &malformed) {
			c.Message(http.StatusBadRequest, malformed.Error())
			return false
		}
		c.ServerError(err)
		return false
	}
	if validate.HasErrors(errs) {
		c.status = http.StatusUnprocessableEntity
		response.ValidationError(c.W, errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// Status writes just the HTTP status code with an empty body.
func (c *Context) Status(code int) {
	c.status = code
	c.W.WriteHeader(code)
}

// JSON writes a JSON response with the given status code.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// Message sends {"message": msg}.
func (c *Context) Message(code int, msg string) {
	c.status = code
	response.Message(c.W, code, msg)
}

// NotFound sends a 404 with a resource-specific message.
func (c *Context) NotFound(msg string) {
	c.Message(http.StatusNotFound, msg)
}

// Unauthenticated sends a 401.
func (c *Context) Unauthenticated() {
	c.Message(http.StatusUnauthorized, response.MessageUnauthenticated)
}

// ServerError logs err with the request's logger and sends an opaque 500.
func (c *Context) ServerError(err error) {
	logger.WithCtx(c.Context()).Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	c.status = http.StatusInternalServerError
	response.InternalError(c.W)
}

// WrittenStatus returns the HTTP status code that was written to the response,
// or 0 if no response has been written yet.
func (c *Context) WrittenStatus() int { return c.status }
