package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// Responder renders ProblemDetail values onto gin responses. Relative problem
// type URIs are resolved against BaseURI so deployments can publish absolute
// problem documentation links.
type Responder struct {
	BaseURI string
}

// NewResponder creates a problem responder. An empty base URI keeps the
// problem types relative.
func NewResponder(baseURI string) *Responder {
	return &Responder{BaseURI: baseURI}
}

// DefaultResponder serves the package-level helpers. The API process swaps it
// at startup when PROBLEM_BASE_URI is configured.
var DefaultResponder = NewResponder("")

// Respond sends a ProblemDetail with the problem+json content type. The
// request path fills Instance when the problem does not carry one.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError renders err as a problem. Errors that are not already a
// ProblemDetail surface as an internal problem so no raw error shape leaks.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.Respond(c, ErrInternal.WithDetail(err.Error()))
}

// Respond is a convenience function using the default responder.
func Respond(c *gin.Context, problem ProblemDetail) {
	DefaultResponder.Respond(c, problem)
}

// RespondError is a convenience function using the default responder.
func RespondError(c *gin.Context, err error) {
	DefaultResponder.RespondError(c, err)
}
