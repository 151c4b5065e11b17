package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func recordProblem(t *testing.T, respond func(c *gin.Context)) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orders/42", nil)
	respond(c)

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestResponder_ResolvesBaseURIAndInstance(t *testing.T) {
	responder := NewResponder("https://mall.example.com")
	rec, problem := recordProblem(t, func(c *gin.Context) {
		responder.Respond(c, NewNotFoundProblem("order", 42))
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, "https://mall.example.com/problems/not-found", problem.Type)
	require.Equal(t, "/api/v1/orders/42", problem.Instance)
}

func TestResponder_RelativeTypesWithoutBaseURI(t *testing.T) {
	_, problem := recordProblem(t, func(c *gin.Context) {
		Respond(c, NewInsufficientStockProblem("product 7 has 2 left"))
	})

	require.Equal(t, "/problems/insufficient-stock", problem.Type)
	require.Equal(t, http.StatusBadRequest, problem.Status)
}

func TestRespondError_WrapsUnknownErrors(t *testing.T) {
	rec, problem := recordProblem(t, func(c *gin.Context) {
		RespondError(c, errors.New("connection reset"))
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, TypeInternal, problem.Type)
}
