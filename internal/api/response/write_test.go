package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONIsNeverCached(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusCreated, Player{ID: "p1", DisplayName: "Alice"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "Authorization", rr.Header().Get("Vary"))
	assert.JSONEq(t, `{"id":"p1","display_name":"Alice"}`, rr.Body.String())
}

func TestNoContent(t *testing.T) {
	rr := httptest.NewRecorder()
	NoContent(rr)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}
