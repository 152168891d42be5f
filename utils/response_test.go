package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"savora/apperr"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(apperr.Validationf("bad")))
	assert.Equal(t, http.StatusNotFound, StatusFor(apperr.NotFoundf("gone")))
	assert.Equal(t, http.StatusBadGateway, StatusFor(apperr.Upstreamf("down")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(assert.AnError))
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, http.StatusBadRequest, "nope")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"nope"}`, rec.Body.String())
}
