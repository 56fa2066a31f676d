package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/skillgap/internal/ingestion"
	"github.com/jonathan/skillgap/internal/service"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "job_title", Message: "required"}
	assert.Equal(t, "validation error: job_title - required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty title", service.ErrEmptyJobTitle, http.StatusBadRequest},
		{"wrapped empty title", fmt.Errorf("lookup: %w", service.ErrEmptyJobTitle), http.StatusBadRequest},
		{"unsupported format", &ingestion.UnsupportedFormatError{Ext: ".png"}, http.StatusBadRequest},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"other", errors.New("database down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
