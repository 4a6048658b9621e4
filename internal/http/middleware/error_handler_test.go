package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/brightekpe/artisanhub-backend/internal/repository"
	"github.com/brightekpe/artisanhub-backend/internal/repository/common"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "specific not-found sentinel",
			err:        fmt.Errorf("load job: %w", repository.ErrJobNotFound),
			wantStatus: http.StatusNotFound,
			wantMsg:    "job not found",
		},
		{
			name:       "not-found class fallback",
			err:        fmt.Errorf("session record: %w", common.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantMsg:    "resource not found",
		},
		{
			name:       "duplicate insert backstop",
			err:        fmt.Errorf("email is taken: %w", common.ErrAlreadyExists),
			wantStatus: http.StatusConflict,
			wantMsg:    "resource already exists",
		},
		{
			name:       "conflict sentinel",
			err:        repository.ErrJobConflict,
			wantStatus: http.StatusConflict,
			wantMsg:    "job is not in the expected state",
		},
		{
			name:       "internal detail is masked",
			err:        fmt.Errorf("user repository: create pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
		{
			name:       "service message passes through",
			err:        fmt.Errorf("job service: amount must be positive"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := classify(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestErrorHandlerWritesClassifiedResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		c.Error(fmt.Errorf("phone is taken: %w", common.ErrAlreadyExists))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"resource already exists"}`, w.Body.String())
}
