package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestJobHandler_Book_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &JobHandler{}
	r.POST("/jobs", handler.Book)

	req, _ := http.NewRequest("POST", "/jobs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJobHandler_Get_InvalidJobID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &JobHandler{}
	r.GET("/jobs/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/jobs/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobHandler_Accept_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &JobHandler{}
	r.POST("/jobs/:id/accept", handler.Accept)

	req, _ := http.NewRequest("POST", "/jobs/11111111-1111-1111-1111-111111111111/accept", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEarningsHandler_Earnings_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &EarningsHandler{}
	r.GET("/earnings", handler.Earnings)

	req, _ := http.NewRequest("GET", "/earnings", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEarningsHandler_RequestWithdrawal_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &EarningsHandler{}
	r.POST("/withdrawals", handler.RequestWithdrawal)

	req, _ := http.NewRequest("POST", "/withdrawals", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
