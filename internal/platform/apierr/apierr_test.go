package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Invalid("x"), 400},
		{Unauthenticated("x"), 401},
		{Forbidden("x"), 403},
		{NotFound("x"), 404},
		{Conflict("x"), 409},
		{TooManyRequests("x"), 429},
		{Internal("x"), 500},
		{fmt.Errorf("wrapped: %w", Conflict("dup")), 409},
		{errors.New("boom"), 500},
	}
	for _, tt := range cases {
		if got := ToHTTPStatus(tt.err); got != tt.want {
			t.Fatalf("ToHTTPStatus(%v)=%d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWriteHidesUnexpectedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	Write(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	var body APIError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "internal server error" || body.Code != CodeInternal {
		t.Fatalf("unexpected body %+v", body)
	}
}
