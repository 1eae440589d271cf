package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFail_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   int
		msg    string
	}{
		{Invalid("name is required"), http.StatusBadRequest, CodeInvalidParam, "name is required"},
		{Unauthenticated("Unauthorized: No token provided"), http.StatusUnauthorized, CodeAuth, "Unauthorized: No token provided"},
		{Forbidden("not yours"), http.StatusForbidden, CodeForbidden, "not yours"},
		{fmt.Errorf("load: %w", NotFound("Notebook not found")), http.StatusNotFound, CodeNotFound, "Notebook not found"},
		{ErrNotFound, http.StatusNotFound, CodeNotFound, "Not found"},
		{errors.New("disk on fire"), http.StatusInternalServerError, CodeServerErr, "Server Error"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

		Fail(c, tc.err)

		if rec.Code != tc.status {
			t.Errorf("Fail(%v) status = %d, want %d", tc.err, rec.Code, tc.status)
		}
		var body struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Code != tc.code || body.Message != tc.msg {
			t.Errorf("Fail(%v) body = %+v, want code %d message %q", tc.err, body, tc.code, tc.msg)
		}
		if tc.status == http.StatusInternalServerError && body.Error != "disk on fire" {
			t.Errorf("500 body error = %q, want raw text", body.Error)
		}
	}
}

func TestSuccessStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	SuccessStatus(c, http.StatusCreated, Response{"message": "ok"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	var body struct {
		Code int               `json:"code"`
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != CodeOK || body.Data["message"] != "ok" {
		t.Errorf("body = %+v", body)
	}
}
