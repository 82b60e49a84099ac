package pkg

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIsHTMX(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/search", nil)
	if IsHTMX(c) {
		t.Error("IsHTMX() = true without header")
	}
	c.Request.Header.Set("HX-Request", "true")
	if !IsHTMX(c) {
		t.Error("IsHTMX() = false with HX-Request: true")
	}
}

func TestShowToast(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ShowToast(c, "Failed to fetch trademark data. Please try again.", ToastError)

	var trigger map[string]map[string]string
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &trigger); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	toast := trigger["showToast"]
	if toast["type"] != ToastError || toast["message"] != "Failed to fetch trademark data. Please try again." {
		t.Errorf("showToast = %v", toast)
	}
}

func TestShowNotice(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ShowNotice(c, "Checking registrability", "Analyzing trademark registrability for your query...", ToastInfo)

	var trigger map[string]map[string]string
	if err := json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &trigger); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	toast := trigger["showToast"]
	if toast["title"] != "Checking registrability" || toast["type"] != ToastInfo {
		t.Errorf("showToast = %v", toast)
	}
}
