package pkg

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// Toast types understood by the showToast listener in the base layout.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// ShowToast sets the HX-Trigger response header so the page raises a
// showToast event carrying message and toastType.
func ShowToast(c *gin.Context, message, toastType string) {
	trigger, _ := json.Marshal(map[string]any{
		"showToast": map[string]string{
			"message": message,
			"type":    toastType,
		},
	})
	c.Header("HX-Trigger", string(trigger))
}

// ShowNotice is ShowToast with a title line above the message.
func ShowNotice(c *gin.Context, title, message, toastType string) {
	trigger, _ := json.Marshal(map[string]any{
		"showToast": map[string]string{
			"title":   title,
			"message": message,
			"type":    toastType,
		},
	})
	c.Header("HX-Trigger", string(trigger))
}
