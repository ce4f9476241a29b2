// Package flash carries one-shot status messages across a redirect using a
// short-lived cookie, the post/redirect/get companion to form handling.
package flash

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const cookieName = "task_flash"

// Message is a user-facing status with a presentation category.
type Message struct {
	Category string // "success" or "error"
	Text     string
}

// Set stores a message for the next rendered page.
func Set(c *gin.Context, category, text string) {
	value := url.QueryEscape(category + "|" + text)
	c.SetCookie(cookieName, value, 60, "/", "", false, true)
}

// Success is shorthand for Set with the success category.
func Success(c *gin.Context, text string) {
	Set(c, "success", text)
}

// Error is shorthand for Set with the error category.
func Error(c *gin.Context, text string) {
	Set(c, "error", text)
}

// Pop returns the pending message, if any, and clears it.
func Pop(c *gin.Context) (Message, bool) {
	raw, err := c.Cookie(cookieName)
	if err != nil || raw == "" {
		return Message{}, false
	}
	c.SetCookie(cookieName, "", -1, "/", "", false, true)

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return Message{}, false
	}
	category, text, ok := strings.Cut(decoded, "|")
	if !ok || text == "" {
		return Message{}, false
	}
	return Message{Category: category, Text: text}, true
}
