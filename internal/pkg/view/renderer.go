// Package view abstracts page rendering behind a small interface. Workflow
// and auth code supply (template name, data) pairs only; markup lives in the
// template files.
package view

import (
	"github.com/gin-gonic/gin"
)

// Data is the payload handed to a template.
type Data map[string]interface{}

// Renderer turns a named template plus a data payload into a response body.
type Renderer interface {
	Render(c *gin.Context, status int, name string, data Data)
}

// HTMLRenderer renders templates through gin's html/template engine.
// Templates are loaded onto the engine at router setup.
type HTMLRenderer struct{}

// NewHTMLRenderer creates a new HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render writes the named template with the given data and status code.
func (r *HTMLRenderer) Render(c *gin.Context, status int, name string, data Data) {
	if data == nil {
		data = Data{}
	}
	// Identity is set by the auth middleware; templates use it for the navbar.
	if identity, ok := c.Get("identity"); ok {
		if _, present := data["user"]; !present {
			data["user"] = identity
		}
	}
	c.HTML(status, name, map[string]interface{}(data))
}
