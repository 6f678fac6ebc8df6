// Package web embeds the contact page served at the site root.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static templates
var assets embed.FS

var pageTemplate = template.Must(template.ParseFS(assets, "templates/index.html"))

// Static returns the embedded assets rooted at static/.
func Static() http.FileSystem {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Register mounts the contact page at / and its assets under /static. A
// non-empty turnstileSiteKey renders the Turnstile widget into the form.
func Register(router *gin.Engine, turnstileSiteKey string) {
	router.SetHTMLTemplate(pageTemplate)
	router.StaticFS("/static", Static())
	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{"SiteKey": turnstileSiteKey})
	})
}
