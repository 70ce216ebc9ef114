package viewmodel

import (
	"github.com/gofiber/template/html/v2"
)

// NewEngine loads the templates below dir with the helper funcs registered.
// reload re-parses templates on every render, for development.
func NewEngine(dir string, reload bool) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFuncMap(Funcs())
	engine.Reload(reload)
	return engine
}
