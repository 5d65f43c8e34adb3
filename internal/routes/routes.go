// Package routes maps client-side URL paths to the views that render them.
package routes

import "strings"

// View identifies a page of the single-page app.
type View struct {
	Name         string
	Title        string
	RequiresAuth bool
}

// Factory builds a fresh View for one navigation.
type Factory func() View

func LoginView() View    { return View{Name: "login", Title: "Log In"} }
func RegisterView() View { return View{Name: "register", Title: "Register"} }
func ProfileView() View  { return View{Name: "profile", Title: "Profile", RequiresAuth: true} }

// Table is a static mapping from exact paths to view factories.
type Table struct {
	basePath string
	routes   map[string]Factory
}

// NewTable returns the app's route table mounted under basePath.
func NewTable(basePath string) *Table {
	return &Table{
		basePath: strings.TrimSuffix(basePath, "/"),
		routes: map[string]Factory{
			"/":         LoginView,
			"/register": RegisterView,
			"/login":    LoginView,
			"/profile":  ProfileView,
		},
	}
}

// Resolve returns the view for path after stripping the base path and any
// trailing slash. Unknown paths return false.
func (t *Table) Resolve(path string) (View, bool) {
	if t.basePath != "" {
		trimmed, ok := strings.CutPrefix(path, t.basePath)
		if !ok {
			return View{}, false
		}
		path = trimmed
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		path = "/"
	}

	factory, ok := t.routes[path]
	if !ok {
		return View{}, false
	}
	return factory(), true
}

// Paths returns the registered paths.
func (t *Table) Paths() []string {
	paths := make([]string, 0, len(t.routes))
	for p := range t.routes {
		paths = append(paths, p)
	}
	return paths
}
