package server

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates holds one parsed page template per view, each composed with the
// shared layout. All interpolation goes through html/template so user- and
// provider-supplied text is escaped before it reaches the browser.
type Templates struct {
	Home          *template.Template
	Publish       *template.Template
	PublishResult *template.Template
	Comments      *template.Template
	ReplyResult   *template.Template
	Error         *template.Template
}

func loadTemplates() (*Templates, error) {
	funcs := template.FuncMap{
		"truncate": func(s string, n int) string {
			if len(s) <= n {
				return s
			}
			return s[:n]
		},
	}

	layoutContent, err := templateFS.ReadFile("templates/layout.html")
	if err != nil {
		return nil, err
	}

	makePage := func(pageName string) (*template.Template, error) {
		pageContent, err := templateFS.ReadFile("templates/" + pageName + ".html")
		if err != nil {
			return nil, err
		}

		t := template.New("layout").Funcs(funcs)
		t, err = t.Parse(string(layoutContent))
		if err != nil {
			return nil, err
		}
		t, err = t.Parse(string(pageContent))
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	templates := &Templates{}
	for _, entry := range []struct {
		name string
		dst  **template.Template
	}{
		{"home", &templates.Home},
		{"publish", &templates.Publish},
		{"publish_result", &templates.PublishResult},
		{"comments", &templates.Comments},
		{"reply_result", &templates.ReplyResult},
		{"error", &templates.Error},
	} {
		t, err := makePage(entry.name)
		if err != nil {
			return nil, err
		}
		*entry.dst = t
	}

	return templates, nil
}

// page is the data every layout execution receives.
type page struct {
	Title string
	Data  any
}

func (s *Server) render(w http.ResponseWriter, tmpl *template.Template, status int, title string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := tmpl.Execute(w, page{Title: title, Data: data}); err != nil {
		s.logger.Error("template render failed", "title", title, "error", err)
	}
}

func (s *Server) renderError(w http.ResponseWriter, status int, title, detail string) {
	s.render(w, s.templates.Error, status, title, errorView{Detail: detail})
}

type errorView struct {
	Detail string
}
