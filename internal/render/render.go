// Package render turns the aggregated article list into the static browsable
// page. The page is self-contained: group tabs, per-source filters, and the
// saved-articles pane talk to the api package endpoints from inline script.
package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/RobinCoderZhao/feedbridge/internal/bridge"
	"github.com/RobinCoderZhao/feedbridge/internal/config"
)

const descriptionLimit = 200

// Page is everything the template needs.
type Page struct {
	Articles    []bridge.Article
	Groups      []config.Group
	SourceNames map[string]string
}

type templateData struct {
	Articles        []bridge.Article
	Groups          []config.Group
	FirstGroup      string
	GroupsJSON      template.JS
	SourceNamesJSON template.JS
}

var funcs = template.FuncMap{
	"formatDate": FormatDate,
	"truncate":   Truncate,
}

var pageTemplate = template.Must(template.New("page").Funcs(funcs).Parse(pageHTML))

// FormatDate renders a timestamp for display; the zero time means the
// publication date is unknown.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown date"
	}
	return t.Format("Jan 2, 2006")
}

// Truncate shortens a description to the display limit.
func Truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionLimit {
		return s
	}
	return string(runes[:descriptionLimit]) + "..."
}

// WriteFile renders the page to path.
func WriteFile(path string, p Page) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, p); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

// Write renders the page to w.
func Write(w io.Writer, p Page) error {
	// The group layout and name map are handed to the inline script as JSON.
	groups := make(map[string][]string, len(p.Groups))
	for _, g := range p.Groups {
		groups[g.Name] = g.Sources
	}
	groupsJSON, err := json.Marshal(groups)
	if err != nil {
		return err
	}
	namesJSON, err := json.Marshal(p.SourceNames)
	if err != nil {
		return err
	}

	first := ""
	if len(p.Groups) > 0 {
		first = p.Groups[0].Name
	}

	return pageTemplate.Execute(w, templateData{
		Articles:        p.Articles,
		Groups:          p.Groups,
		FirstGroup:      first,
		GroupsJSON:      template.JS(groupsJSON),
		SourceNamesJSON: template.JS(namesJSON),
	})
}
