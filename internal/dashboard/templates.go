package dashboard

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type pageChart struct {
	Name  string
	Mount string
	Title string
}

type pageData struct {
	Title      string
	AssetsHost string
	Notes      template.HTML
	Source     string
	UpdatedAt  string
	Charts     []pageChart
	// Options maps mount ids to chart option documents. html/template
	// encodes it as a JS object literal inside the script block.
	Options map[string]json.RawMessage
}

// renderIndex writes the dashboard page for the current view.
func (d *Dashboard) renderIndex(w *bytes.Buffer) error {
	v := d.coord.View()
	data := pageData{
		Title:      d.title,
		AssetsHost: d.assetsHost,
		Notes:      d.notes,
		Source:     v.Source,
		UpdatedAt:  v.UpdatedAt.Format(time.RFC1123),
		Options:    make(map[string]json.RawMessage, len(v.Charts)),
	}
	for _, c := range v.Charts {
		data.Charts = append(data.Charts, pageChart{Name: c.Name, Mount: c.Mount, Title: c.Title})
		data.Options[c.Mount] = c.Option
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering dashboard page: %w", err)
	}
	return nil
}

// ServeIndex serves the dashboard page.
func (d *Dashboard) ServeIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := d.renderIndex(&buf); err != nil {
		d.logger.Error("serving index", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
