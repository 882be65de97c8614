package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
)

// index renders the receipt viewer page pointed at the node.
type index struct {
	tmpl     *template.Template
	build    string
	nodeHost string
}

func newIndex(build string, nodeHost string) (*index, error) {
	tmpl, err := template.ParseFiles("app/services/viewer/assets/views/index.html")
	if err != nil {
		return nil, err
	}

	ig := index{
		tmpl:     tmpl,
		build:    build,
		nodeHost: nodeHost,
	}

	return &ig, nil
}

func (ig *index) handler(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	data := struct {
		Build    string
		NodeHost string
	}{
		Build:    ig.build,
		NodeHost: ig.nodeHost,
	}

	var buf bytes.Buffer
	if err := ig.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing index page: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)

	return err
}
