package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"autoreview/app/middleware"
	"autoreview/app/portabletext"
	"autoreview/app/site"
	"autoreview/app/views"

	"go.uber.org/zap"
)

// Base carries what every controller needs to answer a request
type Base struct {
	Templates views.Templates
	Site      *site.Site
	RichText  portabletext.Renderer
	Logger    *zap.Logger
}

type errorPage struct {
	Heading string
	Message string
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") || r.Header.Get("Accept") == "application/json"
}

func (b *Base) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// render writes page name through a buffer so a template error never leaves
// a half written page behind.
func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data interface{}) {
	var buf bytes.Buffer
	err := b.Templates.Render(&buf, name, views.Page{
		Title: title,
		Path:  r.URL.Path,
		Site:  b.Site,
		Data:  data,
	})
	if err != nil {
		b.logger().Error("failed to render page",
			zap.String("page", name),
			zap.String("request_id", middleware.RequestID(r.Context())),
			zap.Error(err),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (b *Base) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.logger().Warn("failed to write response", zap.Error(err))
	}
}

// sendError answers with {"error": message} on API routes and with the
// error page otherwise.
func (b *Base) sendError(w http.ResponseWriter, r *http.Request, heading, message string, status int) {
	if isAPI(r) {
		b.sendJSON(w, status, map[string]string{"error": message})
		return
	}
	b.render(w, r, status, "error", heading, errorPage{Heading: heading, Message: message})
}
