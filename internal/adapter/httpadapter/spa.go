package httpadapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/hluleko/smart-travel-planner/internal/domain"
)

const indexFile = "index.html"

// activityTimeout bounds how long a page view waits on the activity sink.
const activityTimeout = 2 * time.Second

var mimeTypes = map[string]string{
	".html":  "text/html",
	".js":    "text/javascript",
	".css":   "text/css",
	".json":  "application/json",
	".png":   "image/png",
	".jpg":   "image/jpg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".eot":   "application/vnd.ms-fontobject",
}

func contentType(name string) string {
	if ct, ok := mimeTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// resolveFile maps a URL path to a file in the dist tree. Anything that is not
// an existing regular file under the base path, including invalid or escaping
// paths, falls back to the index page so the client router can take over.
func (s *Server) resolveFile(urlPath string) (name string, asset bool) {
	rel := urlPath
	if base := strings.TrimSuffix(s.deps.BasePath, "/"); base != "" {
		trimmed, ok := strings.CutPrefix(urlPath, base)
		if !ok || (trimmed != "" && !strings.HasPrefix(trimmed, "/")) {
			return indexFile, false
		}
		rel = trimmed
	}
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return indexFile, false
	}

	info, err := fs.Stat(s.deps.Files, rel)
	if err != nil || info.IsDir() {
		return indexFile, false
	}
	return rel, true
}

func (s *Server) handleSPA(w http.ResponseWriter, r *http.Request) {
	name, asset := s.resolveFile(r.URL.Path)

	view := "asset"
	if !asset {
		view = "fallback"
		if v, ok := s.deps.Views.Resolve(r.URL.Path); ok {
			view = v.Name
		}
	}

	status := s.serveFile(w, name)

	s.deps.Metrics.PageRequests.WithLabelValues(view, strconv.Itoa(status)).Inc()
	s.logger.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"view", view,
		"status", status,
	)

	if !asset && status == http.StatusOK {
		s.recordPageView(r, view)
	}
}

func (s *Server) serveFile(w http.ResponseWriter, name string) int {
	content, err := fs.ReadFile(s.deps.Files, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Error("file not found", "file", name)
			http.Error(w, "File not found", http.StatusNotFound)
			return http.StatusNotFound
		}
		s.logger.Error("read file failed", "file", name, "error", err)
		http.Error(w, fmt.Sprintf("Server Error: %v", err), http.StatusInternalServerError)
		return http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", contentType(name))
	w.WriteHeader(http.StatusOK)
	w.Write(content) //nolint:errcheck // client went away
	return http.StatusOK
}

// recordPageView forwards a page view to the activity sink. Failures are
// logged and otherwise ignored.
func (s *Server) recordPageView(r *http.Request, view string) {
	if s.deps.Activity == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), activityTimeout)
	defer cancel()

	activity := domain.Activity{
		UserID:     domain.ID(r.Header.Get("X-User-ID")),
		Action:     "page_view",
		Details:    view + " " + r.URL.Path,
		RecordedAt: s.deps.Clock.Now().UTC(),
	}
	if err := s.deps.Activity.RecordActivity(ctx, activity); err != nil {
		s.logger.Warn("record page view failed", "path", r.URL.Path, "error", err)
	}
}
