package iconsuite

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
)

type ServerConfig struct {
	Workspace *Workspace
	Bundle    BundleOptions
	Logger    hclog.Logger
}

// Server is a read-only HTTP view of a Workspace for a local preview shell.
// It never accepts images; loading happens in-process.
type Server struct {
	conf    *ServerConfig
	handler http.Handler
}

func NewServer(conf ServerConfig) (*Server, error) {
	if conf.Workspace == nil {
		return nil, errors.New("workspace is required")
	}
	if conf.Logger == nil {
		conf.Logger = hclog.NewNullLogger()
	}

	s := &Server{
		conf: &conf,
	}

	mux := http.NewServeMux()
	mux.Handle(conf.Workspace.Handles().prefix, conf.Workspace.Handles())
	mux.Handle("/suite", s.suiteHandler())
	mux.Handle("/bundle.zip", s.bundleHandler())

	h := http.Handler(mux)
	h = s.slashRemover(h)
	s.handler = h
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) suiteHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" && r.Method != "HEAD" {
			http.Error(w, "Error", http.StatusBadRequest)
			return
		}

		body, err := json.Marshal(s.conf.Workspace.View())
		if err != nil {
			s.conf.Logger.Error("Failed to encode view", "error", err)
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("content-type", "application/json")
		w.Header().Set("content-length", strconv.Itoa(len(body)))
		w.Header().Set("cache-control", "no-store")
		if r.Method == "HEAD" {
			w.WriteHeader(200)
			return
		}
		w.Write(body)
	})
}

func (s *Server) bundleHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			http.Error(w, "Error", http.StatusBadRequest)
			return
		}

		var buf bytes.Buffer
		err := s.conf.Workspace.WriteBundle(&buf, s.conf.Bundle)
		if errors.Is(err, ErrNoImage) || errors.Is(err, ErrEmptyBundle) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		if err != nil {
			s.conf.Logger.Error("Failed to write bundle", "error", err)
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}

		s.conf.Logger.Debug("Serve bundle", "bytes", buf.Len())
		w.Header().Set("content-type", "application/zip")
		w.Header().Set("content-disposition", `attachment; filename="icons.zip"`)
		w.Header().Set("content-length", strconv.Itoa(buf.Len()))
		w.Write(buf.Bytes())
	})
}

func (s *Server) slashRemover(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prefer non-trailing slash URLs over trailing slash URLs.
		p := r.URL.Path
		if p != "/" && p[len(p)-1] == '/' {
			p = strings.TrimRight(p, "/")
			http.Redirect(w, r, p, 301)
			return
		}
		h.ServeHTTP(w, r)
	})
}
