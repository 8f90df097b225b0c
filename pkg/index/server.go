// Package index serves a PEP 503 "simple" package index over a local
// wheelhouse directory, so a build installs the wheels this run prepared
// instead of reaching out for them. Projects the wheelhouse doesn't hold are
// redirected to an upstream index.
package index

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	goversion "github.com/hashicorp/go-version"

	"github.com/wheelforge/wheelforge/pkg/util/console"
)

type Server struct {
	// Dir is the wheelhouse directory served by the index.
	Dir string
	// Upstream is the fallback simple index URL, without trailing slash.
	// Empty disables the fallback.
	Upstream string
	Port     int
}

func NewServer(dir string, upstream string, port int) *Server {
	return &Server{
		Dir:      dir,
		Upstream: strings.TrimRight(upstream, "/"),
		Port:     port,
	}
}

// LocalURL is the URL pip should be pointed at.
func (s *Server) LocalURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d/simple/", s.Port)
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/simple/", s.handleProjectList)
	r.Get("/simple/{project}/", s.handleProject)
	r.Get("/wheels/{filename}", s.handleWheel)
	return r
}

// ListenAndServe runs the index until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	console.Debugf("Package index listening on %s", s.LocalURL())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) wheels() ([]*Wheel, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*.whl"))
	if err != nil {
		return nil, err
	}
	wheels := make([]*Wheel, 0, len(matches))
	for _, match := range matches {
		wheel, err := ParseWheelFilename(filepath.Base(match))
		if err != nil {
			console.Warnf("Skipping unparseable wheel in wheelhouse: %s", filepath.Base(match))
			continue
		}
		wheels = append(wheels, wheel)
	}
	return wheels, nil
}

func (s *Server) handleProjectList(w http.ResponseWriter, r *http.Request) {
	wheels, err := s.wheels()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	seen := map[string]bool{}
	projects := []string{}
	for _, wheel := range wheels {
		name := NormalizeProjectName(wheel.Name)
		if !seen[name] {
			seen[name] = true
			projects = append(projects, name)
		}
	}
	sort.Strings(projects)

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, "<!DOCTYPE html><html><body>\n")
	for _, project := range projects {
		fmt.Fprintf(w, "<a href=\"/simple/%s/\">%s</a><br>\n", project, project)
	}
	fmt.Fprint(w, "</body></html>\n")
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	project := NormalizeProjectName(chi.URLParam(r, "project"))

	wheels, err := s.wheels()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	matching := []*Wheel{}
	for _, wheel := range wheels {
		if NormalizeProjectName(wheel.Name) == project {
			matching = append(matching, wheel)
		}
	}

	if len(matching) == 0 {
		if s.Upstream != "" {
			http.Redirect(w, r, s.Upstream+"/"+project+"/", http.StatusFound)
			return
		}
		http.NotFound(w, r)
		return
	}

	sort.Slice(matching, func(i, j int) bool {
		vi, erri := goversion.NewVersion(matching[i].Version)
		vj, errj := goversion.NewVersion(matching[j].Version)
		if erri != nil || errj != nil {
			return matching[i].Version < matching[j].Version
		}
		return vi.LessThan(vj)
	})

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, "<!DOCTYPE html><html><body>\n")
	for _, wheel := range matching {
		fmt.Fprintf(w, "<a href=\"/wheels/%s\">%s</a><br>\n", wheel.Filename, wheel.Filename)
	}
	fmt.Fprint(w, "</body></html>\n")
}

func (s *Server) handleWheel(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename != filepath.Base(filename) {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.Dir, filename)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}
