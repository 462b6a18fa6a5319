// Package mockapi is an in-memory implementation of the portfolio REST API.
// It backs local development through cmd/portfolio-mockapi and the package
// tests through internal/testutil.
package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"portfolio-admin/internal/models"
	"portfolio-admin/internal/telemetry"
)

const (
	APIPrefix          = "/api"
	UploadsPrefix      = "/uploads/"
	DefaultHeroImage   = "https://via.placeholder.com/400"
	firstID            = 100
	maxUploadFormBytes = 32 << 20
)

type collection[T any] struct {
	items    []T
	id       func(T) int
	setID    func(*T, int)
	onCreate func(*T)
}

// Server serves the REST surface under /api and stored uploads under
// /uploads/. Every API request is recorded as "METHOD /path" with the /api
// prefix removed.
type Server struct {
	handler http.Handler

	mu       sync.Mutex
	nextID   int
	products collection[models.Product]
	reviews  collection[models.Review]
	movies   collection[models.MovieReview]
	fitness  collection[models.FitnessMilestone]
	hero     models.HeroProfile
	files    map[string][]byte
	uploads  int
	requests []string
	failures map[string]int
	garbled  map[string]bool
	holds    map[string]chan struct{}
}

func New() *Server {
	s := &Server{
		nextID:   firstID,
		files:    make(map[string][]byte),
		failures: make(map[string]int),
		garbled:  make(map[string]bool),
		holds:    make(map[string]chan struct{}),
		hero:     models.HeroProfile{ProfileImage: DefaultHeroImage},
		products: collection[models.Product]{
			id:    func(p models.Product) int { return p.ID },
			setID: func(p *models.Product, id int) { p.ID = id },
		},
		reviews: collection[models.Review]{
			id:    func(r models.Review) int { return r.ID },
			setID: func(r *models.Review, id int) { r.ID = id },
			onCreate: func(r *models.Review) {
				if r.Date == "" {
					r.Date = time.Now().Format("Jan 2006")
				}
			},
		},
		movies: collection[models.MovieReview]{
			id:    func(m models.MovieReview) int { return m.ID },
			setID: func(m *models.MovieReview, id int) { m.ID = id },
		},
		fitness: collection[models.FitnessMilestone]{
			id:    func(f models.FitnessMilestone) int { return f.ID },
			setID: func(f *models.FitnessMilestone, id int) { f.ID = id },
		},
	}

	mux := http.NewServeMux()
	mountCollection(s, mux, "products", &s.products)
	mountCollection(s, mux, "reviews", &s.reviews)
	mountCollection(s, mux, "movies", &s.movies)
	mountCollection(s, mux, "fitness", &s.fitness)

	mux.HandleFunc("GET /api/hero", s.getHero)
	mux.HandleFunc("PUT /api/hero/image", s.putHeroImage)
	mux.HandleFunc("POST /api/upload", s.upload)
	mux.HandleFunc("DELETE /api/upload/{filename}", s.deleteUpload)
	mux.HandleFunc("GET /api/cleanup/check", s.checkOrphaned)
	mux.HandleFunc("DELETE /api/cleanup/orphaned", s.deleteOrphaned)
	mux.HandleFunc("GET /uploads/{filename}", s.serveUpload)

	s.handler = telemetry.Middleware(s.intercept(mux), APIPrefix)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Fail makes every request matching "METHOD /path" answer with status until Recover.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// Garble makes matching requests answer 200 with a body that is not JSON.
func (s *Server) Garble(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.garbled[method+" "+path] = true
}

func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]int)
	s.garbled = make(map[string]bool)
}

// Hold parks matching requests until the returned release func is called.
func (s *Server) Hold(method, path string) (release func()) {
	ch := make(chan struct{})
	key := method + " " + path

	s.mu.Lock()
	s.holds[key] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.holds, key)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Count returns how many requests matched method and path. A path ending in
// "/*" matches any suffix.
func (s *Server) Count(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	prefix, wildcard := strings.CutSuffix(path, "/*")
	for _, r := range s.requests {
		m, p, _ := strings.Cut(r, " ")
		if m != method {
			continue
		}
		if p == path || (wildcard && strings.HasPrefix(p, prefix+"/")) {
			n++
		}
	}
	return n
}

func (s *Server) SeedProducts(items ...models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products.items = append(s.products.items, items...)
}

func (s *Server) SeedReviews(items ...models.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews.items = append(s.reviews.items, items...)
}

func (s *Server) SeedMovies(items ...models.MovieReview) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies.items = append(s.movies.items, items...)
}

func (s *Server) SeedFitness(items ...models.FitnessMilestone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitness.items = append(s.fitness.items, items...)
}

// AddFile stores a file as if it had been uploaded earlier.
func (s *Server) AddFile(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
}

func (s *Server) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.products.items...)
}

func (s *Server) Reviews() []models.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Review(nil), s.reviews.items...)
}

func (s *Server) Hero() models.HeroProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hero
}

func (s *Server) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, APIPrefix+"/") {
			next.ServeHTTP(w, r)
			return
		}
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, APIPrefix)

		s.mu.Lock()
		s.requests = append(s.requests, key)
		status := s.failures[key]
		garbled := s.garbled[key]
		hold := s.holds[key]
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		if status != 0 {
			writeJSON(w, status, map[string]string{"error": "injected failure"})
			return
		}
		if garbled {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, "<html>not json</html>")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func mountCollection[T any](s *Server, mux *http.ServeMux, name string, c *collection[T]) {
	mux.HandleFunc("GET /api/"+name, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		items := append([]T{}, c.items...)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, items)
	})

	mux.HandleFunc("POST /api/"+name, func(w http.ResponseWriter, r *http.Request) {
		var item T
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		s.mu.Lock()
		s.nextID++
		id := s.nextID
		c.setID(&item, id)
		if c.onCreate != nil {
			c.onCreate(&item)
		}
		c.items = append(c.items, item)
		s.mu.Unlock()

		slog.Debug("Entity created", "resource", name, "id", id)
		writeJSON(w, http.StatusCreated, item)
	})

	mux.HandleFunc("DELETE /api/"+name+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		for i, item := range c.items {
			if c.id(item) == id {
				c.items = append(c.items[:i:i], c.items[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("%s %d not found", name, id)})
	})
}

func (s *Server) getHero(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Hero())
}

func (s *Server) putHeroImage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ImageURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "imageUrl is required"})
		return
	}

	s.mu.Lock()
	s.hero.ProfileImage = body.ImageURL
	hero := s.hero
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, hero)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadFormBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no image provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.uploads++
	name := fmt.Sprintf("%d-%s", s.uploads, header.Filename)
	s.files[name] = data
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.UploadResult{URL: FileURL(baseURL(r), name), Filename: name})
}

func (s *Server) serveUpload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, ok := s.files[r.PathValue("filename")]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}

func (s *Server) deleteUpload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[name]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
		return
	}
	delete(s.files, name)
	writeJSON(w, http.StatusOK, map[string]string{"message": "File deleted successfully"})
}

func (s *Server) checkOrphaned(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	report := s.report()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) deleteOrphaned(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	report := s.report()
	for _, name := range report.OrphanedFiles {
		delete(s.files, name)
	}
	s.mu.Unlock()

	slog.Debug("Orphaned files deleted", "count", len(report.OrphanedFiles))
	writeJSON(w, http.StatusOK, models.CleanupResult{
		DeletedCount: len(report.OrphanedFiles),
		DeletedFiles: report.OrphanedFiles,
	})
}

// report must be called with s.mu held. A file is in use when any image
// reference ends in its name.
func (s *Server) report() models.CleanupReport {
	refs := []string{s.hero.ProfileImage}
	for _, p := range s.products.items {
		refs = append(refs, p.Image)
	}
	for _, m := range s.movies.items {
		refs = append(refs, m.Poster)
	}
	for _, f := range s.fitness.items {
		refs = append(refs, f.Image)
	}

	used := make(map[string]bool)
	for _, ref := range refs {
		if idx := strings.LastIndex(ref, "/"); idx != -1 {
			used[ref[idx+1:]] = true
		}
	}

	report := models.CleanupReport{TotalFiles: len(s.files), OrphanedFiles: []string{}}
	for name := range s.files {
		if used[name] {
			report.UsedFiles++
			continue
		}
		report.OrphanedFiles = append(report.OrphanedFiles, name)
	}
	sort.Strings(report.OrphanedFiles)
	report.OrphanedCount = len(report.OrphanedFiles)
	return report
}

// FileURL is where a stored upload is served from.
func FileURL(base, name string) string {
	return strings.TrimSuffix(base, "/") + UploadsPrefix + name
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
