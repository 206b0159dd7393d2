// Package devmodel is a stand-in model server for local runs. It answers the
// same HTTP surface as the real backend with scores derived from where the
// ink sits in the uploaded image.
package devmodel

import (
	"encoding/json"
	"image"
	_ "image/png"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gonum.org/v1/gonum/floats"

	"digitpad/internal"
)

// DefaultClasses is the number of scores returned per prediction.
const DefaultClasses = 10

// maxUpload bounds the multipart form kept in memory.
const maxUpload = 8 << 20

// Config holds dev model settings
type Config struct {
	Tag     string
	Classes int
}

// Server is the chi router serving the dev model endpoints.
type Server struct {
	router *chi.Mux
	config Config
	logger *internal.Logger
}

// NewServer creates a dev model server
func NewServer(config Config, logger *internal.Logger) *Server {
	if config.Classes <= 0 {
		config.Classes = DefaultClasses
	}
	if config.Tag == "" {
		config.Tag = "devmodel"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router: chi.NewRouter(),
		config: config,
		logger: logger.With("devmodel"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/models/current", s.handleCurrentModel)
	s.router.Post("/api/predict", s.handlePredict)
	// the original backend also answered on /api/predictions
	s.router.Post("/api/predictions", s.handlePredict)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"health": "ok"})
}

func (s *Server) handleCurrentModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"tag": s.config.Tag})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "expected multipart form: " + err.Error()})
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "image field is required"})
		return
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "image could not be decoded"})
		return
	}

	result := Score(img, s.config.Classes)
	s.logger.Debug("predicted %d scores for %dx%d image", len(result), img.Bounds().Dx(), img.Bounds().Dy())
	writeJSON(w, http.StatusOK, map[string][]float64{"result": result})
}

// Score splits img into classes horizontal bands and returns a softmax over
// the share of ink in each band. A blank image scores uniformly.
func Score(img image.Image, classes int) []float64 {
	mass := make([]float64, classes)
	b := img.Bounds()
	if b.Dy() > 0 {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			band := (y - b.Min.Y) * classes / b.Dy()
			for x := b.Min.X; x < b.Max.X; x++ {
				_, _, _, a := img.At(x, y).RGBA()
				mass[band] += float64(a) / 0xffff
			}
		}
	}

	if total := floats.Sum(mass); total > 0 {
		floats.Scale(float64(classes)/total, mass)
	}
	return softmax(mass)
}

func softmax(v []float64) []float64 {
	out := make([]float64, len(v))
	if len(v) == 0 {
		return out
	}
	peak := floats.Max(v)
	for i, x := range v {
		out[i] = math.Exp(x - peak)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
