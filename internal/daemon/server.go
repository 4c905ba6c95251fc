package daemon

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"framelabel/internal/config"
	"framelabel/internal/labelstore"
	"framelabel/internal/sampler"
)

const Version = "0.1.0"

// Server exposes the sampling engine and label store over HTTP.
type Server struct {
	// sampleMu serializes access to the loader, which is single-threaded.
	sampleMu sync.Mutex
	loader   *sampler.Loader

	mu        sync.RWMutex
	batches   map[string]*Batch
	batchList []string
	jobs      map[string]*Job
	jobCancel map[string]context.CancelFunc

	store    *labelstore.Store
	locator  sampler.FrameLocator
	settings Settings
	log      *zap.Logger
}

func NewServer(cfg *config.Config, loader *sampler.Loader, store *labelstore.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		loader:    loader,
		batches:   make(map[string]*Batch),
		jobs:      make(map[string]*Job),
		jobCancel: make(map[string]context.CancelFunc),
		store:     store,
		locator:   sampler.DirLocator{Root: cfg.FramesRoot, Pattern: cfg.FramePattern},
		settings: Settings{
			FrameRate:       loader.FrameRate(),
			FramesRoot:      cfg.FramesRoot,
			FramePattern:    cfg.FramePattern,
			VideoDir:        cfg.VideoDir,
			DropEmptyVideos: cfg.DropEmptyVideos,
			LabelsOutput:    cfg.LabelsOutput,
		},
		log: log,
	}
}

// Routes returns the HTTP handler for all endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequestMiddleware)

	// CORS to allow the local labelling UI
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Swagger docs
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/health", s.handleHealth)
	r.Get("/config", s.handleConfig)
	r.Get("/labels", s.handleLabels)

	r.Get("/videos", s.handleVideos)
	r.Route("/videos/{videoID}", func(r chi.Router) {
		r.Get("/", s.handleGetVideo)
		r.Post("/extract", s.handleExtract)
		r.Post("/cancel", s.handleCancel)
	})
	r.Get("/jobs", s.handleJobs)

	r.Get("/frames/{videoID}/{frame}", s.handleFrame)

	r.Get("/samples", s.handleListBatches)
	r.Post("/samples/balanced", s.handleSampleBalanced)
	r.Post("/samples/random", s.handleSampleRandom)
	r.Get("/samples/{batchID}", s.handleGetBatch)

	r.Get("/store/labels/*", s.handleGetLabel)
	r.Get("/store/initial/*", s.handleGetInitialLabel)
	r.Post("/store/labels", s.handleUpdateLabels)
	r.Post("/store/initial", s.handleUpdateInitialLabels)
	r.Get("/store/unlabeled", s.handleUnlabeled)
	r.Get("/store/progress", s.handleProgress)

	return r
}

// Shutdown cancels running extraction jobs.
func (s *Server) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, cancel := range s.jobCancel {
		cancel()
		delete(s.jobCancel, id)
	}
}
