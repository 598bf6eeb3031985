package devserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-console/internal/schema"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

// Options configures the dev server.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	SeedEmail string
	SeedPass  string
	SeedName  string
}

// Server is a gin-based in-memory rendition of the SMA ADP REST contract:
// login, per-entity CRUD collections, and the dashboard summary. It backs
// local development and the integration tests.
type Server struct {
	store     *Store
	users     map[string]seedUser
	validate  *validator.Validate
	logger    *zap.Logger
	jwtSecret string
	tokenTTL  time.Duration
}

// New builds a server exposing every schema in the catalog.
func New(opts Options, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	s := &Server{
		store:     NewStore(),
		users:     make(map[string]seedUser),
		validate:  validator.New(),
		logger:    logger,
		jwtSecret: opts.JWTSecret,
		tokenTTL:  opts.TokenTTL,
	}
	if opts.SeedEmail != "" {
		if err := s.seedAdmin(opts.SeedEmail, opts.SeedPass, opts.SeedName); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Store exposes the backing store for seeding fixtures.
func (s *Server) Store() *Store {
	return s.store
}

// Router assembles the gin engine with all routes mounted under prefix.
func (s *Server) Router(prefix string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.logging())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group(prefix)
	api.POST("/auth/login", s.handleLogin)

	protected := api.Group("", s.requireAuth())
	for _, sc := range schema.Catalog() {
		s.mountCollection(protected, sc)
	}
	protected.GET("/dashboard/summary", s.handleDashboard)

	return r
}

func (s *Server) mountCollection(g *gin.RouterGroup, sc schema.Schema) {
	name := sc.Name
	base := sc.EndpointBase
	g.GET(base, func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
		size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
		items, total := s.store.List(name, page, size)
		totalPages := 0
		if size > 0 {
			totalPages = (total + size - 1) / size
		}
		c.JSON(http.StatusOK, gin.H{
			"content":       items,
			"totalElements": total,
			"totalPages":    totalPages,
			"number":        page,
			"size":          size,
		})
	})
	g.GET(base+"/:id", func(c *gin.Context) {
		entity, err := s.store.Get(name, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entity)
	})
	g.POST(base, func(c *gin.Context) {
		var entity schema.Entity
		if err := c.ShouldBindJSON(&entity); err != nil {
			respondError(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
			return
		}
		if err := s.checkRequired(sc, entity); err != nil {
			respondError(c, err)
			return
		}
		delete(entity, "id")
		c.JSON(http.StatusCreated, s.store.Create(name, entity))
	})
	g.PUT(base+"/:id", func(c *gin.Context) {
		var entity schema.Entity
		if err := c.ShouldBindJSON(&entity); err != nil {
			respondError(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
			return
		}
		if err := s.checkRequired(sc, entity); err != nil {
			respondError(c, err)
			return
		}
		updated, err := s.store.Update(name, c.Param("id"), entity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	})
	g.DELETE(base+"/:id", func(c *gin.Context) {
		if err := s.store.Delete(name, c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

// checkRequired mirrors the backend's required-field rejection so a client
// skipping its own validation still gets a 400.
func (s *Server) checkRequired(sc schema.Schema, entity schema.Entity) error {
	for _, f := range sc.Fields {
		if !f.Required || f.Kind == schema.KindBoolean {
			continue
		}
		if f.Kind == schema.KindNumber {
			if _, present := entity[f.Key]; !present {
				return appErrors.Clone(appErrors.ErrValidation, f.Key+" is required")
			}
			continue
		}
		if err := s.validate.Var(entity.String(f.Key), "required"); err != nil {
			return appErrors.Clone(appErrors.ErrValidation, f.Key+" is required")
		}
	}
	return nil
}

func (s *Server) handleDashboard(c *gin.Context) {
	tasks := s.store.All("tasks")
	inProgress, completed := 0, 0
	var progressSum float64
	for _, t := range tasks {
		progressSum += t.Number("progress")
		if t.Number("progress") >= 100 {
			completed++
		} else {
			inProgress++
		}
	}
	avg := float64(0)
	if len(tasks) > 0 {
		avg = progressSum / float64(len(tasks))
	}

	respond(c, http.StatusOK, gin.H{
		"students":          len(s.store.All("students")),
		"teachers":          len(s.store.All("teachers")),
		"classes":           len(s.store.All("classrooms")),
		"tasks_in_progress": inProgress,
		"tasks_completed":   completed,
		"average_progress":  avg,
		"generated_at":      time.Now().UTC().Format(time.RFC3339),
	}, nil)
}

func (s *Server) logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
