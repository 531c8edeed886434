package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/agenthands/graphqa/internal/core"
	"github.com/agenthands/graphqa/internal/core/extraction"
	"github.com/agenthands/graphqa/internal/core/model"
	"github.com/agenthands/graphqa/internal/core/query"
	"github.com/agenthands/graphqa/internal/driver"
	"github.com/agenthands/graphqa/internal/llm"
	"github.com/agenthands/graphqa/internal/metrics"
)

// Graph is what the HTTP layer needs from core.KnowledgeGraph.
type Graph interface {
	Ingest(ctx context.Context, texts []string, opts *extraction.Options) (*core.IngestReport, error)
	Ask(ctx context.Context, question string) (*query.Answer, error)
	Schema(ctx context.Context) (*model.SchemaDescription, error)
	// ExtractionDefaults are the configured options a request's fields override.
	ExtractionDefaults() extraction.Options
}

type Server struct {
	Graph  Graph
	Logger logrus.FieldLogger
}

func NewServer(graph Graph, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{Graph: graph, Logger: logger}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.POST("/documents", s.AddDocuments)
	r.POST("/query", s.Query)
	r.GET("/schema", s.Schema)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", func(c *gin.Context) {
		metrics.UpdateSystemMetrics()
		promhttp.Handler().ServeHTTP(c.Writer, c.Request)
	})

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		s.Logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		}).Info("Handled request")
	}
}

// AddDocumentsRequest fields left out of the body keep their configured values; an
// explicit empty list replaces them.
type AddDocumentsRequest struct {
	Texts                  []string `json:"texts" binding:"required,min=1"`
	AllowedNodes           []string `json:"allowed_nodes"`
	AllowedRelationships   []string `json:"allowed_relationships"`
	NodeProperties         []string `json:"node_properties"`
	RelationshipProperties []string `json:"relationship_properties"`
	StrictMode             *bool    `json:"strict_mode"`
}

// options returns nil when the request carries no constraints of its own.
func (r AddDocumentsRequest) options(defaults extraction.Options) *extraction.Options {
	if r.AllowedNodes == nil && r.AllowedRelationships == nil &&
		r.NodeProperties == nil && r.RelationshipProperties == nil && r.StrictMode == nil {
		return nil
	}
	opts := defaults
	override(&opts.AllowedNodes, r.AllowedNodes)
	override(&opts.AllowedRelationships, r.AllowedRelationships)
	override(&opts.NodeProperties, r.NodeProperties)
	override(&opts.RelationshipProperties, r.RelationshipProperties)
	if r.StrictMode != nil {
		opts.StrictMode = *r.StrictMode
	}
	return &opts
}

func override(set *mapset.Set[string], values []string) {
	if values != nil {
		*set = mapset.NewSet(values...)
	}
}

func (s *Server) AddDocuments(c *gin.Context) {
	var req AddDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report, err := s.Graph.Ingest(c.Request.Context(), req.Texts, req.options(s.Graph.ExtractionDefaults()))
	if err != nil {
		s.Logger.WithError(err).Error("Failed to ingest documents")
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

type QueryRequest struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	answer, err := s.Graph.Ask(c.Request.Context(), req.Question)
	if err != nil {
		s.Logger.WithError(err).Warn("Failed to answer question")
		body := gin.H{"error": err.Error()}
		if answer != nil {
			body["state"] = answer.State
			if answer.Statement != "" {
				body["statement"] = answer.Statement
			}
		}
		c.JSON(statusFor(err), body)
		return
	}

	c.JSON(http.StatusOK, answer)
}

func (s *Server) Schema(c *gin.Context) {
	schema, err := s.Graph.Schema(c.Request.Context())
	if err != nil {
		s.Logger.WithError(err).Error("Failed to describe schema")
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"schema":    schema.String(),
		"structure": schema,
	})
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		policyErr *query.PolicyViolationError
		queryErr  *driver.QueryError
		connErr   *driver.ConnectionError
		invErr    *llm.InvocationError
	)
	switch {
	case errors.As(err, &policyErr):
		return http.StatusForbidden
	case errors.Is(err, query.ErrNoStatement), errors.As(err, &queryErr), errors.Is(err, model.ErrDanglingRelationship):
		return http.StatusUnprocessableEntity
	case errors.As(err, &connErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &invErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
