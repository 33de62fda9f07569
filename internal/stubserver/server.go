// Package stubserver is an in-memory implementation of the hosted entity
// service, used for local development and integration tests. It mimics the
// production contract: server-assigned ids, server timestamps, partial
// updates, and create deduplication via the Idempotency-Key header.
package stubserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rapport-app/rapport/internal/common"
	"github.com/rapport-app/rapport/internal/models"
)

type record = map[string]any

// Server holds the in-memory collections behind the REST surface.
type Server struct {
	mu   sync.Mutex
	data map[string]map[string]record // collection -> id -> record
	idem map[string]record            // idempotency key -> created record
	now  func() time.Time
}

func New() *Server {
	s := &Server{
		data: make(map[string]map[string]record),
		idem: make(map[string]record),
		now:  time.Now,
	}
	for _, col := range []string{models.StoreContacts, models.StoreKeystones, models.StoreInteractions} {
		s.data[col] = make(map[string]record)
	}
	return s
}

// Router builds the gin engine with all collection routes mounted.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for col := range s.data {
		col := col
		r.POST("/"+col, func(c *gin.Context) { s.create(c, col) })
		r.GET("/"+col, func(c *gin.Context) { s.list(c, col) })
		r.GET("/"+col+"/:id", func(c *gin.Context) { s.get(c, col) })
		r.PATCH("/"+col+"/:id", func(c *gin.Context) { s.update(c, col) })
		r.DELETE("/"+col+"/:id", func(c *gin.Context) { s.remove(c, col) })
	}
	return r
}

// Count returns the number of records in a collection. Test helper.
func (s *Server) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data[collection])
}

// Record returns a copy of one stored record, or nil. Test helper.
func (s *Server) Record(collection, id string) record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data[collection][id]
	if !ok {
		return nil
	}
	out := make(record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func (s *Server) create(c *gin.Context, collection string) {
	var body record
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if id, _ := body["id"].(string); id != "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "id is server-assigned"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := c.GetHeader(common.IdempotencyKeyHeaderName)
	if key != "" {
		if existing, ok := s.idem[key]; ok {
			c.JSON(http.StatusOK, existing)
			return
		}
	}

	now := s.now().UTC().Format(time.RFC3339Nano)
	body["id"] = uuid.NewString()
	body["created_at"] = now
	body["updated_at"] = now

	s.data[collection][body["id"].(string)] = body
	if key != "" {
		s.idem[key] = body
	}
	c.JSON(http.StatusCreated, body)
}

func (s *Server) list(c *gin.Context, collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]record, 0, len(s.data[collection]))
	for _, rec := range s.data[collection] {
		result = append(result, rec)
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) get(c *gin.Context, collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[collection][c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) update(c *gin.Context, collection string) {
	var fields record
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	rec, ok := s.data[collection][id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	for k, v := range fields {
		if k == "id" || k == "created_at" {
			continue
		}
		rec[k] = v
	}
	rec["updated_at"] = s.now().UTC().Format(time.RFC3339Nano)
	c.JSON(http.StatusOK, rec)
}

func (s *Server) remove(c *gin.Context, collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	if _, ok := s.data[collection][id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	delete(s.data[collection], id)
	c.Status(http.StatusNoContent)
}
