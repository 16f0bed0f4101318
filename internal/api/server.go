package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/ecoff/internal/logger"
	"github.com/samcharles93/ecoff/internal/report"
	"github.com/samcharles93/ecoff/pkg/ecoff"
)

// DefaultMaxUpload caps request bodies when Config.MaxUpload is unset.
const DefaultMaxUpload = 64 << 20

// Config configures a Server.
type Config struct {
	Decoder   ecoff.Decoder
	MaxUpload int64
	Logger    logger.Logger
}

// Server decodes uploaded object files and serves the results.
type Server struct {
	store     *ObjectStore
	decoder   ecoff.Decoder
	maxUpload int64
	log       logger.Logger
	clock     func() time.Time
}

// NewServer creates a Server; a nil store gets a fresh one.
func NewServer(store *ObjectStore, cfg Config) *Server {
	if store == nil {
		store = NewObjectStore()
	}
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = DefaultMaxUpload
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	return &Server{
		store:     store,
		decoder:   cfg.Decoder,
		maxUpload: cfg.MaxUpload,
		log:       cfg.Logger,
		clock:     time.Now,
	}
}

// Register mounts the object routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)

	e.POST("/v1/objects", s.handleCreateObject)
	e.GET("/v1/objects", s.handleListObjects)
	e.GET("/v1/objects/:id", s.handleGetObject)
	e.DELETE("/v1/objects/:id", s.handleDeleteObject)
	e.GET("/v1/objects/:id/sections/:index", s.handleSectionData)
	e.GET("/v1/objects/:id/strings/:table", s.handleStrings)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"objects": s.store.Len(),
	})
}

func (s *Server) handleCreateObject(c *echo.Context) error {
	data, err := readUpload(c.Request().Body, s.maxUpload)
	if errors.Is(err, errTooLarge) {
		return writeError(c, http.StatusRequestEntityTooLarge, "invalid_request_error",
			"object exceeds "+strconv.FormatInt(s.maxUpload, 10)+" bytes")
	}
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if len(data) == 0 {
		return writeBadRequest(c, "request body is empty")
	}

	name := uploadName(c)
	f, err := s.decoder.Decode(bytes.NewReader(data))
	if err != nil {
		s.log.Warn("decode failed", "name", name, "size", len(data), "kind", ecoff.Kind(err), "error", err)
		return writeDecodeError(c, err)
	}

	obj := s.store.Put(name, int64(len(data)), f, s.clock())
	s.log.Info("object decoded", "id", obj.ID, "name", name, "size", obj.Size, "sections", len(f.Sections))
	return c.JSON(http.StatusCreated, objectResponse(obj, documentOptions(c)))
}

func (s *Server) handleListObjects(c *echo.Context) error {
	objs := s.store.List()
	out := ObjectList{Object: "list", Data: make([]ObjectSummary, 0, len(objs))}
	for _, obj := range objs {
		out.Data = append(out.Data, objectSummary(obj))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetObject(c *echo.Context) error {
	obj, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "object not found")
	}
	return c.JSON(http.StatusOK, objectResponse(obj, documentOptions(c)))
}

func (s *Server) handleDeleteObject(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "object not found")
	}
	s.log.Debug("object deleted", "id", id)
	return c.JSON(http.StatusOK, DeleteResponse{ID: id, Object: "ecoff.object.deleted", Deleted: true})
}

func (s *Server) handleSectionData(c *echo.Context) error {
	obj, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "object not found")
	}
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return writeBadRequest(c, "section index must be an integer")
	}
	if idx < 0 || idx >= len(obj.File.Sections) {
		return writeNotFound(c, "section "+strconv.Itoa(idx)+" not found")
	}
	sec := obj.File.Sections[idx]
	c.Response().Header().Set("X-Section-Name", sec.Header.NameString())
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, sec.Data)
}

func (s *Server) handleStrings(c *echo.Context) error {
	obj, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "object not found")
	}
	table := c.Param("table")
	var t ecoff.StringTable
	switch table {
	case "local":
		t = obj.File.LocalStrings
	case "external":
		t = obj.File.ExternalStrings
	default:
		return writeBadRequest(c, "table must be local or external")
	}
	return c.JSON(http.StatusOK, StringsResponse{
		ID:      obj.ID,
		Table:   table,
		Size:    t.Len(),
		Strings: report.Strings(t),
	})
}
