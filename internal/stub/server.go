// Package stub serves a stand-in for the MediRAG backend. It speaks the same
// /query contract with canned answers so the client can be developed and
// demoed offline. It does no retrieval and no inference.
package stub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bz888/medirag/internal/api"
	"github.com/bz888/medirag/internal/logger"
	"github.com/bz888/medirag/internal/model"
	"github.com/gin-gonic/gin"
)

// Answerer produces the answer text for one question.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

type AnswerFunc func(ctx context.Context, question string) (string, error)

func (f AnswerFunc) Answer(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}

// queryRequest mirrors api.QueryRequest but keeps the model as free text so
// unknown identifiers can be reported instead of failing the decode.
type queryRequest struct {
	Question string `json:"question"`
	Model    string `json:"model"`
}

type Handler struct {
	answerers map[model.Model]Answerer
	log       *logger.Logger
}

func NewHandler(answerers map[model.Model]Answerer) *Handler {
	return &Handler{
		answerers: answerers,
		log:       logger.NewLogger("stub server"),
	}
}

// NewRouter wires the handler into a gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/query", h.Query)
	r.GET("/health", h.Health)
	return r
}

func (h *Handler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Failed to decode request: ", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "Invalid request payload."})
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "Question cannot be empty."})
		return
	}

	if req.Model == "" {
		req.Model = string(model.Ollama)
	}
	m, err := model.Parse(req.Model)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: fmt.Sprintf("Unknown model %q.", req.Model)})
		return
	}

	answerer, ok := h.answerers[m]
	if !ok || answerer == nil {
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Detail: fmt.Sprintf("Model %s is not available.", m)})
		return
	}

	answer, err := answerer.Answer(c.Request.Context(), req.Question)
	if err != nil {
		h.log.Errorw("Query failed", "model", m, "request_id", c.GetHeader("X-Request-ID"), "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: err.Error()})
		return
	}

	h.log.Infow("Query processed", "model", m, "request_id", c.GetHeader("X-Request-ID"))
	c.JSON(http.StatusOK, api.QueryResponse{Answer: answer, ModelUsed: m.String()})
}

func (h *Handler) Health(c *gin.Context) {
	available := make([]string, 0, len(h.answerers))
	for _, m := range model.All {
		if a, ok := h.answerers[m]; ok && a != nil {
			available = append(available, m.String())
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "models": available})
}

// Canned returns an answerer that echoes the question inside a fixed,
// list-formatted reply.
func Canned(m model.Model) Answerer {
	return AnswerFunc(func(_ context.Context, question string) (string, error) {
		return fmt.Sprintf(
			"Stub answer from %s\n\n%s\n\nAbout this reply:\n\n- It was produced by the offline stub backend.\n- No documents were retrieved and no model was run.",
			m.Label(), strings.TrimSpace(question),
		), nil
	})
}

// DefaultAnswerers serves canned replies for every model.
func DefaultAnswerers() map[model.Model]Answerer {
	answerers := make(map[model.Model]Answerer, len(model.All))
	for _, m := range model.All {
		answerers[m] = Canned(m)
	}
	return answerers
}

// Run serves the router on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, h *Handler) error {
	log := logger.NewLogger("stub server")
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Stub server started on ", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve stub: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("Shutting down stub server")
	return srv.Shutdown(shutdownCtx)
}
