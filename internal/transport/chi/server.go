package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/articles/internal/domain"
	"github.com/kailas-cloud/articles/internal/domain/article/patch"
	"github.com/kailas-cloud/articles/internal/logger"
	articleuc "github.com/kailas-cloud/articles/internal/usecase/article"
	healthuc "github.com/kailas-cloud/articles/internal/usecase/health"
)

const welcomeMessage = "Welcome to the Articles API"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface.
type Server struct {
	articles      *articleuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(articles *articleuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		articles: articles,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidIdentifier, http.StatusBadRequest, ErrorResponseCodeInvalidIdentifier),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorResponseCodeInvalidInput),
		sentinelHandler(domain.ErrValidationFailed,
			http.StatusUnprocessableEntity, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeNotFound),
	}
	return s
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: welcomeMessage})
}

// ListArticles handles GET /articles.
func (s *Server) ListArticles(w http.ResponseWriter, r *http.Request) {
	items, err := s.articles.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articlesToDTO(items))
}

// CreateArticle handles POST /articles.
func (s *Server) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, ErrorResponseCodeValidationFailed,
			"Invalid request body: "+err.Error())
		return
	}

	a, err := s.articles.Create(r.Context(), req.Title, req.Content, req.Description, req.Summary)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/articles/"+a.ID())
	writeJSON(w, http.StatusCreated, articleToDTO(&a))
}

// SearchArticles handles GET /articles/search.
func (s *Server) SearchArticles(w http.ResponseWriter, r *http.Request, params SearchArticlesParams) {
	query := ""
	if params.Query != nil {
		query = *params.Query
	}
	limit := s.articles.DefaultSearchLimit()
	if params.Limit != nil {
		limit = *params.Limit
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	items, err := s.articles.Search(ctx, query, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, articlesToDTO(items))
}

// GetArticle handles GET /articles/{id}.
func (s *Server) GetArticle(w http.ResponseWriter, r *http.Request, id ArticleID) {
	a, err := s.articles.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articleToDTO(&a))
}

// UpdateArticle handles PUT /articles/{id}.
func (s *Server) UpdateArticle(w http.ResponseWriter, r *http.Request, id ArticleID) {
	var req UpdateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := patch.New(req.Title, req.Description, req.Summary, req.Content)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	a, err := s.articles.Update(r.Context(), id, p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articleToDTO(&a))
}

// DeleteArticle handles DELETE /articles/{id}.
func (s *Server) DeleteArticle(w http.ResponseWriter, r *http.Request, id ArticleID) {
	if err := s.articles.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SummarizeArticle handles POST /articles/{id}/summarize.
func (s *Server) SummarizeArticle(w http.ResponseWriter, r *http.Request, id ArticleID) {
	summary, err := s.articles.Summarize(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SummaryResponse{Summary: summary})
}

// EmbedArticle handles POST /articles/{id}/embed.
func (s *Server) EmbedArticle(w http.ResponseWriter, r *http.Request, id ArticleID) {
	ctx, usage := domain.NewContextWithUsage(r.Context())
	if err := s.articles.Embed(ctx, id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("Article %s embedded successfully", id)})
}

// HealthCheck handles GET /health.
// Degraded still answers 200: CRUD works without search.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// BindErrorHandler answers parameter binding failures with a 400.
func BindErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	msg := "invalid request"
	var pe *InvalidParamFormatError
	if errors.As(err, &pe) {
		msg = "invalid parameter " + pe.ParamName
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, msg)
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message. Provider and store details never leave the process.
func safeDomainMessage(err error) string {
	if domain.IsClientError(err) {
		return err.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
