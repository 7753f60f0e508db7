package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ArticleID is the path parameter naming a single article.
type ArticleID = string

// SearchArticlesParams defines query parameters for SearchArticles.
type SearchArticlesParams struct {
	Query *string `form:"query,omitempty" json:"query,omitempty"`
	Limit *int    `form:"limit,omitempty" json:"limit,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Welcome message (GET /).
	Root(w http.ResponseWriter, r *http.Request)
	// List articles (GET /articles).
	ListArticles(w http.ResponseWriter, r *http.Request)
	// Create an article (POST /articles).
	CreateArticle(w http.ResponseWriter, r *http.Request)
	// Semantic search (GET /articles/search).
	SearchArticles(w http.ResponseWriter, r *http.Request, params SearchArticlesParams)
	// Get an article (GET /articles/{id}).
	GetArticle(w http.ResponseWriter, r *http.Request, id ArticleID)
	// Partially update an article (PUT /articles/{id}).
	UpdateArticle(w http.ResponseWriter, r *http.Request, id ArticleID)
	// Delete an article (DELETE /articles/{id}).
	DeleteArticle(w http.ResponseWriter, r *http.Request, id ArticleID)
	// Generate and store a summary (POST /articles/{id}/summarize).
	SummarizeArticle(w http.ResponseWriter, r *http.Request, id ArticleID)
	// Store an embedding (POST /articles/{id}/embed).
	EmbedArticle(w http.ResponseWriter, r *http.Request, id ArticleID)
	// Health check (GET /health).
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// Prometheus metrics (GET /metrics).
	Metrics(w http.ResponseWriter, r *http.Request)
}

// ServerInterfaceWrapper binds request parameters before calling the handler.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError reports a parameter that could not be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// Root operation middleware.
func (siw *ServerInterfaceWrapper) Root(w http.ResponseWriter, r *http.Request) {
	siw.Handler.Root(w, r)
}

// ListArticles operation middleware.
func (siw *ServerInterfaceWrapper) ListArticles(w http.ResponseWriter, r *http.Request) {
	siw.Handler.ListArticles(w, r)
}

// CreateArticle operation middleware.
func (siw *ServerInterfaceWrapper) CreateArticle(w http.ResponseWriter, r *http.Request) {
	siw.Handler.CreateArticle(w, r)
}

// SearchArticles operation middleware.
func (siw *ServerInterfaceWrapper) SearchArticles(w http.ResponseWriter, r *http.Request) {
	var params SearchArticlesParams

	if err := runtime.BindQueryParameter("form", true, false, "query", r.URL.Query(), &params.Query); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "query", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}

	siw.Handler.SearchArticles(w, r, params)
}

// GetArticle operation middleware.
func (siw *ServerInterfaceWrapper) GetArticle(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.GetArticle)
}

// UpdateArticle operation middleware.
func (siw *ServerInterfaceWrapper) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.UpdateArticle)
}

// DeleteArticle operation middleware.
func (siw *ServerInterfaceWrapper) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.DeleteArticle)
}

// SummarizeArticle operation middleware.
func (siw *ServerInterfaceWrapper) SummarizeArticle(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.SummarizeArticle)
}

// EmbedArticle operation middleware.
func (siw *ServerInterfaceWrapper) EmbedArticle(w http.ResponseWriter, r *http.Request) {
	siw.withID(w, r, siw.Handler.EmbedArticle)
}

// HealthCheck operation middleware.
func (siw *ServerInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.Handler.HealthCheck(w, r)
}

// Metrics operation middleware.
func (siw *ServerInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.Handler.Metrics(w, r)
}

func (siw *ServerInterfaceWrapper) withID(
	w http.ResponseWriter, r *http.Request, next func(http.ResponseWriter, *http.Request, ArticleID),
) {
	var id ArticleID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return
	}
	next(w, r, id)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions mounts every route of si on options.BaseRouter.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Get("/", wrapper.Root)
	r.Get("/health", wrapper.HealthCheck)
	r.Get("/metrics", wrapper.Metrics)
	r.Route("/articles", func(r chi.Router) {
		r.Get("/", wrapper.ListArticles)
		r.Post("/", wrapper.CreateArticle)
		r.Get("/search", wrapper.SearchArticles)
		r.Get("/{id}", wrapper.GetArticle)
		r.Put("/{id}", wrapper.UpdateArticle)
		r.Delete("/{id}", wrapper.DeleteArticle)
		r.Post("/{id}/summarize", wrapper.SummarizeArticle)
		r.Post("/{id}/embed", wrapper.EmbedArticle)
	})

	return r
}
