package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/askdoc/askdoc/internal/config"
	"github.com/askdoc/askdoc/internal/core/domain"
	"github.com/askdoc/askdoc/internal/core/ports"
	"github.com/askdoc/askdoc/internal/core/usecase"
	"github.com/askdoc/askdoc/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	cfg     config.Config
	ingest  ports.DocumentIngestor
	query   ports.DocumentQueryService
	docs    ports.DocumentManager
	metrics *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ingest ports.DocumentIngestor,
	query ports.DocumentQueryService,
	docs ports.DocumentManager,
) *Router {
	return &Router{
		cfg:    cfg,
		ingest: ingest,
		query:  query,
		docs:   docs,
	}
}

func (rt *Router) WithMetrics(m *metrics.HTTPServerMetrics) *Router {
	rt.metrics = m
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.documents)
	mux.HandleFunc("/v1/documents/", rt.documentByID)
	mux.HandleFunc("/v1/rag/query", rt.answerQuery)
	mux.HandleFunc("/v1/rag/query/stream", rt.answerQueryStream)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIBackpressureTimeout)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) documents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.uploadDocument(w, r)
	case http.MethodGet:
		rt.listDocuments(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := rt.docs.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (rt *Router) documentByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		doc, err := rt.docs.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case http.MethodDelete:
		if err := rt.docs.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

type queryRequest struct {
	Query          string `json:"query"`
	TopK           int    `json:"top_k"`
	DocumentFilter string `json:"document_filter"`
}

func (rt *Router) decodeQuery(w http.ResponseWriter, r *http.Request) (queryRequest, bool) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return queryRequest{}, false
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return queryRequest{}, false
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return queryRequest{}, false
	}
	if req.TopK <= 0 {
		req.TopK = rt.cfg.RAGTopK
	}
	return req, true
}

func (rt *Router) answerQuery(w http.ResponseWriter, r *http.Request) {
	req, ok := rt.decodeQuery(w, r)
	if !ok {
		return
	}

	start := time.Now()
	answer, err := rt.query.Answer(r.Context(), req.Query, req.TopK, domain.SearchFilter{
		DocumentName: req.DocumentFilter,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	rt.recordAnswer("/v1/rag/query", req.Query, len(answer.Candidates), time.Since(start))

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":        answer.Text,
		"sources":       answer.Sources,
		"context_count": len(answer.Candidates),
	})
}

func (rt *Router) answerQueryStream(w http.ResponseWriter, r *http.Request) {
	req, ok := rt.decodeQuery(w, r)
	if !ok {
		return
	}

	start := time.Now()
	events, err := rt.query.AnswerStream(r.Context(), req.Query, req.TopK, domain.SearchFilter{
		DocumentName: req.DocumentFilter,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	sourceCount := streamAnswerEvents(w, events)
	rt.recordAnswer("/v1/rag/query/stream", req.Query, sourceCount, time.Since(start))
}

func (rt *Router) recordAnswer(endpoint, question string, sourceCount int, duration time.Duration) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordAnswerObservation(serviceName, endpoint, sourceCount, duration)
	rt.metrics.RecordQuestionType(serviceName, string(usecase.ClassifyQuestion(question)))
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
