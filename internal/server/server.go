package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/n0roo/saju-kit/internal/cache"
	"github.com/n0roo/saju-kit/internal/cards"
	"github.com/n0roo/saju-kit/internal/features"
	"github.com/n0roo/saju-kit/internal/match"
	"github.com/n0roo/saju-kit/internal/matchlog"
	"github.com/n0roo/saju-kit/internal/pillars"
	"github.com/n0roo/saju-kit/internal/server/events"
)

// Deps holds the wired pipeline components
type Deps struct {
	Pillars *pillars.Engine
	Store   *cards.Store
	Match   *match.Engine
	Cache   *cache.Cache     // nil이면 캐시 생략
	Log     *matchlog.Logger // nil이면 로그 생략
}

// Server serves the chart/analyze/report API
type Server struct {
	port int
	deps Deps
	srv  *http.Server
	hub  *events.SSEServer
}

// New creates a server on the given port
func New(port int, deps Deps) *Server {
	return &Server{port: port, deps: deps}
}

// Start starts the HTTP server (blocks)
func (s *Server) Start() error {
	mux := s.routes()

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.corsMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // SSE 고려
	}

	log.Printf("사주 API 서버 시작: http://localhost:%d", s.port)
	log.Printf("SSE 이벤트: /api/events")
	return s.srv.ListenAndServe()
}

// Stop gracefully stops the server
func (s *Server) Stop() error {
	if s.hub != nil {
		s.hub.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/chart", s.handleChart)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/match", s.handleMatch)
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/api/corpus/stats", s.handleCorpusStats)
	mux.HandleFunc("/api/log/recent", s.handleLogRecent)

	// SSE (실시간 파이프라인 진행 이벤트)
	s.hub = events.NewSSEServer()
	s.hub.Start()
	events.GetPublisher().SetSSEServer(s.hub)
	mux.Handle("/api/events", s.hub)
	mux.HandleFunc("/api/events/status", func(w http.ResponseWriter, r *http.Request) {
		s.jsonResponse(w, map[string]interface{}{
			"connected_clients": s.hub.ClientCount(),
			"status":            "running",
		})
	})

	return mux
}

// corsMiddleware wraps a handler with CORS headers for all requests
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// JSON response helper
func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// Error response helper
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// birthRequest is the common request body for chart endpoints
type birthRequest struct {
	Year            int   `json:"year"`
	Month           int   `json:"month"`
	Day             int   `json:"day"`
	Hour            *int  `json:"hour,omitempty"` // 없으면 시주 생략
	Minute          int   `json:"minute,omitempty"`
	SolarCorrection *bool `json:"solar_correction,omitempty"` // 기본: 보정함
}

func (b birthRequest) toRequest() pillars.Request {
	req := pillars.Request{
		Year:                 b.Year,
		Month:                b.Month,
		Day:                  b.Day,
		Minute:               b.Minute,
		ApplySolarCorrection: true,
	}
	if b.Hour != nil {
		req.HasTime = true
		req.Hour = *b.Hour
	}
	if b.SolarCorrection != nil {
		req.ApplySolarCorrection = *b.SolarCorrection
	}
	return req
}

// reportRequest is the request body for /api/analyze and /api/report
type reportRequest struct {
	birthRequest
	TargetYear int      `json:"target_year,omitempty"` // 기본: 올해
	SurveyTags []string `json:"survey_tags,omitempty"`
}

func (r reportRequest) year() int {
	if r.TargetYear > 0 {
		return r.TargetYear
	}
	return time.Now().In(pillars.KST).Year()
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// computeChart runs the pillar engine with cache in front
func (s *Server) computeChart(ctx context.Context, req pillars.Request) (*pillars.Chart, error) {
	key := req.Key()
	if s.deps.Cache != nil {
		if chart, ok := s.deps.Cache.GetChart(key); ok {
			return chart, nil
		}
	}

	chart, err := s.deps.Pillars.Compute(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.SaveChart(key, chart); err != nil {
			log.Printf("[server] 사주 캐시 저장 실패: %v", err)
		}
	}
	return chart, nil
}

// handleStatus returns overall status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
		"corpus": map[string]int{
			"cards":  s.deps.Store.Size(),
			"topics": len(s.deps.Store.Topics()),
		},
	}
	if s.hub != nil {
		status["sse_clients"] = s.hub.ClientCount()
	}
	s.jsonResponse(w, status)
}

// handleChart computes the four pillars for a birth moment
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		s.errorResponse(w, 405, "POST만 지원")
		return
	}

	var body birthRequest
	if err := decodeBody(r, &body); err != nil {
		s.errorResponse(w, 400, "요청 본문 파싱 실패: "+err.Error())
		return
	}

	req := body.toRequest()
	chart, err := s.computeChart(r.Context(), req)
	if err != nil {
		s.chartError(w, err)
		return
	}

	events.GetPublisher().PublishChartComputed("", req.Key(), chart.String(), chart.Provenance, chart.IsBoundary)
	s.jsonResponse(w, chart)
}

// handleAnalyze computes the chart and derived features
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		s.errorResponse(w, 405, "POST만 지원")
		return
	}

	var body reportRequest
	if err := decodeBody(r, &body); err != nil {
		s.errorResponse(w, 400, "요청 본문 파싱 실패: "+err.Error())
		return
	}

	chart, err := s.computeChart(r.Context(), body.toRequest())
	if err != nil {
		s.chartError(w, err)
		return
	}

	feats, err := features.Derive(chart, body.year())
	if err != nil {
		s.errorResponse(w, 500, err.Error())
		return
	}

	s.jsonResponse(w, map[string]interface{}{
		"chart":    chart,
		"features": feats,
	})
}

// matchRequest is the request body for /api/match
type matchRequest struct {
	reportRequest
	SectionID string `json:"section_id"`
	Limit     int    `json:"limit,omitempty"` // 기본: 설정의 per_section
}

// handleMatch scores a single report section
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		s.errorResponse(w, 405, "POST만 지원")
		return
	}

	var body matchRequest
	if err := decodeBody(r, &body); err != nil {
		s.errorResponse(w, 400, "요청 본문 파싱 실패: "+err.Error())
		return
	}
	if body.SectionID == "" {
		s.errorResponse(w, 400, "section_id 필요")
		return
	}

	req := body.toRequest()
	chart, err := s.computeChart(r.Context(), req)
	if err != nil {
		s.chartError(w, err)
		return
	}

	feats, err := features.Derive(chart, body.year())
	if err != nil {
		s.errorResponse(w, 500, err.Error())
		return
	}

	in := match.BuildInput(feats, body.SurveyTags)
	result, trace, err := s.deps.Match.ScoreSection(in, body.SectionID, body.Limit)
	if err != nil {
		s.errorResponse(w, 400, err.Error())
		return
	}

	events.GetPublisher().PublishReportSection(trace.RequestID, result.SectionID, len(result.Cards), result.AvgScore)

	s.jsonResponse(w, map[string]interface{}{
		"request_id": trace.RequestID,
		"section":    result,
		"trace":      trace,
	})
}

// handleReport runs the full pipeline: chart → features → matched report
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		s.errorResponse(w, 405, "POST만 지원")
		return
	}

	var body reportRequest
	if err := decodeBody(r, &body); err != nil {
		s.errorResponse(w, 400, "요청 본문 파싱 실패: "+err.Error())
		return
	}

	req := body.toRequest()
	chart, err := s.computeChart(r.Context(), req)
	if err != nil {
		s.chartError(w, err)
		return
	}

	feats, err := features.Derive(chart, body.year())
	if err != nil {
		s.errorResponse(w, 500, err.Error())
		return
	}

	in := match.BuildInput(feats, body.SurveyTags)
	report, trace := s.deps.Match.ScoreAll(in)

	pub := events.GetPublisher()
	pub.PublishChartComputed(trace.RequestID, req.Key(), chart.String(), chart.Provenance, chart.IsBoundary)
	cardCount := 0
	for _, sec := range report.Sections {
		cardCount += len(sec.Cards)
		pub.PublishReportSection(trace.RequestID, sec.SectionID, len(sec.Cards), sec.AvgScore)
	}
	pub.PublishReportComplete(trace.RequestID, len(report.Sections), cardCount)

	if s.deps.Log != nil {
		if err := s.deps.Log.Record(report, trace, feats.TargetYear); err != nil {
			log.Printf("[server] 매칭 로그 저장 실패: %v", err)
		}
	}

	s.jsonResponse(w, map[string]interface{}{
		"request_id": trace.RequestID,
		"chart":      chart,
		"features":   feats,
		"report":     report,
		"trace":      trace,
	})
}

// handleCorpusStats returns corpus summary
func (s *Server) handleCorpusStats(w http.ResponseWriter, r *http.Request) {
	topics := make(map[string]int)
	for _, t := range s.deps.Store.Topics() {
		topics[t] = len(s.deps.Store.ByTopic(t))
	}
	s.jsonResponse(w, map[string]interface{}{
		"cards":  s.deps.Store.Size(),
		"topics": topics,
	})
}

// handleLogRecent returns recent match-log entries
func (s *Server) handleLogRecent(w http.ResponseWriter, r *http.Request) {
	if s.deps.Log == nil {
		s.errorResponse(w, 503, "매칭 로그가 설정되지 않음")
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := s.deps.Log.Recent(limit)
	if err != nil {
		s.errorResponse(w, 500, err.Error())
		return
	}
	if entries == nil {
		entries = []matchlog.Entry{}
	}
	s.jsonResponse(w, entries)
}

// chartError maps pillar engine errors to HTTP statuses
func (s *Server) chartError(w http.ResponseWriter, err error) {
	if errors.Is(err, pillars.ErrCalendarUnavailable) {
		s.errorResponse(w, 503, err.Error())
		return
	}
	s.errorResponse(w, 400, err.Error())
}
