package events

import (
	"time"
)

// EventType defines the type of event
type EventType string

const (
	// Chart pipeline events
	EventChartComputed EventType = "chart:computed"
	EventChartFallback EventType = "chart:fallback" // 주소스 실패, 내장 경로 사용
	EventChartBoundary EventType = "chart:boundary" // 절기/연초 경계 근접

	// Report pipeline events
	EventReportSection  EventType = "report:section"
	EventReportComplete EventType = "report:complete"

	// Corpus events
	EventCorpusIndexed EventType = "corpus:indexed"

	// Source events
	EventSourceError EventType = "source:error"
)

// Event represents a real-time event
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// NewEvent creates a new event
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// WithRequest sets the request ID
func (e *Event) WithRequest(requestID string) *Event {
	e.RequestID = requestID
	return e
}

// ChartComputedData represents chart computed event data
type ChartComputedData struct {
	Key        string `json:"key"`
	Chart      string `json:"chart"` // "무오년 정사월 무인일 정사시"
	Provenance string `json:"provenance"`
	IsBoundary bool   `json:"is_boundary"`
}

// ReportSectionData represents one finished report section
type ReportSectionData struct {
	SectionID string  `json:"section_id"`
	CardCount int     `json:"card_count"`
	AvgScore  float64 `json:"avg_score"`
}

// ReportCompleteData represents a finished report
type ReportCompleteData struct {
	SectionCount int `json:"section_count"`
	CardCount    int `json:"card_count"`
}

// CorpusIndexedData represents corpus (re)index event data
type CorpusIndexedData struct {
	CardCount int `json:"card_count"`
	Skipped   int `json:"skipped"`
}

// SourceErrorData represents a primary source failure
type SourceErrorData struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}
