package events

import (
	"sync"
)

// Publisher publishes events to SSE clients
type Publisher struct {
	sse *SSEServer
}

var (
	globalPublisher *Publisher
	publisherOnce   sync.Once
)

// GetPublisher returns the global publisher instance
func GetPublisher() *Publisher {
	publisherOnce.Do(func() {
		globalPublisher = &Publisher{
			sse: NewSSEServer(),
		}
		globalPublisher.sse.Start()
	})
	return globalPublisher
}

// SetSSEServer sets the SSE server (테스트/커스텀 구성용)
func (p *Publisher) SetSSEServer(sse *SSEServer) {
	p.sse = sse
}

// GetSSEServer returns the SSE server
func (p *Publisher) GetSSEServer() *SSEServer {
	return p.sse
}

// Publish publishes an event
func (p *Publisher) Publish(event *Event) {
	if p.sse != nil {
		p.sse.Broadcast(event)
	}
}

// PublishChartComputed publishes a chart computed event
func (p *Publisher) PublishChartComputed(requestID, key, chart, provenance string, isBoundary bool) {
	p.Publish(NewEvent(EventChartComputed, ChartComputedData{
		Key:        key,
		Chart:      chart,
		Provenance: provenance,
		IsBoundary: isBoundary,
	}).WithRequest(requestID))
}

// PublishReportSection publishes a finished report section
func (p *Publisher) PublishReportSection(requestID, sectionID string, cardCount int, avgScore float64) {
	p.Publish(NewEvent(EventReportSection, ReportSectionData{
		SectionID: sectionID,
		CardCount: cardCount,
		AvgScore:  avgScore,
	}).WithRequest(requestID))
}

// PublishReportComplete publishes a finished report
func (p *Publisher) PublishReportComplete(requestID string, sectionCount, cardCount int) {
	p.Publish(NewEvent(EventReportComplete, ReportCompleteData{
		SectionCount: sectionCount,
		CardCount:    cardCount,
	}).WithRequest(requestID))
}

// PublishCorpusIndexed publishes a corpus (re)index event
func (p *Publisher) PublishCorpusIndexed(cardCount, skipped int) {
	p.Publish(NewEvent(EventCorpusIndexed, CorpusIndexedData{
		CardCount: cardCount,
		Skipped:   skipped,
	}))
}

// PublishSourceError publishes a primary source failure
func (p *Publisher) PublishSourceError(key, errMsg string) {
	p.Publish(NewEvent(EventSourceError, SourceErrorData{
		Key:   key,
		Error: errMsg,
	}))
}
