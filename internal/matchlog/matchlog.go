package matchlog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/n0roo/saju-kit/internal/db"
	"github.com/n0roo/saju-kit/internal/match"
)

// Logger appends match traces to the match_log table
type Logger struct {
	db db.Database
}

// New creates a match-log writer over an open database
func New(database db.Database) *Logger {
	return &Logger{db: database}
}

// Record appends one report's trace. 트레이스 ID가 기본 키
func (l *Logger) Record(report *match.Report, trace *match.Trace, targetYear int) error {
	data, err := json.Marshal(trace)
	if err != nil {
		return fmt.Errorf("트레이스 직렬화 실패: %w", err)
	}

	sections, cards := 0, 0
	for _, s := range report.Sections {
		if len(s.Cards) > 0 {
			sections++
		}
		cards += len(s.Cards)
	}

	_, err = l.db.Exec(
		`INSERT INTO match_log (id, target_year, section_count, card_count, trace)
		 VALUES (?, ?, ?, ?, ?)`,
		trace.RequestID, targetYear, sections, cards, string(data),
	)
	if err != nil {
		return fmt.Errorf("매칭 로그 저장 실패: %w", err)
	}
	return nil
}

// Entry is one stored match-log row
type Entry struct {
	ID           string    `json:"id"`
	RequestedAt  time.Time `json:"requested_at"`
	TargetYear   int       `json:"target_year"`
	SectionCount int       `json:"section_count"`
	CardCount    int       `json:"card_count"`
}

// Recent returns the latest n log entries, 최신 순
func (l *Logger) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := l.db.Query(
		`SELECT id, requested_at, target_year, section_count, card_count
		 FROM match_log ORDER BY requested_at DESC, id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("매칭 로그 조회 실패: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RequestedAt, &e.TargetYear, &e.SectionCount, &e.CardCount); err != nil {
			return nil, fmt.Errorf("매칭 로그 스캔 실패: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Trace restores the full trace of one logged request
func (l *Logger) Trace(id string) (*match.Trace, error) {
	var data string
	if err := l.db.QueryRow(`SELECT trace FROM match_log WHERE id = ?`, id).Scan(&data); err != nil {
		return nil, fmt.Errorf("트레이스 조회 실패: %w", err)
	}
	var t match.Trace
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, fmt.Errorf("트레이스 복원 실패: %w", err)
	}
	return &t, nil
}

// Stats summarizes the match log for the stats command
type Stats struct {
	TotalRequests int            `json:"total_requests"`
	TotalCards    int            `json:"total_cards"`
	AvgCards      float64        `json:"avg_cards"`
	ByYear        map[int]int    `json:"by_year"`
	TopCards      map[string]int `json:"top_cards"`
}

// Summarize aggregates the whole match log
func (l *Logger) Summarize() (*Stats, error) {
	s := &Stats{ByYear: make(map[int]int), TopCards: make(map[string]int)}

	rows, err := l.db.Query(`SELECT target_year, card_count, trace FROM match_log`)
	if err != nil {
		return nil, fmt.Errorf("매칭 로그 집계 실패: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var year, cardCount int
		var data string
		if err := rows.Scan(&year, &cardCount, &data); err != nil {
			return nil, fmt.Errorf("매칭 로그 스캔 실패: %w", err)
		}
		s.TotalRequests++
		s.TotalCards += cardCount
		s.ByYear[year]++

		var t match.Trace
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			continue // 손상 트레이스는 건수만 집계
		}
		for _, id := range t.MatchedRuleIDs {
			s.TopCards[id]++
		}
	}
	if s.TotalRequests > 0 {
		s.AvgCards = float64(s.TotalCards) / float64(s.TotalRequests)
	}
	return s, rows.Err()
}
