package pillars

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/n0roo/saju-kit/internal/ganji"
	"github.com/n0roo/saju-kit/internal/manse"
	"github.com/n0roo/saju-kit/internal/solarterm"
)

// ErrCalendarUnavailable means neither the primary source nor the
// deterministic fallback could resolve the date
var ErrCalendarUnavailable = errors.New("달력 데이터 소스를 사용할 수 없음")

// 기준일: 2000-01-01 = 무오일 (60갑자 인덱스 54)
const (
	anchorDays  = 10957 // 2000-01-01의 유닉스 일수
	anchorIndex = 54
)

// 연간 그룹별 월두법: 갑기→병인, 을경→무인, 병신→경인, 정임→임인, 무계→갑인
var monthStartStem = [5]ganji.Stem{2, 4, 6, 8, 0}

// 일간 그룹별 시두법: 갑기→갑자, 을경→병자, 병신→무자, 정임→경자, 무계→임자
var hourStartStem = [5]ganji.Stem{0, 2, 4, 6, 8}

// 인월이 지지 인덱스 2
const monthFirstBranch = 2

// boundaryWindow flags charts near a solar-term change
const boundaryWindow = 48 * time.Hour

// Engine computes charts from civil dates, reconciling the primary
// source with the deterministic solar-longitude path
type Engine struct {
	source  manse.Client // nil이면 결정적 경로만 사용
	timeout time.Duration
}

// New creates an engine. timeout이 0이면 manse.DefaultTimeout 사용
func New(source manse.Client, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = manse.DefaultTimeout
	}
	return &Engine{source: source, timeout: timeout}
}

// Compute resolves the four pillars for a birth moment.
// 주소스 실패 시 결정적 경로로 자동 강등, 둘 다 실패하면 ErrCalendarUnavailable
func (e *Engine) Compute(ctx context.Context, req Request) (*Chart, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
	}

	det := deterministic(req)

	var chart *Chart
	if e.source != nil {
		if primary := e.fromPrimary(ctx, req); primary != nil {
			// 일주는 두 경로가 비트 단위로 일치해야 함. 불일치 시 주소스 우선, 기록만 남김
			if primary.Day != det.Day {
				log.Printf("[pillars] 일주 불일치 (%04d-%02d-%02d): 주소스=%s 계산=%s, 주소스 사용",
					req.Year, req.Month, req.Day, primary.Day.Name(), det.Day.Name())
			}
			chart = primary
		}
	}
	if chart == nil {
		chart = det
	}

	if req.HasTime {
		hp := hourPillar(chart.Day.Stem, req)
		chart.Hour = &hp
	}

	e.flagBoundary(chart, req)
	return chart, nil
}

// deterministic computes all pillars from the day anchor and solar longitude
func deterministic(req Request) *Chart {
	moment := req.Moment()

	// 일주: 기준일로부터의 경과 일수
	days := solarterm.DaysFromCivil(req.Year, req.Month, req.Day) - anchorDays
	dayIdx := ((anchorIndex+days)%ganji.CycleSize + ganji.CycleSize) % ganji.CycleSize

	// 연주: 입춘 전이면 전년도
	adjYear := req.Year
	if moment.Before(solarterm.YearCutover(req.Year)) {
		adjYear--
	}
	yearStem := ganji.Stem(((adjYear-4)%10 + 10) % 10)
	yearBranch := ganji.Branch(((adjYear-4)%12 + 12) % 12)

	// 월주: 절기 버킷 + 월두법
	bucket := solarterm.MonthBucket(moment)
	monthStem := ganji.Stem((int(monthStartStem[yearStem%5]) + bucket) % 10)
	monthBranch := ganji.Branch((monthFirstBranch + bucket) % 12)

	return &Chart{
		Year:       Pillar{Stem: yearStem, Branch: yearBranch},
		Month:      Pillar{Stem: monthStem, Branch: monthBranch},
		Day:        Pillar{Stem: ganji.CycleStem(dayIdx), Branch: ganji.CycleBranch(dayIdx)},
		Provenance: ProvenanceFallback,
	}
}

// fromPrimary queries the external source under a bounded timeout.
// 실패/불완전/파싱 불가는 모두 nil 반환 (호출자에게 에러 전파 금지)
func (e *Engine) fromPrimary(ctx context.Context, req Request) *Chart {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.source.Lookup(ctx, req.Year, req.Month, req.Day)
	if err != nil {
		log.Printf("[pillars] 주소스 호출 실패, 결정적 경로 사용: %v", err)
		return nil
	}
	if !resp.Complete() {
		log.Printf("[pillars] 주소스 응답 불완전, 결정적 경로 사용")
		return nil
	}

	year, err := parsePillar(resp.YearGanji)
	if err != nil {
		log.Printf("[pillars] 연간지 파싱 실패 %q: %v", resp.YearGanji, err)
		return nil
	}
	month, err := parsePillar(resp.MonthGanji)
	if err != nil {
		log.Printf("[pillars] 월간지 파싱 실패 %q: %v", resp.MonthGanji, err)
		return nil
	}
	day, err := parsePillar(resp.DayGanji)
	if err != nil {
		log.Printf("[pillars] 일진 파싱 실패 %q: %v", resp.DayGanji, err)
		return nil
	}

	return &Chart{Year: year, Month: month, Day: day, Provenance: ProvenancePrimary}
}

func parsePillar(name string) (Pillar, error) {
	s, b, err := ganji.ParseCycle(manse.Normalize(name))
	if err != nil {
		return Pillar{}, err
	}
	return Pillar{Stem: s, Branch: b}, nil
}

// hourPillar buckets the effective minutes into 12 two-hour slots.
// 버킷 0 = 자시 (23:00~00:59)
func hourPillar(dayStem ganji.Stem, req Request) Pillar {
	eff := req.Hour*60 + req.Minute
	if req.ApplySolarCorrection {
		eff -= 30
	}
	if eff < 0 {
		eff += 24 * 60
	}
	bucket := ((eff + 60) / 120) % 12

	stem := ganji.Stem((int(hourStartStem[dayStem%5]) + bucket) % 10)
	return Pillar{Stem: stem, Branch: ganji.Branch(bucket)}
}

// flagBoundary marks charts near a term change or outside the
// fine-grained term range
func (e *Engine) flagBoundary(chart *Chart, req Request) {
	if !solarterm.Supported(req.Year) {
		chart.IsBoundary = true
		chart.BoundaryReason = ReasonApproximate
		return
	}

	p := solarterm.NearBoundary(req.Moment(), boundaryWindow)
	if !p.Near {
		return
	}
	chart.IsBoundary = true
	if p.Bucket == 0 {
		chart.BoundaryReason = ReasonNearYearCutover
	} else {
		chart.BoundaryReason = ReasonNearTermChange
	}
}
