package pillars

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/n0roo/saju-kit/internal/ganji"
)

// Pillar is one stem+branch pair (주)
type Pillar struct {
	Stem   ganji.Stem
	Branch ganji.Branch
}

// Name returns the two-syllable Korean name, e.g. "무오"
func (p Pillar) Name() string {
	return p.Stem.String() + p.Branch.String()
}

// MarshalJSON emits the full pillar view consumed by downstream layers
func (p Pillar) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"stem":           p.Stem.String(),
		"branch":         p.Branch.String(),
		"stem_element":   p.Stem.Element().String(),
		"branch_element": p.Branch.Element().String(),
		"stem_index":     int(p.Stem),
		"branch_index":   int(p.Branch),
	})
}

// UnmarshalJSON restores a pillar from its index fields
func (p *Pillar) UnmarshalJSON(data []byte) error {
	var v struct {
		StemIndex   int `json:"stem_index"`
		BranchIndex int `json:"branch_index"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.StemIndex < 0 || v.StemIndex > 9 || v.BranchIndex < 0 || v.BranchIndex > 11 {
		return fmt.Errorf("기둥 인덱스 범위 밖: (%d, %d)", v.StemIndex, v.BranchIndex)
	}
	p.Stem = ganji.Stem(v.StemIndex)
	p.Branch = ganji.Branch(v.BranchIndex)
	return nil
}

// Boundary reasons
const (
	ReasonNearYearCutover = "near_year_cutover"
	ReasonNearTermChange  = "near_term_change"
	ReasonApproximate     = "approximate"
)

// Provenance values
const (
	ProvenancePrimary  = "primary"
	ProvenanceFallback = "fallback"
)

// Chart holds the four pillars of a birth moment. 생성 후 불변
type Chart struct {
	Year  Pillar  `json:"year"`
	Month Pillar  `json:"month"`
	Day   Pillar  `json:"day"`
	Hour  *Pillar `json:"hour,omitempty"` // 출생 시각 미상이면 nil

	Provenance     string `json:"provenance"`
	IsBoundary     bool   `json:"is_boundary"`
	BoundaryReason string `json:"boundary_reason,omitempty"`
}

// Pillars returns the present pillars in year/month/day/hour order
func (c *Chart) Pillars() []Pillar {
	out := []Pillar{c.Year, c.Month, c.Day}
	if c.Hour != nil {
		out = append(out, *c.Hour)
	}
	return out
}

// String returns a compact Korean rendering like "무오년 정사월 무인일 정사시"
func (c *Chart) String() string {
	s := fmt.Sprintf("%s년 %s월 %s일", c.Year.Name(), c.Month.Name(), c.Day.Name())
	if c.Hour != nil {
		s += fmt.Sprintf(" %s시", c.Hour.Name())
	}
	return s
}

// Request describes one chart computation
type Request struct {
	Year, Month, Day     int
	Hour, Minute         int
	HasTime              bool
	ApplySolarCorrection bool // 시주 계산 시 -30분 (한국 표준시 경도 보정)
}

// Key returns the cache key for this request: (y, m, d, hour|null)
func (r Request) Key() string {
	if !r.HasTime {
		return fmt.Sprintf("%04d-%02d-%02d:null", r.Year, r.Month, r.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d:%02d", r.Year, r.Month, r.Day, r.Hour)
}

// KST is the civil time zone all birth moments are interpreted in
var KST = time.FixedZone("KST", 9*3600)

// Moment returns the birth moment in KST (시각 미상이면 자정)
func (r Request) Moment() time.Time {
	h, m := 0, 0
	if r.HasTime {
		h, m = r.Hour, r.Minute
	}
	return time.Date(r.Year, time.Month(r.Month), r.Day, h, m, 0, 0, KST)
}

// Validate checks the civil date/time fields
func (r Request) Validate() error {
	if r.Year < 1 || r.Year > 9999 {
		return fmt.Errorf("연도 범위 밖: %d", r.Year)
	}
	t := time.Date(r.Year, time.Month(r.Month), r.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != r.Year || int(t.Month()) != r.Month || t.Day() != r.Day {
		return fmt.Errorf("유효하지 않은 날짜: %04d-%02d-%02d", r.Year, r.Month, r.Day)
	}
	if r.HasTime {
		if r.Hour < 0 || r.Hour > 23 || r.Minute < 0 || r.Minute > 59 {
			return fmt.Errorf("유효하지 않은 시각: %02d:%02d", r.Hour, r.Minute)
		}
	}
	return nil
}
