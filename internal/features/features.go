package features

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/n0roo/saju-kit/internal/ganji"
	"github.com/n0roo/saju-kit/internal/pillars"
)

// Features is everything the match engine needs from a chart.
// Derive로 한 번 생성된 후 불변
type Features struct {
	DayMaster        ganji.Stem
	DayMasterElement ganji.Element

	ElementCounts  map[ganji.Element]int
	StrongElements []ganji.Element // 가장 많은 2개
	WeakElements   []ganji.Element // 가장 적은 2개
	IsStrongSelf   bool

	TenGodCounts   map[TenGod]int
	DominantTenGod TenGod

	StructureName        string
	StructureDescription string

	TargetYear      int
	YearElement     ganji.Element
	IsFavorableYear bool
}

// Derive computes features from a chart for a target year.
/// 순수 함수: 입력이 올바르면 실패 경로 없음
func Derive(chart *pillars.Chart, targetYear int) (*Features, error) {
	if chart == nil {
		return nil, fmt.Errorf("사주가 비어 있음")
	}

	f := &Features{
		DayMaster:        chart.Day.Stem,
		DayMasterElement: chart.Day.Stem.Element(),
		ElementCounts:    make(map[ganji.Element]int),
		TenGodCounts:     make(map[TenGod]int),
		TargetYear:       targetYear,
	}

	// 오행 분포: 모든 천간/지지 (6 또는 8자리)
	for _, p := range chart.Pillars() {
		f.ElementCounts[p.Stem.Element()]++
		f.ElementCounts[p.Branch.Element()]++
	}

	f.StrongElements, f.WeakElements = rankElements(f.ElementCounts)

	// 신강 판정: 일간 오행 + 일간을 생하는 오행의 합
	self := f.ElementCounts[f.DayMasterElement] + f.ElementCounts[f.DayMasterElement.GeneratedBy()]
	f.IsStrongSelf = self >= 3

	// 십성 분포: 일간을 제외한 천간 + 모든 지지
	for i, p := range chart.Pillars() {
		if i != 2 { // 2 = 일주, 일간 자신은 제외
			f.TenGodCounts[TenGodOf(f.DayMaster, p.Stem)]++
		}
		f.TenGodCounts[TenGodOfBranch(f.DayMaster, p.Branch)]++
	}
	f.DominantTenGod = dominant(f.TenGodCounts)

	f.StructureName, f.StructureDescription = classify(f)

	f.YearElement = YearRulingElement(targetYear)
	f.IsFavorableYear = judgeYear(f)

	return f, nil
}

// GodGroupCounts collapses the ten-god distribution into the 5 coarse groups
func (f *Features) GodGroupCounts() map[GodGroup]int {
	out := make(map[GodGroup]int)
	for g, n := range f.TenGodCounts {
		out[g.Group()] += n
	}
	return out
}

// PresentElements returns the set of elements appearing in the chart
func (f *Features) PresentElements() map[ganji.Element]bool {
	out := make(map[ganji.Element]bool)
	for e, n := range f.ElementCounts {
		if n > 0 {
			out[e] = true
		}
	}
	return out
}

// PresentGodGroups returns the set of god groups appearing in the chart
func (f *Features) PresentGodGroups() map[GodGroup]bool {
	out := make(map[GodGroup]bool)
	for g, n := range f.GodGroupCounts() {
		if n > 0 {
			out[g] = true
		}
	}
	return out
}

// rankElements returns the top-2 and bottom-2 elements by count.
// 동률이면 오행 순서(목화토금수) 우선
func rankElements(counts map[ganji.Element]int) (strong, weak []ganji.Element) {
	order := []ganji.Element{ganji.Wood, ganji.Fire, ganji.Earth, ganji.Metal, ganji.Water}
	ranked := make([]ganji.Element, len(order))
	copy(ranked, order)

	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})

	strong = []ganji.Element{ranked[0], ranked[1]}
	weak = []ganji.Element{ranked[4], ranked[3]}
	return strong, weak
}

func dominant(counts map[TenGod]int) TenGod {
	best, bestN := Bigyeon, -1
	for g := Bigyeon; g <= Jeongin; g++ {
		if counts[g] > bestN {
			best, bestN = g, counts[g]
		}
	}
	return best
}

// MarshalJSON emits the downstream view with Korean labels
func (f *Features) MarshalJSON() ([]byte, error) {
	elemCounts := make(map[string]int)
	for e, n := range f.ElementCounts {
		elemCounts[e.String()] = n
	}
	godCounts := make(map[string]int)
	for g, n := range f.TenGodCounts {
		godCounts[g.String()] = n
	}
	names := func(es []ganji.Element) []string {
		out := make([]string, len(es))
		for i, e := range es {
			out[i] = e.String()
		}
		return out
	}

	return json.Marshal(map[string]interface{}{
		"day_master":            f.DayMaster.String(),
		"day_master_element":    f.DayMasterElement.String(),
		"element_counts":        elemCounts,
		"strong_elements":       names(f.StrongElements),
		"weak_elements":         names(f.WeakElements),
		"is_strong_self":        f.IsStrongSelf,
		"ten_god_counts":        godCounts,
		"dominant_ten_god":      f.DominantTenGod.String(),
		"structure_name":        f.StructureName,
		"structure_description": f.StructureDescription,
		"target_year":           f.TargetYear,
		"year_element":          f.YearElement.String(),
		"is_favorable_year":     f.IsFavorableYear,
	})
}
