package match

import (
	"strconv"
	"strings"

	"github.com/n0roo/saju-kit/internal/features"
	"github.com/n0roo/saju-kit/internal/ganji"
)

// Input is the caller side of a match: the feature tag vector,
// predicate 평가용 필드, 제로 톨러런스 판정용 존재 집합
type Input struct {
	Tags       []string               // 파생 태그 + 설문 태그
	SurveyTags []string               // 설문에서 온 태그만 (목표 보너스 판별)
	Fields     map[string]interface{} // 구조화 predicate 평가용

	PresentElements map[ganji.Element]bool
	PresentGroups   map[features.GodGroup]bool

	TargetYear int
}

// BuildInput converts derived features (+ optional survey tags) into match input.
// 태그는 전부 소문자 정규화 — 카드 토큰과 같은 규칙
func BuildInput(f *features.Features, surveyTags []string) Input {
	in := Input{
		PresentElements: f.PresentElements(),
		PresentGroups:   f.PresentGodGroups(),
		TargetYear:      f.TargetYear,
	}

	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			in.Tags = append(in.Tags, tag)
		}
	}

	// 일간과 구조
	add(f.DayMaster.String())
	add(f.DayMasterElement.String())
	add("일간 " + f.DayMasterElement.String())
	add(f.StructureName)
	add(f.DominantTenGod.String())
	add(f.DominantTenGod.Group().String())
	if f.IsStrongSelf {
		add("신강")
	} else {
		add("신약")
	}

	// 오행 분포
	for _, e := range f.StrongElements {
		add(e.String() + " 과다")
	}
	for _, e := range f.WeakElements {
		add(e.String() + " 부족")
	}

	// 대상 연도
	add(strconv.Itoa(f.TargetYear))
	add(f.YearElement.String() + "의 해")
	if f.IsFavorableYear {
		add("유리한 해")
	} else {
		add("조심할 해")
	}

	for _, tag := range surveyTags {
		norm := strings.ToLower(strings.TrimSpace(tag))
		if norm != "" {
			in.Tags = append(in.Tags, norm)
			in.SurveyTags = append(in.SurveyTags, norm)
		}
	}

	groups := f.GodGroupCounts()
	in.Fields = map[string]interface{}{
		"day_master":         f.DayMaster.String(),
		"day_master_element": f.DayMasterElement.String(),
		"structure_name":     f.StructureName,
		"is_strong_self":     f.IsStrongSelf,
		"dominant_ten_god":   f.DominantTenGod.String(),
		"target_year":        f.TargetYear,
		"year_element":       f.YearElement.String(),
		"is_favorable_year":  f.IsFavorableYear,
		"peer_count":         groups[features.GroupPeer],
		"output_count":       groups[features.GroupOutput],
		"wealth_count":       groups[features.GroupWealth],
		"authority_count":    groups[features.GroupAuthority],
		"resource_count":     groups[features.GroupResource],
	}

	return in
}
