package features

import "github.com/n0roo/saju-kit/internal/ganji"

// classify runs the ordered structure rule chain.
// 먼저 맞는 규칙이 이긴다 — 순서를 바꾸면 안 됨
func classify(f *Features) (name, desc string) {
	groups := f.GodGroupCounts()
	wealth := groups[GroupWealth]
	output := groups[GroupOutput]
	authority := groups[GroupAuthority]
	resource := groups[GroupResource]
	peer := groups[GroupPeer]

	// 1. 재성 과다 (3개 이상): 신강/신약으로 갈라짐
	if wealth >= 3 {
		if f.IsStrongSelf {
			return "신왕재왕", "일간이 튼튼하고 재성이 풍부한 구조. 재물을 감당할 힘이 있어 큰 흐름을 만들 수 있다."
		}
		return "재다신약", "재성은 많으나 일간이 약한 구조. 기회는 많지만 체력과 기반 관리가 관건이다."
	}

	// 2. 식상생재: 식상이 재성을 살리는 흐름
	if output >= 2 && wealth >= 1 {
		return "식상생재", "표현력과 기술이 재물로 이어지는 구조. 만들고 내보내는 활동이 수입과 직결된다."
	}

	// 3. 관인상생: 관성과 인성의 상호 지원
	if authority >= 2 && resource >= 1 {
		return "관인상생", "책임과 학습이 서로를 끌어주는 구조. 조직과 제도 안에서 성장이 빠르다."
	}

	// 4. 비겁 과다
	if peer >= 3 {
		return "비겁과다", "주체성이 강하고 경쟁 기질이 두드러지는 구조. 협업과 분배 설계가 과제다."
	}

	// 5. 인성 과다
	if resource >= 3 {
		return "인성과다", "받아들이는 힘이 큰 구조. 배움은 깊지만 실행으로 옮기는 연습이 필요하다."
	}

	// 6. 기본 분류
	if f.IsStrongSelf {
		return "신강", "일간이 강한 기본 구조. 자기 주도적 선택이 잘 맞는다."
	}
	return "신약", "일간이 약한 기본 구조. 환경과 조력을 활용하는 전략이 유리하다."
}

// yearRulingTable is the fixed, extendable map of target year → ruling element
var yearRulingTable = map[int]ganji.Element{
	2024: ganji.Wood,
	2025: ganji.Wood,
	2026: ganji.Fire,
	2027: ganji.Fire,
	2028: ganji.Earth,
	2029: ganji.Earth,
	2030: ganji.Metal,
	2031: ganji.Metal,
	2032: ganji.Water,
	2033: ganji.Water,
}

// YearRulingElement returns the ruling element of a target year.
// 표에 없는 연도는 연간(年干) 오행으로 계산
func YearRulingElement(year int) ganji.Element {
	if e, ok := yearRulingTable[year]; ok {
		return e
	}
	stem := ganji.Stem(((year-4)%10 + 10) % 10)
	return stem.Element()
}

// judgeYear decides whether the target year favors the day master
func judgeYear(f *Features) bool {
	ruling := f.YearElement

	supportive := ruling.Generates() == f.DayMasterElement || contains(f.StrongElements, ruling)
	adverse := f.DayMasterElement.Conquers() == ruling || contains(f.WeakElements, ruling)

	return supportive && !adverse
}

func contains(es []ganji.Element, e ganji.Element) bool {
	for _, x := range es {
		if x == e {
			return true
		}
	}
	return false
}
