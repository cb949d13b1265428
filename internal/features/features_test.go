package features

import (
	"context"
	"testing"

	"github.com/n0roo/saju-kit/internal/ganji"
	"github.com/n0roo/saju-kit/internal/pillars"
)

func chartOf(t *testing.T, req pillars.Request) *pillars.Chart {
	t.Helper()
	chart, err := pillars.New(nil, 0).Compute(context.Background(), req)
	if err != nil {
		t.Fatalf("사주 계산 실패: %v", err)
	}
	return chart
}

func derive(t *testing.T, chart *pillars.Chart, year int) *Features {
	t.Helper()
	f, err := Derive(chart, year)
	if err != nil {
		t.Fatalf("Derive 실패: %v", err)
	}
	return f
}

func TestElementCountSum(t *testing.T) {
	// 시각 미상 = 6자리, 시각 포함 = 8자리
	noHour := chartOf(t, pillars.Request{Year: 1978, Month: 5, Day: 16})
	f := derive(t, noHour, 2025)
	if sum := sumCounts(f.ElementCounts); sum != 6 {
		t.Errorf("오행 합계 = %d, 기대값 6", sum)
	}

	withHour := chartOf(t, pillars.Request{Year: 1978, Month: 5, Day: 16, Hour: 11, HasTime: true})
	f = derive(t, withHour, 2025)
	if sum := sumCounts(f.ElementCounts); sum != 8 {
		t.Errorf("오행 합계 = %d, 기대값 8", sum)
	}
}

func sumCounts(m map[ganji.Element]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

func TestTenGodTotality(t *testing.T) {
	// 100개 (일간, 천간) 조합 전부가 유일한 십성으로 분류되어야 함
	for dm := ganji.Stem(0); dm < 10; dm++ {
		for other := ganji.Stem(0); other < 10; other++ {
			g := TenGodOf(dm, other)
			if g < Bigyeon || g > Jeongin {
				t.Fatalf("TenGodOf(%s, %s) = %d, 범위 밖", dm, other, g)
			}
		}
	}
}

func TestTenGodCases(t *testing.T) {
	// 일간 갑(양목) 기준
	gap := ganji.Stem(0)
	cases := []struct {
		other string
		want  TenGod
	}{
		{"갑", Bigyeon},   // 같은 오행 같은 음양
		{"을", Geopjae},   // 같은 오행 다른 음양
		{"병", Siksin},    // 목생화 같은 음양
		{"정", Sanggwan},  // 목생화 다른 음양
		{"무", Pyeonjae},  // 목극토 같은 음양
		{"기", Jeongjae},  // 목극토 다른 음양
		{"경", Pyeongwan}, // 금극목 같은 음양
		{"신", Jeonggwan}, // 금극목 다른 음양
		{"임", Pyeonin},   // 수생목 같은 음양
		{"계", Jeongin},   // 수생목 다른 음양
	}

	for _, c := range cases {
		s, err := ganji.ParseStem(c.other)
		if err != nil {
			t.Fatalf("ParseStem(%s) 실패: %v", c.other, err)
		}
		if got := TenGodOf(gap, s); got != c.want {
			t.Errorf("TenGodOf(갑, %s) = %s, 기대값 %s", c.other, got, c.want)
		}
	}
}

func TestTenGodGroups(t *testing.T) {
	pairs := map[TenGod]GodGroup{
		Bigyeon: GroupPeer, Geopjae: GroupPeer,
		Siksin: GroupOutput, Sanggwan: GroupOutput,
		Pyeonjae: GroupWealth, Jeongjae: GroupWealth,
		Pyeongwan: GroupAuthority, Jeonggwan: GroupAuthority,
		Pyeonin: GroupResource, Jeongin: GroupResource,
	}
	for g, want := range pairs {
		if g.Group() != want {
			t.Errorf("%s.Group() = %s, 기대값 %s", g, g.Group(), want)
		}
	}
}

func TestStrengthRule(t *testing.T) {
	// 1978-05-16 11:00: 일간 무(토), 화가 토를 생하여 신강
	chart := chartOf(t, pillars.Request{Year: 1978, Month: 5, Day: 16, Hour: 11, HasTime: true, ApplySolarCorrection: true})
	f := derive(t, chart, 2025)

	self := f.ElementCounts[f.DayMasterElement] + f.ElementCounts[f.DayMasterElement.GeneratedBy()]
	if (self >= 3) != f.IsStrongSelf {
		t.Errorf("신강 판정 불일치: self=%d, IsStrongSelf=%v", self, f.IsStrongSelf)
	}
}

func TestStrongWeakElements(t *testing.T) {
	chart := chartOf(t, pillars.Request{Year: 1978, Month: 5, Day: 16, Hour: 11, HasTime: true})
	f := derive(t, chart, 2025)

	if len(f.StrongElements) != 2 || len(f.WeakElements) != 2 {
		t.Fatalf("강/약 오행은 각 2개여야 함: %v / %v", f.StrongElements, f.WeakElements)
	}
	// 최강 오행의 수는 최약 오행의 수 이상
	if f.ElementCounts[f.StrongElements[0]] < f.ElementCounts[f.WeakElements[0]] {
		t.Errorf("강약 순서 오류: %v(%d) < %v(%d)",
			f.StrongElements[0], f.ElementCounts[f.StrongElements[0]],
			f.WeakElements[0], f.ElementCounts[f.WeakElements[0]])
	}
}

func TestStructureChainOrder(t *testing.T) {
	// 재성 3개 이상이면 식상이 있어도 재성 구조가 먼저 잡혀야 함
	f := &Features{
		DayMasterElement: ganji.Earth,
		IsStrongSelf:     true,
		TenGodCounts: map[TenGod]int{
			Pyeonjae: 2, Jeongjae: 1, // 재성 3
			Siksin: 2, // 식상 2
		},
	}
	name, _ := classify(f)
	if name != "신왕재왕" {
		t.Errorf("구조 = %s, 기대값 신왕재왕 (재성 우선)", name)
	}

	f.IsStrongSelf = false
	name, _ = classify(f)
	if name != "재다신약" {
		t.Errorf("구조 = %s, 기대값 재다신약", name)
	}

	// 재성 2개면 식상생재로 넘어감
	f.TenGodCounts = map[TenGod]int{Pyeonjae: 2, Siksin: 2}
	name, _ = classify(f)
	if name != "식상생재" {
		t.Errorf("구조 = %s, 기대값 식상생재", name)
	}

	// 관인상생
	f.TenGodCounts = map[TenGod]int{Jeonggwan: 2, Jeongin: 1}
	name, _ = classify(f)
	if name != "관인상생" {
		t.Errorf("구조 = %s, 기대값 관인상생", name)
	}

	// 비겁과다
	f.TenGodCounts = map[TenGod]int{Bigyeon: 2, Geopjae: 1}
	name, _ = classify(f)
	if name != "비겁과다" {
		t.Errorf("구조 = %s, 기대값 비겁과다", name)
	}

	// 인성과다
	f.TenGodCounts = map[TenGod]int{Pyeonin: 3}
	name, _ = classify(f)
	if name != "인성과다" {
		t.Errorf("구조 = %s, 기대값 인성과다", name)
	}

	// 아무 규칙도 안 맞으면 신강/신약
	f.TenGodCounts = map[TenGod]int{Siksin: 1}
	f.IsStrongSelf = true
	name, _ = classify(f)
	if name != "신강" {
		t.Errorf("구조 = %s, 기대값 신강", name)
	}
	f.IsStrongSelf = false
	name, _ = classify(f)
	if name != "신약" {
		t.Errorf("구조 = %s, 기대값 신약", name)
	}
}

func TestYearRulingElement(t *testing.T) {
	cases := []struct {
		year int
		want ganji.Element
	}{
		{2024, ganji.Wood},
		{2026, ganji.Fire},
		{2028, ganji.Earth},
		{2031, ganji.Metal},
		{2033, ganji.Water},
		// 표 밖 연도는 연간으로 계산: 2044 = 갑자년 → 목
		{2044, ganji.Wood},
	}
	for _, c := range cases {
		if got := YearRulingElement(c.year); got != c.want {
			t.Errorf("YearRulingElement(%d) = %s, 기대값 %s", c.year, got, c.want)
		}
	}
}

func TestYearFavorability(t *testing.T) {
	f := &Features{
		DayMasterElement: ganji.Fire,
		StrongElements:   []ganji.Element{ganji.Fire, ganji.Wood},
		WeakElements:     []ganji.Element{ganji.Water, ganji.Metal},
		YearElement:      ganji.Wood, // 목생화 + 강한 오행
	}
	if !judgeYear(f) {
		t.Error("목 운은 화 일간에게 유리해야 함")
	}

	f.YearElement = ganji.Metal // 화극금 + 약한 오행
	if judgeYear(f) {
		t.Error("금 운은 화 일간에게 불리해야 함")
	}
}

func TestDeriveNilChart(t *testing.T) {
	if _, err := Derive(nil, 2025); err == nil {
		t.Error("nil 사주는 에러여야 함")
	}
}
