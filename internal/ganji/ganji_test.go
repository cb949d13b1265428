package ganji

import "testing"

func TestCycleName(t *testing.T) {
	cases := []struct {
		index int
		want  string
	}{
		{0, "갑자"},
		{1, "을축"},
		{54, "무오"},
		{59, "계해"},
		{60, "갑자"}, // 순환
	}

	for _, c := range cases {
		if got := CycleName(c.index); got != c.want {
			t.Errorf("CycleName(%d) = %s, 기대값 %s", c.index, got, c.want)
		}
	}
}

func TestCycleIndexRoundTrip(t *testing.T) {
	for i := 0; i < CycleSize; i++ {
		s, b := CycleStem(i), CycleBranch(i)
		got, err := CycleIndex(s, b)
		if err != nil {
			t.Fatalf("CycleIndex(%s, %s) 실패: %v", s, b, err)
		}
		if got != i {
			t.Errorf("CycleIndex(%s, %s) = %d, 기대값 %d", s, b, got, i)
		}
	}
}

func TestCycleIndexInvalidPair(t *testing.T) {
	// 갑(양)과 축(음)은 60갑자에 없는 조합
	if _, err := CycleIndex(0, 1); err == nil {
		t.Error("갑축은 에러여야 함")
	}
}

func TestStemElements(t *testing.T) {
	cases := []struct {
		name string
		elem Element
		pol  Polarity
	}{
		{"갑", Wood, Yang},
		{"을", Wood, Yin},
		{"병", Fire, Yang},
		{"무", Earth, Yang},
		{"경", Metal, Yang},
		{"계", Water, Yin},
	}

	for _, c := range cases {
		s, err := ParseStem(c.name)
		if err != nil {
			t.Fatalf("ParseStem(%s) 실패: %v", c.name, err)
		}
		if s.Element() != c.elem {
			t.Errorf("%s 오행 = %s, 기대값 %s", c.name, s.Element(), c.elem)
		}
		if s.Polarity() != c.pol {
			t.Errorf("%s 음양 = %s, 기대값 %s", c.name, s.Polarity(), c.pol)
		}
	}
}

func TestBranchElements(t *testing.T) {
	cases := []struct {
		name string
		elem Element
	}{
		{"자", Water},
		{"축", Earth},
		{"인", Wood},
		{"사", Fire},
		{"오", Fire},
		{"신", Metal},
		{"해", Water},
	}

	for _, c := range cases {
		b, err := ParseBranch(c.name)
		if err != nil {
			t.Fatalf("ParseBranch(%s) 실패: %v", c.name, err)
		}
		if b.Element() != c.elem {
			t.Errorf("%s 오행 = %s, 기대값 %s", c.name, b.Element(), c.elem)
		}
	}
}

func TestElementCycles(t *testing.T) {
	// 상생: 목→화→토→금→수→목
	gen := map[Element]Element{Wood: Fire, Fire: Earth, Earth: Metal, Metal: Water, Water: Wood}
	for from, to := range gen {
		if from.Generates() != to {
			t.Errorf("%s.Generates() = %s, 기대값 %s", from, from.Generates(), to)
		}
		if to.GeneratedBy() != from {
			t.Errorf("%s.GeneratedBy() = %s, 기대값 %s", to, to.GeneratedBy(), from)
		}
	}

	// 상극: 목→토, 토→수, 수→화, 화→금, 금→목
	conq := map[Element]Element{Wood: Earth, Earth: Water, Water: Fire, Fire: Metal, Metal: Wood}
	for from, to := range conq {
		if from.Conquers() != to {
			t.Errorf("%s.Conquers() = %s, 기대값 %s", from, from.Conquers(), to)
		}
		if to.ConqueredBy() != from {
			t.Errorf("%s.ConqueredBy() = %s, 기대값 %s", to, to.ConqueredBy(), from)
		}
	}
}

func TestParseCycle(t *testing.T) {
	s, b, err := ParseCycle("무오")
	if err != nil {
		t.Fatalf("ParseCycle(무오) 실패: %v", err)
	}
	if s != 4 || b != 6 {
		t.Errorf("무오 = (%d, %d), 기대값 (4, 6)", s, b)
	}

	if _, _, err := ParseCycle("갑축"); err == nil {
		t.Error("갑축은 에러여야 함")
	}
	if _, _, err := ParseCycle("무"); err == nil {
		t.Error("한 글자는 에러여야 함")
	}
}
