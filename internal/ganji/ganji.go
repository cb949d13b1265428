package ganji

import "fmt"

// Element represents one of the five elements (오행)
type Element int

const (
	Wood Element = iota // 목
	Fire                // 화
	Earth               // 토
	Metal               // 금
	Water               // 수
)

var elementNames = [5]string{"목", "화", "토", "금", "수"}

// String returns the Korean element name
func (e Element) String() string {
	if e < Wood || e > Water {
		return "?"
	}
	return elementNames[e]
}

// Generates returns the element this element generates (상생)
// 목→화→토→금→수→목
func (e Element) Generates() Element {
	return (e + 1) % 5
}

// GeneratedBy returns the element that generates this element
func (e Element) GeneratedBy() Element {
	return (e + 4) % 5
}

// Conquers returns the element this element conquers (상극)
// 목→토, 토→수, 수→화, 화→금, 금→목
func (e Element) Conquers() Element {
	return (e + 2) % 5
}

// ConqueredBy returns the element that conquers this element
func (e Element) ConqueredBy() Element {
	return (e + 3) % 5
}

// Polarity represents yin/yang (음양)
type Polarity int

const (
	Yang Polarity = iota // 양
	Yin                  // 음
)

// String returns the Korean polarity name
func (p Polarity) String() string {
	if p == Yang {
		return "양"
	}
	return "음"
}

// Stem represents a heavenly stem (천간), index 0(갑)..9(계)
type Stem int

// Branch represents an earthly branch (지지), index 0(자)..11(해)
type Branch int

var stemNames = [10]string{"갑", "을", "병", "정", "무", "기", "경", "신", "임", "계"}

// 갑을=목, 병정=화, 무기=토, 경신=금, 임계=수
var stemElements = [10]Element{Wood, Wood, Fire, Fire, Earth, Earth, Metal, Metal, Water, Water}

var branchNames = [12]string{"자", "축", "인", "묘", "진", "사", "오", "미", "신", "유", "술", "해"}

// 자해=수, 인묘=목, 사오=화, 신유=금, 축진미술=토
var branchElements = [12]Element{Water, Earth, Wood, Wood, Earth, Fire, Fire, Earth, Metal, Metal, Earth, Water}

// String returns the Korean stem name
func (s Stem) String() string {
	if s < 0 || s > 9 {
		return "?"
	}
	return stemNames[s]
}

// Element returns the stem's element
func (s Stem) Element() Element {
	return stemElements[s]
}

// Polarity returns the stem's polarity (짝수 인덱스 = 양)
func (s Stem) Polarity() Polarity {
	if s%2 == 0 {
		return Yang
	}
	return Yin
}

// String returns the Korean branch name
func (b Branch) String() string {
	if b < 0 || b > 11 {
		return "?"
	}
	return branchNames[b]
}

// Element returns the branch's element
func (b Branch) Element() Element {
	return branchElements[b]
}

// Polarity returns the branch's polarity (짝수 인덱스 = 양)
func (b Branch) Polarity() Polarity {
	if b%2 == 0 {
		return Yang
	}
	return Yin
}

// CycleSize is the length of the sexagenary cycle
const CycleSize = 60

// CycleStem returns the stem of sexagenary index i
func CycleStem(i int) Stem {
	return Stem(((i % 10) + 10) % 10)
}

// CycleBranch returns the branch of sexagenary index i
func CycleBranch(i int) Branch {
	return Branch(((i % 12) + 12) % 12)
}

// CycleName returns the two-syllable Korean name of sexagenary index i (0 = 갑자)
func CycleName(i int) string {
	return CycleStem(i).String() + CycleBranch(i).String()
}

// CycleIndex returns the sexagenary index for a stem/branch pair.
// 간지 조합이 60갑자에 존재하지 않으면 에러 (천간/지지 음양이 다른 경우)
func CycleIndex(s Stem, b Branch) (int, error) {
	// i ≡ s (mod 10), i ≡ b (mod 12); 해는 s와 b의 짝홀이 같을 때만 존재
	if int(s)%2 != int(b)%2 {
		return 0, fmt.Errorf("60갑자에 없는 조합: %s%s", s, b)
	}
	for i := int(s); i < CycleSize; i += 10 {
		if i%12 == int(b) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("60갑자에 없는 조합: %s%s", s, b)
}

// ParseStem parses a single-syllable Korean stem name
func ParseStem(name string) (Stem, error) {
	for i, n := range stemNames {
		if n == name {
			return Stem(i), nil
		}
	}
	return 0, fmt.Errorf("천간 아님: %q", name)
}

// ParseBranch parses a single-syllable Korean branch name
func ParseBranch(name string) (Branch, error) {
	for i, n := range branchNames {
		if n == name {
			return Branch(i), nil
		}
	}
	return 0, fmt.Errorf("지지 아님: %q", name)
}

// ParseCycle parses a two-syllable Korean ganji name like "갑자"
func ParseCycle(name string) (Stem, Branch, error) {
	runes := []rune(name)
	if len(runes) != 2 {
		return 0, 0, fmt.Errorf("간지 형식 아님: %q", name)
	}
	s, err := ParseStem(string(runes[0]))
	if err != nil {
		return 0, 0, err
	}
	b, err := ParseBranch(string(runes[1]))
	if err != nil {
		return 0, 0, err
	}
	if _, err := CycleIndex(s, b); err != nil {
		return 0, 0, err
	}
	return s, b, nil
}
