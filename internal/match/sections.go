package match

// Section is one output section of a report, bound to a fixed topic set
type Section struct {
	ID        string
	Topics    []string
	FocusTags []string // 티어 3 폴백에 쓰는 섹션 고유 태그
}

// Sections is the fixed section → topic-set mapping, 리포트 출력 순서
var Sections = []Section{
	{
		ID:        "총운",
		Topics:    []string{"총운", "성격", "구조"},
		FocusTags: []string{"총운", "흐름", "성격"},
	},
	{
		ID:        "재물운",
		Topics:    []string{"재물"},
		FocusTags: []string{"재물", "투자", "현금흐름"},
	},
	{
		ID:        "직업운",
		Topics:    []string{"직업", "학업"},
		FocusTags: []string{"직업", "이직", "조직", "학업"},
	},
	{
		ID:        "애정운",
		Topics:    []string{"애정", "관계"},
		FocusTags: []string{"애정", "관계", "인연"},
	},
	{
		ID:        "건강운",
		Topics:    []string{"건강"},
		FocusTags: []string{"건강", "수면", "루틴"},
	},
}

// SectionByID returns the section definition, or nil
func SectionByID(id string) *Section {
	for i := range Sections {
		if Sections[i].ID == id {
			return &Sections[i]
		}
	}
	return nil
}
