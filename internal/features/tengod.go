package features

import "github.com/n0roo/saju-kit/internal/ganji"

// TenGod is one of the 10 relational categories (십성) relative to the day master
type TenGod int

const (
	Bigyeon  TenGod = iota // 비견: 같은 오행, 같은 음양
	Geopjae                // 겁재: 같은 오행, 다른 음양
	Siksin                 // 식신: 일간이 생하는 오행, 같은 음양
	Sanggwan               // 상관: 일간이 생하는 오행, 다른 음양
	Pyeonjae               // 편재: 일간이 극하는 오행, 같은 음양
	Jeongjae               // 정재: 일간이 극하는 오행, 다른 음양
	Pyeongwan              // 편관: 일간을 극하는 오행, 같은 음양
	Jeonggwan              // 정관: 일간을 극하는 오행, 다른 음양
	Pyeonin                // 편인: 일간을 생하는 오행, 같은 음양
	Jeongin                // 정인: 일간을 생하는 오행, 다른 음양
)

var tenGodNames = [10]string{
	"비견", "겁재", "식신", "상관", "편재", "정재", "편관", "정관", "편인", "정인",
}

// String returns the Korean name
func (g TenGod) String() string {
	if g < Bigyeon || g > Jeongin {
		return "?"
	}
	return tenGodNames[g]
}

// GodGroup is one of the 5 coarse groups (오성)
type GodGroup int

const (
	GroupPeer      GodGroup = iota // 비겁
	GroupOutput                    // 식상
	GroupWealth                    // 재성
	GroupAuthority                 // 관성
	GroupResource                  // 인성
)

var godGroupNames = [5]string{"비겁", "식상", "재성", "관성", "인성"}

// String returns the Korean group name
func (g GodGroup) String() string {
	if g < GroupPeer || g > GroupResource {
		return "?"
	}
	return godGroupNames[g]
}

// Group returns the coarse group of a ten-god category
func (g TenGod) Group() GodGroup {
	return GodGroup(g / 2)
}

// TenGodOf categorizes another stem relative to the day master.
// 100개 (일간, 천간) 조합 전부가 정확히 하나의 십성으로 떨어진다
func TenGodOf(dayMaster, other ganji.Stem) TenGod {
	return tenGodOf(dayMaster, other.Element(), other.Polarity())
}

// TenGodOfBranch categorizes a branch by its element and polarity
func TenGodOfBranch(dayMaster ganji.Stem, b ganji.Branch) TenGod {
	return tenGodOf(dayMaster, b.Element(), b.Polarity())
}

func tenGodOf(dayMaster ganji.Stem, elem ganji.Element, pol ganji.Polarity) TenGod {
	dm := dayMaster.Element()
	same := dayMaster.Polarity() == pol

	var base TenGod
	switch {
	case elem == dm:
		base = Bigyeon
	case dm.Generates() == elem:
		base = Siksin
	case dm.Conquers() == elem:
		base = Pyeonjae
	case elem.Conquers() == dm:
		base = Pyeongwan
	default: // elem.Generates() == dm
		base = Pyeonin
	}

	if same {
		return base
	}
	return base + 1
}
