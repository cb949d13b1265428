package solarterm

import (
	"math"
	"time"
)

// 12절기 (월 경계가 되는 minor term). 버킷 0 = 입춘 = 인월 시작
var termNames = [12]string{
	"입춘", "경칩", "청명", "입하", "망종", "소서",
	"입추", "백로", "한로", "입동", "대설", "소한",
}

// 입춘 = 태양황경 315°, 이후 30° 간격
const cutoverLongitude = 315.0

// 저정밀 황경 모델이 유효한 연도 범위. 범위 밖은 근사치로 처리
const (
	minSupportedYear = 1600
	maxSupportedYear = 2200
)

// TermName returns the Korean name of the term opening month bucket b (0..11)
func TermName(b int) string {
	if b < 0 || b > 11 {
		return "?"
	}
	return termNames[b]
}

// Supported reports whether the year is inside the fine-grained range
func Supported(year int) bool {
	return year >= minSupportedYear && year <= maxSupportedYear
}

// Longitude returns the apparent geocentric solar longitude in degrees [0, 360).
// 평균 근점이각 + 중심차 보정의 저정밀 근사 (오차 약 0.01°)
func Longitude(t time.Time) float64 {
	d := daysSinceJ2000(t)
	g := (357.529 + 0.98560028*d) * math.Pi / 180 // 평균 근점이각
	q := 280.459 + 0.98564736*d                   // 평균 황경
	l := q + 1.915*math.Sin(g) + 0.020*math.Sin(2*g)
	return norm360(l)
}

func norm360(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// angleDelta returns the signed distance from target to l in (-180, 180]
func angleDelta(l, target float64) float64 {
	return math.Mod(l-target+540, 360) - 180
}

// MonthBucket returns the solar-term month bucket of t: 0(인월)..11(축월)
func MonthBucket(t time.Time) int {
	return int(math.Floor(norm360(Longitude(t)-cutoverLongitude) / 30))
}

// crossing finds the moment in [lo, hi] when the solar longitude crosses target.
// 구간 내에서 황경은 단조 증가하므로 이분 탐색
func crossing(target float64, lo, hi time.Time) time.Time {
	for hi.Sub(lo) > time.Second {
		mid := lo.Add(hi.Sub(lo) / 2)
		if angleDelta(Longitude(mid), target) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}

// YearCutover returns the moment of 입춘 (early-spring cutover) for the civil year
func YearCutover(year int) time.Time {
	lo := time.Date(year, 1, 15, 0, 0, 0, 0, time.UTC)
	hi := time.Date(year, 2, 25, 0, 0, 0, 0, time.UTC)
	return crossing(cutoverLongitude, lo, hi)
}

// PrevBoundary returns the moment the current month bucket began and its bucket index
func PrevBoundary(t time.Time) (time.Time, int) {
	b := MonthBucket(t)
	target := norm360(cutoverLongitude + 30*float64(b))
	return crossing(target, t.Add(-45*24*time.Hour), t), b
}

// NextBoundary returns the moment the next month bucket begins and its bucket index
func NextBoundary(t time.Time) (time.Time, int) {
	b := (MonthBucket(t) + 1) % 12
	target := norm360(cutoverLongitude + 30*float64(b))
	return crossing(target, t, t.Add(45*24*time.Hour)), b
}

// Proximity describes how close a moment is to a term boundary
type Proximity struct {
	Near     bool
	Boundary time.Time
	Bucket   int // 경계가 여는 버킷
	Distance time.Duration
}

// Nearest returns the closest term boundary to t (과거/미래 중 가까운 쪽)
func Nearest(t time.Time) Proximity {
	prevAt, prevB := PrevBoundary(t)
	nextAt, nextB := NextBoundary(t)

	dPrev := t.Sub(prevAt)
	dNext := nextAt.Sub(t)
	if dPrev <= dNext {
		return Proximity{Boundary: prevAt, Bucket: prevB, Distance: dPrev}
	}
	return Proximity{Boundary: nextAt, Bucket: nextB, Distance: dNext}
}

// NearBoundary reports whether t is within window of a term boundary
func NearBoundary(t time.Time, window time.Duration) Proximity {
	p := Nearest(t)
	p.Near = p.Distance <= window
	return p
}
