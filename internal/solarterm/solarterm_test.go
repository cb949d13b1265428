package solarterm

import (
	"testing"
	"time"
)

var kst = time.FixedZone("KST", 9*3600)

func TestYearCutover(t *testing.T) {
	// 입춘은 매년 2월 3일~5일 사이
	for _, year := range []int{1978, 2000, 2024, 2025} {
		at := YearCutover(year)
		if at.Year() != year || at.Month() != time.February {
			t.Fatalf("%d년 입춘 = %v, 2월이어야 함", year, at)
		}
		day := at.In(kst).Day()
		if day < 3 || day > 5 {
			t.Errorf("%d년 입춘 = %v, 3~5일 범위 밖", year, at.In(kst))
		}
	}
}

func TestYearCutover2024(t *testing.T) {
	// 2024년 입춘: 2월 4일 16:27 KST 부근 (±1시간 허용)
	at := YearCutover(2024).In(kst)
	want := time.Date(2024, 2, 4, 16, 27, 0, 0, kst)
	diff := at.Sub(want)
	if diff < 0 {
		diff = -diff
	}
	if diff > time.Hour {
		t.Errorf("2024년 입춘 = %v, 기대값 %v (오차 %v)", at, want, diff)
	}
}

func TestMonthBucket(t *testing.T) {
	cases := []struct {
		at   time.Time
		want int
	}{
		// 입춘 직후 = 인월(0)
		{time.Date(2024, 2, 10, 0, 0, 0, 0, kst), 0},
		// 5월 중순 = 사월(3)
		{time.Date(1978, 5, 16, 11, 0, 0, 0, kst), 3},
		// 1월 중순 = 축월(11)
		{time.Date(2024, 1, 15, 0, 0, 0, 0, kst), 11},
		// 8월 중순 = 신월(6)
		{time.Date(2024, 8, 20, 0, 0, 0, 0, kst), 6},
	}

	for _, c := range cases {
		if got := MonthBucket(c.at); got != c.want {
			t.Errorf("MonthBucket(%v) = %d(%s), 기대값 %d(%s)",
				c.at, got, TermName(got), c.want, TermName(c.want))
		}
	}
}

func TestBucketChangesOnlyAtBoundary(t *testing.T) {
	// 경계 전후로만 버킷이 바뀌어야 함
	cut := YearCutover(2024)
	before := MonthBucket(cut.Add(-time.Hour))
	after := MonthBucket(cut.Add(time.Hour))
	if before != 11 || after != 0 {
		t.Errorf("입춘 전후 버킷 = %d/%d, 기대값 11/0", before, after)
	}
}

func TestNearBoundary(t *testing.T) {
	cut := YearCutover(2024)

	p := NearBoundary(cut.Add(12*time.Hour), 48*time.Hour)
	if !p.Near {
		t.Error("입춘 12시간 후는 경계 근접이어야 함")
	}
	if p.Bucket != 0 {
		t.Errorf("근접 경계 버킷 = %d, 기대값 0(입춘)", p.Bucket)
	}

	p = NearBoundary(cut.Add(15*24*time.Hour), 48*time.Hour)
	if p.Near {
		t.Error("입춘 15일 후는 경계 근접이 아니어야 함")
	}
}

func TestBoundaryOrdering(t *testing.T) {
	at := time.Date(2024, 5, 16, 0, 0, 0, 0, kst)
	prevAt, _ := PrevBoundary(at)
	nextAt, _ := NextBoundary(at)
	if !prevAt.Before(at) || !nextAt.After(at) {
		t.Errorf("경계 순서 오류: prev=%v, t=%v, next=%v", prevAt, at, nextAt)
	}
	// 절기 간격은 29~32일
	gap := nextAt.Sub(prevAt)
	if gap < 29*24*time.Hour || gap > 32*24*time.Hour {
		t.Errorf("절기 간격 = %v, 29~32일 범위 밖", gap)
	}
}

func TestDaysFromCivil(t *testing.T) {
	cases := []struct {
		y, m, d int
		want    int
	}{
		{1970, 1, 1, 0},
		{1970, 1, 2, 1},
		{1969, 12, 31, -1},
		{2000, 1, 1, 10957},
		{1978, 5, 16, 3057},
		{2000, 2, 29, 11016}, // 윤일
	}

	for _, c := range cases {
		if got := DaysFromCivil(c.y, c.m, c.d); got != c.want {
			t.Errorf("DaysFromCivil(%d, %d, %d) = %d, 기대값 %d", c.y, c.m, c.d, got, c.want)
		}
	}
}

func TestSupported(t *testing.T) {
	if !Supported(2024) || !Supported(1978) {
		t.Error("지원 범위 내 연도가 미지원으로 나옴")
	}
	if Supported(1500) || Supported(2300) {
		t.Error("지원 범위 밖 연도가 지원으로 나옴")
	}
}
