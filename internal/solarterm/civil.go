package solarterm

import "time"

// DaysFromCivil returns the number of days from 1970-01-01 to the given
// civil date (proleptic Gregorian).
// time.Duration은 약 ±292년에서 포화되므로 먼 연도는 정수 일수로 계산
func DaysFromCivil(y, m, d int) int {
	if m <= 2 {
		y--
	}
	era := y / 400
	if y < 0 && y%400 != 0 {
		era--
	}
	yoe := y - era*400
	doy := (153*((m+9)%12)+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// 2000-01-01의 유닉스 일수
const unixDaysAtAnchor = 10957

// daysSinceJ2000 returns fractional days since J2000.0 (2000-01-01 12:00 UTC)
func daysSinceJ2000(t time.Time) float64 {
	u := t.UTC()
	days := DaysFromCivil(u.Year(), int(u.Month()), u.Day())
	secs := u.Hour()*3600 + u.Minute()*60 + u.Second()
	return float64(days-unixDaysAtAnchor) + float64(secs)/86400.0 - 0.5
}
