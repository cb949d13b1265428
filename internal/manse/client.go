package manse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"
)

// Response holds the ganji strings returned by the primary calendar source
type Response struct {
	YearGanji  string `json:"year_ganji"`
	MonthGanji string `json:"month_ganji"`
	DayGanji   string `json:"day_ganji"`
}

// Complete reports whether all three ganji fields are present
func (r *Response) Complete() bool {
	return r != nil && r.YearGanji != "" && r.MonthGanji != "" && r.DayGanji != ""
}

// Client queries a primary calendar data source for sexagenary strings
type Client interface {
	Lookup(ctx context.Context, year, month, day int) (*Response, error)
}

// HTTPClient calls a KASI 스타일 만세력 API
type HTTPClient struct {
	endpoint   string
	serviceKey string
	client     *http.Client
}

// DefaultTimeout bounds a single source call
const DefaultTimeout = 10 * time.Second

// NewHTTPClient creates a client for the given endpoint.
// timeout이 0이면 DefaultTimeout 사용
func NewHTTPClient(endpoint, serviceKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		endpoint:   endpoint,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: timeout},
	}
}

// lunCalInfo 응답 형식 (연간지/월간지/일진)
type apiResponse struct {
	LunSecha   string `json:"lunSecha"`
	LunWolgeon string `json:"lunWolgeon"`
	LunIljin   string `json:"lunIljin"`
}

// Lookup fetches the ganji strings for a civil date
func (c *HTTPClient) Lookup(ctx context.Context, year, month, day int) (*Response, error) {
	url := fmt.Sprintf("%s?solYear=%04d&solMonth=%02d&solDay=%02d&ServiceKey=%s",
		c.endpoint, year, month, day, c.serviceKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("요청 생성 실패: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("만세력 API 호출 실패: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("만세력 API 응답 코드 %d: %s", resp.StatusCode, string(body))
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("만세력 응답 파싱 실패: %w", err)
	}

	out := &Response{
		YearGanji:  Normalize(raw.LunSecha),
		MonthGanji: Normalize(raw.LunWolgeon),
		DayGanji:   Normalize(raw.LunIljin),
	}
	if !out.Complete() {
		return nil, fmt.Errorf("만세력 응답 불완전: %+v", raw)
	}
	return out, nil
}

// Normalize strips annotations and invisible characters from a ganji string,
// returning the bare two-syllable hangul form.
// 예: "무오(戊午)" → "무오", "​갑자 " → "갑자"
func Normalize(s string) string {
	// 괄호 주석 제거
	if i := strings.IndexAny(s, "(（"); i >= 0 {
		s = s[:i]
	}

	var b strings.Builder
	for _, r := range s {
		// 제로폭/공백/제어 문자 제거
		if r == '\u200b' || r == '\ufeff' || r == '\u00a0' {
			continue
		}
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}

	runes := []rune(b.String())
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return string(runes)
}
