package manse

import (
	"context"
	"fmt"
	"time"
)

// MockClient serves canned responses for tests and offline use.
// 등록되지 않은 날짜는 에러 반환
type MockClient struct {
	Latency   time.Duration
	Fail      bool
	Responses map[string]*Response
}

// MockKey builds the lookup key for a civil date
func MockKey(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// Lookup returns the canned response for the date
func (c *MockClient) Lookup(ctx context.Context, year, month, day int) (*Response, error) {
	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.Fail {
		return nil, fmt.Errorf("만세력 소스 사용 불가")
	}
	resp, ok := c.Responses[MockKey(year, month, day)]
	if !ok {
		return nil, fmt.Errorf("등록되지 않은 날짜: %s", MockKey(year, month, day))
	}
	return resp, nil
}
