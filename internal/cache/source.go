package cache

import (
	"context"
	"log"

	"github.com/n0roo/saju-kit/internal/manse"
)

// SourceClient wraps a manse client with the raw-payload cache.
// 캐시 히트 시 원격 호출 생략, 소스 장애 시 만료된 값이라도 폴백으로 사용
type SourceClient struct {
	inner manse.Client
	cache *Cache
}

var _ manse.Client = (*SourceClient)(nil)

// NewSourceClient wraps inner with the cache
func NewSourceClient(inner manse.Client, cache *Cache) *SourceClient {
	return &SourceClient{inner: inner, cache: cache}
}

// Lookup serves from cache when possible
func (s *SourceClient) Lookup(ctx context.Context, year, month, day int) (*manse.Response, error) {
	if resp, ok := s.cache.GetSource(year, month, day); ok {
		return resp, nil
	}

	resp, err := s.inner.Lookup(ctx, year, month, day)
	if err == nil {
		if saveErr := s.cache.SaveSource(year, month, day, resp); saveErr != nil {
			log.Printf("[cache] 주소스 응답 캐시 저장 실패: %v", saveErr)
		}
		return resp, nil
	}

	// 소스 장애: 만료된 캐시라도 있으면 사용
	if stale, ok := s.cache.GetSourceStale(year, month, day); ok {
		log.Printf("[cache] 주소스 장애, 만료 캐시 사용 (%s): %v", SourceKey(year, month, day), err)
		return stale, nil
	}
	return nil, err
}
