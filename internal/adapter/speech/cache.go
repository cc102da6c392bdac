package speech

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/observability/telemetry"
	"github.com/seu-repo/appliance-store/internal/ports"
)

const cacheKeyPrefix = "tts:"

// CachingSynthesizer remembers synthesized sentences. The response texts are
// drawn from a small fixed vocabulary so most lookups hit.
type CachingSynthesizer struct {
	next  ports.SpeechSynthesizer
	cache ports.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachingSynthesizer(next ports.SpeechSynthesizer, cache ports.Cache, ttl time.Duration, log *zap.Logger) *CachingSynthesizer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachingSynthesizer{next: next, cache: cache, ttl: ttl, log: log}
}

func CacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachingSynthesizer) Synthesize(ctx context.Context, text string) (domain.Audio, error) {
	key := CacheKey(text)

	cached, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		audio, perr := domain.ParseDataURI(cached)
		if perr == nil {
			telemetry.SpeechCacheLookups.WithLabelValues("hit").Inc()
			return audio, nil
		}
		c.log.Warn("Discarding corrupt cached speech", zap.String("key", key), zap.Error(perr))
		telemetry.SpeechCacheLookups.WithLabelValues("error").Inc()
	case errors.Is(err, ports.ErrCacheMiss):
		telemetry.SpeechCacheLookups.WithLabelValues("miss").Inc()
	default:
		c.log.Warn("Speech cache lookup failed", zap.String("key", key), zap.Error(err))
		telemetry.SpeechCacheLookups.WithLabelValues("error").Inc()
	}

	audio, err := c.next.Synthesize(ctx, text)
	if err != nil {
		return domain.Audio{}, err
	}
	if len(audio.Data) > 0 {
		if err := c.cache.Set(ctx, key, audio.DataURI(), c.ttl); err != nil {
			c.log.Warn("Failed to cache speech", zap.String("key", key), zap.Error(err))
		}
	}
	return audio, nil
}
