package di

import (
	"context"
	"os"
	"time"

	"nexus_backend/internal/feature/analysis/adapters/gemini"
	infrahttp "nexus_backend/internal/platform/http"
	"nexus_backend/internal/shared/ratelimiter"
)

const (
	// defaultAnalyzeTimeout は生成呼び出し全体のタイムアウトです。
	// レポートが長いため通常のAPIより長めに取ります。
	defaultAnalyzeTimeout = 120 * time.Second

	// providerRateLimit は1分あたりのプロバイダ呼び出し上限です。
	providerRateLimit = 10
)

// NewAnalyzer creates a fully configured GeminiAnalyzer with HTTP client
// and an outbound rate limiter guarding the provider quota.
func NewAnalyzer(ctx context.Context) (*gemini.GeminiAnalyzer, error) {
	timeout := defaultAnalyzeTimeout
	if v := os.Getenv("GEMINI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}

	httpClient := infrahttp.NewHTTPClient(timeout)
	limiter := ratelimiter.NewRateLimiter(providerRateLimit, time.Minute)
	return gemini.NewGeminiAnalyzer(ctx, os.Getenv("GEMINI_API_KEY"), httpClient, limiter)
}
