// Package gemini はGoogle Gemini APIを使用したコンテンツ分析クライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"nexus_backend/internal/feature/analysis/usecase"
	"nexus_backend/internal/shared/ratelimiter"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"

	// samplingTemperature は全呼び出しで固定のサンプリング温度です。
	samplingTemperature float32 = 0.7

	// emptyResponseText はプロバイダが空応答を返した場合の代替テキストです。
	emptyResponseText = "Nenhuma resposta gerada."
)

// systemInstruction は全呼び出しで固定のシステム指示です。
// 応答末尾に [SCORES] ブロックを必ず出力させ、スコア抽出の前提を作ります。
const systemInstruction = `
Você agora é um Especialista Profissional em AEO, GEO e SEO. Sua missão é analisar, corrigir, otimizar e elevar códigos e conteúdos ao nível mais alto de ranqueamento em todos os buscadores, incluindo ChatGPT, Google, Gemini, Bing, Perplexity e Brave.

Quando eu enviar qualquer conteúdo ou código (HTML, CSS, JavaScript, JS ou texto), siga exatamente estas etapas:

1. Análise Completa: Identifique erros, más práticas, problemas estruturais, falta de semântica, falta de contexto e qualquer ponto que prejudique SEO/GEO/AEO.
2. Otimização AEO: Transforme o conteúdo para ser a melhor resposta possível para motores de IA.
3. Otimização GEO: Reescreva com clareza, contexto amplo e intenção explícita para motores generativos.
4. Otimização SEO: Melhore títulos, headings, microdados, performance, acessibilidade e estrutura semântica.
5. Reconstrução: Entregue uma versão completamente otimizada, limpa, rápida e pronta para posicionar acima dos concorrentes.
6. Entrega Final: Sempre entregue análise + versão final otimizadas + melhorias extras para dominar os buscadores.

FOCO ABSOLUTO: Criar AEO, GEO e SEO de alta performance para superar ChatGPT, Google, Bing, Brave e todos os buscadores com IA.

No final da resposta, atribua notas (0-100) neste formato exato para parsing:
[SCORES]
SEO: <number>
AEO: <number>
GEO: <number>
[/SCORES]
`

// ErrMissingAPIKey はAPIキー未設定のまま呼び出された場合に返されます。
// 起動は妨げず、呼び出しごとに上流障害として表面化させます。
var ErrMissingAPIKey = errors.New("gemini API key is not set")

// GeminiAnalyzer はGoogle Gemini APIで分析レポートを生成します。
// 毎回の呼び出しは固定のシステム指示を伴う単発のやり取りで、
// マルチターンの文脈は持ちません。リトライも行いません。
type GeminiAnalyzer struct {
	client  *genai.Client
	model   string
	limiter ratelimiter.RateLimiterInterface
}

// GeminiAnalyzerがContentAnalyzerを実装していることをコンパイル時に検証します。
var _ usecase.ContentAnalyzer = (*GeminiAnalyzer)(nil)

// NewGeminiAnalyzer はAPIキーとHTTPクライアントを指定して新しいインスタンスを生成します。
// タイムアウトは渡されたHTTPクライアントのものがそのまま適用されます。
// APIキーが空の場合もエラーにはせず、呼び出し時にErrMissingAPIKeyを返します。
func NewGeminiAnalyzer(ctx context.Context, apiKey string, httpClient *http.Client, limiter ratelimiter.RateLimiterInterface) (*GeminiAnalyzer, error) {
	g := &GeminiAnalyzer{model: DefaultModel, limiter: limiter}
	if apiKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

// Analyze はコンテンツをユーザーターンとして送信し、レポート全文を返します。
func (g *GeminiAnalyzer) Analyze(ctx context.Context, content string) (string, error) {
	if g.client == nil {
		return "", ErrMissingAPIKey
	}
	if g.limiter != nil {
		g.limiter.WaitIfNeeded()
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(samplingTemperature),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(content), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return emptyResponseText, nil
	}
	return text, nil
}
