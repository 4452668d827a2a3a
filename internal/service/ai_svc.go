package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"soko_market_v1/internal/api/dto"
)

// ==================== 配置 ====================

// AIConfig AI 服务配置
type AIConfig struct {
	ModelVersion string
}

// ==================== 服务实现 ====================

// AIService 文案建议服务
// API Key 通过 KeyProvider 注入，轮换密钥不需要重建服务
type AIService struct {
	config *AIConfig
	keyFn  KeyProvider
}

// NewAIService 创建 AI 服务
func NewAIService(cfg *AIConfig, keyFn KeyProvider) *AIService {
	if cfg.ModelVersion == "" {
		cfg.ModelVersion = "gemini-2.5-flash"
	}
	return &AIService{
		config: cfg,
		keyFn:  keyFn,
	}
}

// SuggestListingContent 根据关键词生成标题、描述和标签建议
func (s *AIService) SuggestListingContent(ctx context.Context, keywords, styleHint string) (*dto.SuggestResponse, error) {
	apiKey := ""
	if s.keyFn != nil {
		apiKey = s.keyFn()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API Key 未配置")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("Gemini 初始化失败: %v", err)
	}
	defer client.Close()

	modelAI := client.GenerativeModel(s.config.ModelVersion)
	modelAI.ResponseMIMEType = "application/json"

	basePrompt := fmt.Sprintf(`
        You are a copywriting assistant for a Kenyan classifieds marketplace.
        Generate an ad listing based on these keywords/features: "%s".

        Requirements:
        1. Title: clear and searchable, between 10 and 100 characters.
        2. Description: honest, buyer-oriented, between 50 and 2000 characters.
        3. Tags: up to 10 short keywords, no '#' prefix.
    `, keywords)

	if styleHint != "" {
		basePrompt += fmt.Sprintf("\nAdditional User Instructions: %s", styleHint)
	}

	basePrompt += `
        Output Schema (JSON):
        {
            "title": "string",
            "description": "string",
            "tags": ["string", "string"]
        }
    `

	resp, err := modelAI.GenerateContent(ctx, genai.Text(basePrompt))
	if err != nil {
		return nil, fmt.Errorf("AI 生成失败: %v", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("AI 返回为空")
	}

	var rawJSON string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			rawJSON = string(txt)
			break
		}
	}

	// 清洗可能存在的 markdown 符号 (```json ... ```)
	rawJSON = strings.TrimPrefix(rawJSON, "```json")
	rawJSON = strings.TrimPrefix(rawJSON, "```")
	rawJSON = strings.TrimSuffix(rawJSON, "```")

	var result dto.SuggestResponse
	if err := json.Unmarshal([]byte(rawJSON), &result); err != nil {
		return nil, fmt.Errorf("JSON 解析失败: %v | 原始数据: %s", err, rawJSON)
	}

	// 生成结果同样受标签上限约束
	if normalized, _ := NormalizeTags(result.Tags); normalized != nil {
		result.Tags = normalized
	}

	return &result, nil
}
