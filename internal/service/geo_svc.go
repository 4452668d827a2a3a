package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"soko_market_v1/pkg/utils"
)

// ==================== 配置 ====================

type GeoConfig struct {
	BaseURL  string        // 默认 https://us1.locationiq.com/v1
	Timeout  time.Duration
	CacheTTL time.Duration // 反向解析结果缓存时长
}

// KeyProvider 返回当前可用的 API Key
// Key 由外部注入而不是在服务内部读取，轮换密钥时无需重建服务
type KeyProvider func() string

// ==================== 服务实现 ====================

// GeoService 反向地理编码，把坐标解析成可读地址填入位置字段
type GeoService struct {
	config *GeoConfig
	keyFn  KeyProvider
	client *resty.Client
}

// NewGeoService 创建地理服务
func NewGeoService(cfg *GeoConfig, keyFn KeyProvider) *GeoService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://us1.locationiq.com/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	return &GeoService{
		config: cfg,
		keyFn:  keyFn,
		client: resty.New().SetBaseURL(cfg.BaseURL).SetTimeout(cfg.Timeout),
	}
}

// 响应结构
type reverseGeoResp struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Suburb  string `json:"suburb"`
		City    string `json:"city"`
		Town    string `json:"town"`
		County  string `json:"county"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
	Error string `json:"error,omitempty"`
}

// ReverseGeocode 坐标转地址
// 相同坐标（四位小数精度，约 11 米）的结果会被缓存
func (s *GeoService) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	cacheKey := fmt.Sprintf("geo:%.4f,%.4f", lat, lon)
	if cached, ok := utils.GetCache(cacheKey); ok {
		return cached, nil
	}

	apiKey := ""
	if s.keyFn != nil {
		apiKey = s.keyFn()
	}
	if apiKey == "" {
		return "", errors.New("地理服务未配置 API Key")
	}

	var result reverseGeoResp
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":    apiKey,
			"lat":    fmt.Sprintf("%f", lat),
			"lon":    fmt.Sprintf("%f", lon),
			"format": "json",
		}).
		SetResult(&result).
		Get("/reverse")
	if err != nil {
		return "", fmt.Errorf("反向地理编码请求失败: %v", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("反向地理编码失败: HTTP %d", resp.StatusCode())
	}
	if result.Error != "" {
		return "", fmt.Errorf("反向地理编码失败: %s", result.Error)
	}

	address := s.composeAddress(&result)
	if address == "" {
		return "", errors.New("未能解析出有效地址")
	}

	utils.SetCache(cacheKey, address, s.config.CacheTTL)
	return address, nil
}

// composeAddress 取城市级别的简短地址，如 "Westlands, Nairobi"
func (s *GeoService) composeAddress(r *reverseGeoResp) string {
	city := r.Address.City
	if city == "" {
		city = r.Address.Town
	}
	if city == "" {
		city = r.Address.County
	}

	if r.Address.Suburb != "" && city != "" {
		return fmt.Sprintf("%s, %s", r.Address.Suburb, city)
	}
	if city != "" {
		return city
	}
	return r.DisplayName
}
