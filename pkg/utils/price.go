package utils

import (
	"errors"
	"strconv"
	"strings"
)

// ParsePrice 解析本地化格式的价格字符串
// 千位分隔符（逗号、空格）在解析前剔除，如 "1,500.50" -> 1500.50
func ParsePrice(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, errors.New("价格不能为空")
	}

	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, errors.New("价格必须是有效数字")
	}

	return value, nil
}

// FormatPriceAmount 浮点价格转最小货币单位整数（分）
func FormatPriceAmount(price float64) int64 {
	return int64(price*100 + 0.5)
}
