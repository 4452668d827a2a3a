package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"soko_market_v1/internal/model"
	"soko_market_v1/pkg/utils"
)

// ==================== 校验常量 ====================

const (
	TitleMinLen       = 10
	TitleMaxLen       = 100
	DescriptionMinLen = 50
	DescriptionMaxLen = 2000
)

// ==================== 字段级错误 ====================

// FieldErrors 按字段聚合的校验错误，空 map 表示通过
type FieldErrors map[string]string

// Ok 是否全部通过
func (e FieldErrors) Ok() bool {
	return len(e) == 0
}

// Error 实现 error 接口，汇总为一条消息
func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// ==================== Details 步骤校验 ====================

// ValidateDetails 基本信息步骤的完整校验
// 任一字段不过即阻止进入 media 步骤，错误逐字段返回
func ValidateDetails(d *model.AdDraft) FieldErrors {
	errs := FieldErrors{}

	// 标题
	titleLen := utf8.RuneCountInString(d.Title)
	if d.Title == "" {
		errs["title"] = "标题不能为空"
	} else if titleLen < TitleMinLen || titleLen > TitleMaxLen {
		errs["title"] = fmt.Sprintf("标题长度需在 %d-%d 个字符之间", TitleMinLen, TitleMaxLen)
	}

	// 描述
	descLen := utf8.RuneCountInString(d.Description)
	if d.Description == "" {
		errs["description"] = "描述不能为空"
	} else if descLen < DescriptionMinLen || descLen > DescriptionMaxLen {
		errs["description"] = fmt.Sprintf("描述长度需在 %d-%d 个字符之间", DescriptionMinLen, DescriptionMaxLen)
	}

	// 类目 / 子类目
	if d.Category == "" {
		errs["category"] = "请选择类目"
	} else {
		cat, ok := model.FindCategory(d.Category)
		if !ok {
			errs["category"] = "未知的类目"
		} else if len(cat.Subcategories) > 0 {
			// 只有声明了子类目的类目才要求填写
			if d.Subcategory == "" {
				errs["subcategory"] = "请选择子类目"
			} else if !cat.HasSubcategory(d.Subcategory) {
				errs["subcategory"] = "子类目不属于所选类目"
			}
		}
	}

	// 价格
	// 负数与零分别返回不同文案，前端依赖两条消息区分展示
	if price, err := utils.ParsePrice(d.Price); err != nil {
		errs["price"] = err.Error()
	} else if price < 0 {
		errs["price"] = "价格不能为负数"
	} else if price == 0 {
		errs["price"] = "价格必须大于 0"
	}

	// 位置
	if strings.TrimSpace(d.Location) == "" {
		errs["location"] = "请填写位置"
	}

	// 成色
	if d.Condition != "" && !model.ValidCondition(d.Condition) {
		errs["condition"] = "未知的成色"
	}

	// 标签（可选，存储前已去重去 # 前缀，这里只兜底上限）
	if len(d.Tags) > model.MaxDraftTags {
		errs["tags"] = fmt.Sprintf("标签最多 %d 个", model.MaxDraftTags)
	}

	return errs
}

// ==================== 标签规整 ====================

// NormalizeTags 去除 # 前缀、剔除空白与重复项（大小写敏感），保持输入顺序
// 返回规整后的标签；超过上限时截断到上限并返回 false
func NormalizeTags(tags []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))

	for _, t := range tags {
		t = strings.TrimSpace(strings.TrimPrefix(t, "#"))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	if len(out) > model.MaxDraftTags {
		return out[:model.MaxDraftTags], false
	}
	return out, true
}
