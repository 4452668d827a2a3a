package model

// Category 商品类目，部分类目带二级子类目
type Category struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories,omitempty"`
}

// Categories 内置类目表
// 子类目为空的类目在 details 校验中不要求填写 subcategory
var Categories = []Category{
	{Code: "electronics", Name: "Electronics", Subcategories: []string{"phones", "laptops", "tv_audio", "cameras", "accessories"}},
	{Code: "vehicles", Name: "Vehicles", Subcategories: []string{"cars", "motorcycles", "trucks", "parts"}},
	{Code: "property", Name: "Property", Subcategories: []string{"for_rent", "for_sale", "land", "commercial"}},
	{Code: "fashion", Name: "Fashion", Subcategories: []string{"mens", "womens", "kids", "shoes", "bags"}},
	{Code: "home_garden", Name: "Home & Garden", Subcategories: []string{"furniture", "appliances", "kitchen", "garden"}},
	{Code: "services", Name: "Services"},
	{Code: "jobs", Name: "Jobs"},
	{Code: "pets", Name: "Pets"},
	{Code: "other", Name: "Other"},
}

// FindCategory 按 code 查找类目
func FindCategory(code string) (*Category, bool) {
	for i := range Categories {
		if Categories[i].Code == code {
			return &Categories[i], true
		}
	}
	return nil, false
}

// HasSubcategory 类目是否声明了指定子类目
func (c *Category) HasSubcategory(sub string) bool {
	for _, s := range c.Subcategories {
		if s == sub {
			return true
		}
	}
	return false
}
