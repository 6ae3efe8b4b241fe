// internal/scoring/admission/keywords.go
package admission

// Facet names one completeness facet of an idea description.
type Facet string

const (
	FacetProblem       Facet = "problem"
	FacetTargetUser    Facet = "targetUser"
	FacetSolution      Facet = "solution"
	FacetBusinessModel Facet = "businessModel"
)

type facetTable struct {
	Facet    Facet
	Primary  []string
	Detail   []string
	Missing  string
	Question string
	Strength string
}

var facetTables = []facetTable{
	{
		Facet: FacetProblem,
		Primary: []string{
			"问题", "痛点", "困难", "麻烦", "难以", "浪费", "低效", "缺乏", "无法", "困扰",
			"problem", "pain", "struggle", "issue", "challenge", "hard to", "waste", "bottleneck",
		},
		Detail: []string{
			"因为", "导致", "每天", "每周", "小时", "损失", "出错",
			"because", "leads to", "results in", "hours", "every day", "every week",
		},
		Missing:  "缺少问题描述：没有说明要解决什么痛点",
		Question: "这个想法要解决的具体问题是什么？谁在什么场景下遇到它，代价有多大？",
		Strength: "问题定义清晰，有具体场景",
	},
	{
		Facet: FacetTargetUser,
		Primary: []string{
			"用户", "客户", "人群", "群体", "老板", "学生", "家长", "企业", "团队", "商家", "开发者", "白领",
			"user", "customer", "client", "team", "founder", "student", "developer", "owner", "parent",
		},
		Detail: []string{
			"中小", "一线", "二线", "行业", "地区", "城市", "岁", "职场", "细分",
			"b2b", "b2c", "smb", "enterprise", "freelancer", "segment", "industry", "aged",
		},
		Missing:  "缺少目标用户：没有说明谁会使用",
		Question: "目标用户具体是谁？请描述他们的行业、规模或人群特征。",
		Strength: "目标用户明确",
	},
	{
		Facet: FacetSolution,
		Primary: []string{
			"解决方案", "功能", "工具", "服务", "产品", "自动", "帮助", "通过",
			"solution", "feature", "tool", "service", "product", "automate", "helps",
		},
		Detail: []string{
			"模块", "流程", "步骤", "集成", "包括", "支持", "对接",
			"workflow", "integration", "module", "step", "includes", "dashboard", "pipeline",
		},
		Missing:  "缺少解决方案：没有说明产品如何工作",
		Question: "产品具体怎么解决这个问题？请列出核心功能或使用流程。",
		Strength: "解决方案具体，有功能拆解",
	},
	{
		Facet: FacetBusinessModel,
		Primary: []string{
			"收费", "付费", "定价", "订阅", "会员", "佣金", "广告", "盈利", "营收", "价格", "变现",
			"pricing", "subscription", "fee", "commission", "revenue", "monetization", "premium", "price",
		},
		Detail: []string{
			"元", "每月", "月费", "年费", "免费试用", "毛利", "$", "¥",
			"per month", "per year", "freemium", "tier", "margin",
		},
		Missing:  "缺少商业模式：没有说明如何赚钱",
		Question: "打算如何收费？请说明定价方式和目标价位。",
		Strength: "商业模式清晰，有定价信息",
	},
}

// boilerplate are the tokens of an idea that says nothing beyond "build an app".
var boilerplate = []string{
	"我想", "想要", "想做", "做一个", "做个", "开发一个", "搞一个", "一个", "人工智能", "ai",
	"应用", "app", "平台", "网站", "小程序", "软件", "创业", "项目", "想法",
	"build", "make", "create", "an", "a", "application", "platform", "website", "i want to", "idea",
}
