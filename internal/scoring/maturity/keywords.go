// internal/scoring/maturity/keywords.go
package maturity

import "idea-scoring/internal/models"

// SignalFamily names one Mom-Test signal family.
type SignalFamily string

const (
	FamilySpecificPast      SignalFamily = "specificPast"
	FamilyRealSpending      SignalFamily = "realSpending"
	FamilyPainPoints        SignalFamily = "painPoints"
	FamilyUserIntroductions SignalFamily = "userIntroductions"
	FamilyEvidence          SignalFamily = "evidence"

	FamilyCompliments    SignalFamily = "compliments"
	FamilyGeneralities   SignalFamily = "generalities"
	FamilyFuturePromises SignalFamily = "futurePromises"
)

type signalTable struct {
	Family   SignalFamily
	Valid    bool
	Keywords []string
}

// signalTables is scanned in order; match output follows this order.
var signalTables = []signalTable{
	{
		Family: FamilySpecificPast,
		Valid:  true,
		Keywords: []string{
			"上次", "上周", "上个月", "去年", "昨天", "前天", "当时", "过去", "之前", "曾经",
			"已经", "花了", "3个月", "半年前",
			"last time", "last week", "last month", "last year", "yesterday", "ago",
			"previously", "running for", "used to",
		},
	},
	{
		Family: FamilyRealSpending,
		Valid:  true,
		Keywords: []string{
			"每月付", "已经付费", "付费用户", "订阅了", "买了", "付了", "花钱", "月收入", "营收",
			"收入", "元/月", "元每月", "客单价",
			"MRR", "ARR", "revenue", "paying users", "paying customers", "paid", "per month", "$", "¥",
		},
	},
	{
		Family: FamilyPainPoints,
		Valid:  true,
		Keywords: []string{
			"丢了客户", "损失", "浪费了", "痛苦", "不得不", "亏了", "低效", "抱怨", "投诉", "头疼",
			"lost client", "lost customers", "wasted", "frustrated", "struggle", "painful",
		},
	},
	{
		Family: FamilyUserIntroductions,
		Valid:  true,
		Keywords: []string{
			"介绍", "认识", "朋友也有", "同行", "推荐给", "引荐",
			"introduce", "introduction", "referral", "referred", "colleague",
		},
	},
	{
		Family: FamilyEvidence,
		Valid:  true,
		Keywords: []string{
			"截图", "数据", "链接", "报告", "合同", "发票", "留存率", "转化率", "复购", "评分",
			"screenshot", "dashboard", "link", "report", "invoice", "contract", "retention",
			"churn", "conversion", "LTV", "CAC", "NPS", "App Store", "review",
		},
	},
	{
		Family: FamilyCompliments,
		Keywords: []string{
			"太棒了", "很喜欢", "不错的主意", "有潜力", "很好", "赞", "有意思",
			"love this", "amazing", "great idea", "sounds good", "awesome",
		},
	},
	{
		Family: FamilyGeneralities,
		Keywords: []string{
			"我经常", "我总是", "我绝不", "我将会", "我可能", "大家都", "所有人都",
			"everyone", "always", "never", "usually",
		},
	},
	{
		Family: FamilyFuturePromises,
		Keywords: []string{
			"会买", "将会使用", "一定会", "肯定会", "应该会", "打算",
			"will buy", "going to", "plan to", "definitely will", "would pay",
		},
	},
}

// negationMarkers cancel a valid signal or a praise phrase when they directly
// precede the keyword.
var negationMarkers = []string{
	"没有", "没", "无", "未", "不", "不是", "不太", "并非", "并不",
	"no ", "not ", "not a ", "never ", "without ", "cannot ", "isn't ", "don't ", "doesn't ",
}

type signalBonus struct {
	Family SignalFamily
	PerHit float64
	Cap    float64
}

type dimensionTable struct {
	Dimension models.Dimension
	Topic     []string
	Concerns  []string
	Praise    []string
	Bonuses   []signalBonus
}

var dimensionTables = []dimensionTable{
	{
		Dimension: models.DimTargetCustomer,
		Topic: []string{
			"客户", "用户", "群体", "人群", "受众", "画像", "细分",
			"customer", "user", "persona", "audience", "segment",
		},
		Concerns: []string{
			"目标用户是谁", "客户群体不清", "谁会用", "太宽泛", "不够具体", "哪个细分",
			"who is the customer", "too broad", "who will use",
		},
		Praise: []string{
			"目标明确", "人群清晰", "定位精准", "画像清晰", "真实用户", "访谈过",
			"clear target", "well defined segment",
		},
		Bonuses: []signalBonus{
			{Family: FamilyUserIntroductions, PerHit: 0.6, Cap: 1.5},
		},
	},
	{
		Dimension: models.DimDemandScenario,
		Topic: []string{
			"场景", "需求", "痛点", "频率", "刚需",
			"scenario", "use case", "demand", "workflow",
		},
		Concerns: []string{
			"伪需求", "需求不明确", "场景模糊", "频率太低", "不是刚需", "为什么需要",
			"nice to have", "not a real need",
		},
		Praise: []string{
			"高频", "场景清晰", "需求强烈", "真实需求",
			"strong demand", "high frequency",
		},
		Bonuses: []signalBonus{
			{Family: FamilySpecificPast, PerHit: 0.5, Cap: 1.5},
			{Family: FamilyPainPoints, PerHit: 0.5, Cap: 1.0},
		},
	},
	{
		Dimension: models.DimCoreValue,
		Topic: []string{
			"价值", "优势", "差异化", "竞品", "竞争", "替代", "解决方案", "功能",
			"value", "advantage", "differentiation", "competitor", "alternative", "solution", "feature",
		},
		Concerns: []string{
			"同质化", "没有壁垒", "竞品太多", "优势不明显", "容易被替代", "护城河不足",
			"no moat", "me too",
		},
		Praise: []string{
			"独特优势", "技术壁垒", "差异化明显", "效率提升", "显著提升",
			"unique advantage", "10x better",
		},
		Bonuses: []signalBonus{
			{Family: FamilyPainPoints, PerHit: 0.8, Cap: 2.0},
		},
	},
	{
		Dimension: models.DimBusinessModel,
		Topic: []string{
			"商业模式", "盈利", "收费", "定价", "价格", "付费", "变现", "成本", "利润",
			"pricing", "price", "monetization", "business model", "subscription", "cost",
		},
		Concerns: []string{
			"怎么赚钱", "盈利模式不清", "谁来付费", "定价过低", "成本太高", "获客成本高",
			"how to make money", "unit economics", "too expensive",
		},
		Praise: []string{
			"订阅制", "已付费", "毛利", "盈利模式清晰", "付费意愿强",
			"recurring revenue", "profitable", "GMV",
		},
		Bonuses: []signalBonus{
			{Family: FamilyRealSpending, PerHit: 1.5, Cap: 3.0},
		},
	},
	{
		Dimension: models.DimCredibility,
		Topic: []string{
			"验证", "证据", "团队", "经验", "实验", "测试",
			"evidence", "validate", "team", "experience", "experiment", "pilot",
		},
		Concerns: []string{
			"需要验证", "只是假设", "没有数据", "未经验证", "缺乏证据", "纸上谈兵", "不确定",
			"assumption", "unproven", "no evidence", "no data",
		},
		Praise: []string{
			"数据显示", "数据证明", "已验证", "试点成功", "已上线", "真实案例",
			"traction", "launched", "pilot succeeded",
		},
		Bonuses: []signalBonus{
			{Family: FamilySpecificPast, PerHit: 0.8, Cap: 2.0},
			{Family: FamilyEvidence, PerHit: 2.0, Cap: 4.0},
		},
	},
}

// genericConcerns and genericPraise widen the stance classifier beyond the
// dimension tables.
var genericConcerns = []string{
	"风险", "担心", "质疑", "不看好", "难以", "挑战很大", "不现实",
	"risk", "concern", "worried", "doubt", "unrealistic",
}

var genericPraise = []string{
	"很看好", "认可", "支持", "有前景", "值得投", "靠谱",
	"promising", "impressive", "support", "convincing",
}
