package advise

// Engine runs all registered rules against a Context and collects the
// resulting recommendations.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with all built-in rules registered.
func NewEngine() *Engine {
	return &Engine{
		rules: []Rule{
			NegativeNetAnnual,
			NoSelection,
			SlowPayback,
			LowROI,
			HighestValueUnselected,
			CategoryGap,
		},
	}
}

// Run executes every rule and returns the recommendations ranked by impact
// (highest first).
func (e *Engine) Run(ctx *Context) []Recommendation {
	var all []Recommendation
	for _, rule := range e.rules {
		all = append(all, rule(ctx)...)
	}
	return RankRecommendations(all)
}
