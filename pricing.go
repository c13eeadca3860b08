package lingotray

// DefaultModel is used when a request or settings file names no model.
const DefaultModel = "claude-haiku-4-5-20251001"

// ModelPricing holds per-token rates in USD per million tokens.
type ModelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// PricingTable maps model identifiers to their rates.
type PricingTable map[string]ModelPricing

// DefaultPricing returns the built-in rate table.
func DefaultPricing() PricingTable {
	return PricingTable{
		"claude-haiku-4-5-20251001":  {InputPerMillion: 1.0, OutputPerMillion: 5.0},
		"claude-sonnet-4-5-20250514": {InputPerMillion: 3.0, OutputPerMillion: 15.0},
		"claude-3-5-sonnet-20241022": {InputPerMillion: 3.0, OutputPerMillion: 15.0},
		"claude-3-5-haiku-20241022":  {InputPerMillion: 0.8, OutputPerMillion: 4.0},
		"gpt-4o-mini":                {InputPerMillion: 0.15, OutputPerMillion: 0.6},
		"gpt-4o":                     {InputPerMillion: 2.5, OutputPerMillion: 10.0},
	}
}

// Estimate computes the cost of a translation in USD. Unknown models fall
// back to the default model's rates.
func (t PricingTable) Estimate(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := t[model]
	if !ok {
		pricing = ModelPricing{InputPerMillion: 1.0, OutputPerMillion: 5.0}
	}
	inputCost := float64(inputTokens) / 1_000_000 * pricing.InputPerMillion
	outputCost := float64(outputTokens) / 1_000_000 * pricing.OutputPerMillion
	return inputCost + outputCost
}

// ModelInfo describes one selectable model.
type ModelInfo struct {
	ID   string
	Name string
}

// AvailableModels lists the models offered for selection, in display order.
var AvailableModels = []ModelInfo{
	{ID: "claude-haiku-4-5-20251001", Name: "Claude Haiku 4.5 (Fast, Cheap)"},
	{ID: "claude-sonnet-4-5-20250514", Name: "Claude Sonnet 4.5 (Best Quality)"},
	{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet"},
	{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku"},
	{ID: "gpt-4o-mini", Name: "GPT-4o mini"},
}
