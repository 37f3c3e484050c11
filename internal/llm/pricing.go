package llm

// ModelCost holds per-million-token pricing for a model, in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(promptTokens, completionTokens int) float64 {
	return float64(promptTokens)*c.InputPerMTok/1_000_000 +
		float64(completionTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// Unknown models simply skip cost logging.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// modelCosts covers the OpenRouter models the operations are pinned to.
// Rates are the paid-tier equivalents used for cost visibility; the :free
// variants bill at these rates once free quota is exhausted.
var modelCosts = map[string]ModelCost{
	"google/gemma-3-27b-it":             {0.040, 0.150},
	"google/gemma-3-27b-it:free":        {0.040, 0.150},
	"google/gemini-2.0-flash-001":       {0.100, 0.400},
	"meta-llama/llama-3.3-70b-instruct": {0.120, 0.300},
}
