// Package cost estimates token counts and request pricing.
package cost

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/pkoukk/tiktoken-go"
	"github.com/shopspring/decimal"

	"github.com/voxee/voxee/llm"
)

// Pricing per 1k tokens for a model.
type Pricing struct {
	Model         string
	InputPricing  decimal.Decimal
	OutputPricing decimal.Decimal
}

var pricings = []*Pricing{
	{Model: "gpt-4o", InputPricing: decimal.RequireFromString("0.0025"), OutputPricing: decimal.RequireFromString("0.01")},
	{Model: "gpt-4o-mini", InputPricing: decimal.RequireFromString("0.00015"), OutputPricing: decimal.RequireFromString("0.0006")},
	{Model: "claude-3-5-sonnet-20241022", InputPricing: decimal.RequireFromString("0.003"), OutputPricing: decimal.RequireFromString("0.015")},
	{Model: "deepseek-chat", InputPricing: decimal.RequireFromString("0.00014"), OutputPricing: decimal.RequireFromString("0.00028")},
}

// lookup returns nil for models without pricing information.
func lookup(model string) *Pricing {
	for _, pricing := range pricings {
		if pricing.Model == model {
			return pricing
		}
	}
	return nil
}

// CalculateRequestCost of these messages.
func CalculateRequestCost(model string, messages ...*llm.Message) (int64, decimal.Decimal, error) {
	return calculateCost(model, messages, true)
}

// CalculateResponseCost of these messages.
func CalculateResponseCost(model string, messages ...*llm.Message) (int64, decimal.Decimal, error) {
	return calculateCost(model, messages, false)
}

func calculateCost(model string, messages []*llm.Message, input bool) (int64, decimal.Decimal, error) {
	tokens, err := countTokens(model, messages)
	if err != nil {
		return 0, decimal.Zero, errors.Wrap(err, "counting tokens in messages")
	}
	pricing := lookup(model)
	if pricing == nil {
		return tokens, decimal.Zero, nil
	}
	perThousand := pricing.OutputPricing
	if input {
		perThousand = pricing.InputPricing
	}
	cost := perThousand.Mul(decimal.NewFromInt(tokens)).Div(decimal.NewFromInt(1000))
	return tokens, cost, nil
}

func countTokens(model string, messages []*llm.Message) (int64, error) {
	tkm, err := tiktoken.EncodingForModel(encodingModel(model))
	if err != nil {
		return 0, errors.Wrap(err, "encoding for model")
	}
	// Every message follows <|start|>{role}\n{content}<|end|>\n.
	const tokensPerMessage = 3
	var numTokens int64
	for _, message := range messages {
		numTokens += tokensPerMessage
		numTokens += int64(len(tkm.Encode(message.Role, nil, nil)))
		numTokens += int64(len(tkm.Encode(message.Content, nil, nil)))
		for _, part := range message.Parts {
			numTokens += int64(len(tkm.Encode(part.Text, nil, nil)))
		}
	}
	numTokens += 3 // every reply is primed with <|start|>assistant<|message|>
	return numTokens, nil
}

// encodingModel maps non-openai models onto a tokenizer tiktoken knows; the
// estimate is close enough for cost display.
func encodingModel(model string) string {
	if strings.HasPrefix(model, "gpt-") {
		return model
	}
	return "gpt-4o"
}
