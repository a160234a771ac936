package domain

import "time"

const (
	OptionPricedEventType = "OptionPriced"
	PricingErrorEventType = "PricingError"
)

// OptionPricedEvent 期权定价完成事件
type OptionPricedEvent struct {
	OptionType OptionType `json:"option_type"`
	Forward    float64    `json:"forward"`
	Strike     float64    `json:"strike"`
	DCF        float64    `json:"dcf"`
	DF         float64    `json:"df"`
	Volatility float64    `json:"volatility"`
	Price      float64    `json:"price"`
	Delta      float64    `json:"delta"`
	Gamma      float64    `json:"gamma"`
	Vega       float64    `json:"vega"`
	OccurredOn time.Time  `json:"occurred_on"`
}

// PricingErrorEvent 定价失败事件
type PricingErrorEvent struct {
	OptionType string    `json:"option_type"`
	Forward    float64   `json:"forward"`
	Strike     float64   `json:"strike"`
	Reason     string    `json:"reason"`
	OccurredOn time.Time `json:"occurred_on"`
}
