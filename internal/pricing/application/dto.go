package application

import (
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
)

const (
	// ModelName 定价模型标识
	ModelName = "Black '76"
	// InstrumentName 标的工具标识
	InstrumentName = "Option"

	StatusSuccess = "success"
	StatusError   = "error"
)

// PriceOptionCommand 期权定价命令，字段与远程调用契约一一对应
type PriceOptionCommand struct {
	ForwardPrice      float64 `json:"forward_price"`
	Strike            float64 `json:"strike"`
	DCF               float64 `json:"dcf"`
	DF                float64 `json:"df"`
	ImpliedVolatility float64 `json:"implied_volatility"`
	OptionType        string  `json:"option_type"`
}

// InputsDTO 回显的定价输入
type InputsDTO struct {
	Forward float64 `json:"forward"`
	Strike  float64 `json:"strike"`
}

// PricingDTO 价格部分，所有字段按契约精度舍入后定长输出
type PricingDTO struct {
	// 期权费，2 位小数
	Premium string `json:"premium"`
	// 期权费（每指数点），4 位小数
	Price string `json:"price"`
	// 美元价格（乘数 $100），2 位小数
	DollarPrice string `json:"dollar_price"`
}

// GreeksDTO 希腊字母部分
type GreeksDTO struct {
	// Delta，4 位小数
	Delta string `json:"delta"`
	// Gamma，6 位小数
	Gamma string `json:"gamma"`
	// Vega（点 / 1% 波动率），4 位小数
	Vega string `json:"vega"`
	// Vega 的美元值（1% 波动率变动），2 位小数
	VegaPer1PctUSD string `json:"vega_per_1pct_usd"`
}

// OptionPriceDTO 定价成功响应
type OptionPriceDTO struct {
	Status     string     `json:"status"`
	Instrument string     `json:"instrument"`
	Model      string     `json:"model"`
	Type       string     `json:"type"`
	Inputs     InputsDTO  `json:"inputs"`
	Pricing    PricingDTO `json:"pricing"`
	Greeks     GreeksDTO  `json:"greeks"`
}

// newOptionPriceDTO 从全精度结果构造响应，舍入只发生在这里。
// vega_per_1pct_usd 由未舍入的 vega 计算，避免复合舍入误差。
func newOptionPriceDTO(optionType domain.OptionType, cmd PriceOptionCommand, result *domain.Black76Result) *OptionPriceDTO {
	return &OptionPriceDTO{
		Status:     StatusSuccess,
		Instrument: InstrumentName,
		Model:      ModelName,
		Type:       string(optionType),
		Inputs: InputsDTO{
			Forward: cmd.ForwardPrice,
			Strike:  cmd.Strike,
		},
		Pricing: PricingDTO{
			Premium:     decimal.NewFromFloat(result.Price).StringFixed(2),
			Price:       decimal.NewFromFloat(result.Price).StringFixed(4),
			DollarPrice: decimal.NewFromFloat(result.DollarPrice()).StringFixed(2),
		},
		Greeks: GreeksDTO{
			Delta:          decimal.NewFromFloat(result.Delta).StringFixed(4),
			Gamma:          decimal.NewFromFloat(result.Gamma).StringFixed(6),
			Vega:           decimal.NewFromFloat(result.Vega).StringFixed(4),
			VegaPer1PctUSD: decimal.NewFromFloat(result.Vega * domain.ContractMultiplier).StringFixed(2),
		},
	}
}
