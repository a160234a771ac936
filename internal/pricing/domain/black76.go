package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidInput 定价输入参数非法
	ErrInvalidInput = errors.New("invalid pricing input")
	// ErrInvalidOptionType 期权类型非法
	ErrInvalidOptionType = fmt.Errorf("%w: invalid option type", ErrInvalidInput)
)

// OptionType 期权类型
type OptionType string

const (
	OptionTypeCall OptionType = "CALL"
	OptionTypePut  OptionType = "PUT"
)

// ParseOptionType 从字符串解析期权类型，大小写不敏感
func ParseOptionType(s string) (OptionType, error) {
	switch OptionType(strings.ToUpper(s)) {
	case OptionTypeCall:
		return OptionTypeCall, nil
	case OptionTypePut:
		return OptionTypePut, nil
	default:
		return "", fmt.Errorf("%w: must be 'call' or 'put', got %q", ErrInvalidOptionType, s)
	}
}

// ContractMultiplier SPX 合约乘数，每指数点 $100
const ContractMultiplier = 100.0

// Black76Input Black '76 模型输入
type Black76Input struct {
	Forward    float64 // 远期价格
	Strike     float64 // 执行价格
	DCF        float64 // 到期时间 (年)
	DF         float64 // 贴现因子 e^(-rT)
	Volatility float64 // 隐含波动率 (年化，0.15 = 15%)
}

// Validate 校验每个前置条件，任一违反即返回 ErrInvalidInput
func (in Black76Input) Validate() error {
	if in.Forward <= 0 {
		return fmt.Errorf("%w: forward must be positive, got %v", ErrInvalidInput, in.Forward)
	}
	if in.Strike <= 0 {
		return fmt.Errorf("%w: strike must be positive, got %v", ErrInvalidInput, in.Strike)
	}
	if in.DCF <= 0 {
		return fmt.Errorf("%w: dcf must be positive, got %v", ErrInvalidInput, in.DCF)
	}
	if in.DF <= 0 {
		return fmt.Errorf("%w: df must be positive, got %v", ErrInvalidInput, in.DF)
	}
	if in.Volatility <= 0 {
		return fmt.Errorf("%w: volatility must be positive, got %v", ErrInvalidInput, in.Volatility)
	}
	return nil
}

// Black76Result Black '76 模型输出，全精度，不可变
type Black76Result struct {
	Price float64 // 期权费 (每指数点)
	Delta float64 // 远期价格每变动 1 点的敏感度
	Gamma float64 // Delta 对远期价格的变化率
	Vega  float64 // 波动率每变动 1% 的敏感度 (点)
}

// DollarPrice 期权价格的美元值 (SPX 乘数 $100)
func (r *Black76Result) DollarPrice() float64 {
	return r.Price * ContractMultiplier
}

// Black76 使用 Black '76 模型计算欧式指数期权的价格与希腊字母
//
// Call: C = DF × [F × N(d1) - K × N(d2)]
// Put:  P = DF × [K × N(-d2) - F × N(-d1)]
//
// 输入校验通过后 σ·√T > 0，d1/d2 必为有限实数，计算阶段不会产生算术错误。
// 计算全程不做舍入，舍入只发生在序列化边界。
func Black76(optionType OptionType, in Black76Input) (*Black76Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if optionType != OptionTypeCall && optionType != OptionTypePut {
		return nil, fmt.Errorf("%w: must be 'call' or 'put', got %q", ErrInvalidOptionType, string(optionType))
	}

	sqrtT := math.Sqrt(in.DCF)
	d1 := (math.Log(in.Forward/in.Strike) + (in.Volatility*in.Volatility/2)*in.DCF) / (in.Volatility * sqrtT)
	d2 := d1 - in.Volatility*sqrtT

	pdfD1 := normPdf(d1)

	var price, delta float64
	if optionType == OptionTypeCall {
		price = in.DF * (in.Forward*normCdf(d1) - in.Strike*normCdf(d2))
		delta = in.DF * normCdf(d1)
	} else {
		price = in.DF * (in.Strike*normCdf(-d2) - in.Forward*normCdf(-d1))
		delta = -in.DF * normCdf(-d1)
	}

	// Gamma 与 Vega 对 Call/Put 相同
	gamma := in.DF * pdfD1 / (in.Forward * in.Volatility * sqrtT)
	vega := in.DF * in.Forward * pdfD1 * sqrtT / 100

	return &Black76Result{
		Price: price,
		Delta: delta,
		Gamma: gamma,
		Vega:  vega,
	}, nil
}
