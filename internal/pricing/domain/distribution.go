package domain

import "math"

// normCdf 标准正态分布累积分布函数
// 通过误差函数恒等式 Φ(x) = 0.5·(1 + erf(x/√2)) 计算，对所有实数 x 有定义
func normCdf(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normPdf 标准正态分布概率密度函数 φ(x) = exp(-x²/2)/√(2π)
func normPdf(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}
