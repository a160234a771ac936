package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/optionpricing/pkg/metrics"
)

// PricingService 定价应用服务。无状态，可被任意数量的调用方并发调用。
type PricingService struct {
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewPricingService 创建定价应用服务。publisher 与 m 可为 nil（禁用事件发布 / 指标）。
func NewPricingService(publisher domain.EventPublisher, m *metrics.Metrics, logger *slog.Logger) *PricingService {
	return &PricingService{
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// PriceOption 计算期权价格与希腊字母。
// 要么返回完整的响应，要么返回 domain.ErrInvalidInput 类错误，没有部分结果。
func (s *PricingService) PriceOption(ctx context.Context, cmd PriceOptionCommand) (*OptionPriceDTO, error) {
	start := time.Now()

	optionType, err := domain.ParseOptionType(cmd.OptionType)
	if err != nil {
		s.recordError(ctx, cmd, err)
		return nil, err
	}

	input := domain.Black76Input{
		Forward:    cmd.ForwardPrice,
		Strike:     cmd.Strike,
		DCF:        cmd.DCF,
		DF:         cmd.DF,
		Volatility: cmd.ImpliedVolatility,
	}

	result, err := domain.Black76(optionType, input)
	if err != nil {
		s.recordError(ctx, cmd, err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PricingsTotal.WithLabelValues(string(optionType)).Inc()
		s.metrics.PricingDuration.Observe(time.Since(start).Seconds())
	}

	s.logger.InfoContext(ctx, "option priced",
		"type", string(optionType),
		"forward", cmd.ForwardPrice,
		"strike", cmd.Strike,
		"dcf", cmd.DCF,
		"volatility", cmd.ImpliedVolatility,
		"price", result.Price,
		"delta", result.Delta,
	)

	s.publishPriced(ctx, optionType, input, result)

	return newOptionPriceDTO(optionType, cmd, result), nil
}

// publishPriced 发布定价完成事件。发布失败只记录，绝不使定价调用失败。
func (s *PricingService) publishPriced(ctx context.Context, optionType domain.OptionType, input domain.Black76Input, result *domain.Black76Result) {
	if s.publisher == nil {
		return
	}

	event := domain.OptionPricedEvent{
		OptionType: optionType,
		Forward:    input.Forward,
		Strike:     input.Strike,
		DCF:        input.DCF,
		DF:         input.DF,
		Volatility: input.Volatility,
		Price:      result.Price,
		Delta:      result.Delta,
		Gamma:      result.Gamma,
		Vega:       result.Vega,
		OccurredOn: time.Now(),
	}

	if err := s.publisher.PublishOptionPriced(ctx, event); err != nil {
		if s.metrics != nil {
			s.metrics.EventPublishErrorsTotal.Inc()
		}
		s.logger.WarnContext(ctx, "failed to publish OptionPriced event", "error", err)
	}
}

func (s *PricingService) recordError(ctx context.Context, cmd PriceOptionCommand, cause error) {
	if s.metrics != nil {
		s.metrics.PricingErrorsTotal.Inc()
	}
	s.logger.WarnContext(ctx, "pricing request rejected",
		"type", cmd.OptionType,
		"forward", cmd.ForwardPrice,
		"strike", cmd.Strike,
		"error", cause,
	)

	if s.publisher == nil {
		return
	}
	event := domain.PricingErrorEvent{
		OptionType: cmd.OptionType,
		Forward:    cmd.ForwardPrice,
		Strike:     cmd.Strike,
		Reason:     cause.Error(),
		OccurredOn: time.Now(),
	}
	if err := s.publisher.PublishPricingError(ctx, event); err != nil {
		if s.metrics != nil {
			s.metrics.EventPublishErrorsTotal.Inc()
		}
		s.logger.WarnContext(ctx, "failed to publish PricingError event", "error", err)
	}
}
