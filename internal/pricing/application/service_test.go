package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/optionpricing/pkg/metrics"
)

type capturingPublisher struct {
	priced []domain.OptionPricedEvent
	failed []domain.PricingErrorEvent
	err    error
}

func (p *capturingPublisher) PublishOptionPriced(ctx context.Context, event domain.OptionPricedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.priced = append(p.priced, event)
	return nil
}

func (p *capturingPublisher) PublishPricingError(ctx context.Context, event domain.PricingErrorEvent) error {
	if p.err != nil {
		return p.err
	}
	p.failed = append(p.failed, event)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func referenceCommand() PriceOptionCommand {
	dcf := 30.0 / 365.0
	return PriceOptionCommand{
		ForwardPrice:      5500,
		Strike:            5000,
		DCF:               dcf,
		DF:                math.Exp(-0.05 * dcf),
		ImpliedVolatility: 0.15,
		OptionType:        "call",
	}
}

// 舍入契约：premium 2 位、price 4 位、delta/vega 4 位、gamma 6 位、美元值 2 位，保留尾零
func TestPriceOption_RoundingContract(t *testing.T) {
	publisher := &capturingPublisher{}
	svc := NewPricingService(publisher, metrics.New("test"), testLogger())

	dto, err := svc.PriceOption(context.Background(), referenceCommand())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dto.Status != StatusSuccess {
		t.Fatalf("status = %q, want %q", dto.Status, StatusSuccess)
	}
	if dto.Model != ModelName || dto.Instrument != InstrumentName {
		t.Fatalf("unexpected descriptor fields: %+v", dto)
	}
	if dto.Type != "CALL" {
		t.Fatalf("type = %q, want CALL", dto.Type)
	}
	if dto.Inputs.Forward != 5500 || dto.Inputs.Strike != 5000 {
		t.Fatalf("inputs not echoed: %+v", dto.Inputs)
	}

	if dto.Pricing.Premium != "499.00" {
		t.Fatalf("premium = %q, want 499.00", dto.Pricing.Premium)
	}
	if dto.Pricing.Price != "498.9969" {
		t.Fatalf("price = %q, want 498.9969", dto.Pricing.Price)
	}
	if dto.Pricing.DollarPrice != "49899.69" {
		t.Fatalf("dollar_price = %q, want 49899.69", dto.Pricing.DollarPrice)
	}
	if dto.Greeks.Delta != "0.9833" {
		t.Fatalf("delta = %q, want 0.9833", dto.Greeks.Delta)
	}
	if dto.Greeks.Gamma != "0.000137" {
		t.Fatalf("gamma = %q, want 0.000137", dto.Greeks.Gamma)
	}
	if dto.Greeks.Vega != "0.5122" {
		t.Fatalf("vega = %q, want 0.5122", dto.Greeks.Vega)
	}
	if dto.Greeks.VegaPer1PctUSD != "51.22" {
		t.Fatalf("vega_per_1pct_usd = %q, want 51.22", dto.Greeks.VegaPer1PctUSD)
	}
}

func TestPriceOption_PublishesEvent(t *testing.T) {
	publisher := &capturingPublisher{}
	svc := NewPricingService(publisher, nil, testLogger())

	cmd := referenceCommand()
	if _, err := svc.PriceOption(context.Background(), cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(publisher.priced) != 1 {
		t.Fatalf("expected 1 OptionPriced event, got %d", len(publisher.priced))
	}
	event := publisher.priced[0]
	if event.OptionType != domain.OptionTypeCall {
		t.Fatalf("event option type = %v", event.OptionType)
	}
	if event.Forward != cmd.ForwardPrice || event.Strike != cmd.Strike {
		t.Fatalf("event inputs mismatch: %+v", event)
	}
	if event.Price <= 0 || event.Vega <= 0 {
		t.Fatalf("event outputs not populated: %+v", event)
	}
	if event.OccurredOn.IsZero() {
		t.Fatal("event occurred_on not set")
	}
}

// 发布失败不得影响定价调用
func TestPriceOption_PublishFailureIsBestEffort(t *testing.T) {
	publisher := &capturingPublisher{err: errors.New("broker down")}
	svc := NewPricingService(publisher, nil, testLogger())

	dto, err := svc.PriceOption(context.Background(), referenceCommand())
	if err != nil {
		t.Fatalf("pricing must not fail on publish error, got %v", err)
	}
	if dto.Status != StatusSuccess {
		t.Fatalf("status = %q", dto.Status)
	}
}

func TestPriceOption_InvalidInput(t *testing.T) {
	publisher := &capturingPublisher{}
	svc := NewPricingService(publisher, nil, testLogger())

	cases := []struct {
		name   string
		mutate func(*PriceOptionCommand)
	}{
		{"zero forward", func(cmd *PriceOptionCommand) { cmd.ForwardPrice = 0 }},
		{"negative strike", func(cmd *PriceOptionCommand) { cmd.Strike = -5 }},
		{"zero dcf", func(cmd *PriceOptionCommand) { cmd.DCF = 0 }},
		{"negative volatility", func(cmd *PriceOptionCommand) { cmd.ImpliedVolatility = -0.1 }},
		{"unknown type", func(cmd *PriceOptionCommand) { cmd.OptionType = "straddle" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := referenceCommand()
			tc.mutate(&cmd)

			dto, err := svc.PriceOption(context.Background(), cmd)
			if err == nil {
				t.Fatalf("expected error, got %+v", dto)
			}
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if len(publisher.priced) != 0 {
		t.Fatalf("no OptionPriced events expected, got %d", len(publisher.priced))
	}
	if len(publisher.failed) != len(cases) {
		t.Fatalf("expected %d PricingError events, got %d", len(cases), len(publisher.failed))
	}
}

func TestPriceOption_PutNoPublisher(t *testing.T) {
	svc := NewPricingService(nil, nil, testLogger())

	cmd := referenceCommand()
	cmd.OptionType = "PUT"

	dto, err := svc.PriceOption(context.Background(), cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Type != "PUT" {
		t.Fatalf("type = %q, want PUT", dto.Type)
	}
	if dto.Pricing.Premium != "1.05" {
		t.Fatalf("put premium = %q, want 1.05", dto.Pricing.Premium)
	}
	if dto.Greeks.Delta != "-0.0126" {
		t.Fatalf("put delta = %q, want -0.0126", dto.Greeks.Delta)
	}
}
