package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"resort/infras/otel"
	"resort/internal/domains/pricing"
	"resort/internal/domains/pricing/model/dto"
	"resort/internal/domains/resort"
	"resort/shared/constant"
)

type Pricing interface {
	Quote(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error)
	Price(ctx context.Context, in pricing.Input) (pricing.Quote, error)
}

type serviceImpl struct {
	catalog *resort.Catalog
	otel    otel.Otel
}

func New(catalog *resort.Catalog, otel otel.Otel) Pricing {
	return &serviceImpl{
		catalog: catalog,
		otel:    otel,
	}
}

func (s *serviceImpl) Quote(ctx context.Context, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".pricing.Quote")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	in, err := req.ToInput()
	if err != nil {
		return res, err
	}

	res.Pricing, err = s.Price(ctx, in)

	return res, err
}

func (s *serviceImpl) Price(ctx context.Context, in pricing.Input) (quote pricing.Quote, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".pricing.Price")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"package_type": in.PackageType,
		"guest_count":  in.GuestCount,
	})

	return pricing.Calculate(s.catalog, in)
}
