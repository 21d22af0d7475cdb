package mocks

//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/quantx-lab/quantx/internal/datasource BarSource
//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/quantx-lab/quantx/pkg/marketdata/provider Provider
