package mocks

//go:generate mockgen -destination=./mock_order_source.go -package=mocks github.com/rxtech-lab/argo-advisor/internal/advisor OrderSource
