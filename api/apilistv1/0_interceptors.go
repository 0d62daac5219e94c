package apilistv1

import (
	"context"

	"github.com/fulldump/listassistant/service"
)

const ContextServicerKey = "3b6f7c2e-4a8d-11f0-9c1e-7f2d9a0b5e11"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(ContextServicerKey).(service.Servicer)
}
