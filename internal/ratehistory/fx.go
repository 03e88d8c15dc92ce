package ratehistory

import (
	"github.com/siamtransfer/fareengine/internal/ratehistory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ratehistory.service",
	fx.Provide(service.New),
)
