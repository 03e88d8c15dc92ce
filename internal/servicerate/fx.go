package servicerate

import (
	"github.com/siamtransfer/fareengine/internal/servicerate/repository"
	"github.com/siamtransfer/fareengine/internal/servicerate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("servicerate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
