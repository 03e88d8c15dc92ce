package pricingrule

import (
	"github.com/siamtransfer/fareengine/internal/pricingrule/repository"
	"github.com/siamtransfer/fareengine/internal/pricingrule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricingrule.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
