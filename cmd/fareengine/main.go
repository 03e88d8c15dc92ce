package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/siamtransfer/fareengine/internal/clock"
	"github.com/siamtransfer/fareengine/internal/config"
	"github.com/siamtransfer/fareengine/internal/migration"
	"github.com/siamtransfer/fareengine/internal/observability"
	"github.com/siamtransfer/fareengine/internal/pricingrule"
	"github.com/siamtransfer/fareengine/internal/ratehistory"
	"github.com/siamtransfer/fareengine/internal/ratelimit"
	"github.com/siamtransfer/fareengine/internal/rating"
	"github.com/siamtransfer/fareengine/internal/server"
	"github.com/siamtransfer/fareengine/internal/servicerate"
	"github.com/siamtransfer/fareengine/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		ratelimit.Module,

		// Functional domains
		servicerate.Module,
		pricingrule.Module,
		rating.Module,
		ratehistory.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
