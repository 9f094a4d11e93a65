package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/personacoreio/personacore/internal/logger"
	"github.com/personacoreio/personacore/internal/migration"
	"github.com/personacoreio/personacore/internal/server"
	"github.com/personacoreio/personacore/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.Provide(RegisterSnowflake),
		logger.Module,
		db.Module,
		migration.Module,
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
