package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/clock"
	"github.com/slotbook/slotbook/internal/config"
	"github.com/slotbook/slotbook/internal/logger"
	"github.com/slotbook/slotbook/internal/migration"
	"github.com/slotbook/slotbook/internal/server"
	"github.com/slotbook/slotbook/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
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
