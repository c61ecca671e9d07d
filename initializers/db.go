package initializers

import (
	"approval-routing-backend/config"
	"approval-routing-backend/db"
)

func InitDBConnection() {
	err := db.Connect(config.Conf.Database.Host, config.Conf.Database.Port, config.Conf.Database.Name,
		config.Conf.Database.User, config.Conf.Database.Password, *config.Conf.Database.DebugMode, *config.Conf.Database.MigrateOnStart)
	if err != nil {
		panic(err.Error())
	}
	if *config.Conf.Preload.Enabled {
		db.InitPreload(config.Conf.Preload.DirectoryDir)
	}
}
