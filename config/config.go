package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr   string `default:"" env:"APP_HOST"`
		Port         int    `default:"8080"  env:"APP_PORT"`
		ErrNotifyURL string `default:"" env:"APP_ERR_NOTIFY_URL"`
		BodyLimit    int64  `default:"1048576" env:"APP_BODY_LIMIT"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"approval-routing" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret      string `default:"" env:"JWT_SECRET"`
		JWTExpireInSec int64  `default:"86400" env:"JWT_EXPIRE_IN_SEC"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		From       string `default:"approvals@localhost" env:"SMTP_FROM"`
	}
	Preload struct {
		Enabled      *bool  `default:"false" env:"PRELOAD_ENABLED"`
		DirectoryDir string `default:"./static_preload" env:"PRELOAD_DIRECTORY_DIR"`
	}
	Escalation struct {
		Enabled          *bool `default:"true" env:"ESCALATION_ENABLED"`
		FirstRunDelaySec int   `default:"30" env:"ESCALATION_FIRST_RUN_DELAY_SEC"`
		SweepIntervalSec int   `default:"300" env:"ESCALATION_SWEEP_INTERVAL_SEC"`
		LockWaitSec      int   `default:"5" env:"ESCALATION_LOCK_WAIT_SEC"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
