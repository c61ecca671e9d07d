package initializers

import (
	"context"

	"approval-routing-backend/config"
	"approval-routing-backend/fiberlog"
	approverresolver "approval-routing-backend/lib/approver-resolver"
	delegationhandler "approval-routing-backend/lib/delegation"
	escalationhandler "approval-routing-backend/lib/escalation"
	escalationsweepworker "approval-routing-backend/lib/escalation/sweep-worker"
	xlsexport "approval-routing-backend/lib/export/xls"
	notifyhandler "approval-routing-backend/lib/notify"
	parallelquorum "approval-routing-backend/lib/parallel-quorum"
	routinghandler "approval-routing-backend/lib/routing"
	substitutionhandler "approval-routing-backend/lib/substitution"
	"approval-routing-backend/lib/utils/helpers"
	vacationhandler "approval-routing-backend/lib/vacation"

	log "github.com/sirupsen/logrus"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitSmtp()
	approverresolver.NewHandler()
	vacationhandler.NewHandler()
	notifyhandler.NewHandler()
	delegationhandler.NewHandler()
	substitutionhandler.NewHandler()
	parallelquorum.NewHandler()
	escalationhandler.NewHandler()
	routinghandler.NewHandler()
	xlsexport.NewHandler()
	initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	conf := config.Conf.Escalation
	if !*conf.Enabled {
		log.Warn("Эскалация этапов согласования отключена")
		return
	}
	// Задача эскалации просроченных этапов согласования
	escalationsweepworker.StartWorker(ctx,
		helpers.SecondsToDuration(conf.FirstRunDelaySec),
		helpers.SecondsToDuration(conf.SweepIntervalSec),
		helpers.SecondsToDuration(conf.LockWaitSec))
}
