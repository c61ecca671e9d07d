package xlsexport

import (
	"bytes"
	"time"

	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	// ExportOverdueSteps отчёт по этапам, ожидающим решения дольше таймаута эскалации
	ExportOverdueSteps(list []dbmodels.StepInstance) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{now: time.Now}
}

type impl struct {
	now func() time.Time
}

const overdueSheet = "Просроченные этапы"

var overdueHeaders = []string{"Заявка", "Этап", "Согласующий", "Создан", "Ожидает, ч", "Таймаут, ч", "Эскалация на", "Эскалирован"}

func (i impl) ExportOverdueSteps(list []dbmodels.StepInstance) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	if err := f.SetSheetName("Sheet1", overdueSheet); err != nil {
		return nil, errors.Wrap(err, "ошибка переименования листа xlsx")
	}
	w := &sheetWriter{f: f, sheet: overdueSheet}
	if err := w.writeHeader(overdueHeaders); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if err := w.styleData(len(overdueHeaders), 2, len(list)+1); err != nil {
		return nil, errors.Wrap(err, "ошибка оформления таблицы в xlsx")
	}
	now := i.now()
	for _, step := range list {
		if err := w.writeRow(overdueRow(step, now)...); err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	return f.WriteToBuffer()
}

func overdueRow(step dbmodels.StepInstance, now time.Time) []interface{} {
	approver := step.AssignedApproverID
	if step.AssignedApprover != nil {
		approver = step.AssignedApprover.GetFullName()
	}
	var timeout, escalationUser, escalatedAt interface{}
	if step.StepTemplate != nil {
		if step.StepTemplate.EscalationTimeout != nil {
			timeout = hours(*step.StepTemplate.EscalationTimeout)
		}
		escalationUser = step.StepTemplate.EscalationUserID
	}
	if step.EscalatedAt != nil {
		escalatedAt = step.EscalatedAt.Format("02.01.2006 15:04")
	}
	return []interface{}{
		step.RequestID,
		step.StepOrder,
		approver,
		step.CreatedAt.Format("02.01.2006 15:04"),
		hours(now.Sub(step.CreatedAt)),
		timeout,
		escalationUser,
		escalatedAt,
	}
}

func hours(d time.Duration) float64 {
	return float64(int(d.Hours()*10)) / 10
}
