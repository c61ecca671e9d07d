package vacationhandler

import (
	"time"

	"approval-routing-backend/db"
	directorystore "approval-routing-backend/lib/directory/store"
	vacationstore "approval-routing-backend/lib/vacation/store"
	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider график отпусков: кто отсутствует и кто его замещает
type Provider interface {
	IsUserAway(userID string, date time.Time) (bool, error)
	GetActiveSubstitute(userID string) (*dbmodels.User, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(vacationstore.NewInstance(db.DB), directorystore.NewInstance(db.DB))
}

func NewInstance(store vacationstore.Provider, directory directorystore.Provider) Provider {
	return &impl{
		store:     store,
		directory: directory,
		now:       time.Now,
	}
}

type impl struct {
	store     vacationstore.Provider
	directory directorystore.Provider
	now       func() time.Time
}

func (i impl) GetLogger(userID string) *log.Entry {
	return log.WithField("user_id", userID)
}

func (i impl) IsUserAway(userID string, date time.Time) (bool, error) {
	list, err := i.store.ListCovering(userID, date)
	if err != nil {
		return false, errors.Wrap(err, "ошибка получения графика отпусков")
	}
	return len(list) > 0, nil
}

func (i impl) GetActiveSubstitute(userID string) (*dbmodels.User, error) {
	list, err := i.store.ListCovering(userID, i.now())
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения графика отпусков")
	}
	for _, rec := range list {
		if rec.SubstituteUserID == "" || rec.SubstituteUserID == userID {
			continue
		}
		substitute, err := i.directory.GetUserByID(rec.SubstituteUserID)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка получения замещающего сотрудника")
		}
		if substitute == nil {
			i.GetLogger(userID).
				WithField("substitute_id", rec.SubstituteUserID).
				Warn("Замещающий сотрудник из графика отпусков не найден в справочнике")
			continue
		}
		return substitute, nil
	}
	return nil, nil
}
