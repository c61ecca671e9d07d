package dbmodels

import (
	"testing"
	"time"

	apperrors "approval-routing-backend/lib/utils/app-errors"
	"approval-routing-backend/models"

	"github.com/stretchr/testify/require"
)

func TestApprovalDelegation(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	t.Run(`InEffect check`, func(t *testing.T) {
		rec := ApprovalDelegation{FromUserID: "a", ToUserID: "b", StartDate: yesterday, IsActive: true}
		require.True(t, rec.InEffect(now), "бессрочное делегирование действует")

		rec.EndDate = &tomorrow
		require.True(t, rec.InEffect(now))

		rec.EndDate = &now
		require.True(t, rec.InEffect(now), "граница окончания включительно")

		rec.EndDate = &yesterday
		require.False(t, rec.InEffect(now))

		rec.EndDate = nil
		rec.StartDate = tomorrow
		require.False(t, rec.InEffect(now), "ещё не началось")

		rec.StartDate = yesterday
		rec.IsActive = false
		require.False(t, rec.InEffect(now), "отозвано")
	})
}

func TestStepTemplateValidate(t *testing.T) {
	t.Run(`policy parameters check`, func(t *testing.T) {
		rec := StepTemplate{ApproverType: models.ApproverDirectSupervisor, MinimumApprovals: 1}
		require.Nil(t, rec.Validate())

		rec.SpecificUserID = "u1"
		require.True(t, apperrors.IsValidation(rec.Validate()))

		rec.ApproverType = models.ApproverSpecificUser
		require.Nil(t, rec.Validate())

		rec = StepTemplate{ApproverType: models.ApproverUserGroup, MinimumApprovals: 1}
		require.True(t, apperrors.IsValidation(rec.Validate()))
		rec.ApproverGroupID = "g1"
		require.Nil(t, rec.Validate())

		rec = StepTemplate{ApproverType: models.ApproverRole, ApproverRoleTarget: models.HRManagerRole, MinimumApprovals: 1}
		require.Nil(t, rec.Validate())

		rec = StepTemplate{ApproverType: "UNKNOWN", MinimumApprovals: 1}
		require.True(t, apperrors.IsValidation(rec.Validate()))
	})

	t.Run(`parallel and escalation check`, func(t *testing.T) {
		rec := StepTemplate{ApproverType: models.ApproverSubmitter, MinimumApprovals: 0}
		require.True(t, apperrors.IsValidation(rec.Validate()))

		rec.MinimumApprovals = 2
		rec.IsParallel = true
		require.True(t, apperrors.IsValidation(rec.Validate()))
		rec.ParallelGroupID = "x"
		require.Nil(t, rec.Validate())

		negative := -time.Hour
		rec.EscalationTimeout = &negative
		require.True(t, apperrors.IsValidation(rec.Validate()))

		day := 24 * time.Hour
		rec.EscalationTimeout = &day
		require.Nil(t, rec.Validate())
		require.False(t, rec.HasEscalation())
		rec.EscalationUserID = "boss"
		require.True(t, rec.HasEscalation())
	})
}

func TestVacationCovers(t *testing.T) {
	rec := Vacation{
		StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC),
	}
	require.True(t, rec.Covers(time.Date(2026, 7, 1, 9, 30, 0, 0, time.UTC)))
	require.True(t, rec.Covers(time.Date(2026, 7, 14, 23, 0, 0, 0, time.UTC)))
	require.False(t, rec.Covers(time.Date(2026, 6, 30, 23, 59, 0, 0, time.UTC)))
	require.False(t, rec.Covers(time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)))
}
