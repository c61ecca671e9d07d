package parallelquorum

import (
	"testing"

	"approval-routing-backend/lib/utils/fakes"
	"approval-routing-backend/models"
	dbmodels "approval-routing-backend/models/db"

	"github.com/stretchr/testify/require"
)

func groupTemplate(id string, minimum int) dbmodels.StepTemplate {
	return dbmodels.StepTemplate{
		BaseModel:        dbmodels.BaseModel{ID: id},
		StepOrder:        2,
		ApproverType:     models.ApproverUserGroup,
		ApproverGroupID:  "g",
		IsParallel:       true,
		ParallelGroupID:  "x",
		MinimumApprovals: minimum,
	}
}

func addStep(t *testing.T, steps *fakes.StepInstances, requestID, templateID, assignee string, status models.StepStatus) string {
	id, err := steps.Create(dbmodels.StepInstance{
		RequestID:          requestID,
		StepTemplateID:     templateID,
		StepOrder:          2,
		AssignedApproverID: assignee,
		Status:             status,
	})
	require.Nil(t, err)
	return id
}

func TestIsGroupSatisfied(t *testing.T) {
	t.Run(`two of three approved`, func(t *testing.T) {
		steps := fakes.NewStepInstances(fakes.NewStepTemplates(groupTemplate("t1", 2)))
		addStep(t, steps, "R", "t1", "A", models.StepStatusApproved)
		addStep(t, steps, "R", "t1", "B", models.StepStatusApproved)
		addStep(t, steps, "R", "t1", "C", models.StepStatusPending)
		ok, err := NewInstance(steps).IsGroupSatisfied("x", "R")
		require.Nil(t, err)
		require.True(t, ok)
	})

	t.Run(`empty group is not satisfied`, func(t *testing.T) {
		steps := fakes.NewStepInstances(fakes.NewStepTemplates(groupTemplate("t1", 1)))
		ok, err := NewInstance(steps).IsGroupSatisfied("x", "R")
		require.Nil(t, err)
		require.False(t, ok)

		addStep(t, steps, "OTHER", "t1", "A", models.StepStatusApproved)
		ok, err = NewInstance(steps).IsGroupSatisfied("x", "R")
		require.Nil(t, err)
		require.False(t, ok, "этапы другой заявки не учитываются")
	})

	t.Run(`rejections do not block quorum`, func(t *testing.T) {
		steps := fakes.NewStepInstances(fakes.NewStepTemplates(groupTemplate("t1", 2)))
		addStep(t, steps, "R", "t1", "A", models.StepStatusRejected)
		addStep(t, steps, "R", "t1", "B", models.StepStatusApproved)
		i := NewInstance(steps)
		ok, err := i.IsGroupSatisfied("x", "R")
		require.Nil(t, err)
		require.False(t, ok)

		addStep(t, steps, "R", "t1", "C", models.StepStatusApproved)
		ok, err = i.IsGroupSatisfied("x", "R")
		require.Nil(t, err)
		require.True(t, ok)
	})

	t.Run(`monotonic in approved count`, func(t *testing.T) {
		steps := fakes.NewStepInstances(fakes.NewStepTemplates(groupTemplate("t1", 2)))
		i := NewInstance(steps)
		ids := []string{
			addStep(t, steps, "R", "t1", "A", models.StepStatusPending),
			addStep(t, steps, "R", "t1", "B", models.StepStatusPending),
			addStep(t, steps, "R", "t1", "C", models.StepStatusPending),
			addStep(t, steps, "R", "t1", "D", models.StepStatusPending),
		}
		wasSatisfied := false
		for _, id := range ids {
			require.Nil(t, steps.Update(id, map[string]interface{}{"status": models.StepStatusApproved}))
			ok, err := i.IsGroupSatisfied("x", "R")
			require.Nil(t, err)
			if wasSatisfied {
				require.True(t, ok)
			}
			wasSatisfied = ok
		}
		require.True(t, wasSatisfied)
	})

	t.Run(`first sibling minimum wins and zero is clamped`, func(t *testing.T) {
		templates := fakes.NewStepTemplates(groupTemplate("t1", 1), groupTemplate("t2", 3))
		steps := fakes.NewStepInstances(templates)
		addStep(t, steps, "R", "t1", "A", models.StepStatusApproved)
		addStep(t, steps, "R", "t2", "B", models.StepStatusPending)
		ok, err := NewInstance(steps).IsGroupSatisfied("x", "R")
		require.Nil(t, err)
		require.True(t, ok)

		zero := fakes.NewStepInstances(fakes.NewStepTemplates(groupTemplate("t0", 0)))
		addStep(t, zero, "R", "t0", "A", models.StepStatusPending)
		ok, err = NewInstance(zero).IsGroupSatisfied("x", "R")
		require.Nil(t, err)
		require.False(t, ok)
	})
}
