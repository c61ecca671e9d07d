package routinghandler

import (
	"testing"
	"time"

	approverresolver "approval-routing-backend/lib/approver-resolver"
	delegationhandler "approval-routing-backend/lib/delegation"
	escalationhandler "approval-routing-backend/lib/escalation"
	parallelquorum "approval-routing-backend/lib/parallel-quorum"
	substitutionhandler "approval-routing-backend/lib/substitution"
	apperrors "approval-routing-backend/lib/utils/app-errors"
	"approval-routing-backend/lib/utils/fakes"
	vacationhandler "approval-routing-backend/lib/vacation"
	"approval-routing-backend/models"
	dbmodels "approval-routing-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	directory   *fakes.Directory
	vacations   *fakes.Vacations
	templates   *fakes.StepTemplates
	steps       *fakes.StepInstances
	delegations delegationhandler.Provider
	notifier    *fakes.Notifier
	handler     *impl
}

func getInstance() *testEnv {
	env := &testEnv{
		directory: fakes.NewDirectory(),
		vacations: fakes.NewVacations(),
	}
	env.directory.AddUser("submitter", "sales", models.EmployeeRole)
	env.directory.AddUser("head", "sales", models.EmployeeRole)
	env.directory.AddUser("hr1", "hr", models.HRManagerRole)
	env.directory.AddUser("hr2", "hr", models.HRManagerRole)
	env.directory.AddUser("hr3", "hr", models.HRManagerRole)
	env.directory.AddUser("boss", "hr", models.AdminRole)
	env.directory.AddDepartment(dbmodels.Department{
		BaseModel:          dbmodels.BaseModel{ID: "sales"},
		HeadOfDepartmentID: "head",
	})
	env.directory.AddDepartment(dbmodels.Department{
		BaseModel:                    dbmodels.BaseModel{ID: "hr"},
		HeadOfDepartmentID:           "hr1",
		HeadOfDepartmentSubstituteID: "hr2",
	})
	env.directory.SetGroup("hr-group", "submitter", "hr1", "hr2", "hr3")

	day := 24 * time.Hour
	env.templates = fakes.NewStepTemplates(
		dbmodels.StepTemplate{
			BaseModel:         dbmodels.BaseModel{ID: "supervisor"},
			StepOrder:         1,
			ApproverType:      models.ApproverDirectSupervisor,
			MinimumApprovals:  1,
			EscalationTimeout: &day,
			EscalationUserID:  "boss",
		},
		dbmodels.StepTemplate{
			BaseModel:            dbmodels.BaseModel{ID: "hr-dept"},
			StepOrder:            2,
			ApproverType:         models.ApproverSpecificDepartment,
			SpecificDepartmentID: "hr",
			MinimumApprovals:     1,
		},
		dbmodels.StepTemplate{
			BaseModel:        dbmodels.BaseModel{ID: "hr-parallel"},
			StepOrder:        3,
			ApproverType:     models.ApproverUserGroup,
			ApproverGroupID:  "hr-group",
			IsParallel:       true,
			ParallelGroupID:  "g3",
			MinimumApprovals: 2,
		},
	)
	env.steps = fakes.NewStepInstances(env.templates)
	env.notifier = &fakes.Notifier{}
	delegations := fakes.NewDelegations()

	resolver := approverresolver.NewInstance(env.directory)
	vacations := vacationhandler.NewInstance(env.vacations, env.directory)
	env.delegations = delegationhandler.NewInstance(delegations, env.directory, resolver, env.notifier)
	env.handler = NewInstance(
		resolver,
		substitutionhandler.NewInstance(resolver, env.directory, vacations),
		env.delegations,
		parallelquorum.NewInstance(env.steps),
		escalationhandler.NewInstance(env.steps, env.templates, env.directory, env.notifier),
		env.directory,
		env.templates,
		env.steps,
	)
	return env
}

func (env *testEnv) awayToday(userID string) {
	now := time.Now()
	env.vacations.AddAway(userID, now.Add(-48*time.Hour), now.Add(48*time.Hour), "")
}

func TestAssign(t *testing.T) {
	all := AssignOptions{CheckAvailability: true, ConsiderDelegation: true}

	t.Run(`primary only`, func(t *testing.T) {
		env := getInstance()
		tmpl, submitter, err := env.handler.LoadContext("hr-dept", "submitter")
		require.Nil(t, err)
		assignment, err := env.handler.Assign(*tmpl, *submitter, all)
		require.Nil(t, err)
		require.Equal(t, Assignment{PrimaryID: "hr1", AssigneeID: "hr1"}, assignment)
	})

	t.Run(`substitution then delegation`, func(t *testing.T) {
		env := getInstance()
		env.awayToday("hr1")
		_, err := env.delegations.Grant("hr2", "hr3", nil, "")
		require.Nil(t, err)
		tmpl, submitter, err := env.handler.LoadContext("hr-dept", "submitter")
		require.Nil(t, err)

		assignment, err := env.handler.Assign(*tmpl, *submitter, all)
		require.Nil(t, err)
		require.Equal(t, Assignment{PrimaryID: "hr1", SubstituteID: "hr2", DelegateID: "hr3", AssigneeID: "hr3"}, assignment)

		assignment, err = env.handler.Assign(*tmpl, *submitter, AssignOptions{CheckAvailability: true})
		require.Nil(t, err)
		require.Equal(t, "hr2", assignment.AssigneeID)

		assignment, err = env.handler.Assign(*tmpl, *submitter, AssignOptions{})
		require.Nil(t, err)
		require.Equal(t, "hr1", assignment.AssigneeID)
	})

	t.Run(`absent supervisor stays assigned`, func(t *testing.T) {
		env := getInstance()
		env.awayToday("head")
		tmpl, submitter, err := env.handler.LoadContext("supervisor", "submitter")
		require.Nil(t, err)
		assignment, err := env.handler.Assign(*tmpl, *submitter, all)
		require.Nil(t, err)
		require.Equal(t, "head", assignment.AssigneeID)
		require.Empty(t, assignment.SubstituteID)

		assignee, err := env.handler.EffectiveAssignee(*tmpl, *submitter, true)
		require.Nil(t, err)
		require.Equal(t, "head", assignee)
	})

	t.Run(`delegation to the submitter keeps the primary`, func(t *testing.T) {
		env := getInstance()
		_, err := env.delegations.Grant("head", "submitter", nil, "")
		require.Nil(t, err)
		tmpl, submitter, err := env.handler.LoadContext("supervisor", "submitter")
		require.Nil(t, err)
		assignment, err := env.handler.Assign(*tmpl, *submitter, all)
		require.Nil(t, err)
		require.Equal(t, Assignment{PrimaryID: "head", AssigneeID: "head"}, assignment)

		list, err := env.handler.CreateStepInstances("R1", *tmpl, *submitter)
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "head", list[0].AssignedApproverID)
	})

	t.Run(`no primary means empty assignment`, func(t *testing.T) {
		env := getInstance()
		tmpl, head, err := env.handler.LoadContext("supervisor", "head")
		require.Nil(t, err)
		assignment, err := env.handler.Assign(*tmpl, *head, all)
		require.Nil(t, err)
		require.True(t, assignment.IsEmpty())
	})

	t.Run(`LoadContext not found`, func(t *testing.T) {
		env := getInstance()
		_, _, err := env.handler.LoadContext("missing", "submitter")
		require.True(t, apperrors.IsNotFound(err))
		_, _, err = env.handler.LoadContext("supervisor", "ghost")
		require.True(t, apperrors.IsNotFound(err))
	})
}

func TestCreateStepInstances(t *testing.T) {
	t.Run(`sequential step`, func(t *testing.T) {
		env := getInstance()
		tmpl, submitter, err := env.handler.LoadContext("supervisor", "submitter")
		require.Nil(t, err)
		list, err := env.handler.CreateStepInstances("R1", *tmpl, *submitter)
		require.Nil(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "head", list[0].AssignedApproverID)
		require.Equal(t, models.StepStatusPending, list[0].Status)
		require.Equal(t, 1, list[0].StepOrder)
		require.NotEmpty(t, env.steps.Items[list[0].ID].ID)
	})

	t.Run(`auto approval when nobody qualifies`, func(t *testing.T) {
		env := getInstance()
		tmpl, head, err := env.handler.LoadContext("supervisor", "head")
		require.Nil(t, err)
		list, err := env.handler.CreateStepInstances("R1", *tmpl, *head)
		require.Nil(t, err)
		require.Empty(t, list)
		require.Empty(t, env.steps.Items)
	})

	t.Run(`parallel fan out and quorum`, func(t *testing.T) {
		env := getInstance()
		tmpl, submitter, err := env.handler.LoadContext("hr-parallel", "submitter")
		require.Nil(t, err)
		list, err := env.handler.CreateStepInstances("R2", *tmpl, *submitter)
		require.Nil(t, err)
		require.Len(t, list, 3)
		assignees := []string{}
		for _, step := range list {
			assignees = append(assignees, step.AssignedApproverID)
		}
		require.Equal(t, []string{"hr1", "hr2", "hr3"}, assignees)

		satisfied, err := env.handler.IsParallelGroupSatisfied("g3", "R2")
		require.Nil(t, err)
		require.False(t, satisfied)

		require.Nil(t, env.steps.Update(list[0].ID, map[string]interface{}{"status": models.StepStatusApproved}))
		require.Nil(t, env.steps.Update(list[1].ID, map[string]interface{}{"status": models.StepStatusRejected}))
		require.Nil(t, env.steps.Update(list[2].ID, map[string]interface{}{"status": models.StepStatusApproved}))
		satisfied, err = env.handler.IsParallelGroupSatisfied("g3", "R2")
		require.Nil(t, err)
		require.True(t, satisfied)

		satisfied, err = env.handler.IsParallelGroupSatisfied("g3", "other")
		require.Nil(t, err)
		require.False(t, satisfied)
	})
}

func TestOverdue(t *testing.T) {
	env := getInstance()
	old, err := env.steps.Create(dbmodels.StepInstance{
		BaseModel:          dbmodels.BaseModel{CreatedAt: time.Now().Add(-25 * time.Hour)},
		RequestID:          "R",
		StepTemplateID:     "supervisor",
		AssignedApproverID: "head",
		Status:             models.StepStatusPending,
	})
	require.Nil(t, err)
	_, err = env.steps.Create(dbmodels.StepInstance{
		BaseModel:          dbmodels.BaseModel{CreatedAt: time.Now().Add(-23 * time.Hour)},
		RequestID:          "R",
		StepTemplateID:     "supervisor",
		AssignedApproverID: "head",
		Status:             models.StepStatusPending,
	})
	require.Nil(t, err)

	list, err := env.handler.ListOverdue()
	require.Nil(t, err)
	require.Len(t, list, 1)
	require.Equal(t, old, list[0].ID)

	step, err := env.handler.Escalate(old)
	require.Nil(t, err)
	require.Equal(t, "boss", step.AssignedApproverID)

	_, err = env.handler.GetStep("missing")
	require.True(t, apperrors.IsNotFound(err))
}

func TestNotifyAfterCommit(t *testing.T) {
	newOverdueStep := func(env *testEnv) string {
		id, err := env.steps.Create(dbmodels.StepInstance{
			BaseModel:          dbmodels.BaseModel{CreatedAt: time.Now().Add(-25 * time.Hour)},
			RequestID:          "R",
			StepTemplateID:     "supervisor",
			AssignedApproverID: "head",
			Status:             models.StepStatusPending,
		})
		require.Nil(t, err)
		return id
	}

	t.Run(`failed escalation transaction sends nothing`, func(t *testing.T) {
		env := getInstance()
		env.handler.notifier = env.notifier
		stepID := newOverdueStep(env)
		env.handler.escalateInTx = func(stepID string) (*dbmodels.StepInstance, error) {
			_, _ = escalationhandler.NewInstance(env.steps, env.templates, env.directory, nil).Escalate(stepID)
			return nil, errors.New("commit failed")
		}
		_, err := env.handler.Escalate(stepID)
		require.NotNil(t, err)
		require.Empty(t, env.notifier.Escalations)
	})

	t.Run(`committed escalation notifies once`, func(t *testing.T) {
		env := getInstance()
		env.handler.notifier = env.notifier
		stepID := newOverdueStep(env)
		env.handler.escalateInTx = escalationhandler.NewInstance(env.steps, env.templates, env.directory, nil).Escalate
		step, err := env.handler.Escalate(stepID)
		require.Nil(t, err)
		require.Equal(t, "boss", step.AssignedApproverID)
		require.Equal(t, []string{stepID + ":boss"}, env.notifier.Escalations)
	})

	t.Run(`delegation grant notifies only after commit`, func(t *testing.T) {
		env := getInstance()
		env.handler.notifier = env.notifier
		silent := delegationhandler.NewInstance(fakes.NewDelegations(), env.directory, approverresolver.NewInstance(env.directory), nil)
		env.handler.grantInTx = func(fromUserID, toUserID string, until *time.Time, reason string) (*dbmodels.ApprovalDelegation, error) {
			_, _ = silent.Grant(fromUserID, toUserID, until, reason)
			return nil, errors.New("commit failed")
		}
		_, err := env.handler.GrantDelegation("hr1", "hr3", nil, "")
		require.NotNil(t, err)
		require.Empty(t, env.notifier.Delegations)

		env.handler.grantInTx = silent.Grant
		rec, err := env.handler.GrantDelegation("hr1", "hr3", nil, "")
		require.Nil(t, err)
		require.True(t, rec.IsActive)
		require.Equal(t, []string{"hr1->hr3"}, env.notifier.Delegations)
	})
}
