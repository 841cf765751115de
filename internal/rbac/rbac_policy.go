package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleFinance = "finance"
	RoleAdmin   = "admin"

	ResourceCompensation = "compensation"
	ResourcePayStatement = "pay_statement"
	ResourcePayslip      = "payslip"
	ResourceRateSchedule = "rate_schedule"

	ActionCompute = "compute"
	ActionRead    = "read"
	ActionUpdate  = "update"
	ActionCreate  = "create"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// admin inherits every finance permission and may also maintain rate schedules.
var (
	policies = [][]string{
		{RoleFinance, ResourceCompensation, ActionCompute},
		{RoleFinance, ResourcePayStatement, ActionRead},
		{RoleFinance, ResourcePayStatement, ActionUpdate},
		{RoleFinance, ResourcePayslip, ActionRead},
		{RoleFinance, ResourceRateSchedule, ActionRead},
		{RoleAdmin, ResourceRateSchedule, ActionCreate},
	}
	groupingPolicies = [][]string{
		{RoleAdmin, RoleFinance},
	}
)

// NewEnforcer builds an in-memory enforcer loaded with the compensation
// role policy.
func NewEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddPolicies(policies); err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicies(groupingPolicies); err != nil {
		return nil, err
	}

	return e, nil
}
