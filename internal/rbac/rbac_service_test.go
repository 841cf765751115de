package rbac

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingEnforcer struct{}

func (failingEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	return false, errors.New("model broken")
}

func newTestService(t *testing.T) Service {
	t.Helper()
	e, err := NewEnforcer()
	assert.NoError(t, err)
	return NewService(e)
}

func TestService_Enforce(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name    string
		req     EnforceRequest
		allowed bool
	}{
		{"finance computes", EnforceRequest{RoleFinance, ResourceCompensation, ActionCompute}, true},
		{"finance marks paid", EnforceRequest{RoleFinance, ResourcePayStatement, ActionUpdate}, true},
		{"finance cannot create rates", EnforceRequest{RoleFinance, ResourceRateSchedule, ActionCreate}, false},
		{"admin inherits finance", EnforceRequest{RoleAdmin, ResourceCompensation, ActionCompute}, true},
		{"admin creates rates", EnforceRequest{RoleAdmin, ResourceRateSchedule, ActionCreate}, true},
		{"driver denied", EnforceRequest{"driver", ResourceCompensation, ActionCompute}, false},
		{"empty role denied", EnforceRequest{"", ResourcePayslip, ActionRead}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := svc.Enforce(tt.req)
			assert.NoError(t, err)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestService_EnforceError(t *testing.T) {
	svc := NewService(failingEnforcer{})

	allowed, err := svc.Enforce(EnforceRequest{RoleFinance, ResourcePayslip, ActionRead})

	assert.Error(t, err)
	assert.False(t, allowed)
}
