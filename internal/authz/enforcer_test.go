package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforcer_Allowed(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	tests := []struct {
		role, obj, act string
		want           bool
	}{
		{"organizador", ObjEvents, ActWrite, true},
		{"organizador", ObjCertificates, ActIssue, true},
		{"organizador", ObjRegistrations, ActSelf, false},
		{"participante", ObjRegistrations, ActSelf, true},
		{"participante", ObjEvents, ActWrite, false},
		{"participante", ObjCertificates, ActIssue, false},
		{"admin", ObjEvents, ActWrite, true},
		{"admin", ObjRegistrations, ActSelf, true},
		{"", ObjEvents, ActWrite, false},
		{"visitante", ObjEvents, ActWrite, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.obj+"/"+tt.act, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Allowed(tt.role, tt.obj, tt.act))
		})
	}
}

func TestLoadEmbeddedPolicy_RejectsMalformed(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	assert.Error(t, loadEmbeddedPolicy(e.enforcer, "p, organizador, events"))
	assert.Error(t, loadEmbeddedPolicy(e.enforcer, "x, a, b"))
}
