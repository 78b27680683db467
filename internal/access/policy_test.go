// AngelaMos | 2026
// policy_test.go

package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/flightlog/internal/core"
)

var all = []Privilege{PrivilegeGlobal, PrivilegeAdmin, PrivilegeCFI, PrivilegeStudent}

func TestRankOrder(t *testing.T) {
	assert.Equal(t, 0, PrivilegeGlobal.Rank())
	assert.Equal(t, 1, PrivilegeAdmin.Rank())
	assert.Equal(t, 2, PrivilegeCFI.Rank())
	assert.Equal(t, 3, PrivilegeStudent.Rank())
	assert.Equal(t, -1, PrivilegeUnknown.Rank())
}

func TestAtLeastMatchesRank(t *testing.T) {
	for _, p := range all {
		for _, minimum := range all {
			assert.Equal(t, p.Rank() <= minimum.Rank(), AtLeast(p, minimum),
				"AtLeast(%s, %s)", p, minimum)
		}
		assert.False(t, AtLeast(PrivilegeUnknown, p))
		assert.False(t, AtLeast(p, PrivilegeUnknown))
	}
}

func TestParsePrivilege(t *testing.T) {
	for _, p := range all {
		parsed, err := ParsePrivilege(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := ParsePrivilege("owner")
	assert.Error(t, err)
}

func TestPrivilegeForType(t *testing.T) {
	tests := []struct {
		tag  string
		want Privilege
		ok   bool
	}{
		{"admin", PrivilegeAdmin, true},
		{"cfi", PrivilegeCFI, true},
		{"student", PrivilegeStudent, true},
		{"global", PrivilegeUnknown, false},
		{"", PrivilegeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, ok := PrivilegeForType(tt.tag)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPrivilegeScan(t *testing.T) {
	var p Privilege
	require.NoError(t, p.Scan("cfi"))
	assert.Equal(t, PrivilegeCFI, p)

	require.NoError(t, p.Scan([]byte("student")))
	assert.Equal(t, PrivilegeStudent, p)

	assert.Error(t, p.Scan(3))

	v, err := PrivilegeAdmin.Value()
	require.NoError(t, err)
	assert.Equal(t, "admin", v)

	_, err = PrivilegeUnknown.Value()
	assert.Error(t, err)
}

func TestRequireRole(t *testing.T) {
	cfi := Identity{UserID: "u1", EntityID: "e1", Privilege: PrivilegeCFI}

	assert.NoError(t, RequireRole(cfi, PrivilegeCFI))
	assert.NoError(t, RequireRole(cfi, PrivilegeStudent))
	assert.ErrorIs(t, RequireRole(cfi, PrivilegeAdmin), core.ErrForbidden)
	assert.ErrorIs(t, RequireRole(Identity{}, PrivilegeStudent), core.ErrUnauthorized)
}

func TestScopeForEntityQuery(t *testing.T) {
	global := Identity{UserID: "g", EntityID: "platform", Privilege: PrivilegeGlobal}
	admin := Identity{UserID: "a", EntityID: "e1", Privilege: PrivilegeAdmin}

	gs := ScopeForEntityQuery(global)
	assert.True(t, gs.All)
	assert.True(t, gs.Includes("anything"))

	as := ScopeForEntityQuery(admin)
	assert.False(t, as.All)
	assert.True(t, as.Includes("e1"))
	assert.False(t, as.Includes("e2"))
	assert.False(t, as.Includes(""))

	assert.ErrorIs(t, RequireScope(admin, "e2"), core.ErrForbidden)
	assert.NoError(t, RequireScope(admin, "e1"))
}

func TestCanEditUser(t *testing.T) {
	tests := []struct {
		name   string
		caller Identity
		target string
		want   bool
	}{
		{"global any entity", Identity{UserID: "g", EntityID: "p", Privilege: PrivilegeGlobal}, "e9", true},
		{"admin same entity", Identity{UserID: "a", EntityID: "e1", Privilege: PrivilegeAdmin}, "e1", true},
		{"admin other entity", Identity{UserID: "a", EntityID: "e1", Privilege: PrivilegeAdmin}, "e2", false},
		{"cfi same entity", Identity{UserID: "c", EntityID: "e1", Privilege: PrivilegeCFI}, "e1", false},
		{"student same entity", Identity{UserID: "s", EntityID: "e1", Privilege: PrivilegeStudent}, "e1", false},
		{"anonymous", Identity{}, "e1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEditUser(tt.caller, tt.target))
		})
	}
}

func TestCanEditAccount(t *testing.T) {
	admin := Identity{UserID: "a", EntityID: "ops", Privilege: PrivilegeAdmin}
	global := Identity{UserID: "g", EntityID: "ops", Privilege: PrivilegeGlobal}

	assert.False(t, CanEditAccount(admin, "ops", PrivilegeGlobal))
	assert.True(t, CanEditAccount(admin, "ops", PrivilegeCFI))
	assert.False(t, CanEditAccount(admin, "other", PrivilegeStudent))
	assert.True(t, CanEditAccount(global, "ops", PrivilegeGlobal))
	assert.False(t, CanEditAccount(Identity{}, "ops", PrivilegeGlobal))
}

func TestCanEnrollStudent(t *testing.T) {
	want := map[Privilege]bool{
		PrivilegeGlobal:  true,
		PrivilegeAdmin:   true,
		PrivilegeCFI:     false,
		PrivilegeStudent: false,
	}
	for p, expected := range want {
		assert.Equal(t, expected, CanEnrollStudent(Identity{UserID: "u", EntityID: "e", Privilege: p}), p.String())
	}
}

func TestCanViewUser(t *testing.T) {
	student := Identity{UserID: "s1", EntityID: "e1", Privilege: PrivilegeStudent}
	cfi := Identity{UserID: "c1", EntityID: "e1", Privilege: PrivilegeCFI}

	assert.True(t, CanViewUser(student, "s1", "e1"))
	assert.False(t, CanViewUser(student, "s2", "e1"))
	assert.True(t, CanViewUser(cfi, "s2", "e1"))
	assert.False(t, CanViewUser(cfi, "s3", "e2"))
}

func TestCanRecordProgress(t *testing.T) {
	cfi := Identity{UserID: "c1", EntityID: "e1", Privilege: PrivilegeCFI}
	student := Identity{UserID: "s1", EntityID: "e1", Privilege: PrivilegeStudent}
	global := Identity{UserID: "g", EntityID: "p", Privilege: PrivilegeGlobal}

	assert.True(t, CanRecordProgress(cfi, "e1"))
	assert.False(t, CanRecordProgress(cfi, "e2"))
	assert.False(t, CanRecordProgress(student, "e1"))
	assert.True(t, CanRecordProgress(global, "e2"))
}

func TestIdentityContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	id := Identity{UserID: "u", EntityID: "e", Privilege: PrivilegeAdmin}
	got, ok := FromContext(WithIdentity(context.Background(), id))
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = FromContext(WithIdentity(context.Background(), Identity{UserID: "u"}))
	assert.False(t, ok)
}
