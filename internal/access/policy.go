// AngelaMos | 2026
// policy.go

package access

import (
	"fmt"

	"github.com/carterperez-dev/flightlog/internal/core"
)

// RequireRole fails with ErrForbidden unless caller holds at least minimum.
// Anonymous callers get ErrUnauthorized.
func RequireRole(caller Identity, minimum Privilege) error {
	if caller.IsAnonymous() {
		return fmt.Errorf("require %s: %w", minimum, core.ErrUnauthorized)
	}
	if !AtLeast(caller.Privilege, minimum) {
		return fmt.Errorf("require %s: %w", minimum, core.ErrForbidden)
	}
	return nil
}

// Scope limits which entities a query may touch.
type Scope struct {
	All      bool
	EntityID string
}

func (s Scope) Includes(entityID string) bool {
	return s.All || (entityID != "" && s.EntityID == entityID)
}

// ScopeForEntityQuery gives global callers every entity and everyone else
// their own.
func ScopeForEntityQuery(caller Identity) Scope {
	if caller.IsGlobal() {
		return Scope{All: true}
	}
	return Scope{EntityID: caller.EntityID}
}

// RequireScope fails with ErrForbidden when entityID is outside caller's
// scope.
func RequireScope(caller Identity, entityID string) error {
	if caller.IsAnonymous() {
		return fmt.Errorf("entity scope: %w", core.ErrUnauthorized)
	}
	if !ScopeForEntityQuery(caller).Includes(entityID) {
		return fmt.Errorf("entity %s out of scope: %w", entityID, core.ErrForbidden)
	}
	return nil
}

func CanEditUser(caller Identity, targetEntityID string) bool {
	if caller.IsAnonymous() {
		return false
	}
	if caller.Privilege == PrivilegeGlobal {
		return true
	}
	return caller.Privilege == PrivilegeAdmin && caller.EntityID == targetEntityID
}

// CanEditAccount is CanEditUser for an existing account. Global accounts
// are editable only by global callers, even from inside their entity.
func CanEditAccount(caller Identity, targetEntityID string, targetPrivilege Privilege) bool {
	if targetPrivilege == PrivilegeGlobal && !caller.IsGlobal() {
		return false
	}
	return CanEditUser(caller, targetEntityID)
}

func CanEnrollStudent(caller Identity) bool {
	return !caller.IsAnonymous() && AtLeast(caller.Privilege, PrivilegeAdmin)
}

// CanManageEntity covers entity settings and syllabus authoring.
func CanManageEntity(caller Identity, entityID string) bool {
	return CanEditUser(caller, entityID)
}

// CanViewUser allows self, global, and instructors or admins of the same
// entity.
func CanViewUser(caller Identity, targetUserID, targetEntityID string) bool {
	if caller.IsAnonymous() {
		return false
	}
	if caller.UserID == targetUserID || caller.Privilege == PrivilegeGlobal {
		return true
	}
	return AtLeast(caller.Privilege, PrivilegeCFI) &&
		caller.EntityID == targetEntityID
}

func CanRecordProgress(caller Identity, studentEntityID string) bool {
	if caller.IsAnonymous() || !AtLeast(caller.Privilege, PrivilegeCFI) {
		return false
	}
	return ScopeForEntityQuery(caller).Includes(studentEntityID)
}
