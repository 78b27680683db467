// AngelaMos | 2026
// privilege.go

package access

import (
	"database/sql/driver"
	"fmt"
)

// Privilege is the closed set of roles. Lower rank means more authority.
// The zero value is PrivilegeUnknown and passes no check.
type Privilege int

const (
	PrivilegeUnknown Privilege = iota
	PrivilegeGlobal
	PrivilegeAdmin
	PrivilegeCFI
	PrivilegeStudent
)

var privilegeNames = map[Privilege]string{
	PrivilegeGlobal:  "global",
	PrivilegeAdmin:   "admin",
	PrivilegeCFI:     "cfi",
	PrivilegeStudent: "student",
}

// enrollable maps the type tag accepted by enrollment forms onto the enum.
var enrollable = map[string]Privilege{
	"admin":   PrivilegeAdmin,
	"cfi":     PrivilegeCFI,
	"student": PrivilegeStudent,
}

// Rank orders privileges: global 0, admin 1, cfi 2, student 3.
func (p Privilege) Rank() int {
	if !p.Valid() {
		return -1
	}
	return int(p) - int(PrivilegeGlobal)
}

func (p Privilege) Valid() bool {
	_, ok := privilegeNames[p]
	return ok
}

func (p Privilege) String() string {
	if name, ok := privilegeNames[p]; ok {
		return name
	}
	return "unknown"
}

// AtLeast reports whether p carries at least the authority of minimum.
func AtLeast(p, minimum Privilege) bool {
	if !p.Valid() || !minimum.Valid() {
		return false
	}
	return p.Rank() <= minimum.Rank()
}

func ParsePrivilege(s string) (Privilege, error) {
	for p, name := range privilegeNames {
		if name == s {
			return p, nil
		}
	}
	return PrivilegeUnknown, fmt.Errorf("unknown privilege %q", s)
}

// PrivilegeForType resolves an enrollment type tag. Global accounts are
// never created through enrollment.
func PrivilegeForType(tag string) (Privilege, bool) {
	p, ok := enrollable[tag]
	return p, ok
}

// Instructors returns the privileges counted as instructors.
func Instructors(includeAdmins bool) []Privilege {
	if includeAdmins {
		return []Privilege{PrivilegeAdmin, PrivilegeCFI}
	}
	return []Privilege{PrivilegeCFI}
}

func (p Privilege) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("marshal privilege: invalid value %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Privilege) UnmarshalText(text []byte) error {
	parsed, err := ParsePrivilege(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Privilege) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("store privilege: invalid value %d", int(p))
	}
	return p.String(), nil
}

func (p *Privilege) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return p.UnmarshalText([]byte(v))
	case []byte:
		return p.UnmarshalText(v)
	default:
		return fmt.Errorf("scan privilege: unsupported type %T", src)
	}
}
