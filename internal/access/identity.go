// AngelaMos | 2026
// identity.go

package access

import "context"

// Identity is the authenticated caller. It is attached to the request
// context once and passed explicitly to every service call.
type Identity struct {
	UserID    string
	EntityID  string
	Privilege Privilege
}

func (i Identity) IsAnonymous() bool {
	return i.UserID == "" || !i.Privilege.Valid()
}

func (i Identity) IsGlobal() bool {
	return !i.IsAnonymous() && i.Privilege == PrivilegeGlobal
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.IsAnonymous() {
		return Identity{}, false
	}
	return id, true
}
