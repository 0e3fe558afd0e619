// Package authz resolves whether a principal may perform an action on a
// resource. It is a pure decision function with no side effects: callers
// translate a false result into a permission-denied error.
package authz

import "reviewhub/internal/model"

// Action is a coarse CRUD verb.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ResourceKind identifies what kind of object the action targets.
type ResourceKind string

const (
	ResourceCategory ResourceKind = "category"
	ResourceGenre    ResourceKind = "genre"
	ResourceTitle    ResourceKind = "title"
	ResourceReview   ResourceKind = "review"
	ResourceComment  ResourceKind = "comment"
	ResourceUser     ResourceKind = "user"
)

// Resource is the target of an action. OwnerID is zero for kinds without
// an owner (catalog objects) and for not-yet-created resources.
type Resource struct {
	Kind    ResourceKind
	OwnerID uint
}

// Principal is the acting identity. The zero value is anonymous.
type Principal struct {
	ID            uint
	Role          model.Role
	Authenticated bool
}

// Anonymous is the unauthenticated principal.
var Anonymous = Principal{}

func (p Principal) isAdmin() bool {
	return p.Authenticated && p.Role == model.RoleAdmin
}

func (p Principal) isStaff() bool {
	return p.Authenticated && (p.Role == model.RoleAdmin || p.Role == model.RoleModerator)
}

func (p Principal) owns(r Resource) bool {
	return p.Authenticated && r.OwnerID != 0 && p.ID == r.OwnerID
}

func isCatalog(k ResourceKind) bool {
	return k == ResourceCategory || k == ResourceGenre || k == ResourceTitle
}

func isDiscussion(k ResourceKind) bool {
	return k == ResourceReview || k == ResourceComment
}

// Allowed reports whether the principal may perform the action on the
// resource:
//
//   - reading categories, genres, titles, reviews and comments is open to
//     everyone, anonymous included;
//   - catalog writes require the admin role;
//   - creating a review or comment requires any authenticated principal;
//   - updating or deleting a review or comment requires the author,
//     a moderator, or an admin;
//   - user records are admin-only in every direction (the self-service
//     profile endpoints act on the authenticated principal directly and
//     never consult this engine);
//   - everything else is denied.
func Allowed(p Principal, action Action, r Resource) bool {
	if action == ActionRead && (isCatalog(r.Kind) || isDiscussion(r.Kind)) {
		return true
	}

	if isCatalog(r.Kind) {
		return p.isAdmin()
	}

	if isDiscussion(r.Kind) {
		switch action {
		case ActionCreate:
			return p.Authenticated
		case ActionUpdate, ActionDelete:
			return p.owns(r) || p.isStaff()
		}
		return false
	}

	if r.Kind == ResourceUser {
		return p.isAdmin()
	}

	return false
}

// CanChangeRole reports whether the principal may change a user's role.
// A user or moderator patching their own profile has the role field
// silently discarded; only admins may assign roles.
func CanChangeRole(p Principal) bool {
	return p.isAdmin()
}
