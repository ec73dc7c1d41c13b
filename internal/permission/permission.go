// Package permission holds the access-control predicates. Every check is a
// pure function over (role, ownership, method safety) so the rules live in
// one place instead of being duplicated across services.
package permission

import (
	"net/http"

	"reviewhub.app/reviewhub/internal/model"
)

// IsPrivileged reports whether the role may act on resources it does not own.
func IsPrivileged(role string) bool {
	return role == model.RoleAdmin || role == model.RoleModerator
}

// IsSafeMethod reports whether the HTTP method is read-only.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CanModifyObject decides whether a principal may mutate a review or comment.
// Authors may touch their own; moderators and admins may touch any.
func CanModifyObject(role string, isOwner bool) bool {
	return isOwner || IsPrivileged(role)
}

// Allows is the general predicate: safe methods always pass, writes require
// ownership or privilege.
func Allows(method, role string, isOwner bool) bool {
	if IsSafeMethod(method) {
		return true
	}
	return CanModifyObject(role, isOwner)
}
