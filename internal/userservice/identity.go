package userservice

import "strings"

// The authorization guard. Ownership is the primary axis: role never grants
// the right to edit or delete another identity's content. The admin role only
// widens read scope and grants comment moderation.

func (i *Identity) IsAnonymous() bool {
	return i.Email == ""
}

func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanRead reports whether the identity may read a resource owned by
// ownerEmail. Admins read everything; writers read their own.
func (i *Identity) CanRead(ownerEmail string) bool {
	if i.IsAnonymous() {
		return false
	}
	if i.Role == RoleAdmin {
		return true
	}

	return strings.EqualFold(i.Email, ownerEmail)
}

// CanMutate reports whether the identity may update, delete, or toggle the
// publish state of a resource owned by ownerEmail. The owner match is
// case-insensitive and role plays no part.
func (i *Identity) CanMutate(ownerEmail string) bool {
	if i.IsAnonymous() || ownerEmail == "" {
		return false
	}

	return strings.EqualFold(i.Email, ownerEmail)
}

// CanModerateComment reports whether the identity may approve or
// moderation-delete comments. Admin only.
func (i *Identity) CanModerateComment() bool {
	return !i.IsAnonymous() && i.Role == RoleAdmin
}

// CanDeleteOwnComment reports whether the identity authored the comment.
// Anonymous comments have no deletable owner; only moderation removes them.
func (i *Identity) CanDeleteOwnComment(authorEmail *string) bool {
	if i.IsAnonymous() || authorEmail == nil || *authorEmail == "" {
		return false
	}

	return strings.EqualFold(i.Email, *authorEmail)
}
