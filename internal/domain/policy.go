package domain

// Authorization policy. Pure decisions over the caller's identity and, where
// relevant, the target user's role or the resource's owner id. Every mutating
// service method runs the matching check before touching storage.

// RequireAuthenticated denies anonymous callers.
func RequireAuthenticated(actor *Identity) error {
	if actor == nil || actor.UserID == 0 {
		return Unauthorized("Log in to access.")
	}
	return nil
}

// RequireAdmin allows admins and the owner.
func RequireAdmin(actor *Identity) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.Role.IsStaff() {
		return Forbidden("No permission.")
	}
	return nil
}

// RequireOwnerRole allows only the owner role.
func RequireOwnerRole(actor *Identity) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.Role != RoleOwner {
		return Forbidden("Owner only.")
	}
	return nil
}

// RequireOwnerOrAdmin allows staff, or the caller that owns the resource.
func RequireOwnerOrAdmin(actor *Identity, resourceOwnerID int64) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.Role.IsStaff() {
		return nil
	}
	if actor.UserID != resourceOwnerID {
		return Forbidden("You are not allowed to modify this resource.")
	}
	return nil
}

// CanPromote decides whether actor may raise target to admin. Admins may only
// promote plain users; nobody touches the owner. Callers must already have
// passed RequireAdmin.
func CanPromote(actor *Identity, target *User) error {
	if actor.Role == RoleAdmin && target.Role != RoleUser {
		return Forbidden("You cannot modify this user.")
	}
	if target.Role == RoleOwner {
		return Forbidden("Cannot modify the owner.")
	}
	return nil
}

// CanDemote decides whether actor may lower target to user. The endpoint is
// owner-gated; the admin branch is kept anyway so the check stands alone.
func CanDemote(actor *Identity, target *User) error {
	if target.Role == RoleOwner {
		return Forbidden("Cannot modify owner.")
	}
	if actor.Role == RoleAdmin && target.Role != RoleUser {
		return Forbidden("No permission.")
	}
	return nil
}

// CanDeleteUser decides whether actor may delete target. Self-deletion and
// owner-deletion are always denied; admins may only delete plain users.
func CanDeleteUser(actor *Identity, target *User) error {
	if actor.UserID == target.ID {
		return Forbidden("You cannot delete yourself.")
	}
	if actor.Role == RoleAdmin && target.Role != RoleUser {
		return Forbidden("Admins can only delete regular users.")
	}
	if target.Role == RoleOwner {
		return Forbidden("Cannot delete the owner.")
	}
	return nil
}
