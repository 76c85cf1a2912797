package gov

import "strings"

// requireFloor checks that the actor's role weight meets an administrative
// floor. Standard organizations have no role lattice, so every direct
// administrative path fails there with ErrNotMember; change arrives through
// proposals instead.
func (e *Engine) requireFloor(org *Organization, actor string, floor uint64) error {
	if org.Kind == OrgStandard {
		return ErrNotMember
	}
	role, err := e.memberRole(actor)
	if err != nil {
		return err
	}
	if role.Weight < floor {
		return ErrInsufficientRoleWeight
	}
	return nil
}

// UpsertRole creates or redefines a role. The actor needs the admin floor
// and must sit strictly above both the role's old weight and its new one:
// admins can only shape the lattice beneath themselves.
func (e *Engine) UpsertRole(actor, name string, weight uint64) error {
	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	org, err := e.organization()
	if err != nil {
		return err
	}
	if err := e.requireFloor(org, actor, org.MinAdminWeight); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidRole
	}

	self, err := e.memberRole(actor)
	if err != nil {
		return err
	}
	if weight >= self.Weight {
		return ErrInsufficientRoleWeight
	}
	existing, err := e.store.Role(name)
	if err != nil {
		return err
	}
	if existing != nil && existing.Weight >= self.Weight {
		return ErrInsufficientRoleWeight
	}
	return e.store.SaveRole(&Role{Name: name, Weight: weight})
}

// RemoveRole deletes an unassigned role. Removal is allowed at equal weight
// so peers can retire each other's definitions, but a role still worn by any
// member stays.
func (e *Engine) RemoveRole(actor, name string) error {
	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	org, err := e.organization()
	if err != nil {
		return err
	}
	if err := e.requireFloor(org, actor, org.MinAdminWeight); err != nil {
		return err
	}
	role, err := e.store.Role(name)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrInvalidRole
	}
	self, err := e.memberRole(actor)
	if err != nil {
		return err
	}
	if role.Weight > self.Weight {
		return ErrInsufficientRoleWeight
	}
	holders, err := e.store.MembersWithRole(name)
	if err != nil {
		return err
	}
	if holders > 0 {
		return ErrRoleInUse
	}
	return e.store.DeleteRole(name)
}

// AddMember assigns a role to an address, creating or moving the membership.
// The actor must sit strictly above the granted role, and when the address
// already holds one, strictly above the current role too.
func (e *Engine) AddMember(actor, address, roleName string) error {
	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	org, err := e.organization()
	if err != nil {
		return err
	}
	if err := e.requireFloor(org, actor, org.MinAdminWeight); err != nil {
		return err
	}
	role, err := e.store.Role(roleName)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrInvalidRole
	}
	self, err := e.memberRole(actor)
	if err != nil {
		return err
	}
	if role.Weight >= self.Weight {
		return ErrInsufficientRoleWeight
	}
	current, err := e.store.Member(address)
	if err != nil {
		return err
	}
	if current != nil {
		held, err := e.store.Role(current.Role)
		if err != nil {
			return err
		}
		if held != nil && held.Weight >= self.Weight {
			return ErrInsufficientRoleWeight
		}
	}
	return e.store.SaveMember(&Member{Address: address, Role: roleName})
}

// RemoveMember strips an address of its membership. Equal weight suffices,
// so an admin can remove a peer (or resign).
func (e *Engine) RemoveMember(actor, address string) error {
	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	org, err := e.organization()
	if err != nil {
		return err
	}
	if err := e.requireFloor(org, actor, org.MinAdminWeight); err != nil {
		return err
	}
	target, err := e.store.Member(address)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotMember
	}
	held, err := e.store.Role(target.Role)
	if err != nil {
		return err
	}
	self, err := e.memberRole(actor)
	if err != nil {
		return err
	}
	if held != nil && held.Weight > self.Weight {
		return ErrInsufficientRoleWeight
	}
	return e.store.DeleteMember(address)
}

// Roles lists every role definition.
func (e *Engine) Roles() ([]Role, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	if _, err := e.organization(); err != nil {
		return nil, err
	}
	return e.store.Roles()
}

// Members lists every membership.
func (e *Engine) Members() ([]Member, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	if _, err := e.organization(); err != nil {
		return nil, err
	}
	return e.store.Members()
}

// MemberRole returns the role an address holds.
func (e *Engine) MemberRole(address string) (*Role, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	if _, err := e.organization(); err != nil {
		return nil, err
	}
	return e.memberRole(address)
}
