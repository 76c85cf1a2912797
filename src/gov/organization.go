package gov

import "strings"

// InitInput carries the one-time organization parameters.
type InitInput struct {
	Kind        OrgKind
	Name        string
	Description string
	ImageURL    string
	TokenRef    string
}

// InitOrganization creates the singleton organization. First caller wins;
// every later call fails with ErrAlreadyInitialized. Guild and hybrid
// organizations grant the creator the bootstrap founder role so the role
// lattice has a top to grow from, and every organization is seeded with the
// default proposal type so the registry is never empty.
func (e *Engine) InitOrganization(creator string, in InitInput) error {
	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	existing, err := e.store.Organization()
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyInitialized
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return ErrInvalidPayload
	}
	switch in.Kind {
	case OrgGuild:
	case OrgStandard, OrgHybrid:
		if in.TokenRef == "" {
			return ErrInvalidPayload
		}
	default:
		return ErrInvalidPayload
	}

	org := &Organization{
		Kind:                in.Kind,
		Name:                in.Name,
		Description:         in.Description,
		ImageURL:            in.ImageURL,
		TokenRef:            in.TokenRef,
		MinAdminWeight:      DefaultAdminFloor,
		MinSuperAdminWeight: DefaultSuperAdminFloor,
		CreatedAt:           e.unixNow(),
	}
	seed := &ProposalType{
		Name:               DefaultTypeName,
		Duration:           DefaultTypeDuration,
		MinWeightToVote:    DefaultTypeMinVote,
		MinWeightToCreate:  DefaultTypeMinCreate,
		MinWeightToExecute: DefaultTypeMinExecute,
	}

	var role *Role
	var member *Member
	if in.Kind == OrgGuild || in.Kind == OrgHybrid {
		role = &Role{Name: FounderRole, Weight: FounderRoleWeight}
		member = &Member{Address: creator, Role: FounderRole}
	}
	return e.store.InitOrganization(org, seed, role, member)
}

// Organization returns the singleton metadata.
func (e *Engine) Organization() (*Organization, error) {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	return e.organization()
}

// SetAdminFloor updates the weight floor gating role and member
// administration. Super-admin only.
func (e *Engine) SetAdminFloor(actor string, weight uint64) error {
	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	org, err := e.organization()
	if err != nil {
		return err
	}
	if err := e.requireFloor(org, actor, org.MinSuperAdminWeight); err != nil {
		return err
	}
	org.MinAdminWeight = weight
	return e.store.SaveOrganization(org)
}

// SetSuperAdminFloor updates the weight floor gating policy and floor
// administration. Super-admin only.
func (e *Engine) SetSuperAdminFloor(actor string, weight uint64) error {
	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	org, err := e.organization()
	if err != nil {
		return err
	}
	if err := e.requireFloor(org, actor, org.MinSuperAdminWeight); err != nil {
		return err
	}
	org.MinSuperAdminWeight = weight
	return e.store.SaveOrganization(org)
}

// applyOrgUpdate patches the fields present in the payload. Called from the
// execution dispatcher with the admin lock already held.
func (e *Engine) applyOrgUpdate(up *OrgUpdatePayload) error {
	org, err := e.organization()
	if err != nil {
		return err
	}
	if up.Name != nil {
		org.Name = *up.Name
	}
	if up.Description != nil {
		org.Description = *up.Description
	}
	if up.ImageURL != nil {
		org.ImageURL = *up.ImageURL
	}
	return e.store.SaveOrganization(org)
}
