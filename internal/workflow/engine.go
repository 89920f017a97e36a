package workflow

import (
	"context"
	"slices"

	"github.com/balarco/balarco-backend/pkg/db/models"
	"github.com/balarco/balarco-backend/pkg/enums"
	"github.com/google/uuid"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID    uuid.UUID
	Roles []enums.Role
}

// HasRole reports whether the actor belongs to role.
func (a *Actor) HasRole(role enums.Role) bool {
	return a != nil && slices.Contains(a.Roles, role)
}

// RoleLookup resolves the role groups of a user.
type RoleLookup interface {
	RolesFor(ctx context.Context, userID uuid.UUID) ([]enums.Role, error)
}

// ResolveActor loads the roles for userID. A nil user id yields a nil actor.
func ResolveActor(ctx context.Context, lookup RoleLookup, userID uuid.UUID) (*Actor, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	roles, err := lookup.RolesFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Actor{ID: userID, Roles: roles}, nil
}

// Engine answers which statuses a work may move into.
type Engine struct {
	table Table
}

// NewEngine builds an engine over table. A nil table uses DefaultTable.
func NewEngine(table Table) *Engine {
	if table == nil {
		table = DefaultTable()
	}
	return &Engine{table: table}
}

// NextStatuses returns the sorted union of statuses the actor's roles allow
// from the work's current status. It is empty for a work that was never
// persisted and for a missing actor.
func (e *Engine) NextStatuses(work *models.Work, actor *Actor) []enums.StatusID {
	if work == nil || work.ID == uuid.Nil || actor == nil {
		return []enums.StatusID{}
	}

	if actor.HasRole(enums.RoleSuperUsuario) {
		return enums.AllStatuses()
	}

	byRole := e.table[work.CurrentStatus]
	seen := make(map[enums.StatusID]struct{})
	next := make([]enums.StatusID, 0, len(enums.AllStatuses()))
	for _, role := range actor.Roles {
		for _, status := range byRole[role] {
			if _, ok := seen[status]; ok {
				continue
			}
			seen[status] = struct{}{}
			next = append(next, status)
		}
	}
	slices.Sort(next)
	return next
}

// Allows reports whether target is reachable for the actor.
func (e *Engine) Allows(work *models.Work, actor *Actor, target enums.StatusID) bool {
	return slices.Contains(e.NextStatuses(work, actor), target)
}
