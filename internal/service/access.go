package service

import (
	"github.com/eventsnap/eventsnap-backend/internal/models"
)

// Access policy for the three authenticated actor kinds. Every mutating
// service method calls these again right before the mutation, not only in the
// routing layer, so a stale token or a transferred event cannot slip through.

// CanModerateEvent reports whether the principal may read unfiltered photo
// lists, transition photo statuses and delete photos of the event. A host
// credential bound to a different event gets AccessDenied, never NotFound.
func CanModerateEvent(p models.Principal, event *models.Event) error {
	switch p.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleOrganizer:
		if event.OwnerID != nil && *event.OwnerID == p.UserID {
			return nil
		}
	case models.RoleHost:
		if p.EventPublicID == event.PublicID {
			return nil
		}
	}
	return models.ErrAccessDenied
}

// CanUpdateEvent covers title/date/description/settings changes. Hosts may
// update their one event; organizers their own; admins any.
func CanUpdateEvent(p models.Principal, event *models.Event) error {
	return CanModerateEvent(p, event)
}

// CanDeleteEvent is narrower: only the owning organizer or an admin may
// retire an event. Host credentials cannot destroy their own scope.
func CanDeleteEvent(p models.Principal, event *models.Event) error {
	switch p.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleOrganizer:
		if event.OwnerID != nil && *event.OwnerID == p.UserID {
			return nil
		}
	}
	return models.ErrAccessDenied
}
