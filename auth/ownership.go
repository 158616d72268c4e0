package auth

import (
	"strings"

	"github.com/google/uuid"
)

// Owned is implemented by resources that record their creator. The
// owner id is set at creation and never reassigned.
type Owned interface {
	OwnerID() uuid.UUID
}

// AuthorizeOwner permits a mutation only when the requester is the
// resource's recorded owner. Both sides are normalized to uuid values
// before comparison; anything that does not normalize, including an
// empty or garbled requester id, is treated as not-authorized. Reads
// and creations never pass through here.
func AuthorizeOwner(resource Owned, requesterID string) error {
	if resource == nil {
		return ErrNotResourceOwner
	}

	requester, err := uuid.Parse(strings.TrimSpace(requesterID))
	if err != nil {
		return ErrNotResourceOwner
	}

	owner := resource.OwnerID()
	if owner == uuid.Nil || requester == uuid.Nil || owner != requester {
		return ErrNotResourceOwner
	}

	return nil
}
