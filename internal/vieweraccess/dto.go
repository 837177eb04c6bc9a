package vieweraccess

import (
	"github.com/google/uuid"
)

// ReplaceGrantsRequest sets the full list of accounts a viewer may read.
// The previous grant set is discarded.
type ReplaceGrantsRequest struct {
	AccountIDs []uuid.UUID `json:"account_ids" validate:"required,max=100"`
}

// GrantsDTO reports the viewer's current grant set.
type GrantsDTO struct {
	ViewerID   uuid.UUID   `json:"viewer_id"`
	AccountIDs []uuid.UUID `json:"account_ids"`
}
