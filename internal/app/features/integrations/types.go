// internal/app/features/integrations/types.go
package integrationsfeature

import (
	"github.com/mionacs/ayycode/internal/domain/models"
)

// ConnectRequest is the body for PUT /api/integrations/{username}/{platform}.
type ConnectRequest struct {
	Identity string `json:"identity"`
}

// ConnectResponse confirms a stored connection.
type ConnectResponse struct {
	Platform models.Platform `json:"platform"`
	Identity string          `json:"identity"`
}

// SyncResponse reports the outcome of a forced refresh.
type SyncResponse struct {
	Platform models.Platform `json:"platform"`
	Identity string          `json:"identity"`
	Year     int             `json:"year"`
	Samples  int             `json:"samples"`
}
