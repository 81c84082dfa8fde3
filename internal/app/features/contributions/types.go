// internal/app/features/contributions/types.go
package contributionsfeature

import (
	"github.com/mionacs/ayycode/internal/domain/models"
)

// PlatformSeriesResponse is the body for the single-platform endpoint.
type PlatformSeriesResponse struct {
	Platform models.Platform       `json:"platform"`
	Identity string                `json:"identity"`
	Series   *models.ServiceSeries `json:"series"`
}
