// internal/workers/disposition/compose-outreach/models.go
package composeoutreach

import "disposition-engine/internal/models"

type Input struct {
	models.OutreachComposeRequest
}

type Output struct {
	OutreachPacket *models.OutreachComposeResponse `json:"outreachPacket"`
}
