// Package models defines the application aggregate linking volunteers to
// positions.
package models

import (
	"time"

	"ongfinder/pkg/domain"
)

// Application records a volunteer's interest in a position, together with the
// review decision taken by the owning organization.
type Application struct {
	ID          domain.ApplicationID     `json:"id"`
	PositionID  domain.PositionID        `json:"vagaId"`
	VolunteerID domain.VolunteerID       `json:"voluntarioId"`
	Status      domain.ApplicationStatus `json:"status"`
	CreatedAt   time.Time                `json:"criadaEm"`
}

// Summary is the review-screen projection: the application joined with the
// volunteer's name and the position's title.
type Summary struct {
	ID            domain.ApplicationID     `json:"id"`
	VolunteerName string                   `json:"voluntarioNome"`
	PositionTitle string                   `json:"vagaTitulo"`
	Status        domain.ApplicationStatus `json:"status"`
}
