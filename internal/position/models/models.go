// Package models defines the volunteer position aggregate.
package models

import (
	"time"

	"ongfinder/pkg/domain"
)

// Position is a volunteering opening published by an organization. Wire names
// stay in Portuguese for compatibility with the web client.
type Position struct {
	ID             domain.PositionID     `json:"id"`
	OrganizationID domain.OrganizationID `json:"ongId"`
	Title          string                `json:"titulo"`
	Description    string                `json:"descricao"`
	Active         bool                  `json:"ativa"`
	CreatedAt      time.Time             `json:"criadaEm"`
}

// Update carries a partial position edit. Nil fields keep the stored value.
type Update struct {
	Title       *string `json:"titulo"`
	Description *string `json:"descricao"`
	Active      *bool   `json:"ativa"`
}
