// Package models defines the organization aggregate and its read models.
package models

import (
	"ongfinder/pkg/domain"
)

// Organization is a registered ONG. Wire names stay in Portuguese for
// compatibility with the web client.
//
// Invariants:
//   - Email and CNPJ are unique across organizations
//   - Category is one of the fixed enumeration values
//   - An inactive organization cannot authenticate
type Organization struct {
	ID           domain.OrganizationID `json:"id"`
	Name         string                `json:"nome"`
	CNPJ         string                `json:"cnpj"`
	Category     domain.Category       `json:"categoria"`
	Website      string                `json:"website,omitempty"`
	PhotoURL     string                `json:"urlFoto,omitempty"`
	Phone        string                `json:"telefone,omitempty"`
	Email        string                `json:"email"`
	PasswordHash string                `json:"-"`
	Active       bool                  `json:"ativo"`
	Address      domain.Address        `json:"endereco"`
}

// Authenticatable capability, shared with Volunteer and dispatched by the
// tagged user kind at login.

func (o *Organization) AccountID() int64      { return int64(o.ID) }
func (o *Organization) DisplayName() string   { return o.Name }
func (o *Organization) AccountEmail() string  { return o.Email }
func (o *Organization) HashedPassword() string { return o.PasswordHash }
func (o *Organization) IsActive() bool        { return o.Active }

// SearchFilter holds the optional directory filters. Empty fields impose no
// constraint; provided fields AND together and match case-insensitively on the
// exact value.
type SearchFilter struct {
	Name         string
	Category     domain.Category
	City         string
	State        string
	Neighborhood string
}

// IsZero reports whether no filter was provided.
func (f SearchFilter) IsZero() bool {
	return f == SearchFilter{}
}

// Dashboard carries the aggregate counts shown on the organization's home
// screen.
type Dashboard struct {
	ActivePositions    int64 `json:"numVagasAtivas"`
	TotalApplications  int64 `json:"numCandidaturas"`
	DistinctApplicants int64 `json:"numVoluntarios"`
}
