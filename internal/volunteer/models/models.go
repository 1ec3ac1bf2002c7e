// Package models defines the volunteer aggregate.
package models

import (
	"ongfinder/pkg/domain"
)

// Volunteer is an individual account looking for work with the registered
// organizations. Wire names stay in Portuguese for compatibility with the web
// client.
//
// Invariants:
//   - Email and CPF are unique across volunteers; phone is unique when set
//   - BirthDate is in the past and yields an age between 16 and 120
//   - An inactive volunteer cannot authenticate
type Volunteer struct {
	ID           domain.VolunteerID `json:"id"`
	FullName     string             `json:"nomeCompleto"`
	CPF          string             `json:"cpf"`
	BirthDate    domain.Date        `json:"dataNascimento"`
	Gender       domain.Gender      `json:"genero"`
	Phone        string             `json:"telefone,omitempty"`
	Email        string             `json:"email"`
	PasswordHash string             `json:"-"`
	Active       bool               `json:"ativo"`
	Address      domain.Address     `json:"endereco"`
}

func (v *Volunteer) AccountID() int64       { return int64(v.ID) }
func (v *Volunteer) DisplayName() string    { return v.FullName }
func (v *Volunteer) AccountEmail() string   { return v.Email }
func (v *Volunteer) HashedPassword() string { return v.PasswordHash }
func (v *Volunteer) IsActive() bool         { return v.Active }

// ProfileUpdate carries a partial profile edit. Nil fields are left untouched
// by the merge; provided fields are validated before anything is persisted.
type ProfileUpdate struct {
	FullName  *string        `json:"nomeCompleto"`
	BirthDate *domain.Date   `json:"dataNascimento"`
	Gender    *string        `json:"genero"`
	Phone     *string        `json:"telefone"`
	Email     *string        `json:"email"`
	Address   *domain.Address `json:"endereco"`
}
