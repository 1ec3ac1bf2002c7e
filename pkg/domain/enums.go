package domain

import (
	"fmt"
	"strings"
)

// UserKind tags the two authenticatable account types. Login requests carry it
// as "tipoUsuario" and tokens carry it back so handlers can dispatch without
// runtime type inspection.
type UserKind string

const (
	KindOrganization UserKind = "ong"
	KindVolunteer    UserKind = "voluntario"
)

// ParseUserKind normalizes and validates a user kind string.
func ParseUserKind(s string) (UserKind, error) {
	switch UserKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindOrganization:
		return KindOrganization, nil
	case KindVolunteer:
		return KindVolunteer, nil
	default:
		return "", fmt.Errorf("unknown user kind %q", s)
	}
}

// Category classifies an organization's field of work. Values match the
// registration form options.
type Category string

const (
	CategoryAnimal           Category = "animal"
	CategoryEnvironment      Category = "ambiente"
	CategoryHealth           Category = "saude"
	CategoryChildren         Category = "criancas"
	CategoryEducation        Category = "educacao"
	CategoryHumanRights      Category = "direitos-humanos"
	CategorySocialAssistance Category = "assistencia-social"
	CategoryCulture          Category = "cultura"
	CategoryOther            Category = "outra"
)

var categories = map[Category]struct{}{
	CategoryAnimal:           {},
	CategoryEnvironment:      {},
	CategoryHealth:           {},
	CategoryChildren:         {},
	CategoryEducation:        {},
	CategoryHumanRights:      {},
	CategorySocialAssistance: {},
	CategoryCulture:          {},
	CategoryOther:            {},
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categories[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Gender is a volunteer profile attribute; values match the registration form.
type Gender string

const (
	GenderMale   Gender = "masculino"
	GenderFemale Gender = "feminino"
	GenderOther  Gender = "outro"
)

func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	case GenderOther:
		return GenderOther, nil
	default:
		return "", fmt.Errorf("unknown gender %q", s)
	}
}

// ApplicationStatus is the review state of a candidacy. PENDENTE is the initial
// state; transitions are deliberately unguarded (an organization may re-set any
// status), matching the permissive review flow.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDENTE"
	StatusAccepted ApplicationStatus = "ACEITA"
	StatusRejected ApplicationStatus = "REJEITADA"
)

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	switch ApplicationStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusAccepted:
		return StatusAccepted, nil
	case StatusRejected:
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("unknown application status %q", s)
	}
}
