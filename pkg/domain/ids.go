// Package domain holds the shared value types of the platform: entity
// identifiers, enumerations, and the embedded address record. Keeping these in
// one dependency-free package lets stores, services, and handlers agree on
// vocabulary without importing each other.
package domain

import "strconv"

// Entity identifiers are database serials. Typed aliases keep an organization
// id from being passed where a volunteer id is expected.
type (
	OrganizationID int64
	VolunteerID    int64
	PositionID     int64
	ApplicationID  int64
)

func (id OrganizationID) Int64() int64 { return int64(id) }
func (id VolunteerID) Int64() int64    { return int64(id) }
func (id PositionID) Int64() int64     { return int64(id) }
func (id ApplicationID) Int64() int64  { return int64(id) }

// ParseOrganizationID parses a decimal id as found in URL paths.
func ParseOrganizationID(s string) (OrganizationID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	return OrganizationID(n), err
}

func ParseVolunteerID(s string) (VolunteerID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	return VolunteerID(n), err
}

func ParsePositionID(s string) (PositionID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	return PositionID(n), err
}

func ParseApplicationID(s string) (ApplicationID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	return ApplicationID(n), err
}
