package domain

import "regexp"

// Address is embedded in organizations and volunteers; it is not an entity of
// its own and has no identifier.
type Address struct {
	Street       string `json:"logradouro,omitempty"`
	Neighborhood string `json:"bairro,omitempty"`
	City         string `json:"cidade,omitempty"`
	State        string `json:"estado,omitempty"`
	PostalCode   string `json:"cep,omitempty"`
}

var postalCodeRe = regexp.MustCompile(`^\d{5}-?\d{3}$`)

// ValidPostalCode reports whether cep matches the 5-digit, optional hyphen,
// 3-digit CEP format. The empty string is not valid; callers decide whether an
// absent postal code is acceptable.
func ValidPostalCode(cep string) bool {
	return postalCodeRe.MatchString(cep)
}

var phoneRe = regexp.MustCompile(`^\(?\d{2}\)?\d{4,5}-?\d{4}$`)

// ValidPhone reports whether phone matches the national format: 2-digit area
// code with optional parentheses, 4-5 digit prefix, optional hyphen, 4-digit
// suffix.
func ValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}
