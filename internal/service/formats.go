package service

import "nameofperson/internal/domain"

// FormatReport lists every rendering of a single name
type FormatReport struct {
	First       string `json:"first"`
	Last        string `json:"last,omitempty"`
	Full        string `json:"full"`
	Sorted      string `json:"sorted"`
	Abbreviated string `json:"abbreviated"`
	Familiar    string `json:"familiar"`
	Initials    string `json:"initials"`
	Mentionable string `json:"mentionable"`
	Possessive  string `json:"possessive"`
}

// Formats renders name in every supported format. It returns nil for a nil name.
func Formats(name *domain.PersonName) *FormatReport {
	if name == nil {
		return nil
	}

	// full is always a valid format
	possessive, _ := name.Possessive(domain.FormatFull)

	return &FormatReport{
		First:       name.First(),
		Last:        name.Last(),
		Full:        name.Full(),
		Sorted:      name.Sorted(),
		Abbreviated: name.Abbreviated(),
		Familiar:    name.Familiar(),
		Initials:    name.Initials(),
		Mentionable: name.Mentionable(),
		Possessive:  possessive,
	}
}
