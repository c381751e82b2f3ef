package models

import "time"

// License represents a license key document. The key itself is the document
// ID in the licenses collection.
type License struct {
	Key          string     `json:"key"`
	Plan         string     `json:"plan"`
	Valid        bool       `json:"valid"`
	UsedBy       string     `json:"usedBy,omitempty"`
	UsedAt       *time.Time `json:"usedAt,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	CreatedBy    string     `json:"createdBy,omitempty"`
	ValidityDays int        `json:"validityDays"`
}

// LicenseFromDoc decodes a licenses-collection document. A license with no
// explicit valid field is treated as valid.
func LicenseFromDoc(key string, data map[string]interface{}) *License {
	l := &License{
		Key:       key,
		Plan:      docString(data, "plan"),
		UsedBy:    docString(data, "usedBy"),
		CreatedBy: docString(data, "createdBy"),
	}
	if valid, ok := docBool(data, "valid"); ok {
		l.Valid = valid
	} else {
		l.Valid = true
	}
	l.ValidityDays, _ = docInt(data, "validityDays")
	l.UsedAt = docTime(data, "usedAt")
	l.CreatedAt = docTime(data, "createdAt")
	return l
}
