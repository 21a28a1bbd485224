package models

import "strings"

// SourceContact is one row from the EBS Contacts table, carrying the
// property names the CRM expects. Email is the identity key and is stored
// normalized (lower-cased, trimmed).
type SourceContact struct {
	Email            string
	FirstName        string
	LastName         string
	StudentReference string
	DateOfBirth      string
	Age              int
	HasAge           bool
	SchoolCode       string

	// Optional fields; empty means absent and is omitted from payloads.
	Phone                   string
	MobilePhone             string
	Zip                     string
	SchoolTitle             string
	MarketingConsent        string
	MarketingContactMethods string
}

// Key returns the contact's normalized business key.
func (c SourceContact) Key() string {
	return NormalizeKey(c.Email)
}

// Properties builds the outbound CRM property map, omitting absent
// optional fields.
func (c SourceContact) Properties() (map[string]string, error) {
	props := map[string]string{
		"email":             c.Email,
		"firstname":         c.FirstName,
		"lastname":          c.LastName,
		"student_reference": c.StudentReference,
		"date_of_birth":     c.DateOfBirth,
		"school_code":       c.SchoolCode,
	}
	if c.HasAge {
		props["age"] = itoa(c.Age)
	}
	setIfPresent(props, "phone", c.Phone)
	setIfPresent(props, "mobilephone", c.MobilePhone)
	setIfPresent(props, "zip", c.Zip)
	setIfPresent(props, "school_title", c.SchoolTitle)
	setIfPresent(props, "marketing_consent", c.MarketingConsent)
	setIfPresent(props, "marketing_contact_methods", c.MarketingContactMethods)
	return props, nil
}

// JoinedContact is a contact together with the applications whose email
// matched it during the join.
type JoinedContact struct {
	Contact      SourceContact
	Applications []SourceApplication
}

// NormalizeKey folds case and trims whitespace so that keys from the
// source and the CRM compare equal despite case or whitespace drift.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func setIfPresent(props map[string]string, name, value string) {
	if value != "" {
		props[name] = value
	}
}
