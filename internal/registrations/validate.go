package registrations

import (
	"regexp"
	"strings"
)

// emailRx is the standard loose address check; deliverability is probed
// separately by the verify package.
var emailRx = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// DomainInterests is the closed set of workshop interest categories the
// registration form offers.
var DomainInterests = []string{
	"Design",
	"Verification",
	"Physical Design",
	"DFT",
	"Analog Layout",
	"Embedded",
}

func validEmail(s string) bool {
	return emailRx.MatchString(strings.TrimSpace(s))
}

func validDomainInterest(s string) bool {
	for _, d := range DomainInterests {
		if strings.EqualFold(d, s) {
			return true
		}
	}
	return false
}

// WorkshopRegistrationRequest is the body for POST /api/payment/workshop/dummy-pay.
type WorkshopRegistrationRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	DomainInterest string `json:"domainInterest"`
	WhatsappOptIn  bool   `json:"whatsappOptIn"`
}

// Validate returns the names of missing or malformed fields.
func (r WorkshopRegistrationRequest) Validate() []string {
	var fields []string
	if strings.TrimSpace(r.Name) == "" {
		fields = append(fields, "name")
	}
	if !validEmail(r.Email) {
		fields = append(fields, "email")
	}
	if strings.TrimSpace(r.Phone) == "" {
		fields = append(fields, "phone")
	}
	if !validDomainInterest(r.DomainInterest) {
		fields = append(fields, "domainInterest")
	}
	return fields
}

// CohortEnrollmentRequest is the body for POST /api/payment/cohort/dummy-pay.
// Phone is optional for cohort enrollment.
type CohortEnrollmentRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate returns the names of missing or malformed fields.
func (r CohortEnrollmentRequest) Validate() []string {
	var fields []string
	if strings.TrimSpace(r.Name) == "" {
		fields = append(fields, "name")
	}
	if !validEmail(r.Email) {
		fields = append(fields, "email")
	}
	return fields
}
