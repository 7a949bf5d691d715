package enrich

import (
	"github.com/sells-group/apollo-cli/internal/model"
	"github.com/sells-group/apollo-cli/pkg/apollo"
)

// ExtractPerson maps an Apollo person payload to a PersonRecord. It is pure
// and total: every missing field becomes an empty string, a missing mobile
// status defaults to "unavailable", and a nil organization leaves the
// company fields empty.
//
// The verified-mobile field is populated only when the raw status is exactly
// "verified"; the raw status itself is always carried through for
// diagnostics.
func ExtractPerson(p *apollo.Person) model.PersonRecord {
	if p == nil {
		return model.PersonRecord{MobileStatusRaw: model.MobileStatusUnavailable}
	}

	status := model.MobileStatus(p.MobilePhoneStatus)
	if status == "" {
		status = model.MobileStatusUnavailable
	}

	rec := model.PersonRecord{
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Title:           p.Title,
		Email:           p.Email,
		LinkedInURL:     p.LinkedInURL,
		MobileStatusRaw: status,
		PersonID:        p.ID,
	}

	if status == model.MobileStatusVerified {
		rec.VerifiedMobile = p.MobilePhoneNumber
	}

	if org := p.Organization; org != nil {
		rec.CompanyName = org.Name
		rec.CompanyWebsite = org.WebsiteURL
		rec.CompanyIndustry = org.Industry
	}

	return rec
}
