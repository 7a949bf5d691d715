package model

// MobileStatus is the raw mobile phone status reported by Apollo.
type MobileStatus string

const (
	MobileStatusVerified    MobileStatus = "verified"
	MobileStatusUnlocked    MobileStatus = "unlocked"
	MobileStatusUnavailable MobileStatus = "unavailable"
	MobileStatusNoPhone     MobileStatus = "no_phone"
)

// Unlockable reports whether a credit-consuming unlock should be attempted
// for this status. A number already verified or already paid for is never
// re-unlocked; any other status (including ones Apollo may add later) is.
func (s MobileStatus) Unlockable() bool {
	return s != MobileStatusVerified && s != MobileStatusUnlocked
}

// RowStatus is the terminal state of a single input URL.
type RowStatus string

const (
	RowStatusEnriched   RowStatus = "Enriched"
	RowStatusInvalidURL RowStatus = "Invalid URL"
	RowStatusNoMatch    RowStatus = "No Match"
)

// PersonRecord is one normalized output row of the enrichment batch.
//
// VerifiedMobile is populated if and only if the most recent known mobile
// status is exactly "verified", whether that was established by the match
// stage or after a successful unlock.
type PersonRecord struct {
	FirstName       string       `json:"first_name"`
	LastName        string       `json:"last_name"`
	Title           string       `json:"title"`
	CompanyName     string       `json:"company_name"`
	CompanyWebsite  string       `json:"company_website"`
	CompanyIndustry string       `json:"company_industry"`
	Email           string       `json:"email"`
	VerifiedMobile  string       `json:"verified_mobile"`
	LinkedInURL     string       `json:"linkedin_url"`
	MobileStatusRaw MobileStatus `json:"mobile_status_raw"`
	PersonID        string       `json:"person_id"`
	CreditsUsed     int          `json:"credits_used"`
	Status          RowStatus    `json:"status"`
}
