package models

type WorkerProfile struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"user_id"`
	FullName        string `json:"full_name,omitempty"`
	TradeCategoryID int64  `json:"trade_category_id,omitempty"`
	Specialty       string `json:"specialty,omitempty"`
	YearsExperience int    `json:"years_experience"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	LocationID      int64  `json:"location_id,omitempty"`
	Available       bool   `json:"available"`
	Currency        string `json:"currency,omitempty"`
}

// CandidateProfile is the general (non-worker) profile of a user.
type CandidateProfile struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	FullName    string `json:"full_name,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Profession  string `json:"profession,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	LocationID  int64  `json:"location_id,omitempty"`
}

// DisplayName prefers the full name and falls back to first + last.
func (c *CandidateProfile) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.FullName != "" {
		return c.FullName
	}
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	default:
		return c.LastName
	}
}
