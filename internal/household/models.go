package household

import "time"

// Parent is a registered guardian.
type Parent struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty"`
	Org   string `json:"org,omitempty"`
}

// Child is a child profile used to tailor plans and stories.
type Child struct {
	Name        string  `json:"name" validate:"required,max=64"`
	AgeYears    float64 `json:"age_years" validate:"gte=0,lte=12"`
	Language    string  `json:"language" validate:"omitempty,oneof=en nl"`
	Temperament string  `json:"temperament,omitempty"`
}

// WithDefaults fills the optional fields the way new profiles expect them.
func (c Child) WithDefaults() Child {
	if c.Language == "" {
		c.Language = "en"
	}
	if c.Temperament == "" {
		c.Temperament = "balanced"
	}
	return c
}

// Session is a supervised activity session that saved a parent some time.
type Session struct {
	ID        string    `json:"id"`
	Child     Child     `json:"child"`
	Duration  int       `json:"duration"`
	Goal      string    `json:"goal"`
	StartedAt time.Time `json:"started_at"`
}

// Org is an employer account for the SSO edition.
type Org struct {
	OrgID  string `json:"org_id" validate:"required,max=64"`
	Name   string `json:"name" validate:"required"`
	Domain string `json:"domain,omitempty" validate:"omitempty,fqdn"`
}
