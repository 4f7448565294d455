package types

import "strings"

// Availability describes whether a candidate can take on new work
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityBusy        Availability = "busy"
	AvailabilityUnavailable Availability = "unavailable"
)

// Valid reports whether the availability value is one of the known states
func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityBusy, AvailabilityUnavailable:
		return true
	}
	return false
}

// CandidateProfile is an immutable roster record. The engine treats profiles
// as read-only input; ownership of the data belongs to the candidate store.
type CandidateProfile struct {
	ID              int64        `json:"id"`
	Name            string       `json:"name"`
	Skills          []string     `json:"skills"` // normalized lowercase skill names
	ExperienceYears int          `json:"experience_years"`
	Projects        []string     `json:"projects"`
	Availability    Availability `json:"availability"`
}

// Validate checks if the candidate profile is valid
func (c *CandidateProfile) Validate() error {
	if c.ID <= 0 {
		return ErrInvalidCandidateID
	}

	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCandidateName
	}

	if c.ExperienceYears < 0 {
		return ErrNegativeExperience
	}

	if !c.Availability.Valid() {
		return ErrInvalidAvailability
	}

	return nil
}

// Clone returns a deep copy so that callers can hold a profile across
// index rebuilds without aliasing the roster snapshot.
func (c *CandidateProfile) Clone() CandidateProfile {
	out := *c
	out.Skills = append([]string(nil), c.Skills...)
	out.Projects = append([]string(nil), c.Projects...)
	return out
}
