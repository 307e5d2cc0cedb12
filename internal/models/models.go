package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ClassificationKind distinguishes the three championship standings types.
type ClassificationKind string

const (
	KindDrivers       ClassificationKind = "DRIVERS"
	KindTeams         ClassificationKind = "TEAMS"
	KindManufacturers ClassificationKind = "MANUFACTURERS"
)

// ParseClassificationKind converts a database type string to a ClassificationKind.
func ParseClassificationKind(s string) (ClassificationKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(KindDrivers):
		return KindDrivers, nil
	case string(KindTeams):
		return KindTeams, nil
	case string(KindManufacturers):
		return KindManufacturers, nil
	}
	return "", fmt.Errorf("unknown classification kind %q", s)
}

// Classification is one championship sub-standings (e.g. "GTE-Am Teams").
// Immutable once loaded for a scoring run.
type Classification struct {
	ID             int                `json:"id"`
	Name           string             `json:"name"`
	ChampionshipID int                `json:"championship_id"`
	Season         string             `json:"season"`
	Kind           ClassificationKind `json:"kind"`
	SeasonRounds   int                `json:"season_rounds"`
	// ScoringCars is the raw scoring-car cap for MANUFACTURERS
	// classifications, either a number or "ALL". Empty for other kinds.
	ScoringCars string `json:"scoring_cars,omitempty"`
}

// ScoringCap is the per-classification manufacturer scoring-car cap.
type ScoringCap struct {
	Unlimited bool
	Cars      int
}

// ParseScoringCap parses the database cap encoding: "ALL" means every car
// may score, anything else must be a non-negative integer.
func ParseScoringCap(s string) (ScoringCap, error) {
	trimmed := strings.TrimSpace(s)
	if strings.EqualFold(trimmed, "ALL") {
		return ScoringCap{Unlimited: true}, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 {
		return ScoringCap{}, fmt.Errorf("invalid scoring cap %q", s)
	}
	return ScoringCap{Cars: n}, nil
}

// String returns the database encoding of the cap.
func (c ScoringCap) String() string {
	if c.Unlimited {
		return "ALL"
	}
	return strconv.Itoa(c.Cars)
}

// Result statuses as they appear in timing exports. Statuses outside this
// set are a data-quality problem, not an error.
const (
	StatusClassified           = "Classified"
	StatusNotClassified        = "Not classified"
	StatusRetired              = "Retired"
	StatusDisqualified         = "Disqualified"
	StatusClassifiedNonscoring = "Classified, nonscoring"
)

// Style describes presentation of one result cell in a wiki table.
type Style struct {
	ID         int    `json:"id"`
	Background string `json:"background"`
	Text       string `json:"text,omitempty"` // empty means inherit
	Bold       bool   `json:"bold"`
}

// StyledPosition maps a finishing position to its points and style for one
// points scale and session.
type StyledPosition struct {
	ID       int     `json:"id"`
	Position int     `json:"position"`
	Points   float64 `json:"points"`
	Style    Style   `json:"style"`
}

// StyledStatus maps a non-scoring status string to its style.
type StyledStatus struct {
	Status string `json:"status"`
	Style  Style  `json:"style"`
}

// Championship is a racing series.
type Championship struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Session is a scoring session of a race weekend as stored in the database.
type Session struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Session names seeded by the migrations.
const (
	SessionPractice   = "PRACTICE"
	SessionQualifying = "QUALIFYING"
	SessionRace       = "RACE"
)

// IsRace reports whether the session is a race.
func (s Session) IsRace() bool {
	return strings.EqualFold(s.Name, SessionRace)
}

// IsQualifying reports whether the session is a qualifying session.
func (s Session) IsQualifying() bool {
	return strings.EqualFold(s.Name, SessionQualifying)
}

// AwardedPoints is the multiplier applied to every base point value of a
// session. Organizers may halve race points after a shortened race.
type AwardedPoints float64

const (
	FullPoints AwardedPoints = 1.0
	HalfPoints AwardedPoints = 0.5
)

// Driver is a known driver in the entity directory.
type Driver struct {
	ID          int    `json:"id"`
	Codename    string `json:"codename"`
	Nationality string `json:"nationality,omitempty"`
}

// Team is a known team. Codenames follow the "#<car number> <name>"
// convention of timing exports, so one organization entering two cars is
// two teams.
type Team struct {
	ID          int    `json:"id"`
	Codename    string `json:"codename"`
	Nationality string `json:"nationality,omitempty"`
}

// TeamEntry is a team's entry in one championship, with its scoring flag.
// Rows of non-scoring entries (guest entries) are skipped before scoring.
type TeamEntry struct {
	Team    Team `json:"team"`
	Scoring bool `json:"scoring"`
}

// Manufacturer is a known car manufacturer.
type Manufacturer struct {
	ID       int    `json:"id"`
	Codename string `json:"codename"`
	Flag     string `json:"flag,omitempty"`
}

// ClassificationSlot holds the scoring outcome of one row in one
// classification. Position is the assigned finishing position as text, or
// the status literal for rows that finished outside the scoring statuses.
// A nil StyleID means the slot stays unset and must not be persisted.
type ClassificationSlot struct {
	Classification *Classification `json:"classification,omitempty"`
	Position       string          `json:"position,omitempty"`
	Points         float64         `json:"points,omitempty"`
	StyleID        *int            `json:"style_id,omitempty"`
}

// Assigned reports whether the engine attached a style to the slot.
func (s ClassificationSlot) Assigned() bool {
	return s.StyleID != nil
}

// EligibleClassifications is the per-row eligibility decision: up to one
// classification of each kind, filled in by the eligibility resolver and
// annotated by the scoring engine.
type EligibleClassifications struct {
	Driver       ClassificationSlot `json:"driver"`
	Team         ClassificationSlot `json:"team"`
	Manufacturer ClassificationSlot `json:"manufacturer"`
}

// ResultRow is one car's outcome in one session, possibly shared by up to
// four drivers. Rows stay in finishing order; that order is what the
// position counters consume.
type ResultRow struct {
	Drivers      []Driver
	Team         Team
	Manufacturer *Manufacturer
	Status       string
	Eligible     EligibleClassifications
}

// Score is one persisted score record. Place keeps the string form so that
// status literals ("Retired") survive next to integer positions.
type Score struct {
	ClassificationID int     `json:"classification_id"`
	RoundNumber      int     `json:"round_number"`
	SessionID        int     `json:"session_id"`
	EntityID         int     `json:"entity_id"`
	Place            string  `json:"place"`
	Points           float64 `json:"points"`
	StyleID          int     `json:"style_id"`
}

// RoundResult is one stored result of an entity in a classification, as
// consumed by table renderers.
type RoundResult struct {
	RoundNumber int     `json:"round_number"`
	Session     string  `json:"session"`
	Place       string  `json:"place"`
	Points      float64 `json:"points"`
	Style       Style   `json:"style"`
}

// IsQualifying reports whether the result came from a qualifying session.
func (r RoundResult) IsQualifying() bool {
	return strings.EqualFold(r.Session, SessionQualifying)
}
