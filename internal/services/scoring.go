package services

import (
	"strconv"

	"github.com/emerald-arrow/wikipedia-tools/internal/logger"
	"github.com/emerald-arrow/wikipedia-tools/internal/models"
)

// ScoringService computes positions, points and result styles for one
// session's rows across every classification they are eligible for.
type ScoringService struct {
	log logger.Logger
}

// NewScoringService creates a new ScoringService
func NewScoringService(log logger.Logger) *ScoringService {
	return &ScoringService{log: log}
}

// budgetKey identifies one manufacturer's budget in one classification.
type budgetKey struct {
	manufacturerID int
	classification string
}

// ManufacturerBudgets tracks how many cars of each manufacturer may still
// score in each manufacturers' classification. Budgets live for one scoring
// run only.
type ManufacturerBudgets struct {
	remaining map[budgetKey]int
	unlimited map[string]bool
}

// NewManufacturerBudgets initializes budgets for every manufacturer in
// every capped classification. The caps map is keyed by classification name.
func NewManufacturerBudgets(manufacturers []models.Manufacturer, caps map[string]models.ScoringCap) *ManufacturerBudgets {
	b := &ManufacturerBudgets{
		remaining: make(map[budgetKey]int),
		unlimited: make(map[string]bool),
	}
	for name, c := range caps {
		if c.Unlimited {
			b.unlimited[name] = true
			continue
		}
		for _, m := range manufacturers {
			b.remaining[budgetKey{manufacturerID: m.ID, classification: name}] = c.Cars
		}
	}
	return b
}

// TryConsume takes one scoring slot from the manufacturer's budget in the
// given classification. It returns false once the budget is exhausted; the
// caller must still advance the classification's position counter but must
// not assign style or points.
func (b *ManufacturerBudgets) TryConsume(manufacturerID int, classification string) bool {
	if b == nil {
		return false
	}
	if b.unlimited[classification] {
		return true
	}
	key := budgetKey{manufacturerID: manufacturerID, classification: classification}
	if b.remaining[key] <= 0 {
		return false
	}
	b.remaining[key]--
	return true
}

// Score walks the rows strictly in finishing order and annotates each
// eligible classification slot with its computed position, points and
// style. Position counters are independent per classification: a row
// ineligible for one classification simply does not consume a position
// there. Rows are mutated in place and returned.
//
// Slots are handled team first, then manufacturer, then driver. The
// manufacturer counter advances for every manufacturer-classified row,
// whether or not its budget allowed it to score.
func (s *ScoringService) Score(
	rows []*models.ResultRow,
	classifications []models.Classification,
	scoringStyles []models.StyledPosition,
	nonscoringStyles []models.StyledStatus,
	session models.Session,
	budgets *ManufacturerBudgets,
	awarded models.AwardedPoints,
) []*models.ResultRow {
	positions := make(map[string]int, len(classifications))
	for _, cl := range classifications {
		positions[cl.Name] = 1
	}

	nonscoring := make(map[string]bool, len(nonscoringStyles))
	for _, st := range nonscoringStyles {
		nonscoring[st.Status] = true
	}

	for _, row := range rows {
		if cl := row.Eligible.Team.Classification; cl != nil {
			s.scoreSlot(&row.Eligible.Team, row.Status, positions, scoringStyles, nonscoringStyles, nonscoring, session, awarded)
		}

		if cl := row.Eligible.Manufacturer.Classification; cl != nil && row.Manufacturer != nil {
			if budgets.TryConsume(row.Manufacturer.ID, cl.Name) {
				s.annotateSlot(&row.Eligible.Manufacturer, row.Status, positions[cl.Name], scoringStyles, nonscoringStyles, nonscoring, session, awarded)
			}
			positions[cl.Name]++
		}

		if cl := row.Eligible.Driver.Classification; cl != nil {
			s.scoreSlot(&row.Eligible.Driver, row.Status, positions, scoringStyles, nonscoringStyles, nonscoring, session, awarded)
		}
	}

	return rows
}

// scoreSlot annotates a team or driver slot and advances the
// classification's counter when a scoring position was assigned.
func (s *ScoringService) scoreSlot(
	slot *models.ClassificationSlot,
	status string,
	positions map[string]int,
	scoringStyles []models.StyledPosition,
	nonscoringStyles []models.StyledStatus,
	nonscoring map[string]bool,
	session models.Session,
	awarded models.AwardedPoints,
) {
	name := slot.Classification.Name
	if s.annotateSlot(slot, status, positions[name], scoringStyles, nonscoringStyles, nonscoring, session, awarded) && !nonscoring[status] {
		positions[name]++
	}
}

// annotateSlot resolves style and points for a candidate position and
// writes them into the slot. It reports whether a style was assigned. The
// slot's position becomes the candidate number for scoring statuses and the
// status literal otherwise.
func (s *ScoringService) annotateSlot(
	slot *models.ClassificationSlot,
	status string,
	position int,
	scoringStyles []models.StyledPosition,
	nonscoringStyles []models.StyledStatus,
	nonscoring map[string]bool,
	session models.Session,
	awarded models.AwardedPoints,
) bool {
	styleID, points, known := findResultStyle(status, position, scoringStyles, nonscoringStyles, session)
	if !known {
		s.log.Warn("unrecognized result status, row left unscored",
			"status", status,
			"classification", slot.Classification.Name)
		return false
	}
	if styleID == nil {
		return false
	}

	slot.StyleID = styleID
	slot.Points = points * float64(awarded)
	if nonscoring[status] {
		slot.Position = status
	} else {
		slot.Position = strconv.Itoa(position)
	}
	return true
}

// findResultStyle resolves the style and base points for one result. It is
// a pure function: same inputs, same outputs, no side effects.
//
// Classified rows beyond the configured points scale fall back to the
// generic "Classified, nonscoring" style with zero points, except in
// qualifying where positions outside the scale get no style at all.
// Disqualified qualifying entries are excluded from the classification
// entirely. An unknown status resolves nothing and reports known=false.
func findResultStyle(
	status string,
	position int,
	scoringStyles []models.StyledPosition,
	nonscoringStyles []models.StyledStatus,
	session models.Session,
) (styleID *int, points float64, known bool) {
	switch status {
	case models.StatusClassified:
		for _, sp := range scoringStyles {
			if sp.Position == position {
				id := sp.Style.ID
				return &id, sp.Points, true
			}
		}
		if session.IsQualifying() {
			return nil, 0, true
		}
		return nonscoringStyleID(nonscoringStyles, models.StatusClassifiedNonscoring), 0, true

	case models.StatusNotClassified:
		return nonscoringStyleID(nonscoringStyles, models.StatusNotClassified), 0, true

	case models.StatusRetired:
		return nonscoringStyleID(nonscoringStyles, models.StatusRetired), 0, true

	case models.StatusDisqualified:
		if session.IsQualifying() {
			return nil, 0, true
		}
		return nonscoringStyleID(nonscoringStyles, models.StatusDisqualified), 0, true

	default:
		return nil, 0, false
	}
}

func nonscoringStyleID(styles []models.StyledStatus, status string) *int {
	for _, st := range styles {
		if st.Status == status {
			id := st.Style.ID
			return &id
		}
	}
	return nil
}
