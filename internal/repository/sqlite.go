package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/emerald-arrow/wikipedia-tools/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS championship (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS entity (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			type TEXT NOT NULL CHECK (type IN ('DRIVER', 'TEAM', 'MANUFACTURER'))
		)`,
		`CREATE TABLE IF NOT EXISTS driver (
			id INTEGER PRIMARY KEY,
			codename TEXT NOT NULL UNIQUE,
			nationality TEXT,
			FOREIGN KEY (id) REFERENCES entity(id)
		)`,
		`CREATE TABLE IF NOT EXISTS team (
			id INTEGER PRIMARY KEY,
			codename TEXT NOT NULL,
			championship_id INTEGER NOT NULL,
			nationality TEXT,
			scoring BOOLEAN NOT NULL DEFAULT 1,
			FOREIGN KEY (id) REFERENCES entity(id),
			FOREIGN KEY (championship_id) REFERENCES championship(id),
			UNIQUE(codename, championship_id)
		)`,
		`CREATE TABLE IF NOT EXISTS manufacturer (
			id INTEGER PRIMARY KEY,
			codename TEXT NOT NULL UNIQUE,
			flag TEXT,
			refreshed_at DATETIME,
			FOREIGN KEY (id) REFERENCES entity(id)
		)`,
		`CREATE TABLE IF NOT EXISTS classification (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			championship_id INTEGER NOT NULL,
			season TEXT NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('DRIVERS', 'TEAMS', 'MANUFACTURERS')),
			season_rounds INTEGER NOT NULL DEFAULT 0,
			scoring_cars TEXT,
			active BOOLEAN NOT NULL DEFAULT 1,
			FOREIGN KEY (championship_id) REFERENCES championship(id)
		)`,
		`CREATE TABLE IF NOT EXISTS classification_ineligible (
			classification_id INTEGER NOT NULL,
			entity_id INTEGER NOT NULL,
			FOREIGN KEY (classification_id) REFERENCES classification(id),
			FOREIGN KEY (entity_id) REFERENCES entity(id),
			UNIQUE(classification_id, entity_id)
		)`,
		`CREATE TABLE IF NOT EXISTS result_styling (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			status TEXT NOT NULL,
			background_hex TEXT NOT NULL,
			text_colour_hex TEXT,
			bold BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS points_system (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			championship_id INTEGER NOT NULL,
			points_scale REAL NOT NULL,
			session_id INTEGER NOT NULL,
			place INTEGER NOT NULL,
			points REAL NOT NULL,
			result_style_id INTEGER NOT NULL,
			FOREIGN KEY (championship_id) REFERENCES championship(id),
			FOREIGN KEY (session_id) REFERENCES session(id),
			FOREIGN KEY (result_style_id) REFERENCES result_styling(id)
		)`,
		`CREATE TABLE IF NOT EXISTS score (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			classification_id INTEGER NOT NULL,
			round_number INTEGER NOT NULL,
			session_id INTEGER NOT NULL,
			entity_id INTEGER NOT NULL,
			place TEXT NOT NULL,
			points REAL NOT NULL,
			style_id INTEGER NOT NULL,
			FOREIGN KEY (classification_id) REFERENCES classification(id),
			FOREIGN KEY (session_id) REFERENCES session(id),
			FOREIGN KEY (entity_id) REFERENCES entity(id),
			FOREIGN KEY (style_id) REFERENCES result_styling(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_score_classification ON score(classification_id)`,
		`CREATE INDEX IF NOT EXISTS idx_score_round_session ON score(round_number, session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_score_entity ON score(entity_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ineligible_classification ON classification_ineligible(classification_id)`,
		`CREATE INDEX IF NOT EXISTS idx_points_system_lookup ON points_system(championship_id, points_scale, session_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	// Seed the fixed session catalog
	for _, name := range []string{models.SessionPractice, models.SessionQualifying, models.SessionRace} {
		if _, err := r.db.Exec(`INSERT OR IGNORE INTO session (name) VALUES (?)`, name); err != nil {
			return err
		}
	}

	return nil
}

// createEntity inserts a row into the shared entity id space.
func createEntity(ctx context.Context, tx *sql.Tx, entityType string) (int64, error) {
	result, err := tx.ExecContext(ctx, `INSERT INTO entity (type) VALUES (?)`, entityType)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ==================== Championship Methods ====================

// ListChampionships returns all championships
func (r *Repository) ListChampionships(ctx context.Context) ([]models.Championship, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM championship ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var championships []models.Championship
	for rows.Next() {
		var c models.Championship
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		championships = append(championships, c)
	}
	return championships, rows.Err()
}

// CreateChampionship creates a new championship
func (r *Repository) CreateChampionship(ctx context.Context, name string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO championship (name) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ==================== Classification Methods ====================

// CreateClassification creates a new classification
func (r *Repository) CreateClassification(ctx context.Context, cl models.Classification) (int64, error) {
	var scoringCars sql.NullString
	if cl.ScoringCars != "" {
		scoringCars = sql.NullString{String: cl.ScoringCars, Valid: true}
	}
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO classification (name, championship_id, season, type, season_rounds, scoring_cars)
		VALUES (?, ?, ?, ?, ?, ?)`,
		cl.Name, cl.ChampionshipID, cl.Season, string(cl.Kind), cl.SeasonRounds, scoringCars)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func scanClassification(scanner interface{ Scan(dest ...any) error }) (models.Classification, error) {
	var cl models.Classification
	var kind string
	var scoringCars sql.NullString
	if err := scanner.Scan(&cl.ID, &cl.Name, &cl.ChampionshipID, &cl.Season, &kind, &cl.SeasonRounds, &scoringCars); err != nil {
		return models.Classification{}, err
	}
	parsed, err := models.ParseClassificationKind(kind)
	if err != nil {
		return models.Classification{}, err
	}
	cl.Kind = parsed
	if scoringCars.Valid {
		cl.ScoringCars = scoringCars.String
	}
	return cl, nil
}

// ListClassifications returns all active classifications of a championship
func (r *Repository) ListClassifications(ctx context.Context, championshipID int) ([]models.Classification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, championship_id, season, type, season_rounds, scoring_cars
		FROM classification
		WHERE championship_id = ? AND active = 1
		ORDER BY season DESC, name`, championshipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classifications []models.Classification
	for rows.Next() {
		cl, err := scanClassification(rows)
		if err != nil {
			return nil, err
		}
		classifications = append(classifications, cl)
	}
	return classifications, rows.Err()
}

// ClassificationsBySeason returns a championship's active classifications for one season
func (r *Repository) ClassificationsBySeason(ctx context.Context, championshipID int, season string) ([]models.Classification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, championship_id, season, type, season_rounds, scoring_cars
		FROM classification
		WHERE championship_id = ? AND season = ? AND active = 1
		ORDER BY name`, championshipID, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classifications []models.Classification
	for rows.Next() {
		cl, err := scanClassification(rows)
		if err != nil {
			return nil, err
		}
		classifications = append(classifications, cl)
	}
	return classifications, rows.Err()
}

// ClassificationByID retrieves one classification
func (r *Repository) ClassificationByID(ctx context.Context, id int) (*models.Classification, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, championship_id, season, type, season_rounds, scoring_cars
		FROM classification
		WHERE id = ?`, id)

	cl, err := scanClassification(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

// IsIneligible reports whether the entity is on the classification's exclusion list
func (r *Repository) IsIneligible(ctx context.Context, classificationID, entityID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM classification_ineligible
			WHERE classification_id = ? AND entity_id = ?
		)`, classificationID, entityID).Scan(&exists)
	return exists, err
}

// MarkIneligible puts an entity on a classification's exclusion list
func (r *Repository) MarkIneligible(ctx context.Context, classificationID, entityID int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO classification_ineligible (classification_id, entity_id)
		VALUES (?, ?)`, classificationID, entityID)
	return err
}

// RacesHeld returns the highest round number with recorded scores, 0 if none
func (r *Repository) RacesHeld(ctx context.Context, classificationID int) (int, error) {
	var max sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT MAX(round_number) FROM score WHERE classification_id = ?`, classificationID).Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}

// ==================== Entity Methods ====================

// CreateDriver creates a driver in the entity directory
func (r *Repository) CreateDriver(ctx context.Context, d models.Driver) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id, err := createEntity(ctx, tx, "DRIVER")
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO driver (id, codename, nationality) VALUES (?, ?, ?)`,
		id, d.Codename, d.Nationality); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// DriverByCodename retrieves a driver by codename, case-insensitively
func (r *Repository) DriverByCodename(ctx context.Context, codename string) (*models.Driver, error) {
	var d models.Driver
	var nationality sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, codename, nationality FROM driver
		WHERE codename = ? COLLATE NOCASE`, codename).Scan(&d.ID, &d.Codename, &nationality)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.Nationality = nationality.String
	return &d, nil
}

// DriverByID retrieves a driver by id
func (r *Repository) DriverByID(ctx context.Context, id int) (*models.Driver, error) {
	var d models.Driver
	var nationality sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, codename, nationality FROM driver WHERE id = ?`, id).Scan(&d.ID, &d.Codename, &nationality)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.Nationality = nationality.String
	return &d, nil
}

// CreateTeam creates a team entry for a championship
func (r *Repository) CreateTeam(ctx context.Context, championshipID int, t models.Team, scoring bool) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id, err := createEntity(ctx, tx, "TEAM")
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO team (id, codename, championship_id, nationality, scoring)
		VALUES (?, ?, ?, ?, ?)`,
		id, t.Codename, championshipID, t.Nationality, scoring); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// TeamEntry retrieves a team and its scoring flag by codename within a championship
func (r *Repository) TeamEntry(ctx context.Context, codename string, championshipID int) (*models.TeamEntry, error) {
	var entry models.TeamEntry
	var nationality sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, codename, nationality, scoring FROM team
		WHERE codename = ? COLLATE NOCASE AND championship_id = ?`,
		codename, championshipID).Scan(&entry.Team.ID, &entry.Team.Codename, &nationality, &entry.Scoring)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	entry.Team.Nationality = nationality.String
	return &entry, nil
}

// TeamByID retrieves a team by id
func (r *Repository) TeamByID(ctx context.Context, id int) (*models.Team, error) {
	var t models.Team
	var nationality sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, codename, nationality FROM team WHERE id = ?`, id).Scan(&t.ID, &t.Codename, &nationality)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Nationality = nationality.String
	return &t, nil
}

// CreateManufacturer creates a manufacturer in the entity directory
func (r *Repository) CreateManufacturer(ctx context.Context, m models.Manufacturer) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id, err := createEntity(ctx, tx, "MANUFACTURER")
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO manufacturer (id, codename, flag) VALUES (?, ?, ?)`,
		id, m.Codename, m.Flag); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// ListManufacturers returns all manufacturers
func (r *Repository) ListManufacturers(ctx context.Context) ([]models.Manufacturer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, codename, flag FROM manufacturer ORDER BY codename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var manufacturers []models.Manufacturer
	for rows.Next() {
		var m models.Manufacturer
		var flag sql.NullString
		if err := rows.Scan(&m.ID, &m.Codename, &flag); err != nil {
			return nil, err
		}
		m.Flag = flag.String
		manufacturers = append(manufacturers, m)
	}
	return manufacturers, rows.Err()
}

// ManufacturerByID retrieves a manufacturer by id
func (r *Repository) ManufacturerByID(ctx context.Context, id int) (*models.Manufacturer, error) {
	var m models.Manufacturer
	var flag sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, codename, flag FROM manufacturer WHERE id = ?`, id).Scan(&m.ID, &m.Codename, &flag)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.Flag = flag.String
	return &m, nil
}

// RefreshManufacturerTimestamps marks manufacturers as recently seen in results
func (r *Repository) RefreshManufacturerTimestamps(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`UPDATE manufacturer SET refreshed_at = CURRENT_TIMESTAMP WHERE id IN (%s)`, placeholders)
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ==================== Styling Methods ====================

// CreateResultStyle creates a result styling row and returns its id
func (r *Repository) CreateResultStyle(ctx context.Context, status string, style models.Style) (int64, error) {
	var text sql.NullString
	if style.Text != "" {
		text = sql.NullString{String: style.Text, Valid: true}
	}
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO result_styling (status, background_hex, text_colour_hex, bold)
		VALUES (?, ?, ?, ?)`, status, style.Background, text, style.Bold)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// AddPointsSystemEntry adds one position of a championship's points system
func (r *Repository) AddPointsSystemEntry(ctx context.Context, championshipID int, scale float64, sessionID, place int, points float64, styleID int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO points_system (championship_id, points_scale, session_id, place, points, result_style_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		championshipID, scale, sessionID, place, points, styleID)
	return err
}

// PointsScales returns the distinct points scales configured for a championship
func (r *Repository) PointsScales(ctx context.Context, championshipID int) ([]float64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT points_scale FROM points_system
		WHERE championship_id = ?
		ORDER BY points_scale`, championshipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scales []float64
	for rows.Next() {
		var scale float64
		if err := rows.Scan(&scale); err != nil {
			return nil, err
		}
		scales = append(scales, scale)
	}
	return scales, rows.Err()
}

// ScoringSessions returns the sessions that award points under a scale
func (r *Repository) ScoringSessions(ctx context.Context, championshipID int, scale float64) ([]models.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT ps.session_id, s.name
		FROM points_system ps
		JOIN session s ON ps.session_id = s.id
		WHERE ps.championship_id = ? AND ps.points_scale = ?
		ORDER BY ps.session_id`, championshipID, scale)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// StyledPointsSystem returns the styled points table for one scale and session
func (r *Repository) StyledPointsSystem(ctx context.Context, championshipID int, scale float64, sessionID int) ([]models.StyledPosition, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ps.id, ps.place, ps.points, rs.id, rs.background_hex, rs.text_colour_hex, rs.bold
		FROM points_system ps
		JOIN result_styling rs ON rs.id = ps.result_style_id
		WHERE ps.championship_id = ? AND ps.points_scale = ? AND ps.session_id = ?
		ORDER BY ps.place`, championshipID, scale, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []models.StyledPosition
	for rows.Next() {
		var p models.StyledPosition
		var text sql.NullString
		if err := rows.Scan(&p.ID, &p.Position, &p.Points, &p.Style.ID, &p.Style.Background, &text, &p.Style.Bold); err != nil {
			return nil, err
		}
		p.Style.Text = text.String
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// StyledNonscoringStatuses returns the styles of statuses below the scoring line.
// Rows describing scoring positions or qualifying bonuses are filtered out.
func (r *Repository) StyledNonscoringStatuses(ctx context.Context) ([]models.StyledStatus, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, background_hex, text_colour_hex, bold, id
		FROM result_styling
		WHERE status NOT IN ('Classified, scoring', 'P1', 'P2', 'P3', 'PP')
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []models.StyledStatus
	for rows.Next() {
		var s models.StyledStatus
		var text sql.NullString
		if err := rows.Scan(&s.Status, &s.Style.Background, &text, &s.Style.Bold, &s.Style.ID); err != nil {
			return nil, err
		}
		s.Style.Text = text.String
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

// SessionByName retrieves a session by name, case-insensitively
func (r *Repository) SessionByName(ctx context.Context, name string) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name FROM session WHERE name = ? COLLATE NOCASE`, name).Scan(&s.ID, &s.Name)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ==================== Score Methods ====================

// HasRoundSession reports whether any of the classifications already has
// scores for a round's session
func (r *Repository) HasRoundSession(ctx context.Context, classificationIDs []int, roundNumber, sessionID int) (bool, error) {
	if len(classificationIDs) == 0 {
		return false, nil
	}
	placeholders := strings.Repeat("?,", len(classificationIDs)-1) + "?"
	args := []any{roundNumber, sessionID}
	for _, id := range classificationIDs {
		args = append(args, id)
	}
	query := fmt.Sprintf(`
		SELECT EXISTS(
			SELECT 1 FROM score
			WHERE round_number = ? AND session_id = ? AND classification_id IN (%s)
		)`, placeholders)
	var exists bool
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists)
	return exists, err
}

// SaveSessionScores stores all scores of one scoring run in a single
// transaction. With replace set, prior scores of the same round and session
// are first removed across every given classification, so the run either
// fully replaces the old state or leaves it untouched.
func (r *Repository) SaveSessionScores(ctx context.Context, classificationIDs []int, roundNumber, sessionID int, scores []models.Score, replace bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if replace && len(classificationIDs) > 0 {
		placeholders := strings.Repeat("?,", len(classificationIDs)-1) + "?"
		args := []any{roundNumber, sessionID}
		for _, id := range classificationIDs {
			args = append(args, id)
		}
		query := fmt.Sprintf(`
			DELETE FROM score
			WHERE round_number = ? AND session_id = ? AND classification_id IN (%s)`, placeholders)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	for _, score := range scores {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO score (classification_id, round_number, session_id, entity_id, place, points, style_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			score.ClassificationID, score.RoundNumber, score.SessionID,
			score.EntityID, score.Place, score.Points, score.StyleID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// EntityRoundResults returns an entity's stored results in a classification,
// in insertion order. Qualifying-to-race merging is left to the caller.
func (r *Repository) EntityRoundResults(ctx context.Context, entityID, classificationID int) ([]models.RoundResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sc.round_number, ses.name, sc.place, sc.points,
			rs.id, rs.background_hex, rs.text_colour_hex, rs.bold
		FROM score sc
		JOIN session ses ON ses.id = sc.session_id
		JOIN result_styling rs ON rs.id = sc.style_id
		WHERE sc.classification_id = ? AND sc.entity_id = ?
		ORDER BY sc.id`, classificationID, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.RoundResult
	for rows.Next() {
		var res models.RoundResult
		var text sql.NullString
		if err := rows.Scan(&res.RoundNumber, &res.Session, &res.Place, &res.Points,
			&res.Style.ID, &res.Style.Background, &text, &res.Style.Bold); err != nil {
			return nil, err
		}
		res.Style.Text = text.String
		results = append(results, res)
	}
	return results, rows.Err()
}

// ClassificationStandings returns per-entity points totals, highest first
func (r *Repository) ClassificationStandings(ctx context.Context, classificationID int) ([]StandingRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT entity_id, SUM(points) AS total
		FROM score
		WHERE classification_id = ?
		GROUP BY entity_id
		ORDER BY total DESC, entity_id`, classificationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var standings []StandingRow
	for rows.Next() {
		var row StandingRow
		if err := rows.Scan(&row.EntityID, &row.Points); err != nil {
			return nil, err
		}
		standings = append(standings, row)
	}
	return standings, rows.Err()
}
