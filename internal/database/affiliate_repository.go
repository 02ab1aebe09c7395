package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rotaserra/tour-backend/internal/models"
)

// AffiliateRepository handles drivers and referral_agents database operations.
// Both roles wrap a Person; the same person may hold both roles at once.
type AffiliateRepository struct {
	db *sqlx.DB
}

// NewAffiliateRepository creates a new AffiliateRepository
func NewAffiliateRepository(db *sqlx.DB) *AffiliateRepository {
	return &AffiliateRepository{db: db}
}

// CreateDriver inserts a new driver role
func (r *AffiliateRepository) CreateDriver(driver *models.Driver) error {
	query := `
		INSERT INTO drivers (person_id, license_number, vehicle_plate)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowx(query, driver.PersonID, driver.LicenseNumber, driver.VehiclePlate).
		Scan(&driver.ID, &driver.CreatedAt, &driver.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("driver role already exists for person %s: %w", driver.PersonID, err)
		}
		return fmt.Errorf("failed to create driver: %w", err)
	}

	return nil
}

// GetDriverByID returns a driver with the wrapped person's name
func (r *AffiliateRepository) GetDriverByID(id string) (*models.Driver, error) {
	query := `
		SELECT d.id, d.person_id, d.license_number, d.vehicle_plate,
			   d.created_at, d.updated_at, p.name AS person_name
		FROM drivers d
		JOIN people p ON p.id = d.person_id
		WHERE d.id = $1
	`

	var driver models.Driver
	err := r.db.Get(&driver, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	return &driver, nil
}

// GetAllDrivers returns all drivers with person names
func (r *AffiliateRepository) GetAllDrivers() ([]models.Driver, error) {
	query := `
		SELECT d.id, d.person_id, d.license_number, d.vehicle_plate,
			   d.created_at, d.updated_at, p.name AS person_name
		FROM drivers d
		JOIN people p ON p.id = d.person_id
		ORDER BY p.name
	`

	var drivers []models.Driver
	if err := r.db.Select(&drivers, query); err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	return drivers, nil
}

// DeleteDriver removes a driver role
func (r *AffiliateRepository) DeleteDriver(id string) error {
	result, err := r.db.Exec(`DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DriverExists reports whether a driver id resolves
func (r *AffiliateRepository) DriverExists(id string) (bool, error) {
	var exists bool
	err := r.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM drivers WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check driver: %w", err)
	}
	return exists, nil
}

// DriverExistsTx reports whether a driver id resolves, inside a transaction
func (r *AffiliateRepository) DriverExistsTx(tx *sqlx.Tx, id string) (bool, error) {
	var exists bool
	err := tx.Get(&exists, `SELECT EXISTS (SELECT 1 FROM drivers WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check driver: %w", err)
	}
	return exists, nil
}

// CreateReferralAgent inserts a new referral agent role
func (r *AffiliateRepository) CreateReferralAgent(agent *models.ReferralAgent) error {
	query := `
		INSERT INTO referral_agents (person_id, agent_code, commission_pct)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowx(query, agent.PersonID, agent.AgentCode, agent.CommissionPc).
		Scan(&agent.ID, &agent.CreatedAt, &agent.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("referral agent role already exists for person %s: %w", agent.PersonID, err)
		}
		return fmt.Errorf("failed to create referral agent: %w", err)
	}

	return nil
}

// GetReferralAgentByID returns a referral agent with the wrapped person's name
func (r *AffiliateRepository) GetReferralAgentByID(id string) (*models.ReferralAgent, error) {
	query := `
		SELECT ra.id, ra.person_id, ra.agent_code, ra.commission_pct,
			   ra.created_at, ra.updated_at, p.name AS person_name
		FROM referral_agents ra
		JOIN people p ON p.id = ra.person_id
		WHERE ra.id = $1
	`

	var agent models.ReferralAgent
	err := r.db.Get(&agent, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get referral agent: %w", err)
	}

	return &agent, nil
}

// GetAllReferralAgents returns all referral agents with person names
func (r *AffiliateRepository) GetAllReferralAgents() ([]models.ReferralAgent, error) {
	query := `
		SELECT ra.id, ra.person_id, ra.agent_code, ra.commission_pct,
			   ra.created_at, ra.updated_at, p.name AS person_name
		FROM referral_agents ra
		JOIN people p ON p.id = ra.person_id
		ORDER BY p.name
	`

	var agents []models.ReferralAgent
	if err := r.db.Select(&agents, query); err != nil {
		return nil, fmt.Errorf("failed to list referral agents: %w", err)
	}

	return agents, nil
}

// DeleteReferralAgent removes a referral agent role
func (r *AffiliateRepository) DeleteReferralAgent(id string) error {
	result, err := r.db.Exec(`DELETE FROM referral_agents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete referral agent: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ReferralAgentExistsTx reports whether a referral agent id resolves, inside a transaction
func (r *AffiliateRepository) ReferralAgentExistsTx(tx *sqlx.Tx, id string) (bool, error) {
	var exists bool
	err := tx.Get(&exists, `SELECT EXISTS (SELECT 1 FROM referral_agents WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check referral agent: %w", err)
	}
	return exists, nil
}
