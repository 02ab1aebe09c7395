package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rotaserra/tour-backend/internal/models"
)

// PersonRepository handles people database operations
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository creates a new PersonRepository
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

const personColumns = `id, name, national_id, age, phones, created_at, updated_at`

// Create inserts a new person
func (r *PersonRepository) Create(person *models.Person) error {
	return r.create(r.db, person)
}

// CreateTx inserts a new person inside an existing transaction
func (r *PersonRepository) CreateTx(tx *sqlx.Tx, person *models.Person) error {
	return r.create(tx, person)
}

func (r *PersonRepository) create(q sqlx.Queryer, person *models.Person) error {
	query := `
		INSERT INTO people (name, national_id, age, phones)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRowx(query, person.Name, person.NationalID, person.Age, person.Phones).
		Scan(&person.ID, &person.CreatedAt, &person.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("person with national id %s already exists: %w", person.NationalID, err)
		}
		return fmt.Errorf("failed to create person: %w", err)
	}

	return nil
}

// GetByID returns a person by id, or models.ErrNotFound
func (r *PersonRepository) GetByID(id string) (*models.Person, error) {
	return r.getBy(r.db, "id", id)
}

// GetByIDTx returns a person by id inside an existing transaction
func (r *PersonRepository) GetByIDTx(tx *sqlx.Tx, id string) (*models.Person, error) {
	return r.getBy(tx, "id", id)
}

// GetByNationalID returns a person by national id, or models.ErrNotFound
func (r *PersonRepository) GetByNationalID(nationalID string) (*models.Person, error) {
	return r.getBy(r.db, "national_id", nationalID)
}

// GetByNationalIDTx returns a person by national id inside a transaction
func (r *PersonRepository) GetByNationalIDTx(tx *sqlx.Tx, nationalID string) (*models.Person, error) {
	return r.getBy(tx, "national_id", nationalID)
}

func (r *PersonRepository) getBy(q sqlx.Queryer, column, value string) (*models.Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM people WHERE %s = $1`, personColumns, column)

	var person models.Person
	err := sqlx.Get(q, &person, query, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	return &person, nil
}

// GetAll returns all people ordered by name
func (r *PersonRepository) GetAll() ([]models.Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM people ORDER BY name`, personColumns)

	var people []models.Person
	if err := r.db.Select(&people, query); err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}

	return people, nil
}

// Update updates a person row
func (r *PersonRepository) Update(person *models.Person) error {
	query := `
		UPDATE people
		SET name = $2, age = $3, phones = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowx(query, person.ID, person.Name, person.Age, person.Phones).
		Scan(&person.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update person: %w", err)
	}

	return nil
}

// Delete removes a person. Returns models.ErrNotFound when the id is unknown.
func (r *PersonRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM people WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ExistsTx reports whether a person id resolves, inside a transaction
func (r *PersonRepository) ExistsTx(tx *sqlx.Tx, id string) (bool, error) {
	var exists bool
	err := tx.Get(&exists, `SELECT EXISTS (SELECT 1 FROM people WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check person: %w", err)
	}
	return exists, nil
}
