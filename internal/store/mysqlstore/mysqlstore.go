// Package mysqlstore keeps users and contacts in MySQL. The schema lives in
// scripts/database.sql and is applied by cmd/migration.
package mysqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/dirk.krummacker/mycontacts/internal/config"
	"gitlab.com/dirk.krummacker/mycontacts/internal/logger"
	"gitlab.com/dirk.krummacker/mycontacts/internal/model"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store"
)

// errDuplicateEntry is the MySQL server error number for unique key violations.
const errDuplicateEntry = 1062

// Store is a MySQL backed store.Store. All statements are prepared once when the store is
// created.
type Store struct {
	db     *sqlx.DB
	logger *logger.Logger

	// insertUser is a prepared statement for creating a user.
	insertUser *sqlx.NamedStmt
	// selectUserByName is a prepared statement for finding a user by username.
	selectUserByName *sqlx.Stmt
	// selectUserByID is a prepared statement for finding a user by id.
	selectUserByID *sqlx.Stmt
	// insertContact is a prepared statement for creating a contact.
	insertContact *sqlx.NamedStmt
	// selectContacts is a prepared statement for listing the contacts of a user.
	selectContacts *sqlx.Stmt
	// selectContact is a prepared statement for selecting one contact of a user.
	selectContact *sqlx.Stmt
	// updateContact is a prepared statement for overwriting the fields of a contact.
	updateContact *sqlx.NamedStmt
	// deleteContact is a prepared statement for deleting one contact of a user.
	deleteContact *sqlx.Stmt

	newID func() string
}

var _ store.Store = (*Store)(nil)

// Open returns a database handle for the configured server. No connection is made until the
// handle is first used.
func Open(cfg config.MySQL) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	return sqlDB, nil
}

// Opener returns a store.Opener that connects to the configured server and prepares all
// statements. A failed attempt leaves nothing open.
func Opener(cfg config.MySQL, log *logger.Logger) store.Opener {
	return func(ctx context.Context) (store.Store, error) {
		sqlDB, err := Open(cfg)
		if err != nil {
			return nil, err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to connect to mysql: %w", classify(err))
		}
		s, err := New(sqlDB, log)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		log.Info("MySQL store: statements prepared", "host", cfg.Host, "database", cfg.Name)
		return s, nil
	}
}

// New initializes the sqlx database wrapper with the specified sql database and prepares all
// statements. The database argument can be a real database for production use or a mock
// database within unit tests.
func New(sqlDB *sql.DB, log *logger.Logger) (*Store, error) {
	s := &Store{
		db:     sqlx.NewDb(sqlDB, "mysql"),
		logger: log,
		newID:  uuid.NewString,
	}

	// Prepared statements offer a significant speed increase if executed many times.
	var err error
	if s.insertUser, err = s.db.PrepareNamed(`
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES (:id, :username, :password_hash, :created_at)
	`); err != nil {
		return nil, prepareError("insert user", err)
	}
	if s.selectUserByName, err = s.db.Preparex(`
		SELECT id, username, password_hash, created_at FROM users WHERE username = ?
	`); err != nil {
		return nil, prepareError("select user by name", err)
	}
	if s.selectUserByID, err = s.db.Preparex(`
		SELECT id, username, password_hash, created_at FROM users WHERE id = ?
	`); err != nil {
		return nil, prepareError("select user by id", err)
	}
	if s.insertContact, err = s.db.PrepareNamed(`
		INSERT INTO contacts (id, user_id, name, email, phone, created_at, updated_at)
		VALUES (:id, :user_id, :name, :email, :phone, :created_at, :updated_at)
	`); err != nil {
		return nil, prepareError("insert contact", err)
	}
	if s.selectContacts, err = s.db.Preparex(`
		SELECT id, user_id, name, email, phone, created_at, updated_at
		FROM contacts WHERE user_id = ? ORDER BY created_at, id
	`); err != nil {
		return nil, prepareError("select contacts", err)
	}
	if s.selectContact, err = s.db.Preparex(`
		SELECT id, user_id, name, email, phone, created_at, updated_at
		FROM contacts WHERE id = ? AND user_id = ?
	`); err != nil {
		return nil, prepareError("select contact", err)
	}
	if s.updateContact, err = s.db.PrepareNamed(`
		UPDATE contacts SET name = :name, email = :email, phone = :phone, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id
	`); err != nil {
		return nil, prepareError("update contact", err)
	}
	if s.deleteContact, err = s.db.Preparex(`
		DELETE FROM contacts WHERE id = ? AND user_id = ?
	`); err != nil {
		return nil, prepareError("delete contact", err)
	}
	return s, nil
}

func prepareError(name string, err error) error {
	return fmt.Errorf("failed to prepare %s statement: %w", name, classify(err))
}

func (s *Store) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	user.ID = s.newID()
	if _, err := s.insertUser.ExecContext(ctx, user); err != nil {
		if isDuplicate(err) {
			return model.User{}, store.ErrDuplicate
		}
		return model.User{}, fmt.Errorf("failed to insert user: %w", classify(err))
	}
	return user, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (model.User, error) {
	return s.getUser(ctx, s.selectUserByName, username)
}

func (s *Store) UserByID(ctx context.Context, id string) (model.User, error) {
	return s.getUser(ctx, s.selectUserByID, id)
}

func (s *Store) getUser(ctx context.Context, stmt *sqlx.Stmt, arg string) (model.User, error) {
	var user model.User
	err := stmt.GetContext(ctx, &user, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, store.ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to select user: %w", classify(err))
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}

func (s *Store) ListContacts(ctx context.Context, userID string) ([]model.Contact, error) {
	contacts := make([]model.Contact, 0)
	if err := s.selectContacts.SelectContext(ctx, &contacts, userID); err != nil {
		return nil, fmt.Errorf("failed to select contacts: %w", classify(err))
	}
	for i := range contacts {
		normalize(&contacts[i])
	}
	return contacts, nil
}

func (s *Store) CreateContact(ctx context.Context, contact model.Contact) (model.Contact, error) {
	contact.ID = s.newID()
	if _, err := s.insertContact.ExecContext(ctx, contact); err != nil {
		return model.Contact{}, fmt.Errorf("failed to insert contact: %w", classify(err))
	}
	return contact, nil
}

func (s *Store) ContactByID(ctx context.Context, userID, id string) (model.Contact, error) {
	var contact model.Contact
	err := s.selectContact.GetContext(ctx, &contact, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contact{}, store.ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to select contact: %w", classify(err))
	}
	normalize(&contact)
	return contact, nil
}

// UpdateContact relies on updated_at always changing, so MySQL reports an affected row for
// every matched contact.
func (s *Store) UpdateContact(ctx context.Context, contact model.Contact) (model.Contact, error) {
	result, err := s.updateContact.ExecContext(ctx, contact)
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to update contact: %w", classify(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to update contact: %w", classify(err))
	}
	if rowsAffected == 0 {
		return model.Contact{}, store.ErrNotFound
	}

	// In the response, return the full contact after the update.
	return s.ContactByID(ctx, contact.UserID, contact.ID)
}

func (s *Store) DeleteContact(ctx context.Context, userID, id string) error {
	result, err := s.deleteContact.ExecContext(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", classify(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", classify(err))
	}
	if rowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

func normalize(c *model.Contact) {
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
}

func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry
}

// classify marks connectivity failures with store.ErrUnavailable.
func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}
	return err
}
