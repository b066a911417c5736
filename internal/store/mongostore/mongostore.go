// Package mongostore keeps users and contacts in MongoDB. Documents use the field names of the
// original Mongoose collections so existing data stays readable.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"gitlab.com/dirk.krummacker/mycontacts/internal/config"
	"gitlab.com/dirk.krummacker/mycontacts/internal/logger"
	"gitlab.com/dirk.krummacker/mycontacts/internal/model"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store"
)

const (
	usersCollection    = "users"
	contactsCollection = "contacts"
)

type userDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	Username  string        `bson:"username"`
	Password  string        `bson:"password"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

type contactDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	UserID    bson.ObjectID `bson:"user_id"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Phone     string        `bson:"phone"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

// Store is a MongoDB backed store.Store.
type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	contacts *mongo.Collection
	logger   *logger.Logger
}

var _ store.Store = (*Store)(nil)

// New creates the client. The driver connects lazily, so an unreachable server is only
// reported by Ping and by the first query.
func New(cfg config.Mongo, log *logger.Logger) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.ConnectTimeout).
		SetConnectTimeout(cfg.ConnectTimeout)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	return NewWithClient(client, cfg.Database, log), nil
}

// Opener returns a store.Opener that creates the client and the indexes. The store is only
// handed out once the unique username index exists.
func Opener(cfg config.Mongo, log *logger.Logger) store.Opener {
	return func(ctx context.Context) (store.Store, error) {
		s, err := New(cfg, log)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(context.Background())
			return nil, err
		}
		return s, nil
	}
}

// NewWithClient wraps an existing client.
func NewWithClient(client *mongo.Client, database string, log *logger.Logger) *Store {
	db := client.Database(database)
	return &Store{
		client:   client,
		users:    db.Collection(usersCollection),
		contacts: db.Collection(contactsCollection),
		logger:   log,
	}
}

// EnsureIndexes creates the unique username index and the index backing the contact list.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", classify(err))
	}
	_, err = s.contacts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create contacts index: %w", classify(err))
	}
	s.logger.Info("Mongo store: indexes ensured")
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	doc := userDocument{
		ID:        bson.NewObjectID(),
		Username:  user.Username,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.CreatedAt,
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, store.ErrDuplicate
		}
		return model.User{}, fmt.Errorf("failed to insert user: %w", classify(err))
	}
	return doc.toModel(), nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (model.User, error) {
	return s.findUser(ctx, bson.D{{Key: "username", Value: username}})
}

func (s *Store) UserByID(ctx context.Context, id string) (model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.User{}, store.ErrNotFound
	}
	return s.findUser(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (s *Store) findUser(ctx context.Context, filter bson.D) (model.User, error) {
	var doc userDocument
	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, store.ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to find user: %w", classify(err))
	}
	return doc.toModel(), nil
}

func (s *Store) ListContacts(ctx context.Context, userID string) ([]model.Contact, error) {
	contacts := make([]model.Contact, 0)
	owner, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return contacts, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.contacts.Find(ctx, bson.D{{Key: "user_id", Value: owner}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find contacts: %w", classify(err))
	}
	defer cursor.Close(ctx)

	var docs []contactDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", classify(err))
	}
	for _, doc := range docs {
		contacts = append(contacts, doc.toModel())
	}
	return contacts, nil
}

func (s *Store) CreateContact(ctx context.Context, contact model.Contact) (model.Contact, error) {
	owner, err := bson.ObjectIDFromHex(contact.UserID)
	if err != nil {
		return model.Contact{}, fmt.Errorf("invalid owner id %q: %w", contact.UserID, err)
	}
	doc := contactDocument{
		ID:        bson.NewObjectID(),
		UserID:    owner,
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		CreatedAt: contact.CreatedAt,
		UpdatedAt: contact.UpdatedAt,
	}
	if _, err := s.contacts.InsertOne(ctx, doc); err != nil {
		return model.Contact{}, fmt.Errorf("failed to insert contact: %w", classify(err))
	}
	return doc.toModel(), nil
}

func (s *Store) ContactByID(ctx context.Context, userID, id string) (model.Contact, error) {
	filter, ok := ownedFilter(userID, id)
	if !ok {
		return model.Contact{}, store.ErrNotFound
	}
	var doc contactDocument
	err := s.contacts.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Contact{}, store.ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to find contact: %w", classify(err))
	}
	return doc.toModel(), nil
}

func (s *Store) UpdateContact(ctx context.Context, contact model.Contact) (model.Contact, error) {
	filter, ok := ownedFilter(contact.UserID, contact.ID)
	if !ok {
		return model.Contact{}, store.ErrNotFound
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: contact.Name},
		{Key: "email", Value: contact.Email},
		{Key: "phone", Value: contact.Phone},
		{Key: "updatedAt", Value: contact.UpdatedAt},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc contactDocument
	err := s.contacts.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Contact{}, store.ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to update contact: %w", classify(err))
	}
	return doc.toModel(), nil
}

func (s *Store) DeleteContact(ctx context.Context, userID, id string) error {
	filter, ok := ownedFilter(userID, id)
	if !ok {
		return store.ErrNotFound
	}
	result, err := s.contacts.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", classify(err))
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return classify(err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ownedFilter matches a contact by id and owner. Malformed ids cannot match anything.
func ownedFilter(userID, id string) (bson.D, bool) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	owner, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, false
	}
	return bson.D{{Key: "_id", Value: oid}, {Key: "user_id", Value: owner}}, true
}

// classify marks connectivity failures with store.ErrUnavailable.
func classify(err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}
	return err
}

func (d userDocument) toModel() model.User {
	return model.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

func (d contactDocument) toModel() model.Contact {
	return model.Contact{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}
