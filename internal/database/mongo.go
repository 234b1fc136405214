package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qadesk/qadesk/internal/model"
)

const (
	websitesCollection = "websites"
	testRunsCollection = "test_runs"
	profilesCollection = "profiles"
	rolesCollection    = "roles"

	// maxUpdateAttempts bounds the optimistic-locking retry loop
	maxUpdateAttempts = 5
)

// MongoDB is an implementation of the Database interface using MongoDB
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	websites *mongo.Collection
	testRuns *mongo.Collection
	profiles *mongo.Collection
	roles    *mongo.Collection
}

type profileDocument struct {
	Principal model.Principal `bson:"principal"`
	Name      string          `bson:"name"`
}

type roleDocument struct {
	Principal model.Principal `bson:"principal"`
	Role      model.UserRole  `bson:"role"`
}

// NewMongoDB creates a new instance of the MongoDB database
func NewMongoDB(ctx context.Context, connectionURI, databaseName string) (*MongoDB, error) {
	clientOptions := options.Client().ApplyURI(connectionURI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(databaseName)
	db := &MongoDB{
		client:   client,
		database: database,
		websites: database.Collection(websitesCollection),
		testRuns: database.Collection(testRunsCollection),
		profiles: database.Collection(profilesCollection),
		roles:    database.Collection(rolesCollection),
	}

	indexes := map[*mongo.Collection][]mongo.IndexModel{
		db.websites: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "owner", Value: 1}}},
		},
		db.testRuns: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "website_id", Value: 1}}},
		},
		db.profiles: {
			{Keys: bson.D{{Key: "principal", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		db.roles: {
			{Keys: bson.D{{Key: "principal", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for collection, models := range indexes {
		if _, err := collection.Indexes().CreateMany(ctx, models); err != nil {
			// Mongo will error if the index already exists, we can ignore this and continue.
			var commandError mongo.CommandError
			if errors.As(err, &commandError) && commandError.Code != 86 {
				return nil, err
			}
			log.Printf("Indexes on %s already exist, skipping.", collection.Name())
		}
	}

	return db, nil
}

func (db *MongoDB) CreateWebsite(ctx context.Context, website *model.Website) error {
	if website == nil || website.ID == "" {
		return ErrInvalidInput
	}
	if _, err := db.websites.InsertOne(ctx, website); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert website: %w", err)
	}
	return nil
}

func (db *MongoDB) GetWebsite(ctx context.Context, id string) (*model.Website, error) {
	var website model.Website
	if err := db.websites.FindOne(ctx, bson.M{"id": id}).Decode(&website); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get website: %w", err)
	}
	return &website, nil
}

func (db *MongoDB) ListWebsites(ctx context.Context, filter *WebsiteFilter, cursor string, limit int) ([]*model.Website, string, error) {
	query := bson.M{}
	if filter != nil && filter.Owner != nil {
		query["owner"] = *filter.Owner
	}
	return findPage[model.Website](ctx, db.websites, query, cursor, limit, func(w *model.Website) string { return w.ID })
}

func (db *MongoDB) UpdateWebsite(ctx context.Context, id string, mutate WebsiteMutator) (*model.Website, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := db.GetWebsite(ctx, id)
		if err != nil {
			return nil, err
		}

		revision := current.Revision
		if err := mutate(current); err != nil {
			return nil, err
		}
		current.ID = id
		current.Revision = revision + 1

		result, err := db.websites.ReplaceOne(ctx, bson.M{"id": id, "revision": revision}, current)
		if err != nil {
			return nil, fmt.Errorf("failed to update website: %w", err)
		}
		if result.MatchedCount == 1 {
			return current, nil
		}
		log.Printf("Website %s changed during update, retrying (attempt %d)", id, attempt+1)
	}
	return nil, ErrConflict
}

func (db *MongoDB) DeleteWebsite(ctx context.Context, id string) error {
	result, err := db.websites.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete website: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	if _, err := db.testRuns.DeleteMany(ctx, bson.M{"website_id": id}); err != nil {
		return fmt.Errorf("failed to delete test runs of website %s: %w", id, err)
	}
	return nil
}

func (db *MongoDB) CreateTestRun(ctx context.Context, run *model.TestRun) error {
	if run == nil || run.ID == "" {
		return ErrInvalidInput
	}
	if _, err := db.GetWebsite(ctx, run.WebsiteID); err != nil {
		return err
	}
	if _, err := db.testRuns.InsertOne(ctx, run); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert test run: %w", err)
	}
	return nil
}

func (db *MongoDB) GetTestRun(ctx context.Context, id string) (*model.TestRun, error) {
	var run model.TestRun
	if err := db.testRuns.FindOne(ctx, bson.M{"id": id}).Decode(&run); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get test run: %w", err)
	}
	return &run, nil
}

func (db *MongoDB) ListTestRuns(ctx context.Context, filter *TestRunFilter, cursor string, limit int) ([]*model.TestRun, string, error) {
	query := bson.M{}
	if filter != nil {
		if filter.WebsiteID != nil {
			query["website_id"] = *filter.WebsiteID
		}
		if filter.Owner != nil {
			query["owner"] = *filter.Owner
		}
	}
	return findPage[model.TestRun](ctx, db.testRuns, query, cursor, limit, func(r *model.TestRun) string { return r.ID })
}

func (db *MongoDB) UpdateTestRun(ctx context.Context, id string, mutate TestRunMutator) (*model.TestRun, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := db.GetTestRun(ctx, id)
		if err != nil {
			return nil, err
		}

		revision := current.Revision
		websiteID := current.WebsiteID
		if err := mutate(current); err != nil {
			return nil, err
		}
		current.ID = id
		current.WebsiteID = websiteID
		current.Revision = revision + 1

		result, err := db.testRuns.ReplaceOne(ctx, bson.M{"id": id, "revision": revision}, current)
		if err != nil {
			return nil, fmt.Errorf("failed to update test run: %w", err)
		}
		if result.MatchedCount == 1 {
			return current, nil
		}
		log.Printf("Test run %s changed during update, retrying (attempt %d)", id, attempt+1)
	}
	return nil, ErrConflict
}

func (db *MongoDB) GetProfile(ctx context.Context, principal model.Principal) (*model.UserProfile, error) {
	var doc profileDocument
	if err := db.profiles.FindOne(ctx, bson.M{"principal": principal}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &model.UserProfile{Name: doc.Name}, nil
}

func (db *MongoDB) SaveProfile(ctx context.Context, principal model.Principal, profile model.UserProfile) error {
	doc := profileDocument{Principal: principal, Name: profile.Name}
	opts := options.Replace().SetUpsert(true)
	if _, err := db.profiles.ReplaceOne(ctx, bson.M{"principal": principal}, doc, opts); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (db *MongoDB) GetRole(ctx context.Context, principal model.Principal) (model.UserRole, error) {
	var doc roleDocument
	if err := db.roles.FindOne(ctx, bson.M{"principal": principal}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get role: %w", err)
	}
	return doc.Role, nil
}

func (db *MongoDB) SetRole(ctx context.Context, principal model.Principal, role model.UserRole) error {
	if !role.IsValid() {
		return ErrInvalidInput
	}
	doc := roleDocument{Principal: principal, Role: role}
	opts := options.Replace().SetUpsert(true)
	if _, err := db.roles.ReplaceOne(ctx, bson.M{"principal": principal}, doc, opts); err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *MongoDB) Close() error {
	return db.client.Disconnect(context.Background())
}

// findPage runs query sorted by id and fetches one extra document to learn
// whether another page exists.
func findPage[T any](
	ctx context.Context,
	collection *mongo.Collection,
	query bson.M,
	cursor string,
	limit int,
	id func(*T) string,
) ([]*T, string, error) {
	limit = normalizeLimit(limit)
	if cursor != "" {
		query["id"] = bson.M{"$gt": cursor}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetLimit(int64(limit + 1))

	mongoCursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query %s: %w", collection.Name(), err)
	}
	defer mongoCursor.Close(ctx)

	var results []*T
	if err := mongoCursor.All(ctx, &results); err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", collection.Name(), err)
	}

	next := ""
	if len(results) > limit {
		results = results[:limit]
		next = id(results[len(results)-1])
	}
	return results, next, nil
}
