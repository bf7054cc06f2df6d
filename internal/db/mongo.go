package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aph138/phoneuser/internal/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	UserCollection = "user"
)

// MyMongo implements Database on top of mongodb
type MyMongo struct {
	db      *mongo.Database
	timeout time.Duration
}

// Timeout is used as a global timeout for all of the operations for more convenience.
func NewMongo(address, name string, timeout time.Duration, opt *options.ClientOptions) (*MyMongo, error) {
	if opt == nil {
		opt = options.Client().ApplyURI(address)
	} else {
		opt.ApplyURI(address)
	}
	client, err := mongo.Connect(opt)
	if err != nil {
		return nil, fmt.Errorf("err when connecting to db at %s: %w", address, err)
	}

	// check for connection
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("err when pinging db: %w", err)
	}
	db := client.Database(name)
	if err := createIndices(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("err when creating indices: %w", err)
	}
	return &MyMongo{
		db:      db,
		timeout: timeout,
	}, nil
}

// phone carries the uniqueness constraint, register_at serves searches by registration time
func createIndices(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UserCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: entity.PhoneField, Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "register_at", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("err when creating user indices: %w", err)
	}
	return nil
}

func (d *MyMongo) InsertOne(ctx context.Context, col string, doc any, opts ...options.Lister[options.InsertOneOptions]) (bson.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	result, err := d.db.Collection(col).InsertOne(ctx, doc, opts...)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("err when inserting one to %s: %w", col, err)
	}
	id, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return bson.ObjectID{}, fmt.Errorf("unexpected inserted id type %T in %s", result.InsertedID, col)
	}
	return id, nil
}

func (d *MyMongo) FindOne(ctx context.Context, col string, filter, output any, opts ...options.Lister[options.FindOneOptions]) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := d.db.Collection(col).FindOne(ctx, filter, opts...).Decode(output); err != nil {
		return fmt.Errorf("err when finding one from %s: %w", col, err)
	}
	return nil
}

func (d *MyMongo) UpdateOne(ctx context.Context, col string, filter, query any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	result, err := d.db.Collection(col).UpdateOne(ctx, filter, query, opts...)
	if err != nil {
		return nil, fmt.Errorf("err when updating one in %s: %w", col, err)
	}
	return result, nil
}

func (d *MyMongo) InsertUser(ctx context.Context, user entity.User) (entity.User, error) {
	if err := user.Validate(); err != nil {
		return entity.User{}, err
	}
	user.ID = bson.NewObjectID()
	// mongodb keeps milliseconds only
	user.RegisteredAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := d.InsertOne(ctx, UserCollection, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return entity.User{}, &DuplicateKeyError{Field: entity.PhoneField, Value: user.Phone}
		}
		return entity.User{}, fmt.Errorf("err when inserting user with mongodb: %w", err)
	}
	return user, nil
}

func (d *MyMongo) FindUserByPhone(ctx context.Context, phone string) (entity.User, error) {
	var user entity.User
	if err := d.FindOne(ctx, UserCollection, bson.M{entity.PhoneField: phone}, &user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.User{}, ErrNotFound
		}
		return entity.User{}, err
	}
	return user, nil
}

func (d *MyMongo) SaveUser(ctx context.Context, phone string) (string, error) {
	if _, err := entity.ValidatePhone(phone); err != nil {
		return "", err
	}
	now := time.Now().UTC()
	filter := bson.M{entity.PhoneField: phone}
	upsertQuery := bson.M{
		"$setOnInsert": entity.User{Phone: phone, RegisteredAt: now},
		"$set": bson.M{
			"last_login": now,
		},
	}
	result, err := d.UpdateOne(ctx, UserCollection, filter, upsertQuery, options.UpdateOne().SetUpsert(true))
	if err != nil {
		// two concurrent upserts of a new phone can race on the unique index, the loser finds the winner below
		if !mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("err when upserting user with mongodb: %w", err)
		}
	} else if result.UpsertedCount > 0 {
		if id, ok := result.UpsertedID.(bson.ObjectID); ok {
			return id.Hex(), nil
		}
	}
	user, err := d.FindUserByPhone(ctx, phone)
	if err != nil {
		return "", fmt.Errorf("err when finding user in save method with mongodb: %w", err)
	}
	return user.ID.Hex(), nil
}

func (d *MyMongo) SearchUser(ctx context.Context, opts ...SearchUserOption) ([]entity.User, error) {
	option := newSearchUserOption(opts...)
	skip, ok := option.skip()
	if !ok {
		return []entity.User{}, nil
	}
	findOption := options.Find().
		SetSkip(skip).
		SetLimit(option.pagination.limit).
		SetSort(bson.D{bson.E{Key: "register_at", Value: -1}})
	filter := bson.M{}
	if len(option.phone) > 0 {
		filter[entity.PhoneField] = option.phone
	}
	if option.registerFrom != nil || option.registerTo != nil {
		register := bson.M{}
		if option.registerFrom != nil {
			register["$gte"] = *option.registerFrom
		}
		if option.registerTo != nil {
			register["$lte"] = *option.registerTo
		}
		filter["register_at"] = register
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	cursor, err := d.db.Collection(UserCollection).Find(ctx, filter, findOption)
	if err != nil {
		return nil, fmt.Errorf("err when finding from db %w", err)
	}
	defer cursor.Close(ctx)

	result := []entity.User{}
	for cursor.Next(ctx) {
		var user entity.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("err when decoding result %w", err)
		}
		result = append(result, user)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("err when iterating result %w", err)
	}
	return result, nil
}

func (d *MyMongo) Close(ctx context.Context) error {
	return d.db.Client().Disconnect(ctx)
}
