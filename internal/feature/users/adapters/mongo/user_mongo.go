// Package mongo はusersフィーチャーのMongoDBリポジトリ実装を提供します。
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	horoscopeentity "soulbuddy_backend/internal/feature/horoscope/domain/entity"
	"soulbuddy_backend/internal/feature/users/domain/entity"
	"soulbuddy_backend/internal/feature/users/usecase"
)

// UsersCollection はユーザーを保存するコレクション名です。
const UsersCollection = "users"

// coordinatesDocument はユーザーに保存される座標です。
type coordinatesDocument struct {
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
}

// userDocument はusersコレクションのドキュメント表現です。
type userDocument struct {
	ID          string                     `bson:"_id"`
	Name        string                     `bson:"name"`
	DateOfBirth string                     `bson:"dateOfBirth"`
	TimeOfBirth string                     `bson:"timeOfBirth"`
	Gender      string                     `bson:"gender,omitempty"`
	State       string                     `bson:"state,omitempty"`
	City        string                     `bson:"city,omitempty"`
	Coordinates *coordinatesDocument       `bson:"coordinates,omitempty"`
	Horoscope   *horoscopeentity.Horoscope `bson:"horoscope,omitempty"`
	CreatedAt   time.Time                  `bson:"createdAt"`
	UpdatedAt   time.Time                  `bson:"updatedAt"`
}

func (d *userDocument) toEntity() *entity.User {
	u := &entity.User{
		ID:          d.ID,
		Name:        d.Name,
		DateOfBirth: d.DateOfBirth,
		TimeOfBirth: d.TimeOfBirth,
		Gender:      d.Gender,
		State:       d.State,
		City:        d.City,
		Horoscope:   d.Horoscope,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Coordinates != nil {
		lat, lon := d.Coordinates.Latitude, d.Coordinates.Longitude
		u.Latitude, u.Longitude = &lat, &lon
	}
	return u
}

func documentFromEntity(u *entity.User) *userDocument {
	d := &userDocument{
		ID:          u.ID,
		Name:        u.Name,
		DateOfBirth: u.DateOfBirth,
		TimeOfBirth: u.TimeOfBirth,
		Gender:      u.Gender,
		State:       u.State,
		City:        u.City,
		Horoscope:   u.Horoscope,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.Latitude != nil && u.Longitude != nil {
		d.Coordinates = &coordinatesDocument{Latitude: *u.Latitude, Longitude: *u.Longitude}
	}
	return d
}

// userMongo はUserRepositoryインターフェースのMongoDB実装です。
type userMongo struct {
	coll *mongo.Collection
}

// userMongoがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userMongo)(nil)

// NewUserMongo は指定されたデータベースのusersコレクションを使うuserMongoを生成します。
func NewUserMongo(db *mongo.Database) *userMongo {
	return &userMongo{coll: db.Collection(UsersCollection)}
}

// EnsureIndexes は名前・出生日時の一意インデックスを作成します。
func (r *userMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "dateOfBirth", Value: 1}, {Key: "timeOfBirth", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_users_identity"),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	})
	return err
}

// FindByIdentity は名前・生年月日・出生時刻でユーザーを取得します。
func (r *userMongo) FindByIdentity(ctx context.Context, name, dateOfBirth, timeOfBirth string) (*entity.User, error) {
	filter := bson.D{
		{Key: "name", Value: name},
		{Key: "dateOfBirth", Value: dateOfBirth},
		{Key: "timeOfBirth", Value: timeOfBirth},
	}
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

// Create はユーザーを追加します。一意インデックス違反はusecase.ErrUserAlreadyExistsに変換します。
func (r *userMongo) Create(ctx context.Context, u *entity.User) error {
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	if _, err := r.coll.InsertOne(ctx, documentFromEntity(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// List は作成日時の新しい順に全ユーザーを返します。
func (r *userMongo) List(ctx context.Context) ([]entity.User, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]entity.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toEntity())
	}
	return users, nil
}
