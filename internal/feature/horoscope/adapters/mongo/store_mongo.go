// Package mongo はhoroscopeフィーチャーのMongoDBストア実装を提供します。
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"soulbuddy_backend/internal/feature/horoscope/domain/entity"
	"soulbuddy_backend/internal/feature/horoscope/usecase"
)

const (
	// UsersCollection はホロスコープを埋め込むユーザーのコレクション名です。
	UsersCollection = "users"
	// HistoryCollection はホロスコープ履歴のコレクション名です。
	HistoryCollection = "horoscope_data"
)

// userStoreMongo はUserStoreインターフェースのMongoDB実装です。
type userStoreMongo struct {
	coll *mongo.Collection
}

// userStoreMongoがUserStoreを実装していることをコンパイル時に検証します。
var _ usecase.UserStore = (*userStoreMongo)(nil)

// NewUserStoreMongo はusersコレクションを使うuserStoreMongoを生成します。
func NewUserStoreMongo(db *mongo.Database) *userStoreMongo {
	return &userStoreMongo{coll: db.Collection(UsersCollection)}
}

// UserExists はユーザーが存在しない場合にusecase.ErrUserNotFoundを返します。
func (s *userStoreMongo) UserExists(ctx context.Context, userID string) error {
	n, err := s.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: userID}}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// SaveHoroscope はユーザーのhoroscopeとcoordinatesを置き換えます。
func (s *userStoreMongo) SaveHoroscope(ctx context.Context, userID string, h entity.Horoscope, coords entity.Coordinates) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "horoscope", Value: h},
		{Key: "coordinates", Value: coords},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}
	res, err := s.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: userID}}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// horoscopeProjection はユーザードキュメントのうちhoroscopeのみを読み出します。
type horoscopeProjection struct {
	Horoscope *entity.Horoscope `bson:"horoscope,omitempty"`
}

// FindHoroscope は保存済みのホロスコープを返します。未生成の場合はnilを返します。
func (s *userStoreMongo) FindHoroscope(ctx context.Context, userID string) (*entity.Horoscope, error) {
	var doc horoscopeProjection
	opts := options.FindOne().SetProjection(bson.D{{Key: "horoscope", Value: 1}})
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: userID}}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return doc.Horoscope, nil
}

// historyDocument はhoroscope_dataコレクションのドキュメント表現です。
type historyDocument struct {
	ID              string                 `bson:"_id"`
	UserID          string                 `bson:"userId"`
	Interpretations entity.Interpretations `bson:"interpretations"`
	Recommendations entity.Recommendations `bson:"recommendations"`
	MangalDosha     entity.MangalDosha     `bson:"mangalDosha"`
	LastUpdated     time.Time              `bson:"lastUpdated"`
	CreatedAt       time.Time              `bson:"createdAt"`
}

func historyDocumentFrom(s entity.Snapshot) historyDocument {
	return historyDocument{
		ID:              s.ID,
		UserID:          s.UserID,
		Interpretations: s.Interpretations,
		Recommendations: s.Recommendations,
		MangalDosha:     s.MangalDosha,
		LastUpdated:     s.LastUpdated,
		CreatedAt:       s.LastUpdated,
	}
}

func (d historyDocument) toEntity() entity.Snapshot {
	return entity.Snapshot{
		ID:              d.ID,
		UserID:          d.UserID,
		Interpretations: d.Interpretations,
		Recommendations: d.Recommendations,
		MangalDosha:     d.MangalDosha,
		LastUpdated:     d.LastUpdated,
	}
}

// historyMongo はHistoryStoreインターフェースのMongoDB実装です。
type historyMongo struct {
	coll *mongo.Collection
}

// historyMongoがHistoryStoreを実装していることをコンパイル時に検証します。
var _ usecase.HistoryStore = (*historyMongo)(nil)

// NewHistoryMongo はhoroscope_dataコレクションを使うhistoryMongoを生成します。
func NewHistoryMongo(db *mongo.Database) *historyMongo {
	return &historyMongo{coll: db.Collection(HistoryCollection)}
}

// EnsureIndexes はユーザー別・新しい順の取得用インデックスを作成します。
func (r *historyMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// Append は履歴を1件追加します。
func (r *historyMongo) Append(ctx context.Context, s entity.Snapshot) error {
	_, err := r.coll.InsertOne(ctx, historyDocumentFrom(s))
	return err
}

// ListByUser はユーザーの履歴を新しい順に最大limit件返します。
func (r *historyMongo) ListByUser(ctx context.Context, userID string, limit int) ([]entity.Snapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.D{{Key: "userId", Value: userID}}, opts)
	if err != nil {
		return nil, err
	}
	var docs []historyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]entity.Snapshot, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}
