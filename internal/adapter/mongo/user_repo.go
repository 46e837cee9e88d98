package mongo

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const usersCollectionName = "users"

type UserMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(client *mongo.Client, dbName string) *UserMongoRepository {
	return &UserMongoRepository{
		db: client.Database(dbName),
	}
}

var _ repository.UserRepository = (*UserMongoRepository)(nil)

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	DisplayName  string             `bson:"display_name"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	IsActive     bool               `bson:"is_active"`
	CreatedAt    primitive.DateTime `bson:"created_at"`
	UpdatedAt    primitive.DateTime `bson:"updated_at"`
}

func toUserDocument(u *entity.User) (*userDocument, error) {
	doc := &userDocument{
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    primitive.NewDateTimeFromTime(u.CreatedAt),
		UpdatedAt:    primitive.NewDateTimeFromTime(u.UpdatedAt),
	}
	if u.ID != "" {
		objID, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toUserEntity(doc *userDocument) *entity.User {
	return &entity.User{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		DisplayName:  doc.DisplayName,
		PasswordHash: doc.PasswordHash,
		Role:         doc.Role,
		IsActive:     doc.IsActive,
		CreatedAt:    doc.CreatedAt.Time(),
		UpdatedAt:    doc.UpdatedAt.Time(),
	}
}

func (r *UserMongoRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	doc, err := toUserDocument(user)
	if err != nil {
		return "", err
	}

	res, err := r.db.Collection(usersCollectionName).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create user in mongo: %w", classify(err))
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	return insertedID.Hex(), nil
}

func (r *UserMongoRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *UserMongoRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserMongoRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDocument
	if err := r.db.Collection(usersCollectionName).FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get user from mongo: %w", classify(err))
	}
	return toUserEntity(&doc), nil
}

func (r *UserMongoRepository) Update(ctx context.Context, user *entity.User) error {
	doc, err := toUserDocument(user)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("user ID is required for update")
	}

	updateFields := bson.M{
		"$set": bson.M{
			"display_name":  doc.DisplayName,
			"password_hash": doc.PasswordHash,
			"role":          doc.Role,
			"is_active":     doc.IsActive,
			"updated_at":    doc.UpdatedAt,
		},
	}

	res, err := r.db.Collection(usersCollectionName).UpdateOne(ctx, bson.M{"_id": doc.ID}, updateFields)
	if err != nil {
		return fmt.Errorf("failed to update user in mongo: %w", classify(err))
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
