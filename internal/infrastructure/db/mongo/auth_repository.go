package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

// AuthRepository stores credentials in "users" and the sign-up profile in
// "profiles", both keyed by the identity id.
type AuthRepository struct {
	users    *mongo.Collection
	profiles *mongo.Collection
}

func NewAuthRepository(db *mongo.Database) *AuthRepository {
	return &AuthRepository{
		users:    db.Collection(collectionUsers),
		profiles: db.Collection(collectionProfiles),
	}
}

type mongoUser struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	CreatedAt    int64  `bson:"created_at"`
}

type mongoProfile struct {
	ID          string `bson:"_id"`
	NotionName  string `bson:"notion_name"`
	UserRole    string `bson:"user_role"`
	ProjectName string `bson:"project_name,omitempty"`
	Assessoria  string `bson:"assessoria"`
}

// Create inserts the user and then its profile. If the profile write fails
// the user document is removed again so the email can be reused.
func (r *AuthRepository) Create(ctx context.Context, user *domain.User, profile *domain.Profile) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt.Unix(),
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if profile != nil {
		p := mongoProfile{
			ID:          user.ID,
			NotionName:  profile.NotionName,
			UserRole:    profile.UserRole,
			ProjectName: profile.ProjectName,
			Assessoria:  profile.Assessoria,
		}
		if _, err := r.profiles.InsertOne(ctx, p); err != nil {
			_, _ = r.users.DeleteOne(ctx, bson.M{"_id": user.ID})
			return nil, fmt.Errorf("insert profile: %w", err)
		}
	}

	created := *user
	return &created, nil
}

func (r *AuthRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &domain.User{
		ID:           mu.ID,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		CreatedAt:    unixToTime(mu.CreatedAt),
	}, nil
}

func (r *AuthRepository) FindProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProfile
	if err := r.profiles.FindOne(ctx, bson.M{"_id": userID}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	return &domain.Profile{
		ID:          mp.ID,
		NotionName:  mp.NotionName,
		UserRole:    mp.UserRole,
		ProjectName: mp.ProjectName,
		Assessoria:  mp.Assessoria,
	}, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
