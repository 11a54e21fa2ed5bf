package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/arzan03/pdftoolbox/internal/models"
)

type AuthService struct {
	users    *mongo.Collection
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(database *mongo.Database, secret string) *AuthService {
	return &AuthService{
		users:    database.Collection("users"),
		secret:   []byte(secret),
		tokenTTL: 4 * time.Hour,
	}
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateJWT issues a signed token carrying the user id.
func (s *AuthService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Register creates a new user and returns it with a fresh token.
// A taken email fails with ErrValidation.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, string, error) {
	var existing models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		return models.User{}, "", fmt.Errorf("%w: email already in use", models.ErrValidation)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, "", fmt.Errorf("%w: %v", models.ErrStorage, err)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return models.User{}, "", err
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  hashed,
		CreatedAt: time.Now(),
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, "", fmt.Errorf("%w: email already in use", models.ErrValidation)
		}
		return models.User{}, "", fmt.Errorf("%w: %v", models.ErrStorage, err)
	}

	token, err := s.GenerateJWT(user.ID.Hex())
	if err != nil {
		return models.User{}, "", err
	}
	user.Password = ""
	return user, token, nil
}

// Login authenticates a user and returns it with a fresh token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("%w: invalid credentials", models.ErrUnauthorized)
	}

	if !VerifyPassword(password, user.Password) {
		return models.User{}, "", fmt.Errorf("%w: invalid credentials", models.ErrUnauthorized)
	}

	token, err := s.GenerateJWT(user.ID.Hex())
	if err != nil {
		return models.User{}, "", err
	}
	user.Password = ""
	return user, token, nil
}

// Validate resolves an authenticated user id back to its user record.
func (s *AuthService) Validate(ctx context.Context, userID string) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: invalid user id", models.ErrUnauthorized)
	}

	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		return models.User{}, fmt.Errorf("%w: user not found", models.ErrUnauthorized)
	}
	user.Password = ""
	return user, nil
}
