package user

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tcetCapture/api"
	"tcetCapture/utils"
)

type Service interface {
	// Get returns the user stored under the identity provider uid.
	Get(ctx context.Context, ID string) (*User, error)
	// EnsureUser returns the user record for ID, creating it with defaultRole when
	// none exists. This writes to the store; created reports whether it did.
	EnsureUser(ctx context.Context, ID, email string, defaultRole Role) (u *User, created bool, err error)
	// SetRole overwrites the role (and email) of ID. A missing record is created
	// with its createdAt timestamp.
	SetRole(ctx context.Context, ID, email string, role Role) error
}

type userService struct {
	db *firestore.Client
}

var _ Service = (*userService)(nil)

const userCollection = "users"

func NewUserService(client *firestore.Client) Service {
	return &userService{
		db: client,
	}
}

var NotFound = api.NewNotFoundError("User not found")

func (s *userService) Get(ctx context.Context, ID string) (*User, error) {
	doc, err := s.db.Collection(userCollection).Doc(ID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, NotFound
	}
	if err != nil {
		return nil, err
	}
	return decode(doc)
}

func (s *userService) EnsureUser(ctx context.Context, ID, email string, defaultRole Role) (*User, bool, error) {
	var (
		result  *User
		created bool
	)
	ref := s.db.Collection(userCollection).Doc(ID)
	err := s.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		created = false
		doc, err := tx.Get(ref)
		if err == nil {
			result, err = decode(doc)
			return err
		}
		if status.Code(err) != codes.NotFound {
			return err
		}
		result = &User{ID: ID, Email: email, Role: defaultRole}
		created = true
		return tx.Create(ref, result)
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure user %s: %w", ID, err)
	}
	if created {
		log.Info().Str("uid", ID).Str("role", string(defaultRole)).Msg("User document not found, created")
	}
	return result, created, nil
}

func (s *userService) SetRole(ctx context.Context, ID, email string, role Role) error {
	if ID == "" {
		return errors.New("user id is required")
	}
	ref := s.db.Collection(userCollection).Doc(ID)
	err := s.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return tx.Create(ref, &User{ID: ID, Email: email, Role: role})
		}
		if err != nil {
			return err
		}
		data := map[string]any{
			"role": string(role),
		}
		if email != "" {
			data["email"] = email
		}
		return tx.Set(ref, data, firestore.MergeAll)
	})
	if err != nil {
		return fmt.Errorf("failed to set role for user %s: %w", ID, err)
	}
	return nil
}

func decode(doc *firestore.DocumentSnapshot) (*User, error) {
	u, err := utils.DocToStruct[User](doc)
	if err != nil {
		return nil, err
	}
	if u.Role == "" {
		u.Role = RoleClient
	}
	return u, nil
}
