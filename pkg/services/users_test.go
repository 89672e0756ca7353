package services

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/draftforge/draft-engine/pkg/apperrors"
	"github.com/draftforge/draft-engine/pkg/auth"
	"github.com/draftforge/draft-engine/pkg/models"
)

// fakeUserRepo is an in-memory UserRepository keyed by provider subject.
type fakeUserRepo struct {
	byProviderUID map[string]*models.User
	nextID        int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byProviderUID: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUserRepo) Upsert(_ context.Context, user *models.User) error {
	if existing, ok := f.byProviderUID[user.ProviderUID]; ok {
		existing.Email = user.Email
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
		return nil
	}
	user.ID = f.nextID
	f.nextID++
	stored := *user
	f.byProviderUID[user.ProviderUID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range f.byProviderUID {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func claimsFor(subject, email string) *auth.Claims {
	claims := &auth.Claims{Email: email}
	claims.Subject = subject
	return claims
}

func TestUserService_ResolveFromClaims_CreatesOnFirstSight(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, zap.NewNop())

	user, err := svc.ResolveFromClaims(context.Background(), claimsFor("uid-1", "user@example.com"))
	if err != nil {
		t.Fatalf("ResolveFromClaims failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected user ID assigned")
	}
	if user.Email != "user@example.com" || user.ProviderUID != "uid-1" {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestUserService_ResolveFromClaims_IdempotentForSameSubject(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, zap.NewNop())

	first, err := svc.ResolveFromClaims(context.Background(), claimsFor("uid-1", "user@example.com"))
	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	second, err := svc.ResolveFromClaims(context.Background(), claimsFor("uid-1", "renamed@example.com"))
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected same user id, got %d and %d", first.ID, second.ID)
	}
	if second.Email != "renamed@example.com" {
		t.Errorf("expected email updated, got %q", second.Email)
	}
}

func TestUserService_ResolveFromClaims_NoSubject(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), zap.NewNop())

	if _, err := svc.ResolveFromClaims(context.Background(), claimsFor("", "user@example.com")); err == nil {
		t.Error("expected error for claims without subject")
	}
}
