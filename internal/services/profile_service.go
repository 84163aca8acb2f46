package services

import (
	"context"
	"errors"
	"fmt"

	"financas/internal/core"
	"financas/internal/sanitize"
	"financas/internal/store"
)

type ProfileService struct {
	store store.ProfileStore
}

func NewProfileService(s store.ProfileStore) *ProfileService {
	return &ProfileService{store: s}
}

// Get merges the stored profile over the one built from token claims. An
// owner who never saved a profile gets the claims as they are.
func (s *ProfileService) Get(ctx context.Context, claims core.Profile) (core.Profile, error) {
	if claims.UID == "" {
		return core.Profile{}, core.ErrNoOwner
	}
	stored, err := s.store.GetProfile(ctx, claims.UID)
	if errors.Is(err, core.ErrNotFound) {
		return claims, nil
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if stored.Name == "" {
		stored.Name = claims.Name
	}
	if stored.Picture == "" {
		stored.Picture = claims.Picture
	}
	if stored.Email == "" {
		stored.Email = claims.Email
	}
	return stored, nil
}

// Update stores the display name and picture. The email always comes from the claims.
func (s *ProfileService) Update(ctx context.Context, claims core.Profile, name, picture string) (core.Profile, error) {
	if claims.UID == "" {
		return core.Profile{}, core.ErrNoOwner
	}
	name = sanitize.Text(name)
	if name == "" {
		return core.Profile{}, core.ErrEmptyName
	}
	p := core.Profile{
		UID:     claims.UID,
		Name:    name,
		Email:   claims.Email,
		Picture: sanitize.Text(picture),
	}
	if err := s.store.UpsertProfile(ctx, p); err != nil {
		return core.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return s.Get(ctx, claims)
}
