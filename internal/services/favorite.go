package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"directory-bknd/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// FavoriteStore persists favorites. Implementations enforce one favorite per
// (user, location).
type FavoriteStore interface {
	// Find returns ErrNotFound when the user has not saved the location.
	Find(ctx context.Context, userID, locationID string) (*models.Favorite, error)
	// Insert returns the id of the user's favorite for the location, creating
	// it when missing. Unknown locations give ErrNotFound.
	Insert(ctx context.Context, userID, locationID string) (string, error)
	// Delete reports whether a favorite owned by the user was removed.
	Delete(ctx context.Context, userID, favoriteID string) (bool, error)
	Refs(ctx context.Context, userID string) ([]models.FavoriteRef, error)
}

type BunFavoriteStore struct {
	db *bun.DB
}

func NewBunFavoriteStore(db *bun.DB) *BunFavoriteStore {
	return &BunFavoriteStore{db: db}
}

func (s *BunFavoriteStore) Find(ctx context.Context, userID, locationID string) (*models.Favorite, error) {
	fav := new(models.Favorite)
	err := s.db.NewSelect().
		Model(fav).
		Where("fav.user_id = ?", userID).
		Where("fav.location_id = ?", locationID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return fav, nil
}

func (s *BunFavoriteStore) Insert(ctx context.Context, userID, locationID string) (string, error) {
	exists, err := s.db.NewSelect().
		Model((*models.Location)(nil)).
		Where("loc.id = ?", locationID).
		Exists(ctx)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrNotFound
	}

	fav := &models.Favorite{
		ID:         uuid.NewString(),
		UserID:     userID,
		LocationID: locationID,
	}
	// a concurrent insert for the same pair keeps the first row's id
	_, err = s.db.NewInsert().
		Model(fav).
		On("CONFLICT (user_id, location_id) DO UPDATE").
		Set("user_id = EXCLUDED.user_id").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return "", err
	}
	return fav.ID, nil
}

func (s *BunFavoriteStore) Delete(ctx context.Context, userID, favoriteID string) (bool, error) {
	res, err := s.db.NewDelete().
		Model((*models.Favorite)(nil)).
		Where("id = ?", favoriteID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *BunFavoriteStore) Refs(ctx context.Context, userID string) ([]models.FavoriteRef, error) {
	refs := []models.FavoriteRef{}
	err := s.db.NewSelect().
		Model((*models.Favorite)(nil)).
		ColumnExpr("fav.id, fav.location_id").
		Where("fav.user_id = ?", userID).
		OrderExpr("fav.created_at DESC").
		Scan(ctx, &refs)
	return refs, err
}

// FavoriteService applies favorite mutations for signed-in users.
type FavoriteService struct {
	store FavoriteStore
	logr  *zap.Logger

	// serialises toggles of the same (user, location)
	locks sync.Map
}

func NewFavoriteService(store FavoriteStore, logr *zap.Logger) *FavoriteService {
	return &FavoriteService{store: store, logr: logr}
}

func (s *FavoriteService) lock(userID, locationID string) func() {
	v, _ := s.locks.LoadOrStore(userID+"\x00"+locationID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func validIDs(ids ...string) bool {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return false
		}
	}
	return true
}

// Toggle deletes the user's favorite for the location when one exists and
// creates it otherwise, then refetches the user's favorites.
func (s *FavoriteService) Toggle(ctx context.Context, userID, locationID string) (*models.ToggleResult, error) {
	if !validIDs(userID, locationID) {
		return nil, ErrInvalidInput
	}
	unlock := s.lock(userID, locationID)
	defer unlock()

	res := &models.ToggleResult{}
	existing, err := s.store.Find(ctx, userID, locationID)
	switch {
	case err == nil:
		if _, err := s.store.Delete(ctx, userID, existing.ID); err != nil {
			return nil, fmt.Errorf("delete favorite: %w", err)
		}
		s.logr.Info("favorite removed", zap.String("user_id", userID), zap.String("location_id", locationID))
	case errors.Is(err, ErrNotFound):
		id, err := s.store.Insert(ctx, userID, locationID)
		if err != nil {
			return nil, fmt.Errorf("create favorite: %w", err)
		}
		res.Favorited = true
		res.FavoriteID = id
		s.logr.Info("favorite added", zap.String("user_id", userID), zap.String("location_id", locationID))
	default:
		return nil, fmt.Errorf("find favorite: %w", err)
	}

	refs, err := s.store.Refs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("refetch favorites: %w", err)
	}
	res.Favorites = refs
	return res, nil
}

// Create saves the location and returns the favorite id. Saving twice returns
// the same id.
func (s *FavoriteService) Create(ctx context.Context, userID, locationID string) (string, error) {
	if !validIDs(userID, locationID) {
		return "", ErrInvalidInput
	}
	unlock := s.lock(userID, locationID)
	defer unlock()

	id, err := s.store.Insert(ctx, userID, locationID)
	if err != nil {
		return "", fmt.Errorf("create favorite: %w", err)
	}
	return id, nil
}

// Delete removes one of the user's favorites by id.
func (s *FavoriteService) Delete(ctx context.Context, userID, favoriteID string) error {
	if !validIDs(userID, favoriteID) {
		return ErrInvalidInput
	}
	if _, err := uuid.Parse(favoriteID); err != nil {
		return ErrInvalidInput
	}
	removed, err := s.store.Delete(ctx, userID, favoriteID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

func (s *FavoriteService) Refs(ctx context.Context, userID string) ([]models.FavoriteRef, error) {
	if !validIDs(userID) {
		return nil, ErrInvalidInput
	}
	refs, err := s.store.Refs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return refs, nil
}
