package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// MembershipKind selects which user-scoped membership set a toggle
// operates on.
type MembershipKind int

const (
	KindFavorite MembershipKind = iota
	KindCart
	KindFollow
)

func (k MembershipKind) String() string {
	switch k {
	case KindFavorite:
		return "favorite"
	case KindCart:
		return "cart"
	case KindFollow:
		return "follow"
	default:
		return "unknown"
	}
}

// ToggleService adds and removes (user, target) membership rows for
// favorites, the shopping cart and author subscriptions. Both
// directions are deliberately non-idempotent: a second add errors
// with ErrAlreadyExists and a second remove with ErrNotFound,
// mirroring toggle-button clients that track current state.
type ToggleService struct {
	db *gorm.DB
}

// NewToggleService creates a new ToggleService instance
func NewToggleService(db *gorm.DB) *ToggleService {
	return &ToggleService{db: db}
}

// Add inserts the membership row. The target must exist, the pair
// must not, and a user cannot follow themselves.
func (s *ToggleService) Add(ctx context.Context, userID uint, kind MembershipKind, targetID uint) (interface{}, error) {
	if kind == KindFollow && userID == targetID {
		return nil, ErrSelfFollow
	}
	if err := s.checkTarget(ctx, kind, targetID); err != nil {
		return nil, err
	}

	var record interface{}
	var err error
	switch kind {
	case KindFavorite:
		row := &models.Favorite{UserID: userID, RecipeID: targetID}
		err = s.db.WithContext(ctx).Create(row).Error
		record = row
	case KindCart:
		row := &models.CartItem{UserID: userID, RecipeID: targetID}
		err = s.db.WithContext(ctx).Create(row).Error
		record = row
	case KindFollow:
		row := &models.Follow{UserID: userID, AuthorID: targetID}
		err = s.db.WithContext(ctx).Create(row).Error
		record = row
	}
	if err != nil {
		// Concurrent duplicate adds land on the composite unique
		// index rather than application-level locking.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return record, nil
}

// Remove deletes the membership row, erroring when it does not exist.
func (s *ToggleService) Remove(ctx context.Context, userID uint, kind MembershipKind, targetID uint) error {
	var res *gorm.DB
	switch kind {
	case KindFavorite:
		res = s.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, targetID).Delete(&models.Favorite{})
	case KindCart:
		res = s.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, targetID).Delete(&models.CartItem{})
	case KindFollow:
		res = s.db.WithContext(ctx).Where("user_id = ? AND author_id = ?", userID, targetID).Delete(&models.Follow{})
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FavoriteSet returns which of the given recipes the user favorited.
func (s *ToggleService) FavoriteSet(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	var rows []models.Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(rows))
	for _, row := range rows {
		set[row.RecipeID] = true
	}
	return set, nil
}

// CartSet returns which of the given recipes sit in the user's cart.
func (s *ToggleService) CartSet(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	var rows []models.CartItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(rows))
	for _, row := range rows {
		set[row.RecipeID] = true
	}
	return set, nil
}

// FollowingSet returns which of the given authors the user follows.
func (s *ToggleService) FollowingSet(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	var rows []models.Follow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(rows))
	for _, row := range rows {
		set[row.AuthorID] = true
	}
	return set, nil
}

// Following lists the follow rows of a user, oldest first.
func (s *ToggleService) Following(ctx context.Context, userID uint) ([]models.Follow, error) {
	var rows []models.Follow
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// checkTarget verifies the toggled target row exists. The pre-check
// keeps the common duplicate/missing cases off the constraint path;
// races still resolve through the unique index.
func (s *ToggleService) checkTarget(ctx context.Context, kind MembershipKind, targetID uint) error {
	var err error
	switch kind {
	case KindFavorite, KindCart:
		err = s.db.WithContext(ctx).First(&models.Recipe{}, targetID).Error
	case KindFollow:
		err = s.db.WithContext(ctx).First(&models.User{}, targetID).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
