package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/balarco/balarco-backend/pkg/db/models"
	"github.com/balarco/balarco-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user and role-group persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new user together with its role groups.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return (&Repository{db: tx}).AssignRoles(ctx, user.ID, dto.Roles)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// AssignRoles adds the user to each role group. Existing memberships are kept.
func (r *Repository) AssignRoles(ctx context.Context, userID uuid.UUID, roles []enums.Role) error {
	for _, role := range roles {
		var group models.Group
		if err := r.db.WithContext(ctx).Where("name = ?", string(role)).Take(&group).Error; err != nil {
			return fmt.Errorf("lookup group %q: %w", role, err)
		}
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.UserGroup{}).
			Where("user_id = ? AND group_id = ?", userID, group.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := r.db.WithContext(ctx).Create(&models.UserGroup{UserID: userID, GroupID: group.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByEmail retrieves the active user matching email, case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads an active user by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ? AND is_active = ?", id, true).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// UpdatePasswordHash replaces the stored hash.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}

// RolesFor returns the roles of an active user. Group names that are not
// catalog roles are skipped.
func (r *Repository) RolesFor(ctx context.Context, userID uuid.UUID) ([]enums.Role, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("user_groups AS ug").
		Select("g.name").
		Joins("JOIN auth_groups AS g ON g.id = ug.group_id").
		Joins("JOIN users AS u ON u.id = ug.user_id").
		Where("ug.user_id = ? AND u.is_active = ?", userID, true).
		Order("g.name ASC").
		Pluck("g.name", &names).Error
	if err != nil {
		return nil, err
	}

	roles := make([]enums.Role, 0, len(names))
	for _, name := range names {
		role, err := enums.ParseRole(name)
		if err != nil {
			continue
		}
		roles = append(roles, role)
	}
	return roles, nil
}
