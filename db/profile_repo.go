package db

import (
	"github.com/bandmate/bandmate/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ProfileRepository interface
type ProfileRepository interface {
	FindProfileByID(id uuid.UUID) (*models.Profile, error)
	GetAllProfiles(excludeID uuid.UUID) ([]models.Profile, error)
}

var ErrProfileNotFound = errors.New("profile not found")

// profileRepo struct
type profileRepo struct {
	DB *gorm.DB
}

// NewProfileRepo creates a new instance of ProfileRepository
func NewProfileRepo(db *GormDB) ProfileRepository {
	return &profileRepo{db.DB}
}

func (r *profileRepo) FindProfileByID(id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.DB.Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, errors.Wrap(err, "profileRepo.FindProfileByID")
	}
	return &profile, nil
}

func (r *profileRepo) GetAllProfiles(excludeID uuid.UUID) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.DB.Where("id <> ?", excludeID).Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, errors.Wrap(err, "profileRepo.GetAllProfiles")
	}
	return profiles, nil
}
