package repository

import "gorm.io/gorm"

// Repository aggregates all data access interfaces.
type Repository struct {
	User UserRepository
	Trip TripRepository
}

// NewRepository creates the Repository aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User: NewUserRepo(db),
		Trip: NewTripRepo(db),
	}
}
