package store

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/adarshamigo11/task-portal/internal/domain"
)

const seedPassword = "123"

// seedUsers is the fixed initial dataset: three regular users plus the admin.
// Accounts are only ever created here; there is no signup.
func seedUsers() []domain.User {
	names := []struct {
		email string
		name  string
	}{
		{"11@11.com", "Alex Carter"},
		{"22@22.com", "Jordan Lee"},
		{"33@33.com", "Taylor Morgan"},
		// Admin reviews submissions; points are not used for it.
		{domain.AdminEmail, "Admin"},
	}

	users := make([]domain.User, 0, len(names))
	for _, n := range names {
		users = append(users, domain.User{
			Email:          n.email,
			Password:       mustHashPassword(seedPassword),
			Name:           n.name,
			ProfilePhoto:   "/placeholder-user.jpg",
			Points:         0,
			VisitedTaskIDs: []string{},
		})
	}

	return users
}

// MinCost keeps repeated seeding cheap; these are fixed demo credentials.
func mustHashPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	return string(hash)
}
