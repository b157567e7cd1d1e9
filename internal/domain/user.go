package domain

// AdminEmail is the reserved address that marks the admin account. There is no
// general role system; this single value acts as the role flag.
const AdminEmail = "admin@admin.com"

// User is keyed by email. Users are created at seed time and never deleted;
// only their points and visited-task set change afterwards.
type User struct {
	Email          string   `json:"email"`
	Password       string   `json:"-"`
	Name           string   `json:"name"`
	ProfilePhoto   string   `json:"profilePhoto"`
	Points         int      `json:"points"`
	VisitedTaskIDs []string `json:"visitedTaskIds"`
}

func (u *User) IsAdmin() bool {
	return u.Email == AdminEmail
}

func (u *User) HasVisited(taskID string) bool {
	for _, id := range u.VisitedTaskIDs {
		if id == taskID {
			return true
		}
	}

	return false
}
