package domain

// State is the whole application graph: the session pointer plus every domain
// collection. It is what the store holds in memory and what gets persisted as
// one document after each mutation.
type State struct {
	CurrentUserEmail string
	Users            []User
	Campaigns        []Campaign
	Categories       []Category
	Tasks            []Task
	Submissions      []Submission
	Updates          []Update
}

// Clone returns a deep copy so that readers can never alias the store's
// internal slices.
func (s State) Clone() State {
	c := s
	c.Users = make([]User, len(s.Users))
	for i, u := range s.Users {
		c.Users[i] = u
		c.Users[i].VisitedTaskIDs = append([]string(nil), u.VisitedTaskIDs...)
	}
	c.Campaigns = append([]Campaign(nil), s.Campaigns...)
	c.Categories = append([]Category(nil), s.Categories...)
	c.Tasks = append([]Task(nil), s.Tasks...)
	c.Submissions = append([]Submission(nil), s.Submissions...)
	c.Updates = append([]Update(nil), s.Updates...)

	return c
}

// Snapshot is a read-only copy of the state handed to consumers. CurrentUser
// is resolved from the session pointer, nil when nobody is logged in.
type Snapshot struct {
	CurrentUser *User        `json:"currentUser,omitempty"`
	IsAdmin     bool         `json:"isAdmin"`
	Users       []User       `json:"users"`
	Campaigns   []Campaign   `json:"campaigns"`
	Categories  []Category   `json:"categories"`
	Tasks       []Task       `json:"tasks"`
	Submissions []Submission `json:"submissions"`
	Updates     []Update     `json:"updates"`
}
