// Package store owns the whole application state graph and every mutation on
// it. Operations are atomic: the in-memory update, the synchronous re-persist
// of the full document, and the snapshot broadcast to subscribers all happen
// before the operation returns.
package store

import (
	"context"
	"encoding/base64"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/adarshamigo11/task-portal/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not logged in")
)

// Persister is the single durable slot the state document lives in. Save
// overwrites the whole document; Load reads it back at startup.
type Persister interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, state domain.State) error
}

type Store struct {
	mu        sync.Mutex
	persister Persister
	now       func() time.Time
	newID     func() string

	state domain.State

	subs    map[int]func(domain.Snapshot)
	nextSub int
}

type Option func(*Store)

// WithClock replaces the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator replaces the id source, for tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// Open loads the persisted document and falls back to the seeded initial
// dataset when the slot is absent or unreadable. It never fails: a broken
// document is logged and replaced, not surfaced.
func Open(ctx context.Context, persister Persister, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		now:       time.Now,
		newID:     uuid.NewString,
		subs:      make(map[int]func(domain.Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := persister.Load(ctx)
	if err != nil {
		zap.L().Warn("no usable persisted state, starting from seed", zap.Error(err))
		state = domain.State{}
	}
	s.state = normalize(state)

	return s
}

// normalize applies the collection-level defaults: a document missing the
// users collection gets the seed users; other missing collections become
// empty. Record-level migrations live in the codec.
func normalize(state domain.State) domain.State {
	if state.Users == nil {
		state.Users = seedUsers()
	}
	if state.Campaigns == nil {
		state.Campaigns = []domain.Campaign{}
	}
	if state.Categories == nil {
		state.Categories = []domain.Category{}
	}
	if state.Tasks == nil {
		state.Tasks = []domain.Task{}
	}
	if state.Submissions == nil {
		state.Submissions = []domain.Submission{}
	}
	if state.Updates == nil {
		state.Updates = []domain.Update{}
	}

	return state
}

// apply runs one mutation under the store lock. When the mutation reports a
// change, the whole document is re-persisted synchronously and the new
// snapshot is delivered to subscribers after the lock is released.
func (s *Store) apply(ctx context.Context, mutate func() bool) {
	s.mu.Lock()
	if !mutate() {
		s.mu.Unlock()
		return
	}

	if err := s.persister.Save(ctx, s.state.Clone()); err != nil {
		// Fire-and-forget by design: the in-memory state stays authoritative.
		zap.L().Error("persisting state failed", zap.Error(err))
	}

	snap := s.snapshotLocked()
	subs := make([]func(domain.Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() domain.Snapshot {
	state := s.state.Clone()
	snap := domain.Snapshot{
		Users:       state.Users,
		Campaigns:   state.Campaigns,
		Categories:  state.Categories,
		Tasks:       state.Tasks,
		Submissions: state.Submissions,
		Updates:     state.Updates,
	}
	if u, ok := findUser(state.Users, state.CurrentUserEmail); ok {
		snap.CurrentUser = &u
		snap.IsAdmin = u.IsAdmin()
	}

	return snap
}

// Snapshot returns a read-only copy of the whole graph.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every applied mutation.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(domain.Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Login checks the credentials against the user collection and, on success,
// points the session at that user. Unknown email and wrong password are the
// same error on purpose.
func (s *Store) Login(ctx context.Context, email, password string) (domain.User, error) {
	s.mu.Lock()
	user, ok := findUser(s.state.Users, email)
	s.mu.Unlock()
	if !ok {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	s.apply(ctx, func() bool {
		s.state.CurrentUserEmail = user.Email
		return true
	})

	return user, nil
}

// Logout clears the session pointer.
func (s *Store) Logout(ctx context.Context) {
	s.apply(ctx, func() bool {
		if s.state.CurrentUserEmail == "" {
			return false
		}
		s.state.CurrentUserEmail = ""
		return true
	})
}

// CurrentUser resolves the session pointer.
func (s *Store) CurrentUser() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return findUser(s.state.Users, s.state.CurrentUserEmail)
}

func (s *Store) IsAdmin() bool {
	u, ok := s.CurrentUser()

	return ok && u.IsAdmin()
}

// UserByEmail looks a user up regardless of the session.
func (s *Store) UserByEmail(email string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return findUser(s.state.Users, email)
}

// Leaderboard returns the non-admin users ordered by points, highest first.
func (s *Store) Leaderboard() []domain.User {
	s.mu.Lock()
	state := s.state.Clone()
	s.mu.Unlock()

	ranked := make([]domain.User, 0, len(state.Users))
	for _, u := range state.Users {
		if !u.IsAdmin() {
			ranked = append(ranked, u)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})

	return ranked
}

func (s *Store) CreateCampaign(ctx context.Context, name, description string) domain.Campaign {
	var created domain.Campaign
	s.apply(ctx, func() bool {
		created = domain.Campaign{
			ID:          s.newID(),
			Name:        name,
			Description: description,
			CreatedAt:   s.now(),
		}
		s.state.Campaigns = append([]domain.Campaign{created}, s.state.Campaigns...)
		return true
	})

	return created
}

func (s *Store) EditCampaign(ctx context.Context, id, name, description string) {
	s.apply(ctx, func() bool {
		for i := range s.state.Campaigns {
			if s.state.Campaigns[i].ID == id {
				s.state.Campaigns[i].Name = name
				s.state.Campaigns[i].Description = description
				return true
			}
		}
		return false
	})
}

// DeleteCampaign removes the campaign and cascades to its categories, tasks
// and their submissions. Submissions whose task no longer exists at all are
// swept out as well. Everything is computed from the one pre-delete state, so
// ordering inside the cascade does not matter.
func (s *Store) DeleteCampaign(ctx context.Context, id string) {
	s.apply(ctx, func() bool {
		before := len(s.state.Campaigns)
		tasks := s.state.Tasks

		s.state.Campaigns = filterCampaigns(s.state.Campaigns, func(c domain.Campaign) bool { return c.ID != id })
		s.state.Categories = filterCategories(s.state.Categories, func(c domain.Category) bool { return c.CampaignID != id })
		s.state.Tasks = filterTasks(s.state.Tasks, func(t domain.Task) bool { return t.CampaignID != id })
		s.state.Submissions = filterSubmissions(s.state.Submissions, func(sub domain.Submission) bool {
			t, ok := findTask(tasks, sub.TaskID)
			return ok && t.CampaignID != id
		})

		return len(s.state.Campaigns) != before
	})
}

// CreateCategory does not validate the campaign reference; a dangling id
// silently produces an unreferenced category, matching the permissive design.
func (s *Store) CreateCategory(ctx context.Context, name, campaignID string) domain.Category {
	var created domain.Category
	s.apply(ctx, func() bool {
		created = domain.Category{
			ID:         s.newID(),
			Name:       name,
			CampaignID: campaignID,
			CreatedAt:  s.now(),
		}
		s.state.Categories = append([]domain.Category{created}, s.state.Categories...)
		return true
	})

	return created
}

// EditCategory replaces the mutable fields. Re-parenting a category drags the
// denormalized CampaignID of its tasks along, keeping the pair consistent.
func (s *Store) EditCategory(ctx context.Context, id, name, campaignID string) {
	s.apply(ctx, func() bool {
		for i := range s.state.Categories {
			if s.state.Categories[i].ID != id {
				continue
			}
			s.state.Categories[i].Name = name
			s.state.Categories[i].CampaignID = campaignID
			for j := range s.state.Tasks {
				if s.state.Tasks[j].CategoryID == id {
					s.state.Tasks[j].CampaignID = campaignID
				}
			}
			return true
		}
		return false
	})
}

func (s *Store) DeleteCategory(ctx context.Context, id string) {
	s.apply(ctx, func() bool {
		before := len(s.state.Categories)
		tasks := s.state.Tasks

		s.state.Categories = filterCategories(s.state.Categories, func(c domain.Category) bool { return c.ID != id })
		s.state.Tasks = filterTasks(s.state.Tasks, func(t domain.Task) bool { return t.CategoryID != id })
		s.state.Submissions = filterSubmissions(s.state.Submissions, func(sub domain.Submission) bool {
			t, ok := findTask(tasks, sub.TaskID)
			return ok && t.CategoryID != id
		})

		return len(s.state.Categories) != before
	})
}

// TaskFields carries the caller-supplied task attributes. Status is never
// among them: publishing forces published, editing preserves it.
type TaskFields struct {
	Title      string
	Details    string
	Image      string
	Points     int
	CategoryID string
	CampaignID string
}

// campaignFor derives the campaign id from the category when it resolves;
// otherwise the caller-supplied id is kept (dangling references are allowed).
func (s *Store) campaignFor(fields TaskFields) string {
	for _, c := range s.state.Categories {
		if c.ID == fields.CategoryID {
			return c.CampaignID
		}
	}

	return fields.CampaignID
}

func (s *Store) PublishTask(ctx context.Context, fields TaskFields) domain.Task {
	var created domain.Task
	s.apply(ctx, func() bool {
		created = domain.Task{
			ID:         s.newID(),
			Title:      fields.Title,
			Details:    fields.Details,
			Image:      fields.Image,
			Points:     fields.Points,
			Status:     domain.TaskPublished,
			CategoryID: fields.CategoryID,
			CampaignID: s.campaignFor(fields),
		}
		s.state.Tasks = append([]domain.Task{created}, s.state.Tasks...)
		return true
	})

	return created
}

func (s *Store) EditTask(ctx context.Context, id string, fields TaskFields) {
	s.apply(ctx, func() bool {
		for i := range s.state.Tasks {
			if s.state.Tasks[i].ID != id {
				continue
			}
			s.state.Tasks[i].Title = fields.Title
			s.state.Tasks[i].Details = fields.Details
			s.state.Tasks[i].Image = fields.Image
			s.state.Tasks[i].Points = fields.Points
			s.state.Tasks[i].CategoryID = fields.CategoryID
			s.state.Tasks[i].CampaignID = s.campaignFor(fields)
			return true
		}
		return false
	})
}

func (s *Store) DeleteTask(ctx context.Context, id string) {
	s.apply(ctx, func() bool {
		before := len(s.state.Tasks)
		s.state.Tasks = filterTasks(s.state.Tasks, func(t domain.Task) bool { return t.ID != id })
		s.state.Submissions = filterSubmissions(s.state.Submissions, func(sub domain.Submission) bool { return sub.TaskID != id })

		return len(s.state.Tasks) != before
	})
}

func (s *Store) TaskByID(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return findTask(s.state.Tasks, id)
}

// SubmitTask encodes the uploaded file into a self-contained data URL and
// records a pending submission for the current user.
func (s *Store) SubmitTask(ctx context.Context, taskID, fileName string, content []byte) (domain.Submission, error) {
	var created domain.Submission
	var submitErr error

	s.apply(ctx, func() bool {
		user, ok := findUser(s.state.Users, s.state.CurrentUserEmail)
		if !ok {
			submitErr = ErrNotAuthenticated
			return false
		}
		created = domain.Submission{
			ID:        s.newID(),
			TaskID:    taskID,
			UserEmail: user.Email,
			FileName:  fileName,
			DataURL:   encodeDataURL(content),
			Status:    domain.SubmissionPending,
			CreatedAt: s.now(),
		}
		s.state.Submissions = append([]domain.Submission{created}, s.state.Submissions...)
		return true
	})

	return created, submitErr
}

// encodeDataURL sniffs the content type and packs the bytes the way a browser
// FileReader would, so the stored payload needs no external blob store.
func encodeDataURL(content []byte) string {
	mediaType := mimetype.Detect(content).String()
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}

	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(content)
}

// SetVisited idempotently marks the task as visited by the current user.
func (s *Store) SetVisited(ctx context.Context, taskID string) {
	s.apply(ctx, func() bool {
		for i := range s.state.Users {
			u := &s.state.Users[i]
			if u.Email != s.state.CurrentUserEmail {
				continue
			}
			if u.HasVisited(taskID) {
				return false
			}
			u.VisitedTaskIDs = append(u.VisitedTaskIDs, taskID)
			return true
		}
		return false
	})
}

// ApproveSubmission moves a pending submission to approved and credits the
// task's point value to the submitting user. A submission that already left
// pending is never moved or credited again, so re-invoking on the same id
// cannot double-credit. Missing submission or task is a silent no-op.
func (s *Store) ApproveSubmission(ctx context.Context, id string) {
	s.apply(ctx, func() bool {
		for i := range s.state.Submissions {
			sub := &s.state.Submissions[i]
			if sub.ID != id {
				continue
			}
			task, ok := findTask(s.state.Tasks, sub.TaskID)
			if !ok {
				return false
			}
			if !sub.Approve() {
				return false
			}
			for j := range s.state.Users {
				if s.state.Users[j].Email == sub.UserEmail {
					s.state.Users[j].Points += task.Points
					break
				}
			}
			return true
		}
		return false
	})
}

// RejectSubmission moves a pending submission to rejected. No point effect.
func (s *Store) RejectSubmission(ctx context.Context, id string) {
	s.apply(ctx, func() bool {
		for i := range s.state.Submissions {
			if s.state.Submissions[i].ID == id {
				return s.state.Submissions[i].Reject()
			}
		}
		return false
	})
}

func (s *Store) PublishUpdate(ctx context.Context, title, details string) domain.Update {
	var created domain.Update
	s.apply(ctx, func() bool {
		created = domain.Update{
			ID:        s.newID(),
			Title:     title,
			Details:   details,
			CreatedAt: s.now(),
		}
		s.state.Updates = append([]domain.Update{created}, s.state.Updates...)
		return true
	})

	return created
}

func (s *Store) DeleteUpdate(ctx context.Context, id string) {
	s.apply(ctx, func() bool {
		before := len(s.state.Updates)
		kept := s.state.Updates[:0:0]
		for _, u := range s.state.Updates {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		s.state.Updates = kept

		return len(kept) != before
	})
}

func findUser(users []domain.User, email string) (domain.User, bool) {
	if email == "" {
		return domain.User{}, false
	}
	for _, u := range users {
		if u.Email == email {
			return u, true
		}
	}

	return domain.User{}, false
}

func findTask(tasks []domain.Task, id string) (domain.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}

	return domain.Task{}, false
}

func filterCampaigns(in []domain.Campaign, keep func(domain.Campaign) bool) []domain.Campaign {
	out := in[:0:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}

	return out
}

func filterCategories(in []domain.Category, keep func(domain.Category) bool) []domain.Category {
	out := in[:0:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}

	return out
}

func filterTasks(in []domain.Task, keep func(domain.Task) bool) []domain.Task {
	out := in[:0:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}

	return out
}

func filterSubmissions(in []domain.Submission, keep func(domain.Submission) bool) []domain.Submission {
	out := in[:0:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}

	return out
}
