// Package repository encodes the application state to and from the single
// persisted document and applies the forward-compatible migrations for older
// document shapes on the way in.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adarshamigo11/task-portal/internal/domain"
	"github.com/adarshamigo11/task-portal/internal/repository/dao"
)

var ErrStateNotFound = dao.ErrStateNotFound

// Placeholder foreign keys assigned to tasks persisted before tasks carried
// relational fields, so old records stay structurally valid.
const (
	placeholderCategoryID = "default-category"
	placeholderCampaignID = "default-campaign"
)

// StateDAO is a single named slot holding one opaque blob.
type StateDAO interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, blob []byte) error
}

type StateRepository struct {
	dao StateDAO
}

func NewStateRepository(dao StateDAO) *StateRepository {
	return &StateRepository{
		dao: dao,
	}
}

func (r *StateRepository) Load(ctx context.Context) (domain.State, error) {
	blob, err := r.dao.Get(ctx)
	if err != nil {
		return domain.State{}, fmt.Errorf("r.dao.Get -> %w", err)
	}

	state, err := decodeState(blob)
	if err != nil {
		return domain.State{}, fmt.Errorf("repository.decodeState -> %w", err)
	}

	return state, nil
}

func (r *StateRepository) Save(ctx context.Context, state domain.State) error {
	blob, err := json.Marshal(documentFromDomain(state))
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if err = r.dao.Put(ctx, blob); err != nil {
		return fmt.Errorf("r.dao.Put -> %w", err)
	}

	return nil
}

// The persisted document layout: { auth: { currentUserEmail }, data: {...} }.
// Timestamps are epoch milliseconds, passwords do round-trip (the domain type
// hides them from API responses, the document must keep them).
type document struct {
	Auth authState `json:"auth"`
	Data appData   `json:"data"`
}

type authState struct {
	CurrentUserEmail *string `json:"currentUserEmail"`
}

type appData struct {
	Users       []userRecord       `json:"users"`
	Campaigns   []campaignRecord   `json:"campaigns"`
	Categories  []categoryRecord   `json:"categories"`
	Tasks       []taskRecord       `json:"tasks"`
	Submissions []submissionRecord `json:"submissions"`
	Updates     []updateRecord     `json:"updates"`
}

type userRecord struct {
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Name           string   `json:"name"`
	ProfilePhoto   string   `json:"profilePhoto"`
	Points         int      `json:"points"`
	VisitedTaskIDs []string `json:"visitedTaskIds"`
}

type campaignRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"createdAt"`
}

type categoryRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CampaignID string `json:"campaignId"`
	CreatedAt  int64  `json:"createdAt"`
}

type taskRecord struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Details    string `json:"details"`
	Image      string `json:"image"`
	Points     int    `json:"points"`
	Status     string `json:"status"`
	CategoryID string `json:"categoryId"`
	CampaignID string `json:"campaignId"`
}

type submissionRecord struct {
	ID        string `json:"id"`
	TaskID    string `json:"taskId"`
	UserEmail string `json:"userEmail"`
	FileName  string `json:"fileName"`
	DataURL   string `json:"dataUrl"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"createdAt"`
}

type updateRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Details   string `json:"details"`
	CreatedAt int64  `json:"createdAt"`
}

func documentFromDomain(state domain.State) document {
	doc := document{}
	if state.CurrentUserEmail != "" {
		email := state.CurrentUserEmail
		doc.Auth.CurrentUserEmail = &email
	}

	doc.Data.Users = make([]userRecord, 0, len(state.Users))
	for _, u := range state.Users {
		doc.Data.Users = append(doc.Data.Users, userRecord{
			Email:          u.Email,
			Password:       u.Password,
			Name:           u.Name,
			ProfilePhoto:   u.ProfilePhoto,
			Points:         u.Points,
			VisitedTaskIDs: notNil(u.VisitedTaskIDs),
		})
	}
	doc.Data.Campaigns = make([]campaignRecord, 0, len(state.Campaigns))
	for _, c := range state.Campaigns {
		doc.Data.Campaigns = append(doc.Data.Campaigns, campaignRecord{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			CreatedAt:   c.CreatedAt.UnixMilli(),
		})
	}
	doc.Data.Categories = make([]categoryRecord, 0, len(state.Categories))
	for _, c := range state.Categories {
		doc.Data.Categories = append(doc.Data.Categories, categoryRecord{
			ID:         c.ID,
			Name:       c.Name,
			CampaignID: c.CampaignID,
			CreatedAt:  c.CreatedAt.UnixMilli(),
		})
	}
	doc.Data.Tasks = make([]taskRecord, 0, len(state.Tasks))
	for _, t := range state.Tasks {
		doc.Data.Tasks = append(doc.Data.Tasks, taskRecord{
			ID:         t.ID,
			Title:      t.Title,
			Details:    t.Details,
			Image:      t.Image,
			Points:     t.Points,
			Status:     string(t.Status),
			CategoryID: t.CategoryID,
			CampaignID: t.CampaignID,
		})
	}
	doc.Data.Submissions = make([]submissionRecord, 0, len(state.Submissions))
	for _, sub := range state.Submissions {
		doc.Data.Submissions = append(doc.Data.Submissions, submissionRecord{
			ID:        sub.ID,
			TaskID:    sub.TaskID,
			UserEmail: sub.UserEmail,
			FileName:  sub.FileName,
			DataURL:   sub.DataURL,
			Status:    string(sub.Status),
			CreatedAt: sub.CreatedAt.UnixMilli(),
		})
	}
	doc.Data.Updates = make([]updateRecord, 0, len(state.Updates))
	for _, u := range state.Updates {
		doc.Data.Updates = append(doc.Data.Updates, updateRecord{
			ID:        u.ID,
			Title:     u.Title,
			Details:   u.Details,
			CreatedAt: u.CreatedAt.UnixMilli(),
		})
	}

	return doc
}

// decodeState parses the blob and defensively defaults each record type:
// missing collections become empty, tasks missing relational fields receive
// placeholder foreign keys. An absent users collection stays nil so the store
// can tell it apart from a present-but-empty one and reseed.
func decodeState(blob []byte) (domain.State, error) {
	var doc document
	if err := json.Unmarshal(blob, &doc); err != nil {
		return domain.State{}, err
	}

	state := domain.State{}
	if doc.Auth.CurrentUserEmail != nil {
		state.CurrentUserEmail = *doc.Auth.CurrentUserEmail
	}

	if doc.Data.Users != nil {
		state.Users = make([]domain.User, 0, len(doc.Data.Users))
		for _, u := range doc.Data.Users {
			state.Users = append(state.Users, domain.User{
				Email:          u.Email,
				Password:       u.Password,
				Name:           u.Name,
				ProfilePhoto:   u.ProfilePhoto,
				Points:         u.Points,
				VisitedTaskIDs: notNil(u.VisitedTaskIDs),
			})
		}
	}

	state.Campaigns = make([]domain.Campaign, 0, len(doc.Data.Campaigns))
	for _, c := range doc.Data.Campaigns {
		state.Campaigns = append(state.Campaigns, domain.Campaign{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			CreatedAt:   time.UnixMilli(c.CreatedAt).UTC(),
		})
	}
	state.Categories = make([]domain.Category, 0, len(doc.Data.Categories))
	for _, c := range doc.Data.Categories {
		state.Categories = append(state.Categories, domain.Category{
			ID:         c.ID,
			Name:       c.Name,
			CampaignID: c.CampaignID,
			CreatedAt:  time.UnixMilli(c.CreatedAt).UTC(),
		})
	}
	state.Tasks = make([]domain.Task, 0, len(doc.Data.Tasks))
	for _, t := range doc.Data.Tasks {
		if t.CategoryID == "" {
			t.CategoryID = placeholderCategoryID
		}
		if t.CampaignID == "" {
			t.CampaignID = placeholderCampaignID
		}
		state.Tasks = append(state.Tasks, domain.Task{
			ID:         t.ID,
			Title:      t.Title,
			Details:    t.Details,
			Image:      t.Image,
			Points:     t.Points,
			Status:     domain.TaskStatus(t.Status),
			CategoryID: t.CategoryID,
			CampaignID: t.CampaignID,
		})
	}
	state.Submissions = make([]domain.Submission, 0, len(doc.Data.Submissions))
	for _, sub := range doc.Data.Submissions {
		state.Submissions = append(state.Submissions, domain.Submission{
			ID:        sub.ID,
			TaskID:    sub.TaskID,
			UserEmail: sub.UserEmail,
			FileName:  sub.FileName,
			DataURL:   sub.DataURL,
			Status:    domain.SubmissionStatus(sub.Status),
			CreatedAt: time.UnixMilli(sub.CreatedAt).UTC(),
		})
	}
	state.Updates = make([]domain.Update, 0, len(doc.Data.Updates))
	for _, u := range doc.Data.Updates {
		state.Updates = append(state.Updates, domain.Update{
			ID:        u.ID,
			Title:     u.Title,
			Details:   u.Details,
			CreatedAt: time.UnixMilli(u.CreatedAt).UTC(),
		})
	}

	return state, nil
}

func notNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}

	return ids
}
