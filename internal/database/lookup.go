package database

import (
	"context"

	"github.com/google/uuid"

	"jobboard-backend/internal/model"
)

// PublicUsers returns the public fields of the users in ids, keyed by id.
// Unknown ids are left out of the map.
func (db *DBinstanceStruct) PublicUsers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.PublicUser, error) {
	out := make(map[uuid.UUID]model.PublicUser, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []model.User
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u.Public()
	}
	return out, nil
}

// ApplicationsInOrder loads the applications in ids, in the order of ids, with
// their applicant attached. Ids that do not resolve are skipped.
func (db *DBinstanceStruct) ApplicationsInOrder(ctx context.Context, ids []string) ([]model.Application, error) {
	apps := []model.Application{}
	if len(ids) == 0 {
		return apps, nil
	}

	var found []model.Application
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]model.Application, len(found))
	applicantIDs := make([]uuid.UUID, 0, len(found))
	for _, a := range found {
		byID[a.ID.String()] = a
		applicantIDs = append(applicantIDs, a.ApplicantID)
	}

	applicants, err := db.PublicUsers(ctx, applicantIDs)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			continue
		}
		if u, ok := applicants[a.ApplicantID]; ok {
			a.Applicant = &u
		}
		apps = append(apps, a)
	}
	return apps, nil
}
