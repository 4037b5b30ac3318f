package service

import (
	"context"

	"medclinic/internal/models"
	"medclinic/internal/repository"
)

// recentActivityLimit caps the activity listing per user.
const recentActivityLimit = 50

type ActivityService struct {
	activities repository.Activities
}

func NewActivityService(activities repository.Activities) *ActivityService {
	return &ActivityService{activities: activities}
}

// Record appends an audit entry. Failures are swallowed: auditing must never
// break the request flow that produced the entry.
func (s *ActivityService) Record(ctx context.Context, a models.UserActivity) {
	if a.UserAgent == "" {
		a.UserAgent = "unknown"
	}
	_ = s.activities.Append(ctx, a)
}

// Recent returns up to 50 newest activities for the user.
func (s *ActivityService) Recent(ctx context.Context, userID int) ([]models.UserActivity, error) {
	return s.activities.ListRecent(ctx, userID, recentActivityLimit)
}
