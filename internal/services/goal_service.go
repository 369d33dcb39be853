package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/repository"
)

// ErrGoalNotFound is returned for operations on an unknown goal id.
var ErrGoalNotFound = errors.New("goal not found")

// GoalService manages metric goals and keeps their progress in sync with
// the journal.
type GoalService struct {
	repo      *repository.GoalRepository
	entryRepo *repository.EntryRepository
	clock     clock.Clock
}

func NewGoalService(repo *repository.GoalRepository, entryRepo *repository.EntryRepository, clk clock.Clock) *GoalService {
	return &GoalService{repo: repo, entryRepo: entryRepo, clock: clk}
}

// Set creates a goal of the given type. A zero target uses the type's
// default.
func (s *GoalService) Set(ctx context.Context, goalType string, target int, deadline time.Time) (*models.Goal, error) {
	if target == 0 {
		if gt, ok := models.GoalTypes[goalType]; ok {
			target = gt.DefaultTarget
		}
	}
	goal := models.Goal{
		ID:        uuid.NewString(),
		Type:      goalType,
		Target:    target,
		Deadline:  deadline,
		CreatedAt: s.clock.Now(),
		Status:    models.GoalActive,
	}
	if err := goal.Validate(); err != nil {
		return nil, err
	}

	goals, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	goals = append(goals, goal)
	if err := s.repo.SaveAll(ctx, goals); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"goalID": goal.ID, "type": goal.Type}).Info("Goal created")
	return &goal, nil
}

// GetAll lists the stored goals.
func (s *GoalService) GetAll(ctx context.Context) ([]models.Goal, error) {
	return s.repo.GetAll(ctx)
}

// Edit merges a partial update into a goal.
func (s *GoalService) Edit(ctx context.Context, id string, target *int, deadline *time.Time) (*models.Goal, error) {
	goals, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := findGoal(goals, id)
	if idx < 0 {
		return nil, fmt.Errorf("edit %q: %w", id, ErrGoalNotFound)
	}

	if target != nil {
		goals[idx].Target = *target
	}
	if deadline != nil {
		goals[idx].Deadline = *deadline
	}
	if err := goals[idx].Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.SaveAll(ctx, goals); err != nil {
		return nil, err
	}
	return &goals[idx], nil
}

// Archive puts a goal out of progress tracking without deleting it.
func (s *GoalService) Archive(ctx context.Context, id string) error {
	goals, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	idx := findGoal(goals, id)
	if idx < 0 {
		return fmt.Errorf("archive %q: %w", id, ErrGoalNotFound)
	}
	goals[idx].Status = models.GoalArchived
	return s.repo.SaveAll(ctx, goals)
}

// Delete removes a goal.
func (s *GoalService) Delete(ctx context.Context, id string) error {
	goals, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	idx := findGoal(goals, id)
	if idx < 0 {
		return fmt.Errorf("delete %q: %w", id, ErrGoalNotFound)
	}
	goals = append(goals[:idx], goals[idx+1:]...)
	return s.repo.SaveAll(ctx, goals)
}

// UpdateProgress recomputes every non-archived goal's progress from the
// journal entries recorded between its creation and its deadline.
func (s *GoalService) UpdateProgress(ctx context.Context) ([]models.Goal, error) {
	goals, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	for i := range goals {
		goal := &goals[i]
		if goal.Status == models.GoalArchived {
			continue
		}

		relevant := entriesBetween(entries, goal.CreatedAt, goal.Deadline)
		goal.Progress = GoalProgress(goal, relevant)

		expired := now.After(goal.Deadline)
		switch {
		case goal.Progress >= 100:
			if goal.Status != models.GoalCompleted {
				achieved := now
				goal.AchievementDate = &achieved
			}
			goal.Status = models.GoalCompleted
		case expired:
			goal.Status = models.GoalFailed
			goal.AchievementDate = nil
		default:
			goal.Status = models.GoalActive
			goal.AchievementDate = nil
		}
	}

	if err := s.repo.SaveAll(ctx, goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// GoalProgress is the percentage of the target reached by the average of
// the goal's metric over the given entries, capped at 100.
func GoalProgress(goal *models.Goal, entries []models.Entry) int {
	if len(entries) == 0 || goal.Target == 0 {
		return 0
	}
	gt, ok := models.GoalTypes[goal.Type]
	if !ok {
		return 0
	}

	total := 0
	for _, entry := range entries {
		total += entry.Metric(gt.Metric)
	}
	average := float64(total) / float64(len(entries))
	progress := int(math.Round(average / float64(goal.Target) * 100))
	if progress > 100 {
		progress = 100
	}
	return progress
}

func entriesBetween(entries []models.Entry, from, to time.Time) []models.Entry {
	kept := make([]models.Entry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Timestamp.Before(from) && !entry.Timestamp.After(to) {
			kept = append(kept, entry)
		}
	}
	return kept
}

func findGoal(goals []models.Goal, id string) int {
	for i := range goals {
		if goals[i].ID == id {
			return i
		}
	}
	return -1
}
