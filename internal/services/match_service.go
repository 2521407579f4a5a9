package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/secret-santa-backend/internal/matching"
	"github.com/ArowuTest/secret-santa-backend/internal/metrics"
	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure MatchServiceImpl implements MatchService
var _ MatchService = (*MatchServiceImpl)(nil)

// MatchServiceImpl runs the assignment engine and keeps the history of runs
type MatchServiceImpl struct {
	participantRepo repositories.ParticipantRepository
	assignmentRepo  repositories.AssignmentRepository
	runRepo         repositories.MatchRunRepository
	settingsRepo    repositories.SystemSettingsRepository
	engine          *matching.Engine
	notifier        NotificationService
	metrics         metrics.Recorder
	appDomain       string

	// one run at a time per process
	running sync.Mutex
}

// NewMatchService creates a new MatchServiceImpl. notifier may be nil when
// assignment emails are not wanted; recorder may be nil.
func NewMatchService(
	participantRepo repositories.ParticipantRepository,
	assignmentRepo repositories.AssignmentRepository,
	runRepo repositories.MatchRunRepository,
	settingsRepo repositories.SystemSettingsRepository,
	engine *matching.Engine,
	notifier NotificationService,
	recorder metrics.Recorder,
	appDomain string,
) *MatchServiceImpl {
	if engine == nil {
		engine = matching.NewEngine()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &MatchServiceImpl{
		participantRepo: participantRepo,
		assignmentRepo:  assignmentRepo,
		runRepo:         runRepo,
		settingsRepo:    settingsRepo,
		engine:          engine,
		notifier:        notifier,
		metrics:         recorder,
		appDomain:       appDomain,
	}
}

// RunMatching executes the engine over every registered participant and stores the pairs under a new run
func (s *MatchServiceImpl) RunMatching(ctx context.Context, policyName, triggeredBy string) (run *models.MatchRun, err error) {
	if !s.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.running.Unlock()

	// 1. Resolve the policy before anything is recorded
	policy, err := s.resolvePolicy(ctx, policyName)
	if err != nil {
		return nil, err
	}

	participants, err := s.participantRepo.FindAll(ctx)
	if err != nil {
		slog.Error("RunMatching: Failed to load participants", "error", err)
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	// 2. Record the run as EXECUTING
	start := time.Now()
	run = &models.MatchRun{
		Policy:             string(policy),
		Status:             models.MatchRunStatusExecuting,
		TriggeredBy:        triggeredBy,
		TotalParticipants:  len(participants),
		ExecutionStartTime: start,
	}
	logStep(run, "Starting execution with policy %s", policy)
	if err = s.runRepo.Create(ctx, run); err != nil {
		slog.Error("RunMatching: Failed to record run", "error", err)
		return nil, fmt.Errorf("failed to record match run: %w", err)
	}

	// Defer status update on failure/completion
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during execution: %v", r)
		}
		outcome := metrics.OutcomeCompleted
		if err != nil {
			outcome = metrics.OutcomeFailed
			run.Status = models.MatchRunStatusFailed
			run.ErrorMessage = err.Error()
			logStep(run, "ERROR: %s", err)
		} else {
			run.Status = models.MatchRunStatusCompleted
			logStep(run, "Execution completed successfully")
		}
		run.ExecutionEndTime = time.Now()
		// The final status must land even when the caller has gone away
		if updateErr := s.runRepo.Update(context.WithoutCancel(ctx), run); updateErr != nil {
			slog.Error("RunMatching: CRITICAL: Failed to update final run status", "error", updateErr, "runId", run.ID, "finalStatusAttempt", run.Status)
		}
		s.metrics.RecordMatchRun(run.Policy, outcome, run.ExecutionEndTime.Sub(start), run.Attempts)
	}()

	// 3. Compute
	input := make([]matching.Participant, 0, len(participants))
	for _, p := range participants {
		input = append(input, matching.Participant{ID: p.Identifier, Tier: p.Tier})
	}
	logStep(run, "Loaded %d participants", len(input))

	result, err := s.engine.Compute(input, policy)
	if err != nil {
		slog.Warn("RunMatching: Engine found no assignment", "error", err, "runId", run.ID, "policy", policy, "participants", len(input))
		return run, fmt.Errorf("matching failed: %w", err)
	}
	run.Attempts = result.Attempts
	run.PriorityPairs = result.PriorityPairs
	logStep(run, "Engine produced %d pairs after %d attempts", len(result.Pairs), result.Attempts)
	if policy == matching.PolicyPriorityPass {
		logStep(run, "Senior to junior pairs: %d", result.PriorityPairs)
	}

	// 4. Re-check before anything is persisted
	if err = matching.Verify(input, policy, result.Pairs); err != nil {
		slog.Error("RunMatching: Engine result failed verification", "error", err, "runId", run.ID)
		return run, err
	}

	// 5. Persist pairs
	givers := make([]string, 0, len(result.Pairs))
	for giver := range result.Pairs {
		givers = append(givers, giver)
	}
	sort.Strings(givers)
	assignments := make([]*models.Assignment, 0, len(givers))
	for _, giver := range givers {
		assignments = append(assignments, &models.Assignment{
			RunID:    run.ID,
			Giver:    giver,
			Receiver: result.Pairs[giver],
			Status:   models.AssignmentStatusPending,
		})
	}
	if err = s.assignmentRepo.CreateMany(ctx, assignments); err != nil {
		slog.Error("RunMatching: Failed to store assignments", "error", err, "runId", run.ID)
		return run, fmt.Errorf("failed to store assignments: %w", err)
	}
	run.PairCount = len(assignments)
	logStep(run, "Stored %d assignments", len(assignments))

	slog.Info("Match run completed", "runId", run.ID, "policy", policy, "pairs", run.PairCount, "attempts", run.Attempts, "triggeredBy", triggeredBy)
	// Final status update is handled by the deferred function
	return run, nil
}

func (s *MatchServiceImpl) resolvePolicy(ctx context.Context, name string) (matching.Policy, error) {
	if name == "" {
		settings, err := s.settingsRepo.GetSettings(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to get system settings: %w", err)
		}
		name = settings.MatchingPolicy
	}
	policy, err := matching.ParsePolicy(name)
	if err != nil {
		return "", validationError("%v", err)
	}
	return policy, nil
}

func logStep(run *models.MatchRun, format string, args ...interface{}) {
	run.ExecutionLog = append(run.ExecutionLog, fmt.Sprintf("%s: %s", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...)))
}

// GetRun retrieves a run by ID
func (s *MatchServiceImpl) GetRun(ctx context.Context, id primitive.ObjectID) (*models.MatchRun, error) {
	return s.runRepo.FindByID(ctx, id)
}

// ListRuns returns every run, newest first
func (s *MatchServiceImpl) ListRuns(ctx context.Context) ([]*models.MatchRun, error) {
	return s.runRepo.FindAll(ctx)
}

// GetRunPairs returns the stored pairs of a run
func (s *MatchServiceImpl) GetRunPairs(ctx context.Context, id primitive.ObjectID) ([]*models.Assignment, error) {
	if _, err := s.runRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.assignmentRepo.FindByRunID(ctx, id)
}

func (s *MatchServiceImpl) currentRun(ctx context.Context) (*models.MatchRun, error) {
	run, err := s.runRepo.FindLatestByStatus(ctx, models.MatchRunStatusCompleted)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNoAssignment
	}
	return run, err
}

// GetAssignmentForGiver returns the receiver and their wishlist for a giver in the current run
func (s *MatchServiceImpl) GetAssignmentForGiver(ctx context.Context, identifier string) (*models.AssignmentDetails, error) {
	run, err := s.currentRun(ctx)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.FindByRunAndGiver(ctx, run.ID, identifier)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNoAssignment
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}

	details := &models.AssignmentDetails{
		RunID:        run.ID,
		Giver:        assignment.Giver,
		Receiver:     assignment.Receiver,
		ReceiverName: assignment.Receiver,
		Wishlist:     []models.WishlistItem{},
	}
	receiver, err := s.participantRepo.FindByIdentifier(ctx, assignment.Receiver)
	switch {
	case err == nil:
		details.ReceiverName = receiver.Name
		details.Bio = receiver.Bio
		details.Address = receiver.Address
		if receiver.Wishlist != nil {
			details.Wishlist = receiver.Wishlist
		}
	case errors.Is(err, repositories.ErrNotFound):
		// Receiver left after the run; the pair stays valid
		slog.Warn("Assignment receiver no longer registered", "runId", run.ID, "receiver", assignment.Receiver)
	default:
		return nil, fmt.Errorf("failed to load receiver: %w", err)
	}
	return details, nil
}

// NotifyAssignments emails each giver of the current run who has an address
func (s *MatchServiceImpl) NotifyAssignments(ctx context.Context) (sent, failed int, err error) {
	if s.notifier == nil {
		return 0, 0, errors.New("notifications are not configured")
	}
	run, err := s.currentRun(ctx)
	if err != nil {
		return 0, 0, err
	}
	pairs, err := s.assignmentRepo.FindByRunID(ctx, run.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load assignments: %w", err)
	}

	for _, pair := range pairs {
		giver, err := s.participantRepo.FindByIdentifier(ctx, pair.Giver)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			continue
		case err != nil:
			slog.Warn("Failed to load giver for assignment email", "error", err, "giver", pair.Giver)
			failed++
			continue
		case giver.Email == "":
			continue
		}
		subject, html := assignmentEmail(giver.Name, s.appDomain)
		if _, err := s.notifier.SendEmail(ctx, giver.Email, subject, html, models.NotificationTypeAssignment); err != nil {
			slog.Warn("Failed to send assignment email", "error", err, "giver", giver.Identifier)
			failed++
			continue
		}
		sent++
	}
	slog.Info("Assignment emails sent", "runId", run.ID, "sent", sent, "failed", failed)
	return sent, failed, nil
}
