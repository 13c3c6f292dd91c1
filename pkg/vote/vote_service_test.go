package vote

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/entities"
	"Go-Voting-Backend/internal/testutil"
	"Go-Voting-Backend/pkg/event"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newVoteService(db *gorm.DB) VoteService {
	return NewVoteService(NewVoteRepository(db), event.NewEventService(event.NewEventRepository(db)), nil)
}

func voteCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&entities.Vote{}).Count(&n).Error)
	return n
}

func TestCastVote(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.CreateLiveEvent(t, db, 2)
	user := testutil.CreateUser(t, db, 10)
	svc := newVoteService(db)

	vote, err := svc.CastVote(context.Background(), domain.CastVoteRequest{
		CandidateID: fx.Candidate.ID.String(),
		PointsUsed:  6,
	}, user.ID.String())
	require.NoError(t, err)
	require.Equal(t, 6, vote.PointsUsed)
	require.Equal(t, 3, vote.VotesReceived)
	require.Equal(t, fx.Candidate.Name, vote.CandidateName)
	require.Equal(t, 4, testutil.Balance(t, db, user.ID))
	require.Equal(t, int64(1), voteCount(t, db))
}

func TestCastVoteRejections(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.CreateLiveEvent(t, db, 3)
	user := testutil.CreateUser(t, db, 10)
	svc := newVoteService(db)

	tests := []struct {
		name        string
		candidateID string
		userID      string
		points      int
		want        error
	}{
		{"not a multiple", fx.Candidate.ID.String(), user.ID.String(), 4, domain.ErrNotAMultiple},
		{"below minimum", fx.Candidate.ID.String(), user.ID.String(), 2, domain.ErrBelowMinimum},
		{"insufficient", fx.Candidate.ID.String(), user.ID.String(), 12, domain.ErrInsufficientPoints},
		{"unknown candidate", uuid.NewString(), user.ID.String(), 3, domain.ErrCandidateNotFound},
		{"unknown user", fx.Candidate.ID.String(), uuid.NewString(), 3, domain.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CastVote(context.Background(), domain.CastVoteRequest{
				CandidateID: tt.candidateID,
				PointsUsed:  tt.points,
			}, tt.userID)
			require.ErrorIs(t, err, tt.want)
		})
	}

	require.Equal(t, 10, testutil.Balance(t, db, user.ID))
	require.Zero(t, voteCount(t, db))
}

func TestCastVoteEventWindow(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now().UTC()
	fx := testutil.CreateEvent(t, db, &entities.Event{
		Name:          "Festival Film",
		Status:        entities.EventStatusUpcoming,
		IsActive:      true,
		StartDate:     now.Add(48 * time.Hour),
		EndDate:       now.Add(96 * time.Hour),
		PointsPerVote: 1,
	})
	user := testutil.CreateUser(t, db, 10)
	svc := newVoteService(db).(*voteService)
	req := domain.CastVoteRequest{CandidateID: fx.Candidate.ID.String(), PointsUsed: 1}
	ctx := context.Background()

	_, err := svc.CastVote(ctx, req, user.ID.String())
	require.ErrorIs(t, err, domain.ErrEventNotStarted)

	require.NoError(t, db.Model(fx.Event).Updates(map[string]any{
		"status":     entities.EventStatusLive,
		"start_date": now.Add(-time.Hour),
		"end_date":   now.Add(time.Hour),
	}).Error)

	_, err = svc.CastVote(ctx, req, user.ID.String())
	require.NoError(t, err)

	svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = svc.CastVote(ctx, req, user.ID.String())
	require.ErrorIs(t, err, domain.ErrEventEnded)

	require.Equal(t, 9, testutil.Balance(t, db, user.ID))
	require.Equal(t, int64(1), voteCount(t, db))
}

func TestConcurrentVotesNeverOverdraw(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.CreateLiveEvent(t, db, 1)
	const balance = 10
	user := testutil.CreateUser(t, db, balance)
	svc := newVoteService(db)

	const voters = 6
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		spent        int
		insufficient int
		other        []error
	)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vote, err := svc.CastVote(context.Background(), domain.CastVoteRequest{
				CandidateID: fx.Candidate.ID.String(),
				PointsUsed:  4,
			}, user.ID.String())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				spent += vote.PointsUsed
			case errors.Is(err, domain.ErrInsufficientPoints):
				insufficient++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, other)
	require.Equal(t, 8, spent)
	require.Equal(t, voters-2, insufficient)
	require.Equal(t, balance-spent, testutil.Balance(t, db, user.ID))
	require.Equal(t, int64(2), voteCount(t, db))
}

func TestConditionalDebitRejectsOverdraw(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.CreateLiveEvent(t, db, 1)
	user := testutil.CreateUser(t, db, 3)
	repo := NewVoteRepository(db)

	// Balance check already passed elsewhere; the debit itself must still refuse
	err := repo.CastVote(context.Background(), &entities.Vote{UserID: user.ID, CandidateID: fx.Candidate.ID, PointsUsed: 5})
	require.ErrorIs(t, err, domain.ErrInsufficientPoints)
	require.Equal(t, 3, testutil.Balance(t, db, user.ID))
	require.Zero(t, voteCount(t, db))
}

func TestGetUserVotes(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.CreateLiveEvent(t, db, 2)
	user := testutil.CreateUser(t, db, 20)
	svc := newVoteService(db)
	ctx := context.Background()

	for _, p := range []int{2, 4, 6} {
		_, err := svc.CastVote(ctx, domain.CastVoteRequest{CandidateID: fx.Candidate.ID.String(), PointsUsed: p}, user.ID.String())
		require.NoError(t, err)
	}

	votes, count, err := svc.GetUserVotes(ctx, user.ID.String(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
	require.Len(t, votes, 2)

	total := 0
	all, _, err := svc.GetUserVotes(ctx, user.ID.String(), 1, 20)
	require.NoError(t, err)
	for _, v := range all {
		require.Equal(t, v.PointsUsed/2, v.VotesReceived)
		total += v.VotesReceived
	}
	require.Equal(t, 6, total)
}
