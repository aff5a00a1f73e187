package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/claude/neptune/internal/models"
	"github.com/claude/neptune/internal/session"
)

// fakePersister records calls in memory and can be told to fail.
type fakePersister struct {
	state    *PersistedState
	saved    []models.User
	appended []models.WorkoutSession
	resets   int

	loadErr error
	saveErr error
}

func (f *fakePersister) Load(ctx context.Context) (*PersistedState, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.state, nil
}

func (f *fakePersister) SaveUser(ctx context.Context, user models.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, user)
	return nil
}

func (f *fakePersister) AppendWorkout(ctx context.Context, s models.WorkoutSession) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.appended = append(f.appended, s)
	return nil
}

func (f *fakePersister) Reset(ctx context.Context) error {
	f.resets++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, p Persister) *Store {
	t.Helper()
	s := New(context.Background(), p, testLogger())
	t.Cleanup(s.Close)
	return s
}

// TestNewRehydrates verifies profile and workout history are restored
// from the persister at construction.
func TestNewRehydrates(t *testing.T) {
	p := &fakePersister{state: &PersistedState{
		User: models.User{Name: "Kai", Energy: 75, Rank: models.RankSailor, TotalWorkouts: 3},
		WorkoutHistory: []models.WorkoutSession{
			{ID: "w1", ExerciseType: models.ExercisePlank, Duration: 30000, EnergyGained: 30},
		},
	}}
	s := newTestStore(t, p)

	prof := s.Profile()
	if prof.Name != "Kai" || prof.Energy != 75 {
		t.Errorf("profile = %+v, want Kai with 75 energy", prof.User)
	}
	if hist := s.WorkoutHistory(); len(hist) != 1 || hist[0].ID != "w1" {
		t.Errorf("workout history = %+v", hist)
	}
}

// TestNewLoadFailureStartsFresh verifies a broken persister still yields a
// usable store with a default profile.
func TestNewLoadFailureStartsFresh(t *testing.T) {
	p := &fakePersister{loadErr: errors.New("disk gone")}
	s := newTestStore(t, p)

	prof := s.Profile()
	if prof.Rank != models.RankTriton || prof.Energy != 0 {
		t.Errorf("profile after failed load = %+v, want defaults", prof.User)
	}
}

// TestNewNilPersister verifies the store runs memory-only without a
// persistence backend.
func TestNewNilPersister(t *testing.T) {
	s := newTestStore(t, nil)
	if err := s.SetName(context.Background(), "Kai"); err != nil {
		t.Fatalf("SetName without persister: %v", err)
	}
	if prof := s.Profile(); !prof.Onboarded {
		t.Error("profile not onboarded after SetName")
	}
}

// TestSetName verifies trimming, persistence, and empty-name rejection.
func TestSetName(t *testing.T) {
	p := &fakePersister{}
	s := newTestStore(t, p)

	if err := s.SetName(context.Background(), "  Kai  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prof := s.Profile(); prof.Name != "Kai" {
		t.Errorf("name = %q, want Kai", prof.Name)
	}
	if len(p.saved) != 1 {
		t.Errorf("persisted %d times, want 1", len(p.saved))
	}

	err := s.SetName(context.Background(), "   ")
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("blank name error = %v, want ErrInvalidArgument", err)
	}
}

// TestUpdateStreak verifies the streak achievement unlocks at seven days
// and negative values are rejected.
func TestUpdateStreak(t *testing.T) {
	s := newTestStore(t, &fakePersister{})

	if err := s.UpdateStreak(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prof := s.Profile(); !prof.HasAchievement("week-warrior") {
		t.Error("week-warrior not unlocked at streak 7")
	}

	err := s.UpdateStreak(context.Background(), -1)
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("negative streak error = %v, want ErrInvalidArgument", err)
	}
}

// TestCompleteWorkoutOrchestration verifies the single completion
// transition: energy award, rank recompute, workout counter, achievement
// evaluation, and persistence of both the profile and the session.
func TestCompleteWorkoutOrchestration(t *testing.T) {
	p := &fakePersister{}
	s := newTestStore(t, p)

	if _, err := s.StartWorkout(context.Background(), models.ExercisePlank); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.TickWorkout(120000)

	done, user, err := s.CompleteWorkout(context.Background())
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.EnergyGained != 120 {
		t.Errorf("energyGained = %d, want 120", done.EnergyGained)
	}
	if user.Energy != 120 {
		t.Errorf("user energy = %d, want 120", user.Energy)
	}
	if user.Rank != models.RankSailor {
		t.Errorf("rank = %q, want sailor", user.Rank)
	}
	if user.TotalWorkouts != 1 {
		t.Errorf("totalWorkouts = %d, want 1", user.TotalWorkouts)
	}
	if !user.HasAchievement("first-workout") || !user.HasAchievement("energy-master") {
		t.Errorf("achievements = %+v", user.Achievements)
	}
	if len(p.saved) == 0 {
		t.Error("profile not persisted on completion")
	}
	if len(p.appended) != 1 || p.appended[0].ID != done.ID {
		t.Errorf("persisted workouts = %+v", p.appended)
	}
	if _, ok := s.CurrentWorkout(); ok {
		t.Error("workout still current after completion")
	}
}

// TestCompleteWorkoutPersistFailure verifies a failing persister does not
// block the in-memory completion.
func TestCompleteWorkoutPersistFailure(t *testing.T) {
	p := &fakePersister{saveErr: errors.New("disk full")}
	s := newTestStore(t, p)

	if _, err := s.StartWorkout(context.Background(), models.ExerciseSquats); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.TickWorkout(10000)

	_, user, err := s.CompleteWorkout(context.Background())
	if err != nil {
		t.Fatalf("complete failed on persistence error: %v", err)
	}
	if user.Energy != 10 || user.TotalWorkouts != 1 {
		t.Errorf("in-memory state not applied: %+v", user)
	}
	if hist := s.WorkoutHistory(); len(hist) != 1 {
		t.Errorf("history = %+v, want the completed session", hist)
	}
}

// TestCancelWorkoutNoReward verifies cancellation leaves the profile and
// histories untouched.
func TestCancelWorkoutNoReward(t *testing.T) {
	p := &fakePersister{}
	s := newTestStore(t, p)

	if _, err := s.StartWorkout(context.Background(), models.ExercisePlank); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.TickWorkout(60000)
	if err := s.CancelWorkout(); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if prof := s.Profile(); prof.Energy != 0 || prof.TotalWorkouts != 0 {
		t.Errorf("profile changed by cancel: %+v", prof.User)
	}
	if len(s.WorkoutHistory()) != 0 {
		t.Error("cancelled workout landed in history")
	}
	if len(p.appended) != 0 {
		t.Error("cancelled workout persisted")
	}
}

// TestResetProfile verifies the profile returns to defaults and the
// persisted state is cleared while histories stay.
func TestResetProfile(t *testing.T) {
	p := &fakePersister{}
	s := newTestStore(t, p)

	if _, err := s.StartWorkout(context.Background(), models.ExercisePlank); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.TickWorkout(5000)
	if _, _, err := s.CompleteWorkout(context.Background()); err != nil {
		t.Fatalf("complete: %v", err)
	}

	s.ResetProfile(context.Background())

	prof := s.Profile()
	if prof.Energy != 0 || prof.Rank != models.RankTriton || prof.Name != "" {
		t.Errorf("profile after reset = %+v, want defaults", prof.User)
	}
	if p.resets != 1 {
		t.Errorf("persister resets = %d, want 1", p.resets)
	}
	if len(s.WorkoutHistory()) != 1 {
		t.Error("in-memory history cleared by profile reset")
	}
}

// TestStoreBattleFlow drives a full battle through the store and checks
// the snapshot surfaces the decision.
func TestStoreBattleFlow(t *testing.T) {
	s := newTestStore(t, nil)

	players := []session.PlayerSetup{
		{Name: "Ana", Color: models.ColorBlue},
		{Name: "Ben", Color: models.ColorRed},
		{Name: "Cat", Color: models.ColorGreen},
	}
	if _, err := s.CreateBattle(players, models.ExercisePlank); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.StartBattle(); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.TickBattle(5000)
	if _, err := s.EliminatePlayer("player-1"); err != nil {
		t.Fatalf("eliminate player-1: %v", err)
	}
	s.TickBattle(9000)
	b, err := s.EliminatePlayer("player-0")
	if err != nil {
		t.Fatalf("eliminate player-0: %v", err)
	}
	if b.Winner != "player-2" {
		t.Errorf("winner = %q, want player-2", b.Winner)
	}

	snap, ok := s.CurrentBattle()
	if !ok {
		t.Fatal("no current battle after decision")
	}
	if snap.Active {
		t.Error("decided battle still active")
	}
	if len(snap.ActivePlayers) != 1 || snap.ActivePlayers[0].ID != "player-2" {
		t.Errorf("activePlayers = %+v", snap.ActivePlayers)
	}
	if len(snap.EliminatedPlayers) != 2 {
		t.Errorf("eliminatedPlayers = %+v", snap.EliminatedPlayers)
	}

	done, err := s.CompleteBattle()
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Winner != "player-2" {
		t.Errorf("completed winner = %q", done.Winner)
	}
	if hist := s.BattleHistory(); len(hist) != 1 {
		t.Errorf("battle history = %+v", hist)
	}
	if _, ok := s.CurrentBattle(); ok {
		t.Error("battle still current after completion")
	}
}

// TestEliminateWithoutBattle verifies the store reports the missing
// battle instead of panicking.
func TestEliminateWithoutBattle(t *testing.T) {
	s := newTestStore(t, nil)
	if _, err := s.EliminatePlayer("player-0"); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("error = %v, want ErrInvalidState", err)
	}
}

// TestProfileRankProgress verifies the snapshot's next-rank fields at both
// a middle tier and the top tier.
func TestProfileRankProgress(t *testing.T) {
	p := &fakePersister{state: &PersistedState{User: models.User{Energy: 120, Rank: models.RankSailor}}}
	s := newTestStore(t, p)

	prof := s.Profile()
	if prof.NextRank != models.RankKeeperOfWaves || prof.EnergyToNext != 30 {
		t.Errorf("nextRank = %q energyToNext = %d, want keeper-of-waves / 30", prof.NextRank, prof.EnergyToNext)
	}
	if prof.AtHighestRank {
		t.Error("sailor reported at highest rank")
	}
	if prof.Quote == "" {
		t.Error("empty quote in profile snapshot")
	}

	top := newTestStore(t, &fakePersister{state: &PersistedState{
		User: models.User{Energy: 700, Rank: models.RankMessengerOfNeptune},
	}})
	if got := top.Profile(); !got.AtHighestRank || got.NextRank != "" {
		t.Errorf("top-tier snapshot = nextRank %q atHighestRank %v", got.NextRank, got.AtHighestRank)
	}
}
