package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/claude/neptune/internal/models"
)

func setupPlayers(n int) []PlayerSetup {
	colors := []models.PlayerColor{
		models.ColorBlue, models.ColorRed, models.ColorGreen,
		models.ColorYellow, models.ColorPurple, models.ColorOrange,
	}
	players := make([]PlayerSetup, 0, n)
	for i := 0; i < n; i++ {
		players = append(players, PlayerSetup{
			Name:  fmt.Sprintf("Player %d", i+1),
			Color: colors[i%len(colors)],
		})
	}
	return players
}

// TestBattleCreate verifies that creation assigns sequential stable player
// ids, marks everyone active with zero held time, and leaves the battle
// not yet started.
func TestBattleCreate(t *testing.T) {
	m := NewBattleManager()
	b, err := m.Create(setupPlayers(3), models.ExercisePlank)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Players) != 3 {
		t.Fatalf("players = %d, want 3", len(b.Players))
	}
	for i, p := range b.Players {
		if want := fmt.Sprintf("player-%d", i); p.ID != want {
			t.Errorf("player id = %q, want %q", p.ID, want)
		}
		if !p.IsActive {
			t.Errorf("player %s not active at creation", p.ID)
		}
		if p.TimeHeld != 0 {
			t.Errorf("player %s timeHeld = %d, want 0", p.ID, p.TimeHeld)
		}
	}
	if m.Active() {
		t.Error("battle should not run before start")
	}
	if m.Started() {
		t.Error("battle should not be started at creation")
	}
}

// TestBattleCreatePlayerCountBounds verifies the 2-6 player limits.
func TestBattleCreatePlayerCountBounds(t *testing.T) {
	m := NewBattleManager()
	for _, n := range []int{0, 1, 7} {
		_, err := m.Create(setupPlayers(n), models.ExercisePlank)
		if !errors.Is(err, models.ErrInvalidArgument) {
			t.Errorf("create with %d players: error = %v, want ErrInvalidArgument", n, err)
		}
	}
	for _, n := range []int{2, 6} {
		if _, err := m.Create(setupPlayers(n), models.ExercisePlank); err != nil {
			t.Errorf("create with %d players: unexpected error %v", n, err)
		}
	}
}

// TestBattleCreateRejectsBlankName verifies that whitespace-only player
// names are rejected.
func TestBattleCreateRejectsBlankName(t *testing.T) {
	m := NewBattleManager()
	players := setupPlayers(2)
	players[1].Name = "   "
	_, err := m.Create(players, models.ExercisePlank)
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

// TestBattleCreateAllowsDuplicateColors verifies that color uniqueness is
// not enforced at this layer; the setup UI owns that concern.
func TestBattleCreateAllowsDuplicateColors(t *testing.T) {
	m := NewBattleManager()
	players := []PlayerSetup{
		{Name: "Ann", Color: models.ColorBlue},
		{Name: "Bo", Color: models.ColorBlue},
	}
	if _, err := m.Create(players, models.ExercisePlank); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestBattleStartResetsClock verifies that the clock starts from zero at
// the explicit start, not at creation.
func TestBattleStartResetsClock(t *testing.T) {
	m := NewBattleManager()
	if _, err := m.Create(setupPlayers(2), models.ExercisePlank); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := m.Current()
	if b.Duration != 0 {
		t.Errorf("duration = %d, want 0", b.Duration)
	}
	if !m.Active() {
		t.Error("battle should run after start")
	}

	if err := m.Start(); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("second start error = %v, want ErrInvalidState", err)
	}
}

// TestBattleStartRequiresBattle verifies that starting from idle fails.
func TestBattleStartRequiresBattle(t *testing.T) {
	m := NewBattleManager()
	if err := m.Start(); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("error = %v, want ErrInvalidState", err)
	}
}

// TestBattleTickSharedClock verifies that every active player mirrors the
// battle clock while eliminated players keep their frozen value.
func TestBattleTickSharedClock(t *testing.T) {
	m := NewBattleManager()
	if _, err := m.Create(setupPlayers(3), models.ExercisePlank); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.Tick(4000)
	if err := m.Eliminate("player-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Tick(7500)

	b, _ := m.Current()
	if b.Duration != 7500 {
		t.Errorf("duration = %d, want 7500", b.Duration)
	}
	for _, p := range b.Players {
		switch p.ID {
		case "player-1":
			if p.TimeHeld != 4000 {
				t.Errorf("eliminated player timeHeld = %d, want frozen 4000", p.TimeHeld)
			}
		default:
			if p.TimeHeld != 7500 {
				t.Errorf("active player %s timeHeld = %d, want 7500", p.ID, p.TimeHeld)
			}
		}
	}
}

// TestBattleEliminationScenario walks the canonical three-player contest:
// two eliminations decide the winner, held times freeze at the right
// values, and the battle auto-pauses.
func TestBattleEliminationScenario(t *testing.T) {
	m := NewBattleManager()
	players := []PlayerSetup{
		{Name: "Ann", Color: models.ColorBlue},
		{Name: "Bo", Color: models.ColorRed},
		{Name: "Cy", Color: models.ColorGreen},
	}
	if _, err := m.Create(players, models.ExercisePlank); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.Tick(5000)
	if err := m.Eliminate("player-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Tick(9000)
	if err := m.Eliminate("player-0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, _ := m.Current()
	if b.Winner != "player-2" {
		t.Errorf("winner = %q, want player-2", b.Winner)
	}
	if m.Active() {
		t.Error("battle should auto-pause once decided")
	}

	want := map[string]int64{"player-0": 9000, "player-1": 5000, "player-2": 9000}
	for _, p := range b.Players {
		if p.TimeHeld != want[p.ID] {
			t.Errorf("%s timeHeld = %d, want %d", p.ID, p.TimeHeld, want[p.ID])
		}
	}

	active := b.ActivePlayers()
	if len(active) != 1 || active[0].ID != "player-2" {
		t.Errorf("active players = %+v, want only player-2", active)
	}
	if got := len(b.EliminatedPlayers()); got != 2 {
		t.Errorf("eliminated players = %d, want 2", got)
	}
}

// TestBattleTwoPlayerInstantWin verifies that a single elimination in a
// two-player battle immediately decides it.
func TestBattleTwoPlayerInstantWin(t *testing.T) {
	m := NewBattleManager()
	if _, err := m.Create(setupPlayers(2), models.ExercisePlank); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Eliminate("player-0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := m.Current()
	if b.Winner != "player-1" {
		t.Errorf("winner = %q, want player-1", b.Winner)
	}
}

// TestBattleEliminateUnknownPlayer verifies the NotFound error for a
// player id outside the battle.
func TestBattleEliminateUnknownPlayer(t *testing.T) {
	m := NewBattleManager()
	if _, err := m.Create(setupPlayers(2), models.ExercisePlank); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Eliminate("player-9"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// TestBattleEliminateAfterDecided verifies that a decided battle accepts
// no further eliminations.
func TestBattleEliminateAfterDecided(t *testing.T) {
	m := NewBattleManager()
	if _, err := m.Create(setupPlayers(2), models.ExercisePlank); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Eliminate("player-0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Eliminate("player-1"); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("eliminate after winner: error = %v, want ErrInvalidState", err)
	}
}

// TestBattleResumeAfterDecidedIsNoop verifies that a finished battle
// cannot be resumed; winner determination pauses it for good.
func TestBattleResumeAfterDecidedIsNoop(t *testing.T) {
	m := NewBattleManager()
	if _, err := m.Create(setupPlayers(2), models.ExercisePlank); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Eliminate("player-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Resume(); err != nil {
		t.Fatalf("resume after decided should no-op, got %v", err)
	}
	if m.Active() {
		t.Error("decided battle resumed")
	}
	m.Tick(12345)
	b, _ := m.Current()
	if b.Duration != 0 {
		t.Errorf("duration advanced on a decided battle: %d", b.Duration)
	}
}

// TestBattlePauseResume verifies the clock freezes while paused and
// continues after resume.
func TestBattlePauseResume(t *testing.T) {
	m := NewBattleManager()
	if _, err := m.Create(setupPlayers(3), models.ExercisePlank); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Tick(3000)
	if err := m.Pause(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Tick(8000)
	b, _ := m.Current()
	if b.Duration != 3000 {
		t.Errorf("duration after paused tick = %d, want 3000", b.Duration)
	}
	if err := m.Resume(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Tick(3500)
	b, _ = m.Current()
	if b.Duration != 3500 {
		t.Errorf("duration after resume = %d, want 3500", b.Duration)
	}
}

// TestBattleCompleteRecordsHistory verifies that completion appends one
// history entry carrying the winner and final held times, then idles.
func TestBattleCompleteRecordsHistory(t *testing.T) {
	m := NewBattleManager()
	if _, err := m.Create(setupPlayers(2), models.ExercisePlank); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Tick(6000)
	if err := m.Eliminate("player-0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done, err := m.Complete()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done.Winner != "player-1" {
		t.Errorf("winner = %q, want player-1", done.Winner)
	}
	if done.CompletedAt.IsZero() {
		t.Error("expected completedAt to be stamped")
	}
	if _, ok := m.Current(); ok {
		t.Error("expected no current battle after complete")
	}
	history := m.History()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].Players[1].TimeHeld != 6000 {
		t.Errorf("recorded winner timeHeld = %d, want 6000", history[0].Players[1].TimeHeld)
	}
}

// TestBattleCancelSkipsHistory verifies that cancellation discards the
// battle without recording it, and a new battle starts clean afterwards.
func TestBattleCancelSkipsHistory(t *testing.T) {
	m := NewBattleManager()
	if _, err := m.Create(setupPlayers(2), models.ExercisePlank); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Tick(2000)
	if err := m.Cancel(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(m.History()); got != 0 {
		t.Errorf("history length = %d, want 0", got)
	}

	m.Tick(5000) // stale tick, must not panic or resurrect

	b, err := m.Create(setupPlayers(2), models.ExercisePlank)
	if err != nil {
		t.Fatalf("create after cancel: %v", err)
	}
	if b.Duration != 0 {
		t.Errorf("new battle duration = %d, want 0", b.Duration)
	}
}

// TestBattleSnapshotDetached verifies that mutating a returned snapshot
// does not leak into manager state.
func TestBattleSnapshotDetached(t *testing.T) {
	m := NewBattleManager()
	if _, err := m.Create(setupPlayers(2), models.ExercisePlank); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := m.Current()
	b.Players[0].Name = "mutated"

	fresh, _ := m.Current()
	if fresh.Players[0].Name == "mutated" {
		t.Error("snapshot shares player storage with the manager")
	}
}
