package tournament

import (
	"errors"
	"testing"

	"pong-arena/internal/match"
)

func roster() [4]match.Player {
	return [4]match.Player{
		match.NewPlayer("alice"),
		match.NewPlayer("bob"),
		match.NewPlayer("carol"),
		match.NewPlayer("dave"),
	}
}

func TestNewBracketSeeding(t *testing.T) {
	b, err := NewBracket(roster())
	if err != nil {
		t.Fatalf("NewBracket: %v", err)
	}

	if b.ID == "" {
		t.Error("bracket has no ID")
	}
	if b.Semi1.Players[0].Username != "alice" || b.Semi1.Players[1].Username != "bob" {
		t.Errorf("semifinal 1 pairing = %s vs %s, expected alice vs bob",
			b.Semi1.Players[0].Username, b.Semi1.Players[1].Username)
	}
	if b.Semi2.Players[0].Username != "carol" || b.Semi2.Players[1].Username != "dave" {
		t.Errorf("semifinal 2 pairing = %s vs %s, expected carol vs dave",
			b.Semi2.Players[0].Username, b.Semi2.Players[1].Username)
	}
	if b.Stage != StageRegistration {
		t.Errorf("stage = %v, expected registration", b.Stage)
	}
}

func TestNewBracketRejectsBadRosters(t *testing.T) {
	players := roster()
	players[2].Username = ""
	if _, err := NewBracket(players); err == nil {
		t.Error("empty username accepted")
	}

	players = roster()
	players[3].Username = "alice"
	if _, err := NewBracket(players); err == nil {
		t.Error("duplicate username accepted")
	}
}

func TestBracketFlow(t *testing.T) {
	b, err := NewBracket(roster())
	if err != nil {
		t.Fatalf("NewBracket: %v", err)
	}

	// Semifinal 1: alice beats bob 5-2.
	slot, err := b.NextSlot()
	if err != nil {
		t.Fatalf("NextSlot: %v", err)
	}
	if slot.Round != match.RoundSemifinal1 {
		t.Fatalf("first slot round = %s, expected semifinal 1", slot.Round)
	}
	res := match.NewResult(match.Mode1v1, match.RoundSemifinal1,
		[]string{"alice", "bob"}, []int{5, 2}, "alice")
	if err := b.RecordResult(res); err != nil {
		t.Fatalf("RecordResult semifinal 1: %v", err)
	}

	// Semifinal 2: dave beats carol 5-1.
	slot, err = b.NextSlot()
	if err != nil {
		t.Fatalf("NextSlot: %v", err)
	}
	if slot.Round != match.RoundSemifinal2 {
		t.Fatalf("second slot round = %s, expected semifinal 2", slot.Round)
	}
	res = match.NewResult(match.Mode1v1, match.RoundSemifinal2,
		[]string{"carol", "dave"}, []int{1, 5}, "dave")
	if err := b.RecordResult(res); err != nil {
		t.Fatalf("RecordResult semifinal 2: %v", err)
	}

	// The final pairs the two semifinal winners.
	slot, err = b.NextSlot()
	if err != nil {
		t.Fatalf("NextSlot final: %v", err)
	}
	if slot.Round != match.RoundFinal {
		t.Fatalf("third slot round = %s, expected final", slot.Round)
	}
	if slot.Players[0].Username != "alice" || slot.Players[1].Username != "dave" {
		t.Fatalf("final pairing = %s vs %s, expected alice vs dave",
			slot.Players[0].Username, slot.Players[1].Username)
	}

	res = match.NewResult(match.Mode1v1, match.RoundFinal,
		[]string{"alice", "dave"}, []int{5, 3}, "alice")
	if err := b.RecordResult(res); err != nil {
		t.Fatalf("RecordResult final: %v", err)
	}

	if b.Stage != StageComplete {
		t.Errorf("stage = %v after final, expected complete", b.Stage)
	}
	champ, ok := b.Champion()
	if !ok || champ.Username != "alice" {
		t.Errorf("champion = %v (%v), expected alice", champ.Username, ok)
	}
	if got := len(b.Results()); got != 3 {
		t.Errorf("Results() returned %d results, expected 3", got)
	}
}

func TestPrematureFinalRejected(t *testing.T) {
	b, err := NewBracket(roster())
	if err != nil {
		t.Fatalf("NewBracket: %v", err)
	}

	final := match.NewResult(match.Mode1v1, match.RoundFinal,
		[]string{"alice", "carol"}, []int{5, 0}, "alice")
	if err := b.RecordResult(final); err == nil {
		t.Fatal("final result accepted before any semifinal was played")
	}

	// Still rejected with only one semifinal done.
	if _, err := b.NextSlot(); err != nil {
		t.Fatalf("NextSlot: %v", err)
	}
	semi := match.NewResult(match.Mode1v1, match.RoundSemifinal1,
		[]string{"alice", "bob"}, []int{5, 2}, "alice")
	if err := b.RecordResult(semi); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	if err := b.RecordResult(final); err == nil {
		t.Fatal("final result accepted with one semifinal outstanding")
	}
}

func TestRecordResultGuards(t *testing.T) {
	b, err := NewBracket(roster())
	if err != nil {
		t.Fatalf("NewBracket: %v", err)
	}
	if _, err := b.NextSlot(); err != nil {
		t.Fatalf("NextSlot: %v", err)
	}

	// Wrong participants for the slot.
	stranger := match.NewResult(match.Mode1v1, match.RoundSemifinal1,
		[]string{"alice", "mallory"}, []int{5, 2}, "alice")
	if err := b.RecordResult(stranger); err == nil {
		t.Error("result with a non-participant accepted")
	}

	// Invalid result.
	tie := match.NewResult(match.Mode1v1, match.RoundSemifinal1,
		[]string{"alice", "bob"}, []int{3, 3}, "alice")
	if err := b.RecordResult(tie); err == nil {
		t.Error("tied result accepted")
	}

	// Double-record.
	ok := match.NewResult(match.Mode1v1, match.RoundSemifinal1,
		[]string{"alice", "bob"}, []int{5, 2}, "alice")
	if err := b.RecordResult(ok); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	again := match.NewResult(match.Mode1v1, match.RoundSemifinal1,
		[]string{"alice", "bob"}, []int{5, 4}, "alice")
	if err := b.RecordResult(again); err == nil {
		t.Error("second result for the same slot accepted")
	}
}

func TestMissingFinalistAbortsBracket(t *testing.T) {
	b, err := NewBracket(roster())
	if err != nil {
		t.Fatalf("NewBracket: %v", err)
	}

	for _, r := range []match.Result{
		match.NewResult(match.Mode1v1, match.RoundSemifinal1, []string{"alice", "bob"}, []int{5, 2}, "alice"),
		match.NewResult(match.Mode1v1, match.RoundSemifinal2, []string{"carol", "dave"}, []int{1, 5}, "dave"),
	} {
		if _, err := b.NextSlot(); err != nil {
			t.Fatalf("NextSlot: %v", err)
		}
		if err := b.RecordResult(r); err != nil {
			t.Fatalf("RecordResult: %v", err)
		}
	}

	// A corrupted semifinal (winner no longer resolvable) must abort
	// the bracket, never seed the final with a stand-in.
	b.Semi2.Result.Winner = "ghost"
	_, err = b.NextSlot()
	if !errors.Is(err, ErrBracketCorrupt) {
		t.Fatalf("NextSlot = %v, expected ErrBracketCorrupt", err)
	}
	if b.Stage != StageAborted {
		t.Errorf("stage = %v after corruption, expected aborted", b.Stage)
	}
	if _, err := b.NextSlot(); err == nil {
		t.Error("aborted bracket still serves slots")
	}
}
