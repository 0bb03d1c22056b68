package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/videolearn/backend/internal/types"
)

func TestCeilDiv(t *testing.T) {
	cases := []struct {
		num, den, want int
	}{
		{0, 60, 0},
		{1, 60, 1},
		{60, 60, 1},
		{61, 60, 2},
		{120, 60, 2},
		{-5, 60, 0},
		{100, 0, 0},
	}
	for _, c := range cases {
		if got := ceilDiv(c.num, c.den); got != c.want {
			t.Fatalf("ceilDiv(%d, %d) = %d, want %d", c.num, c.den, got, c.want)
		}
	}
}

func TestCreditLedger_TranscriptionCost(t *testing.T) {
	l := &creditLedger{}
	cases := []struct {
		seconds float64
		want    int
	}{
		{0, 0},
		{30, 1},
		{60, 1},
		{61, 2},
		{600, 10},
	}
	for _, c := range cases {
		if got := l.TranscriptionCost(c.seconds); got != c.want {
			t.Fatalf("TranscriptionCost(%v) = %d, want %d", c.seconds, got, c.want)
		}
	}
}

func TestCreditLedger_NotesCost(t *testing.T) {
	l := &creditLedger{}
	cases := []struct {
		chars int
		want  int
	}{
		{0, 0},
		{1, 1},
		{50000, 1},
		{50001, 2},
		{150000, 3},
	}
	for _, c := range cases {
		if got := l.NotesCost(c.chars); got != c.want {
			t.Fatalf("NotesCost(%d) = %d, want %d", c.chars, got, c.want)
		}
	}
}

func TestCreditLedger_QuizCost(t *testing.T) {
	l := &creditLedger{}
	if got := l.QuizCost(); got != QuizGenerationCreditCost {
		t.Fatalf("QuizCost() = %d, want %d", got, QuizGenerationCreditCost)
	}
}

func TestCreditLedger_HasCredits_StandardUserSufficient(t *testing.T) {
	l := &creditLedger{}
	user := &types.User{ID: uuid.New(), Role: types.RoleStandard, TranscriptionCredits: 5}
	ok, balance := l.HasCredits(context.Background(), user, types.CreditTypeTranscription, 3)
	if !ok || balance != 5 {
		t.Fatalf("expected ok=true balance=5, got ok=%v balance=%d", ok, balance)
	}
}

func TestCreditLedger_HasCredits_StandardUserInsufficient(t *testing.T) {
	l := &creditLedger{}
	user := &types.User{ID: uuid.New(), Role: types.RoleStandard, NotesCredits: 1}
	ok, balance := l.HasCredits(context.Background(), user, types.CreditTypeNotes, 2)
	if ok || balance != 1 {
		t.Fatalf("expected ok=false balance=1, got ok=%v balance=%d", ok, balance)
	}
}

func TestCreditLedger_HasCredits_DeveloperUnlimited(t *testing.T) {
	l := &creditLedger{}
	user := &types.User{ID: uuid.New(), Role: types.RoleDeveloper, TranscriptionCredits: 0}
	ok, _ := l.HasCredits(context.Background(), user, types.CreditTypeTranscription, 1000000)
	if !ok {
		t.Fatalf("expected developer role to always have credits")
	}
}
