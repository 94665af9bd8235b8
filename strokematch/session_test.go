package strokematch

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func testCharacter() Character {
	return Character{
		ID:      "人",
		Strokes: testReference(),
	}
}

func TestNewSession(t *testing.T) {
	session, err := NewSession(testCharacter())
	if err != nil {
		t.Fatal(err)
	}
	if session.ID() == uuid.Nil {
		t.Error("Session ID should not be nil")
	}
	if session.StrokeCount() != 0 {
		t.Errorf("New session must have no user strokes, got %d", session.StrokeCount())
	}
	if session.Character().ID != "人" {
		t.Errorf("Unexpected character '%s'", session.Character().ID)
	}

	other, err := NewSession(testCharacter())
	if err != nil {
		t.Fatal(err)
	}
	if other.ID() == session.ID() {
		t.Error("Sessions must have distinct identifiers")
	}

	bad := Character{ID: "x", Strokes: []Stroke{{{X: 1, Y: 1}}}}
	if _, err := NewSession(bad); !errors.Is(err, ErrDegenerateStroke) {
		t.Errorf("Expected ErrDegenerateStroke, got %v", err)
	}
}

func TestSessionStrokesLifecycle(t *testing.T) {
	character := testCharacter()
	session, err := NewSession(character)
	if err != nil {
		t.Fatal(err)
	}
	// Session owns a copy of the character
	character.Strokes[0][0] = Point{X: -1, Y: -1}
	if session.Character().Strokes[0][0] == (Point{X: -1, Y: -1}) {
		t.Error("Session must not share strokes with caller")
	}

	if err := session.AddStroke(Stroke{{X: 10, Y: 10}}); !errors.Is(err, ErrDegenerateStroke) {
		t.Errorf("Expected ErrDegenerateStroke for a click, got %v", err)
	}
	stroke := Stroke{{X: 0, Y: 0}, {X: 100, Y: 100}}
	if err := session.AddStroke(stroke); err != nil {
		t.Fatal(err)
	}
	stroke[0] = Point{X: 50, Y: 50}
	strokes := session.UserStrokes()
	if len(strokes) != 1 || strokes[0][0] != (Point{X: 0, Y: 0}) {
		t.Errorf("Unexpected user strokes: %v", strokes)
	}
	strokes[0][1] = Point{X: 7, Y: 7}
	if session.UserStrokes()[0][1] != (Point{X: 100, Y: 100}) {
		t.Error("UserStrokes must return a copy")
	}

	session.Reset()
	if session.StrokeCount() != 0 {
		t.Errorf("Reset must clear user strokes, got %d", session.StrokeCount())
	}
	if err := session.AddStroke(stroke); err != nil {
		t.Fatal(err)
	}
	if session.StrokeCount() != 1 {
		t.Errorf("Expected 1 stroke after reset and add, got %d", session.StrokeCount())
	}
}

func TestSessionCheckMismatch(t *testing.T) {
	session, err := NewSession(testCharacter())
	if err != nil {
		t.Fatal(err)
	}
	if err := session.AddStroke(Stroke{{X: 0, Y: 0}, {X: 100, Y: 0}}); err != nil {
		t.Fatal(err)
	}
	searcher, err := NewSearcher(WithTrials(10), WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	result, err := session.Check(context.Background(), searcher)
	if !errors.Is(err, ErrMismatchedStrokeCount) {
		t.Errorf("Expected ErrMismatchedStrokeCount, got %v", err)
	}
	if result != nil {
		t.Error("Mismatch must not produce a result")
	}
	if _, err := session.Score(NewScorerDefault()); !errors.Is(err, ErrMismatchedStrokeCount) {
		t.Errorf("Expected ErrMismatchedStrokeCount from Score, got %v", err)
	}
}

func TestSessionCheck(t *testing.T) {
	smoother := NewSmootherDefault()
	session, err := NewSessionWithSmoother(testCharacter(), smoother)
	if err != nil {
		t.Fatal(err)
	}
	drawn := Transform{ScaleX: 1.05, ScaleY: 0.95, TranslateX: 25, TranslateY: 10}.ApplyStrokes(testReference())
	for _, stroke := range drawn {
		if err := session.AddStroke(stroke); err != nil {
			t.Fatal(err)
		}
	}
	untransformed, err := session.Score(NewScorerDefault())
	if err != nil {
		t.Fatal(err)
	}
	searcher, err := NewSearcher(WithTrials(3000), WithSeed(11))
	if err != nil {
		t.Fatal(err)
	}
	result, err := session.Check(context.Background(), searcher)
	if err != nil {
		t.Fatal(err)
	}
	if result.SessionID != session.ID() || result.Character != "人" {
		t.Errorf("Unexpected result identity: %v, '%s'", result.SessionID, result.Character)
	}
	if result.Result.Score > untransformed.Score {
		t.Errorf("Fitted score %v must not be worse than untransformed %v", result.Result.Score, untransformed.Score)
	}
	if len(result.Result.Strokes) != 2 {
		t.Errorf("Expected 2 stroke results, got %d", len(result.Result.Strokes))
	}
	if !result.Order.InOrder {
		t.Errorf("Strokes were drawn in order, got %+v", result.Order)
	}
}
