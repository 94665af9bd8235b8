package strokematch

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Session holds one practice attempt: the loaded reference character and strokes drawn so far.
// Session is not safe for concurrent use; Check works on a snapshot of user strokes.
type Session struct {
	id          uuid.UUID
	character   Character
	userStrokes []Stroke
	smoother    *Smoother
}

// CheckResult is the outcome of Session.Check
type CheckResult struct {
	SessionID uuid.UUID     `json:"session_id"`
	Character string        `json:"character"`
	Search    *SearchResult `json:"search"`
	// Comparison of reference transformed with the best transform against user strokes
	Result *ScoreResult `json:"result"`
	Order  *StrokeOrder `json:"order"`
}

// NewSession validates character and starts session with no user strokes
func NewSession(character Character) (*Session, error) {
	return NewSessionWithSmoother(character, nil)
}

// NewSessionWithSmoother is like NewSession, but every added stroke is filtered by smoother first
func NewSessionWithSmoother(character Character, smoother *Smoother) (*Session, error) {
	if err := character.Validate(); err != nil {
		return nil, errors.Wrap(err, "can't start session")
	}
	return &Session{
		id: uuid.New(),
		character: Character{
			ID:      character.ID,
			Strokes: cloneStrokes(character.Strokes),
		},
		userStrokes: make([]Stroke, 0, len(character.Strokes)),
		smoother:    smoother,
	}, nil
}

// ID returns session's identifier
func (session *Session) ID() uuid.UUID {
	return session.id
}

// Character returns reference character. Do not modify returned strokes
func (session *Session) Character() Character {
	return session.character
}

// AddStroke appends finished user stroke. Degenerate strokes (e.g. a single click) are rejected
func (session *Session) AddStroke(stroke Stroke) error {
	if err := stroke.Validate(); err != nil {
		return errors.Wrapf(err, "can't add stroke #%d", len(session.userStrokes))
	}
	added := stroke.Clone()
	if session.smoother != nil {
		smoothed, err := session.smoother.Smooth(added)
		if err != nil {
			return errors.Wrapf(err, "can't smooth stroke #%d", len(session.userStrokes))
		}
		added = smoothed
	}
	session.userStrokes = append(session.userStrokes, added)
	return nil
}

// UserStrokes returns copy of strokes drawn so far
func (session *Session) UserStrokes() []Stroke {
	return cloneStrokes(session.userStrokes)
}

// StrokeCount returns number of strokes drawn so far
func (session *Session) StrokeCount() int {
	return len(session.userStrokes)
}

// Reset clears all user strokes
func (session *Session) Reset() {
	session.userStrokes = session.userStrokes[:0]
}

// Score compares untransformed reference with user strokes
func (session *Session) Score(scorer *Scorer) (*ScoreResult, error) {
	return scorer.Score(session.character.Strokes, session.userStrokes)
}

// Check searches for the best transform aligning reference with user strokes and scores the result.
// ErrMismatchedStrokeCount is returned before any search when stroke counts differ
func (session *Session) Check(ctx context.Context, searcher *Searcher) (*CheckResult, error) {
	reference := session.character.Strokes
	user := session.UserStrokes()
	if len(reference) != len(user) {
		return nil, errors.Wrapf(ErrMismatchedStrokeCount, "character '%s' has %d stroke(s), drawn %d", session.character.ID, len(reference), len(user))
	}
	found, err := searcher.Search(ctx, reference, user)
	if err != nil {
		return nil, errors.Wrapf(err, "session %s", session.id)
	}
	aligned := found.Transform.ApplyStrokes(reference)
	result, err := searcher.Scorer().Score(aligned, user)
	if err != nil {
		return nil, errors.Wrapf(err, "session %s: can't score best transform", session.id)
	}
	order, err := searcher.Scorer().MatchStrokeOrder(aligned, user)
	if err != nil {
		return nil, errors.Wrapf(err, "session %s: can't match stroke order", session.id)
	}
	return &CheckResult{
		SessionID: session.id,
		Character: session.character.ID,
		Search:    found,
		Result:    result,
		Order:     order,
	}, nil
}
