package feedback

import (
	"github.com/felixgeelhaar/mentor/internal/domain"
)

// QualityBucket groups move-quality scores for message selection
type QualityBucket string

const (
	BucketExcellent QualityBucket = "excellent" // score > 70
	BucketAverage   QualityBucket = "average"
	BucketPoor      QualityBucket = "poor" // score < 40
)

// BucketFor maps a move-quality score to its bucket
func BucketFor(score int) QualityBucket {
	switch {
	case score > 70:
		return BucketExcellent
	case score < 40:
		return BucketPoor
	default:
		return BucketAverage
	}
}

// messageKey addresses one variant set in the catalog
type messageKey struct {
	bucket QualityBucket
	phase  domain.GamePhase
}

// defaultMessages returns the pre-authored variants per bucket and phase.
// Each set carries at least four variants so back-to-back picks rarely repeat.
func defaultMessages() map[messageKey][]string {
	return map[messageKey][]string{
		{BucketExcellent, domain.PhaseOpening}: {
			"Strong opening move. You're claiming the center early.",
			"Excellent development. Your pieces are working together already.",
			"That's a confident start. Keep building on this structure.",
			"Sharp opening play. Your opponent is already on the back foot.",
		},
		{BucketExcellent, domain.PhaseMiddle}: {
			"Brilliant. That move creates threats on two fronts at once.",
			"Excellent calculation. You saw further than your opponent there.",
			"That's the kind of move that wins middlegames. Well spotted.",
			"Superb coordination. Your pieces are dominating the board.",
		},
		{BucketExcellent, domain.PhaseEndgame}: {
			"Precise endgame technique. Every move counts now and that one counted double.",
			"Excellent. You're converting your advantage cleanly.",
			"That's textbook endgame play. The win is taking shape.",
			"Clinical finish in sight. Keep up this precision.",
		},
		{BucketAverage, domain.PhaseOpening}: {
			"Solid choice. Consider how it supports your next two moves.",
			"A reasonable developing move. Watch your opponent's response.",
			"That keeps your position flexible. Stay alert for tactics.",
			"Fine for now. Think about where your king will be safest.",
		},
		{BucketAverage, domain.PhaseMiddle}: {
			"A steady move. Look for ways to create more pressure.",
			"That holds the position. Is there a more active option next turn?",
			"Reasonable. Keep an eye on your weaker squares.",
			"Safe play. Sometimes the bold move is worth calculating too.",
		},
		{BucketAverage, domain.PhaseEndgame}: {
			"Careful play. In the endgame, king activity often decides.",
			"Steady. Count the tempo race before committing your pieces.",
			"That holds. Look for chances to activate your strongest piece.",
			"Reasonable endgame move. Precision matters more than speed now.",
		},
		{BucketPoor, domain.PhaseOpening}: {
			"Careful - that leaves a piece underdefended. Check your opponent's replies.",
			"That move loses time. Try to develop with a threat when you can.",
			"Watch out: your king is still exposed. Safety before ambition.",
			"That weakens your structure. Ask what each move gives up, not just what it gains.",
		},
		{BucketPoor, domain.PhaseMiddle}: {
			"That invites trouble. Scan for your opponent's strongest reply before moving.",
			"Careful - you may be walking into a tactic. Re-check the captures.",
			"That move loosens your position. Look for a consolidating alternative.",
			"Risky. When behind in activity, trade threats, not pieces.",
		},
		{BucketPoor, domain.PhaseEndgame}: {
			"Careful - endgame mistakes are hard to undo. Count the moves to promotion.",
			"That gives your opponent a free tempo. Every move is precious now.",
			"Watch the opposition. King placement decides drawn-looking endings.",
			"That path may lose the thread. Slow down and calculate to the end.",
		},
	}
}

// fallbackMessage is the generic substitute used when the chosen variant was
// already spoken within the repeat window.
func fallbackMessage(bucket QualityBucket) string {
	switch bucket {
	case BucketExcellent:
		return "Another excellent move. You're playing very well."
	case BucketPoor:
		return "Take a moment on the next move. Look at the whole board first."
	default:
		return "Keep it up. Consistent, solid play wins games."
	}
}
