package models

// EventAction tags which member action triggered an achievement evaluation.
type EventAction string

const (
	ActionSignup   EventAction = "signup"
	ActionPost     EventAction = "post"
	ActionLike     EventAction = "like"
	ActionMessage  EventAction = "message"
	ActionPurchase EventAction = "purchase"
	ActionReferral EventAction = "referral"
	ActionMission  EventAction = "mission"
	ActionStreak   EventAction = "streak"
	ActionRanking  EventAction = "ranking"
)

// ProgressEvent carries the action tag plus the counters its rules need.
// Counts hold the on-demand activity counters; RankingPosition is only
// meaningful for ActionRanking (1 = leaderboard top).
type ProgressEvent struct {
	Action          EventAction
	Counts          ActivityCounts
	RankingPosition int64
}
