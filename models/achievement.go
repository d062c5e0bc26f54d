package models

// Rarity buckets for achievements. XP reward is fixed per rarity.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AchievementXP maps rarity to the XP granted on unlock.
var AchievementXP = map[Rarity]int64{
	RarityCommon:    50,
	RarityRare:      150,
	RarityEpic:      500,
	RarityLegendary: 1000,
}

// XPReward returns the XP for a rarity, 0 for an unknown one.
func (r Rarity) XPReward() int64 {
	return AchievementXP[r]
}

// AchievementDefinition is a static catalog entry. The Threshold map keys
// name a profile field or event counter; every listed key must be satisfied
// for the achievement to fire. The "action" key restricts the rule to a
// single triggering event kind.
type AchievementDefinition struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Icon        string           `json:"icon"`
	Rarity      Rarity           `json:"rarity"`
	Threshold   map[string]int64 `json:"-"`
	Action      string           `json:"-"` // empty = any action
}

// StarterAchievementID is granted once at signup.
const StarterAchievementID = "welcome"

// AchievementCatalog is the full static catalog, unique by ID.
var AchievementCatalog = []AchievementDefinition{
	{
		ID:          StarterAchievementID,
		Name:        "Welcome to the Club",
		Description: "Created your member profile",
		Icon:        "🎉",
		Rarity:      RarityCommon,
		Action:      "signup",
	},
	{
		ID:          "first-post",
		Name:        "First Post",
		Description: "Published your first post",
		Icon:        "📝",
		Rarity:      RarityCommon,
		Action:      "post",
		Threshold:   map[string]int64{"post_count": 1},
	},
	{
		ID:          "first-like",
		Name:        "Spread the Love",
		Description: "Gave your first like",
		Icon:        "❤️",
		Rarity:      RarityCommon,
		Action:      "like",
		Threshold:   map[string]int64{"like_count": 1},
	},
	{
		ID:          "first-message",
		Name:        "Breaking the Ice",
		Description: "Sent your first chat message",
		Icon:        "💬",
		Rarity:      RarityCommon,
		Action:      "message",
		Threshold:   map[string]int64{"message_count": 1},
	},
	{
		ID:          "first-purchase",
		Name:        "First Purchase",
		Description: "Bought your first item from the shop",
		Icon:        "🛍️",
		Rarity:      RarityRare,
		Action:      "purchase",
		Threshold:   map[string]int64{"purchase_count": 1},
	},
	{
		ID:          "first-referral",
		Name:        "Recruiter",
		Description: "Brought a friend into the club",
		Icon:        "🤝",
		Rarity:      RarityRare,
		Action:      "referral",
		Threshold:   map[string]int64{"referral_count": 1},
	},
	{
		ID:          "posts-10",
		Name:        "Regular Contributor",
		Description: "Published 10 posts",
		Icon:        "✍️",
		Rarity:      RarityRare,
		Threshold:   map[string]int64{"post_count": 10},
	},
	{
		ID:          "posts-50",
		Name:        "Prolific Author",
		Description: "Published 50 posts",
		Icon:        "📚",
		Rarity:      RarityEpic,
		Threshold:   map[string]int64{"post_count": 50},
	},
	{
		ID:          "likes-received-25",
		Name:        "Crowd Pleaser",
		Description: "Received 25 likes",
		Icon:        "⭐",
		Rarity:      RarityRare,
		Threshold:   map[string]int64{"received_likes": 25},
	},
	{
		ID:          "likes-received-100",
		Name:        "Community Favorite",
		Description: "Received 100 likes",
		Icon:        "🌟",
		Rarity:      RarityEpic,
		Threshold:   map[string]int64{"received_likes": 100},
	},
	{
		ID:          "streak-3",
		Name:        "Warming Up",
		Description: "3-day activity streak",
		Icon:        "🔥",
		Rarity:      RarityCommon,
		Threshold:   map[string]int64{"streak_days": 3},
	},
	{
		ID:          "streak-7",
		Name:        "One Full Week",
		Description: "7-day activity streak",
		Icon:        "🔥",
		Rarity:      RarityRare,
		Threshold:   map[string]int64{"streak_days": 7},
	},
	{
		ID:          "streak-14",
		Name:        "Committed",
		Description: "14-day activity streak",
		Icon:        "🔥",
		Rarity:      RarityEpic,
		Threshold:   map[string]int64{"streak_days": 14},
	},
	{
		ID:          "streak-30",
		Name:        "Iron Discipline",
		Description: "30-day activity streak",
		Icon:        "🏆",
		Rarity:      RarityLegendary,
		Threshold:   map[string]int64{"streak_days": 30},
	},
	{
		ID:          "level-5",
		Name:        "Getting Serious",
		Description: "Reached level 5",
		Icon:        "🎖️",
		Rarity:      RarityCommon,
		Threshold:   map[string]int64{"level": 5},
	},
	{
		ID:          "level-10",
		Name:        "Double Digits",
		Description: "Reached level 10",
		Icon:        "🎖️",
		Rarity:      RarityRare,
		Threshold:   map[string]int64{"level": 10},
	},
	{
		ID:          "level-25",
		Name:        "Veteran",
		Description: "Reached level 25",
		Icon:        "🎖️",
		Rarity:      RarityEpic,
		Threshold:   map[string]int64{"level": 25},
	},
	{
		ID:          "level-50",
		Name:        "Living Legend",
		Description: "Reached level 50",
		Icon:        "👑",
		Rarity:      RarityLegendary,
		Threshold:   map[string]int64{"level": 50},
	},
	{
		ID:          "mission-first",
		Name:        "Mission Accepted",
		Description: "Completed your first daily mission",
		Icon:        "🎯",
		Rarity:      RarityCommon,
		Action:      "mission",
		Threshold:   map[string]int64{"mission_count": 1},
	},
	{
		ID:          "top-3-ranking",
		Name:        "Podium Finish",
		Description: "Reached the top 3 of the points leaderboard",
		Icon:        "🥉",
		Rarity:      RarityLegendary,
		Action:      "ranking",
		Threshold:   map[string]int64{"ranking_position": 3},
	},
	{
		ID:          "shop-spender",
		Name:        "Big Spender",
		Description: "Made 5 shop purchases",
		Icon:        "💸",
		Rarity:      RarityEpic,
		Threshold:   map[string]int64{"purchase_count": 5},
	},
}

// AchievementByID returns the catalog entry for id, nil when absent.
func AchievementByID(id string) *AchievementDefinition {
	for i := range AchievementCatalog {
		if AchievementCatalog[i].ID == id {
			return &AchievementCatalog[i]
		}
	}
	return nil
}
