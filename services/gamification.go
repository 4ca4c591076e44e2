// services/gamification.go - Achievement & statistics engine
//
// Pure function layer: per-user history counts in, badge state and
// population unlock rates out. Nothing here touches the store or fails.
package services

import (
	"pitchdesk/models"
)

// Metrics are the per-user counts every catalog predicate is evaluated
// against. Derived fresh on each request, never persisted.
type Metrics struct {
	TotalIdeas      int `json:"total_ideas"`
	AwaitingReview  int `json:"awaiting_review"`
	ApprovedInitial int `json:"approved_initial"`
	Rejected        int `json:"rejected"`
	Decisions       int `json:"decisions"`
	Updates         int `json:"updates"`
}

// CatalogEntry is one fixed badge definition.
type CatalogEntry struct {
	Key      string
	Name     string
	Detail   string
	Icon     string
	Target   int
	Unlocked func(Metrics) bool
	Progress func(Metrics) int
}

// Achievement is a catalog entry evaluated against one user's metrics.
type Achievement struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Detail   string `json:"detail"`
	Icon     string `json:"icon"`
	Unlocked bool   `json:"unlocked"`
	Current  int    `json:"current"`
	Target   int    `json:"target"`
}

// UnlockRate is the population-wide unlock percentage for one badge.
type UnlockRate struct {
	UnlockedUsers int `json:"unlocked_users"`
	TotalUsers    int `json:"total_users"`
	Percentage    int `json:"percentage"`
}

// Catalog is the fixed, order-stable badge list. Client code assumes both
// the keys and the count are stable, and aggregation keys come from here
// rather than from user data.
var Catalog = []CatalogEntry{
	{
		Key: "first-idea", Name: "First Launch", Detail: "Submit your first idea.",
		Icon: "🚀", Target: 1,
		Unlocked: func(m Metrics) bool { return m.TotalIdeas >= 1 },
		Progress: func(m Metrics) int { return m.TotalIdeas },
	},
	{
		Key: "first-decision", Name: "In The Arena", Detail: "Receive your first review decision.",
		Icon: "⚔️", Target: 1,
		Unlocked: func(m Metrics) bool { return m.Decisions >= 1 },
		Progress: func(m Metrics) int { return m.Decisions },
	},
	{
		Key: "first-approval", Name: "Greenlight", Detail: "Get one idea approved for initial screening.",
		Icon: "✅", Target: 1,
		Unlocked: func(m Metrics) bool { return m.ApprovedInitial >= 1 },
		Progress: func(m Metrics) int { return m.ApprovedInitial },
	},
	{
		Key: "resilience", Name: "Resilient Founder", Detail: "Submit again after a rejection.",
		Icon: "🛡️", Target: 2,
		Unlocked: func(m Metrics) bool { return m.Rejected >= 1 && m.TotalIdeas >= 2 },
		Progress: func(m Metrics) int {
			if m.Rejected >= 1 {
				return m.TotalIdeas
			}
			return 0
		},
	},
	{
		Key: "triple-pitch", Name: "Triple Pitch", Detail: "Submit 3 total ideas.",
		Icon: "🎯", Target: 3,
		Unlocked: func(m Metrics) bool { return m.TotalIdeas >= 3 },
		Progress: func(m Metrics) int { return m.TotalIdeas },
	},
	{
		Key: "five-ideas", Name: "Idea Marathon", Detail: "Submit 5 total ideas.",
		Icon: "🏁", Target: 5,
		Unlocked: func(m Metrics) bool { return m.TotalIdeas >= 5 },
		Progress: func(m Metrics) int { return m.TotalIdeas },
	},
	{
		Key: "pipeline-master", Name: "Pipeline Master", Detail: "Keep 2 ideas in active review at the same time.",
		Icon: "🧠", Target: 2,
		Unlocked: func(m Metrics) bool { return m.AwaitingReview >= 2 },
		Progress: func(m Metrics) int { return m.AwaitingReview },
	},
	{
		Key: "decision-stack", Name: "Decision Stack", Detail: "Collect 3 review decisions.",
		Icon: "🧩", Target: 3,
		Unlocked: func(m Metrics) bool { return m.Decisions >= 3 },
		Progress: func(m Metrics) int { return m.Decisions },
	},
	{
		Key: "inbox-discipline", Name: "Inbox Discipline", Detail: "Receive 3 admin updates.",
		Icon: "📬", Target: 3,
		Unlocked: func(m Metrics) bool { return m.Updates >= 3 },
		Progress: func(m Metrics) int { return m.Updates },
	},
	{
		Key: "comeback-arc", Name: "Comeback Arc", Detail: "Have at least one rejection and one approval.",
		Icon: "🔥", Target: 2,
		Unlocked: func(m Metrics) bool { return m.Rejected >= 1 && m.ApprovedInitial >= 1 },
		Progress: func(m Metrics) int {
			current := 0
			if m.Rejected >= 1 {
				current++
			}
			if m.ApprovedInitial >= 1 {
				current++
			}
			return current
		},
	},
	{
		Key: "review-heavy", Name: "Queue Veteran", Detail: "Have 3 ideas under review at once.",
		Icon: "📈", Target: 3,
		Unlocked: func(m Metrics) bool { return m.AwaitingReview >= 3 },
		Progress: func(m Metrics) int { return m.AwaitingReview },
	},
	{
		Key: "approved-pair", Name: "Double Greenlight", Detail: "Get 2 ideas approved.",
		Icon: "🏅", Target: 2,
		Unlocked: func(m Metrics) bool { return m.ApprovedInitial >= 2 },
		Progress: func(m Metrics) int { return m.ApprovedInitial },
	},
}

// ComputeMetrics counts one user's idea and notification history. Pure
// counting, no ordering dependency.
func ComputeMetrics(ideas []models.Idea, messages []models.Message) Metrics {
	m := Metrics{TotalIdeas: len(ideas), Updates: len(messages)}
	for _, idea := range ideas {
		switch idea.Status {
		case models.IdeaStatusSubmitted:
			m.AwaitingReview++
		case models.IdeaStatusApprovedInitial:
			m.ApprovedInitial++
		case models.IdeaStatusRejected:
			m.Rejected++
		}
	}
	m.Decisions = m.ApprovedInitial + m.Rejected
	return m
}

// EvaluateCatalog maps metrics onto the full catalog. Deterministic, total:
// current is clamped to [0, target] and evaluation never fails.
func EvaluateCatalog(m Metrics) []Achievement {
	out := make([]Achievement, 0, len(Catalog))
	for _, entry := range Catalog {
		out = append(out, Achievement{
			Key:      entry.Key,
			Name:     entry.Name,
			Detail:   entry.Detail,
			Icon:     entry.Icon,
			Unlocked: entry.Unlocked(m),
			Current:  clamp(entry.Progress(m), entry.Target),
			Target:   entry.Target,
		})
	}
	return out
}

// AggregateUnlockRates computes per-badge unlock percentages across all
// users. An empty population yields 0% everywhere — an empty user base is a
// valid startup state, not a division error.
func AggregateUnlockRates(allMetrics []Metrics) map[string]UnlockRate {
	totalUsers := len(allMetrics)
	unlocked := make(map[string]int, len(Catalog))
	for _, m := range allMetrics {
		for _, entry := range Catalog {
			if entry.Unlocked(m) {
				unlocked[entry.Key]++
			}
		}
	}

	rates := make(map[string]UnlockRate, len(Catalog))
	for _, entry := range Catalog {
		rates[entry.Key] = UnlockRate{
			UnlockedUsers: unlocked[entry.Key],
			TotalUsers:    totalUsers,
			Percentage:    percent(unlocked[entry.Key], totalUsers),
		}
	}
	return rates
}

// MetricsByUser builds the per-user metric set for aggregation. Every user
// appears, including those with no history; messages are attributed to the
// owning idea's submitter.
func MetricsByUser(users []models.User, ideas []models.Idea, messages []models.Message) []Metrics {
	byUser := make(map[uint]*Metrics, len(users))
	order := make([]uint, 0, len(users))
	for _, u := range users {
		byUser[u.ID] = &Metrics{}
		order = append(order, u.ID)
	}

	ideaSubmitter := make(map[string]uint, len(ideas))
	for _, idea := range ideas {
		ideaSubmitter[idea.ID] = idea.SubmitterID
		m, ok := byUser[idea.SubmitterID]
		if !ok {
			continue
		}
		m.TotalIdeas++
		switch idea.Status {
		case models.IdeaStatusSubmitted:
			m.AwaitingReview++
		case models.IdeaStatusApprovedInitial:
			m.ApprovedInitial++
		case models.IdeaStatusRejected:
			m.Rejected++
		}
	}
	for _, msg := range messages {
		if m, ok := byUser[ideaSubmitter[msg.IdeaID]]; ok {
			m.Updates++
		}
	}

	out := make([]Metrics, 0, len(order))
	for _, id := range order {
		m := byUser[id]
		m.Decisions = m.ApprovedInitial + m.Rejected
		out = append(out, *m)
	}
	return out
}

func clamp(value, target int) int {
	if value < 0 {
		return 0
	}
	if value > target {
		return target
	}
	return value
}

func percent(unlockedUsers, totalUsers int) int {
	if totalUsers <= 0 {
		return 0
	}
	return int(float64(unlockedUsers)/float64(totalUsers)*100 + 0.5)
}
