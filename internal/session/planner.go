package session

import "github.com/abhisek/revise/internal/mastery"

// AccuracySource answers live accuracy queries. *mastery.Service satisfies it.
type AccuracySource interface {
	Accuracy(topic string, k mastery.Kind) float64
	IsWeak(topic string, th mastery.Thresholds) bool
}

// QuizConfigFor derives the next quiz for a topic. Sizing and tier are fed
// the same quiz accuracy value.
func QuizConfigFor(src AccuracySource, topic string) QuizConfig {
	a := src.Accuracy(topic, mastery.KindQuiz)
	size := PlanQuiz(a)
	return QuizConfig{
		Questions: size.Questions,
		PassRatio: size.PassRatio,
		Tier:      TierFor(a),
	}
}

// PlanCategory is the reason a topic was placed in the plan.
type PlanCategory string

const (
	CategoryWeak PlanCategory = "weak"
	CategoryNext PlanCategory = "next"
)

// PlanSlot is a single topic in a teaching plan with its quiz shape.
type PlanSlot struct {
	Topic    string
	Category PlanCategory
	Quiz     QuizConfig
}

// Plan is the ordered list of topics for the next teaching pass.
type Plan struct {
	Slots []PlanSlot
}

// Topics returns the plan's topics in order.
func (p *Plan) Topics() []string {
	out := make([]string, len(p.Slots))
	for i, s := range p.Slots {
		out[i] = s.Topic
	}
	return out
}

// BuildPlan orders the not-yet-completed topics, weak ones first, and attaches
// the current quiz configuration to each.
func BuildPlan(all, completed []string, src AccuracySource, th mastery.Thresholds) *Plan {
	var weak []string
	for _, topic := range all {
		if src.IsWeak(topic, th) {
			weak = append(weak, topic)
		}
	}
	weakSet := toSet(weak)

	plan := &Plan{}
	for _, topic := range OrderTopics(all, completed, weak) {
		cat := CategoryNext
		if weakSet[topic] {
			cat = CategoryWeak
		}
		plan.Slots = append(plan.Slots, PlanSlot{
			Topic:    topic,
			Category: cat,
			Quiz:     QuizConfigFor(src, topic),
		})
	}
	return plan
}
