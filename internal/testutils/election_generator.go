package testutils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/openvaa/vaa-matching/internal/domain"
)

// Question categories used by generated elections.
const (
	CategoryEconomy     = "economy"
	CategoryEnvironment = "environment"
	CategorySociety     = "society"
)

// ElectionConfig sizes a synthetic election.
type ElectionConfig struct {
	// Questions is the number of questions to generate.
	Questions int
	// Parties is the number of parties.
	Parties int
	// CandidatesPerParty is the number of candidates in each party.
	CandidatesPerParty int
	// MissingRate is the probability that a candidate skips a question.
	MissingRate float64
}

// DefaultElectionConfig returns a small election suitable for demos.
func DefaultElectionConfig() ElectionConfig {
	return ElectionConfig{Questions: 20, Parties: 4, CandidatesPerParty: 5, MissingRate: 0.1}
}

// Election is a synthetic matching problem: a voter, candidates grouped
// into parties, and the questions they answered.
type Election struct {
	Questions  []domain.QuestionDefinition
	Voter      *domain.Respondent
	Candidates []*domain.Respondent
	Parties    []*domain.Respondent
	// Members maps party ids to the ids of their candidates.
	Members map[string][]string
}

// GenerateElection creates a synthetic election. The seed parameter
// controls randomization; use a fixed value for reproducible tests.
//
// Every party has an ideal point per question and its candidates answer
// close to it, so candidates of the same party tend to match each other.
// Parties answer nothing themselves.
func GenerateElection(cfg ElectionConfig, seed int64) *Election {
	rng := rand.New(rand.NewSource(seed))

	e := &Election{
		Questions: generateQuestions(rng, cfg.Questions),
		Members:   make(map[string][]string, cfg.Parties),
	}

	e.Voter = &domain.Respondent{ID: "voter", Name: "Voter", AnswerSet: make(domain.Answers)}
	for _, def := range e.Questions {
		e.Voter.AnswerSet[def.ID] = domain.Answer{Value: randomAnswer(rng, def, -1)}
	}

	for p := range cfg.Parties {
		party := &domain.Respondent{
			ID:        fmt.Sprintf("party-%d", p+1),
			Name:      fmt.Sprintf("Party %d", p+1),
			AnswerSet: make(domain.Answers),
		}
		ideal := make([]int, len(e.Questions))
		for i, def := range e.Questions {
			ideal[i] = rng.Intn(optionCount(def))
		}
		e.Parties = append(e.Parties, party)

		for c := range cfg.CandidatesPerParty {
			cand := &domain.Respondent{
				ID:        fmt.Sprintf("cand-%d-%d", p+1, c+1),
				Name:      fmt.Sprintf("Candidate %d.%d", p+1, c+1),
				AnswerSet: make(domain.Answers),
			}
			for i, def := range e.Questions {
				if rng.Float64() < cfg.MissingRate {
					continue
				}
				cand.AnswerSet[def.ID] = domain.Answer{Value: randomAnswer(rng, def, ideal[i])}
			}
			e.Candidates = append(e.Candidates, cand)
			e.Members[party.ID] = append(e.Members[party.ID], cand.ID)
		}
	}
	return e
}

// GenerateElectionDefault creates an election with a time-based seed.
func GenerateElectionDefault(cfg ElectionConfig) *Election {
	return GenerateElection(cfg, time.Now().UnixNano())
}

var categories = []string{CategoryEconomy, CategoryEnvironment, CategorySociety}

func generateQuestions(rng *rand.Rand, n int) []domain.QuestionDefinition {
	defs := make([]domain.QuestionDefinition, n)
	for i := range defs {
		def := domain.QuestionDefinition{
			ID:       fmt.Sprintf("q%d", i+1),
			Category: categories[i%len(categories)],
		}
		// Mostly Likert, as in real questionnaires.
		switch roll := rng.Intn(10); {
		case roll < 7:
			def.Type = domain.QuestionLikert
			def.Scale = 5
		case roll < 8:
			def.Type = domain.QuestionBoolean
		default:
			def.Type = domain.QuestionCategorical
			def.Choices = []domain.Choice{{ID: "left"}, {ID: "centre"}, {ID: "right"}}
		}
		defs[i] = def
	}
	return defs
}

func optionCount(def domain.QuestionDefinition) int {
	switch def.Type {
	case domain.QuestionLikert:
		return def.Scale
	case domain.QuestionBoolean:
		return 2
	default:
		return len(def.Choices)
	}
}

// randomAnswer draws an answer. With ideal >= 0 the answer stays within one
// step of the ideal option.
func randomAnswer(rng *rand.Rand, def domain.QuestionDefinition, ideal int) any {
	n := optionCount(def)
	opt := rng.Intn(n)
	if ideal >= 0 {
		opt = min(max(ideal+rng.Intn(3)-1, 0), n-1)
	}
	switch def.Type {
	case domain.QuestionLikert:
		return opt + 1
	case domain.QuestionBoolean:
		return opt == 1
	default:
		return def.Choices[opt].ID
	}
}

// ElectionStatistics summarizes a generated election.
type ElectionStatistics struct {
	Questions           int
	QuestionsByType     map[domain.QuestionType]int
	QuestionsByCategory map[string]int
	Candidates          int
	Parties             int
	// AnswerRate is the share of candidate answers that are present.
	AnswerRate float64
}

// ComputeElectionStatistics summarizes e.
func ComputeElectionStatistics(e *Election) *ElectionStatistics {
	stats := &ElectionStatistics{
		Questions:           len(e.Questions),
		QuestionsByType:     make(map[domain.QuestionType]int),
		QuestionsByCategory: make(map[string]int),
		Candidates:          len(e.Candidates),
		Parties:             len(e.Parties),
	}
	for _, def := range e.Questions {
		stats.QuestionsByType[def.Type]++
		stats.QuestionsByCategory[def.Category]++
	}

	if total := len(e.Candidates) * len(e.Questions); total > 0 {
		answered := 0
		for _, c := range e.Candidates {
			answered += len(c.AnswerSet)
		}
		stats.AnswerRate = float64(answered) / float64(total)
	}
	return stats
}
