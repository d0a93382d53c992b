package curator

// Difficulty levels recognized by the pipeline. Anything else is
// normalized to DefaultDifficulty rather than rejected.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	DefaultDifficulty = DifficultyMedium
	DefaultTopic      = "mathematics"
)

var validDifficulties = map[string]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// NormalizeDifficulty lowercases and trims a difficulty value, replacing
// anything unrecognized with the default.
func NormalizeDifficulty(s string) string {
	n := normalizeToken(s)
	if validDifficulties[n] {
		return n
	}
	return DefaultDifficulty
}

// SeedProblem is an input exemplar used as the basis for generating
// variations. Immutable once read.
type SeedProblem struct {
	ID           string `json:"id"`
	ProblemText  string `json:"problem"`
	SolutionText string `json:"solution"`
	Difficulty   string `json:"difficulty"`
	Topic        string `json:"topic"`
}

// Candidate is a not-yet-validated generated problem/solution pair.
// A Candidate only exists when both problem and solution are non-empty;
// parsing that cannot produce one yields "no candidate", not an error.
type Candidate struct {
	ProblemText  string
	SolutionText string
	Difficulty   string
	Topic        string
	DiagramCode  string
}

// Recommendation is the validator's three-way disposition.
type Recommendation string

const (
	RecommendationAccept Recommendation = "ACCEPT"
	RecommendationRevise Recommendation = "REVISE"
	RecommendationReject Recommendation = "REJECT"
)

// SubScores breaks the overall score into the rubric's four components.
// Each is clamped to its declared range during parsing.
type SubScores struct {
	MathematicalAccuracy int // 0-40
	SolutionCorrectness  int // 0-30
	ClarityCompleteness  int // 0-20
	EducationalValue     int // 0-10
}

// Sum returns the component total, compared against the reported score
// to detect rubric inconsistency.
func (s SubScores) Sum() int {
	return s.MathematicalAccuracy + s.SolutionCorrectness + s.ClarityCompleteness + s.EducationalValue
}

// Verdict is the structured outcome of the validation step.
type Verdict struct {
	Passed         bool
	Score          int // 0-100, authoritative even when it disagrees with SubScores.Sum
	SubScores      SubScores
	Feedback       string
	Issues         string
	Recommendation Recommendation
}

// Accepted reports whether this verdict stores the candidate. The policy
// is conjunctive: a passing result AND an ACCEPT recommendation. REVISE
// and REJECT both reject, regardless of the numeric score.
func (v *Verdict) Accepted() bool {
	return v.Passed && v.Recommendation == RecommendationAccept
}
