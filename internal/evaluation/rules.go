package evaluation

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"idea-workers/internal/models"
)

const (
	Stage1MaxPoints = 40
	Stage2MaxPoints = 20
)

// Criterion names. A rule file must weight exactly these.
const (
	CriterionProblemSpecificity    = "problem_specificity"
	CriterionProcessCompleteness   = "process_completeness"
	CriterionBenefitQuantification = "benefit_quantification"
	CriterionFrequencyImpact       = "frequency_impact"
	CriterionOperationalPlan       = "operational_plan"
	CriterionFeasibility           = "feasibility"
	CriterionValidationStrength    = "validation_strength"
)

var (
	stage1Criteria = []string{
		CriterionProblemSpecificity,
		CriterionProcessCompleteness,
		CriterionBenefitQuantification,
		CriterionFrequencyImpact,
	}
	stage2Criteria = []string{
		CriterionOperationalPlan,
		CriterionFeasibility,
		CriterionValidationStrength,
	}
)

var ErrRulesInvalid = errors.New("RULES_INVALID")

//go:embed rules/v1.yaml
var defaultRulesYAML []byte

type PriorityRule struct {
	Code             models.PriorityTag `yaml:"code"`
	Categories       []models.Category  `yaml:"categories"`
	Keywords         []string           `yaml:"keywords"`
	AudienceKeywords []string           `yaml:"audience_keywords"`
}

type LocationRules struct {
	RuralKeywords      []string `yaml:"rural_keywords"`
	NationwideKeywords []string `yaml:"nationwide_keywords"`
	UrbanKeywords      []string `yaml:"urban_keywords"`
	Cities             []string `yaml:"cities"`
}

type ComplexityRules struct {
	AdvancedKeywords []string `yaml:"advanced_keywords"`
}

type Vocabulary struct {
	Population    []string `yaml:"population"`
	Frequency     []string `yaml:"frequency"`
	DurationUnits []string `yaml:"duration_units"`
	MoneyUnits    []string `yaml:"money_units"`
	ROI           []string `yaml:"roi"`
	Team          []string `yaml:"team"`
	Technical     []string `yaml:"technical"`
}

type CriterionWeight struct {
	Name   string `yaml:"name"`
	Weight int    `yaml:"weight"`
}

// RuleSet is the versioned configuration behind classification and scoring.
// It is immutable once loaded and safe to share between goroutines.
type RuleSet struct {
	Version    string            `yaml:"version"`
	Priorities []PriorityRule    `yaml:"priorities"`
	Location   LocationRules     `yaml:"location"`
	Complexity ComplexityRules   `yaml:"complexity"`
	Vocabulary Vocabulary        `yaml:"vocabulary"`
	Stage1     []CriterionWeight `yaml:"stage1"`
	Stage2     []CriterionWeight `yaml:"stage2"`

	durationPattern *regexp.Regexp
	moneyPattern    *regexp.Regexp
}

var loadDefaultRules = sync.OnceValues(func() (*RuleSet, error) {
	return ParseRules(defaultRulesYAML)
})

// DefaultRules returns the embedded v1 rule set.
func DefaultRules() (*RuleSet, error) {
	return loadDefaultRules()
}

// LoadRules reads a rule file from disk. An empty path yields the embedded
// default rules.
func LoadRules(path string) (*RuleSet, error) {
	if path == "" {
		return DefaultRules()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrRulesInvalid, path, err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRulesInvalid, err)
	}
	rs.lowerCase()
	if err := rs.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRulesInvalid, err)
	}
	rs.durationPattern = unitPattern(rs.Vocabulary.DurationUnits, false)
	rs.moneyPattern = unitPattern(rs.Vocabulary.MoneyUnits, true)
	return &rs, nil
}

// TagOrder returns the priority codes in precedence order.
func (r *RuleSet) TagOrder() []models.PriorityTag {
	out := make([]models.PriorityTag, 0, len(r.Priorities))
	for _, p := range r.Priorities {
		out = append(out, p.Code)
	}
	return out
}

func (r *RuleSet) weight(stage []CriterionWeight, name string) int {
	for _, c := range stage {
		if c.Name == name {
			return c.Weight
		}
	}
	return 0
}

func (r *RuleSet) lowerCase() {
	for i := range r.Priorities {
		r.Priorities[i].Keywords = lowerAll(r.Priorities[i].Keywords)
		r.Priorities[i].AudienceKeywords = lowerAll(r.Priorities[i].AudienceKeywords)
	}
	r.Location.RuralKeywords = lowerAll(r.Location.RuralKeywords)
	r.Location.NationwideKeywords = lowerAll(r.Location.NationwideKeywords)
	r.Location.UrbanKeywords = lowerAll(r.Location.UrbanKeywords)
	r.Location.Cities = lowerAll(r.Location.Cities)
	r.Complexity.AdvancedKeywords = lowerAll(r.Complexity.AdvancedKeywords)

	v := &r.Vocabulary
	v.Population = lowerAll(v.Population)
	v.Frequency = lowerAll(v.Frequency)
	v.DurationUnits = lowerAll(v.DurationUnits)
	v.MoneyUnits = lowerAll(v.MoneyUnits)
	v.ROI = lowerAll(v.ROI)
	v.Team = lowerAll(v.Team)
	v.Technical = lowerAll(v.Technical)
}

func (r *RuleSet) validate() error {
	if r.Version == "" {
		return errors.New("version is required")
	}
	if len(r.Priorities) == 0 {
		return errors.New("at least one priority rule is required")
	}

	seen := make(map[models.PriorityTag]bool, len(r.Priorities))
	for _, p := range r.Priorities {
		if !models.IsKnownPriorityTag(p.Code) {
			return fmt.Errorf("unknown priority code %q", p.Code)
		}
		if seen[p.Code] {
			return fmt.Errorf("duplicate priority code %q", p.Code)
		}
		seen[p.Code] = true
	}

	if err := validateStage("stage1", r.Stage1, stage1Criteria, Stage1MaxPoints); err != nil {
		return err
	}
	if err := validateStage("stage2", r.Stage2, stage2Criteria, Stage2MaxPoints); err != nil {
		return err
	}
	if len(r.Vocabulary.DurationUnits) == 0 || len(r.Vocabulary.MoneyUnits) == 0 {
		return errors.New("vocabulary.duration_units and vocabulary.money_units are required")
	}
	return nil
}

func validateStage(name string, weights []CriterionWeight, want []string, total int) error {
	if len(weights) != len(want) {
		return fmt.Errorf("%s must weight %d criteria, got %d", name, len(want), len(weights))
	}
	sum := 0
	for i, w := range weights {
		if w.Name != want[i] {
			return fmt.Errorf("%s criterion %d must be %q, got %q", name, i, want[i], w.Name)
		}
		if w.Weight <= 0 {
			return fmt.Errorf("%s criterion %q must have a positive weight", name, w.Name)
		}
		sum += w.Weight
	}
	if sum != total {
		return fmt.Errorf("%s weights must sum to %d, got %d", name, total, sum)
	}
	return nil
}

// unitPattern matches a number directly followed by one of the given units,
// e.g. "15 min" or "7500 dh". With prefix set, a leading unit ("$200") also
// matches.
func unitPattern(units []string, prefix bool) *regexp.Regexp {
	sorted := append([]string(nil), units...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	quoted := make([]string, len(sorted))
	for i, u := range sorted {
		quoted[i] = regexp.QuoteMeta(u)
	}
	alt := strings.Join(quoted, "|")
	num := `\d+(?:[.,\s]\d+)*`
	expr := num + `\s*(?:` + alt + `)s?(?:[^\p{L}]|$)`
	if prefix {
		expr = `(?:` + expr + `)|(?:(?:^|[^\p{L}])(?:` + alt + `)\s*` + num + `)`
	}
	return regexp.MustCompile(expr)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
