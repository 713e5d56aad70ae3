package application

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/openvaa/vaa-matching/internal/domain"
	"github.com/openvaa/vaa-matching/internal/ports"
)

// Dataset is the file format describing one matching problem: the
// questions, optional question groups, the reference respondent and the
// targets. Parents, such as parties, may list member targets from which
// their missing answers are imputed.
type Dataset struct {
	// Questions define the matchable questions in order.
	Questions []domain.QuestionDefinition `yaml:"questions" json:"questions" validate:"required,min=1,dive"`
	// Groups declare question groups for sub-matches.
	Groups []GroupRecord `yaml:"groups,omitempty" json:"groups,omitempty" validate:"dive"`
	// Reference is the respondent everyone is matched against.
	Reference EntityRecord `yaml:"reference" json:"reference"`
	// Targets are the entities to match, e.g. candidates.
	Targets []EntityRecord `yaml:"targets" json:"targets" validate:"required,min=1,dive"`
	// Parents are optional parent entities, e.g. parties.
	Parents []EntityRecord `yaml:"parents,omitempty" json:"parents,omitempty" validate:"dive"`
}

// GroupRecord declares a question group by question ids.
type GroupRecord struct {
	ID        string   `yaml:"id" json:"id" validate:"required"`
	Label     string   `yaml:"label,omitempty" json:"label,omitempty"`
	Questions []string `yaml:"questions" json:"questions" validate:"required,min=1,dive,required"`
}

// EntityRecord is an entity with raw answers keyed by question id.
type EntityRecord struct {
	ID      string         `yaml:"id" json:"id"`
	Name    string         `yaml:"name,omitempty" json:"name,omitempty"`
	Answers map[string]any `yaml:"answers" json:"answers"`
	// Members lists the ids of targets belonging to a parent.
	Members []string `yaml:"members,omitempty" json:"members,omitempty"`
}

// Respondent converts the record to a domain.Respondent.
func (r EntityRecord) Respondent() *domain.Respondent {
	answers := make(domain.Answers, len(r.Answers))
	for id, v := range r.Answers {
		answers[id] = domain.Answer{Value: v}
	}
	return &domain.Respondent{ID: r.ID, Name: r.Name, AnswerSet: answers}
}

// Problem is a Dataset resolved into domain values ready for matching.
type Problem struct {
	Questions []domain.MatchableQuestion
	Groups    []domain.QuestionGroup
	Reference *domain.Respondent
	Targets   []domain.Entity
	// Parents are the parent entities, in file order.
	Parents []domain.Entity
	// Members maps each parent to its member targets.
	Members map[domain.Entity][]domain.Entity
}

// datasetValidate validates dataset struct tags.
var datasetValidate = validator.New()

// LoadDataset reads a dataset from path. Files ending in .json are decoded
// as JSON; everything else as YAML. Both decoders reject unknown fields.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	return DecodeDataset(bytes.NewReader(data), format)
}

// DecodeDataset decodes and validates a dataset in the given format,
// "json" or "yaml". JSON numbers are kept as json.Number so that integer
// and decimal answers are preserved exactly.
func DecodeDataset(r io.Reader, format string) (*Dataset, error) {
	var ds Dataset
	switch format {
	case "json":
		dec := json.NewDecoder(r)
		dec.UseNumber()
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ds); err != nil {
			return nil, domain.NewConfigurationError("Dataset", fmt.Sprintf("JSON decode failed: %v", err))
		}
	case "yaml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
			return nil, domain.NewConfigurationError("Dataset", fmt.Sprintf("YAML decode failed: %v", err))
		}
	default:
		return nil, domain.NewConfigurationError("Dataset", fmt.Sprintf("unsupported format %q", format))
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate checks struct constraints and that ids are unique and every
// reference to a question or target resolves.
func (ds *Dataset) Validate() error {
	cfgErr := domain.NewConfigurationError("Dataset")
	if err := datasetValidate.Struct(ds); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				cfgErr.AddErrorf("%s: failed %q", strings.TrimPrefix(fe.Namespace(), "Dataset."), fe.Tag())
			}
		} else {
			cfgErr.AddError(err.Error())
		}
		return cfgErr
	}

	questionIDs := make(map[string]struct{}, len(ds.Questions))
	for _, q := range ds.Questions {
		if _, dup := questionIDs[q.ID]; dup {
			cfgErr.AddErrorf("duplicate question id %q", q.ID)
		}
		questionIDs[q.ID] = struct{}{}
	}
	for _, g := range ds.Groups {
		for _, id := range g.Questions {
			if _, ok := questionIDs[id]; !ok {
				cfgErr.AddErrorf("group %q references unknown question %q", g.ID, id)
			}
		}
	}

	targetIDs := make(map[string]struct{}, len(ds.Targets))
	for i, t := range ds.Targets {
		if t.ID == "" {
			cfgErr.AddErrorf("target %d has no id", i)
			continue
		}
		if _, dup := targetIDs[t.ID]; dup {
			cfgErr.AddErrorf("duplicate target id %q", t.ID)
		}
		targetIDs[t.ID] = struct{}{}
	}
	for i, p := range ds.Parents {
		if p.ID == "" {
			cfgErr.AddErrorf("parent %d has no id", i)
		}
		for _, id := range p.Members {
			if _, ok := targetIDs[id]; !ok {
				cfgErr.AddErrorf("parent %q references unknown target %q", p.ID, id)
			}
		}
	}
	return cfgErr.ErrOrNil()
}

// Resolve creates the dataset's questions with registry and converts all
// records into domain values.
func (ds *Dataset) Resolve(registry ports.QuestionRegistry) (*Problem, error) {
	byID := make(map[string]domain.MatchableQuestion, len(ds.Questions))
	qs := make([]domain.MatchableQuestion, len(ds.Questions))
	for i, def := range ds.Questions {
		q, err := registry.CreateQuestion(def)
		if err != nil {
			return nil, err
		}
		qs[i] = q
		byID[def.ID] = q
	}

	groups := make([]domain.QuestionGroup, 0, len(ds.Groups))
	for _, g := range ds.Groups {
		group := domain.QuestionGroup{ID: g.ID, Label: g.Label}
		for _, id := range g.Questions {
			q, ok := byID[id]
			if !ok {
				return nil, domain.NewConfigurationError("Dataset",
					fmt.Sprintf("group %q references unknown question %q", g.ID, id))
			}
			group.Questions = append(group.Questions, q)
		}
		groups = append(groups, group)
	}
	groups = append(groups, categoryGroups(ds.Questions, byID, groups)...)

	targets := make([]domain.Entity, len(ds.Targets))
	targetByID := make(map[string]domain.Entity, len(ds.Targets))
	for i, t := range ds.Targets {
		r := t.Respondent()
		targets[i] = r
		targetByID[t.ID] = r
	}

	parents := make([]domain.Entity, len(ds.Parents))
	members := make(map[domain.Entity][]domain.Entity, len(ds.Parents))
	for i, p := range ds.Parents {
		r := p.Respondent()
		parents[i] = r
		for _, id := range p.Members {
			members[r] = append(members[r], targetByID[id])
		}
	}

	return &Problem{
		Questions: qs,
		Groups:    groups,
		Reference: ds.Reference.Respondent(),
		Targets:   targets,
		Parents:   parents,
		Members:   members,
	}, nil
}

// categoryGroups derives groups from question categories for categories
// that no explicit group already uses as its id.
func categoryGroups(defs []domain.QuestionDefinition, byID map[string]domain.MatchableQuestion, explicit []domain.QuestionGroup) []domain.QuestionGroup {
	taken := make(map[string]struct{}, len(explicit))
	for _, g := range explicit {
		taken[g.ID] = struct{}{}
	}

	var out []domain.QuestionGroup
	index := make(map[string]int)
	for _, def := range defs {
		if def.Category == "" {
			continue
		}
		if _, ok := taken[def.Category]; ok {
			continue
		}
		i, ok := index[def.Category]
		if !ok {
			i = len(out)
			index[def.Category] = i
			out = append(out, domain.QuestionGroup{ID: def.Category, Label: def.Category})
		}
		out[i].Questions = append(out[i].Questions, byID[def.ID])
	}
	return out
}
