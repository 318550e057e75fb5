package job

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/hrkit/talentscout/internal/skills"
)

var (
	requiredSection  = regexp.MustCompile(`(?is)required.*?:(.*?)(?:preferred|bonus|location|salary|$)`)
	preferredSection = regexp.MustCompile(`(?is)(?:preferred|bonus).*?:(.*?)(?:location|salary|$)`)
)

// skillListFields are the posting keys that may carry explicit skill lists,
// checked in order. Values may be JSON arrays or delimited strings.
var (
	requiredListFields  = []string{"skills_required", "required_skills", "skills", "technologies"}
	preferredListFields = []string{"skills_preferred", "preferred_skills"}
)

// LoadFile reads postings from a JSON file. The file is either a single
// posting object or {"job_descriptions": [...]}. Each posting is validated
// (title is required) and gets its skill lists derived.
func LoadFile(path string, logger *zap.Logger) (*Jobs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening jobs file: %w", err)
	}
	return Parse(data, logger)
}

// Parse decodes postings from raw JSON.
func Parse(data []byte, logger *zap.Logger) (*Jobs, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing jobs file: %w", err)
	}

	rawJobs := []map[string]any{root}
	if listed, ok := root["job_descriptions"].([]any); ok {
		rawJobs = rawJobs[:0]
		for _, item := range listed {
			if m, ok := item.(map[string]any); ok {
				rawJobs = append(rawJobs, m)
			}
		}
	}

	validate := validator.New()
	extractor := skills.Extractor()

	jobs := &Jobs{}
	for i, raw := range rawJobs {
		j, err := decodeJob(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding job %d: %w", i+1, err)
		}
		if err := validate.Struct(j); err != nil {
			return nil, fmt.Errorf("job %d is invalid: %w", i+1, err)
		}

		j.DeriveSkills(extractor)
		jobs.Items = append(jobs.Items, j)

		logger.Debug("loaded job",
			zap.String("title", j.Title),
			zap.Strings("skills_required", j.SkillsRequired),
			zap.Strings("skills_preferred", j.SkillsPreferred),
		)
	}

	logger.Info("loaded jobs", zap.Int("count", jobs.Len()))
	return jobs, nil
}

func decodeJob(raw map[string]any) (*Job, error) {
	var j Job
	cfg := &mapstructure.DecoderConfig{
		Result:           &j,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	j.SkillsRequired = pickSkillList(raw, requiredListFields)
	j.SkillsPreferred = pickSkillList(raw, preferredListFields)

	return &j, nil
}

// pickSkillList returns the first non-empty skill list among the given keys.
func pickSkillList(raw map[string]any, keys []string) []string {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		if list := coerceSkillList(value); len(list) > 0 {
			return list
		}
	}
	return nil
}

// coerceSkillList accepts a JSON array or a comma/semicolon-delimited string.
func coerceSkillList(value any) []string {
	var out []string
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	case string:
		replaced := strings.NewReplacer(",", " ", ";", " ").Replace(v)
		for _, s := range strings.Fields(replaced) {
			out = append(out, s)
		}
	}
	return out
}

// splitSections separates the description into required and preferred text
// regions for skill derivation.
func splitSections(description string) (required, preferred string) {
	desc := strings.ToLower(description)

	if m := requiredSection.FindStringSubmatch(desc); m != nil {
		required = m[1]
	}
	if m := preferredSection.FindStringSubmatch(desc); m != nil {
		preferred = m[1]
	}
	return required, preferred
}
