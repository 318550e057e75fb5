package draft

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hrkit/talentscout/internal/ai"
)

type stubGenerator struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubGenerator) GenerateContent(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.text, s.err
}

func (s *stubGenerator) Provider() string { return s.name }
func (s *stubGenerator) Model() string    { return "stub" }

func TestDescriptionUsesFirstProvider(t *testing.T) {
	first := &stubGenerator{name: "gemini", text: "a fine description"}
	second := &stubGenerator{name: "ollama", text: "should not be used"}

	d := New(nil, 0, first, second)
	res := d.Description(context.Background(), Request{Title: "Go Developer"})

	if res.Outcome != ai.OutcomeGenerated {
		t.Fatalf("outcome = %q, want %q", res.Outcome, ai.OutcomeGenerated)
	}
	if res.Provider != "gemini" {
		t.Errorf("provider = %q, want gemini", res.Provider)
	}
	if res.Text != "a fine description" {
		t.Errorf("text = %q", res.Text)
	}
	if second.calls != 0 {
		t.Errorf("second provider was called %d times", second.calls)
	}
}

func TestDescriptionFallsThroughProviders(t *testing.T) {
	first := &stubGenerator{name: "gemini", err: errors.New("quota exceeded")}
	second := &stubGenerator{name: "ollama", text: "local draft"}

	d := New(nil, 0, first, second)
	res := d.Description(context.Background(), Request{Title: "Go Developer"})

	if res.Outcome != ai.OutcomeGenerated {
		t.Fatalf("outcome = %q, want %q", res.Outcome, ai.OutcomeGenerated)
	}
	if res.Provider != "ollama" {
		t.Errorf("provider = %q, want ollama", res.Provider)
	}
}

func TestDescriptionStaticFallback(t *testing.T) {
	failing := &stubGenerator{name: "gemini", err: errors.New("boom")}

	d := New(nil, 0, failing)
	res := d.Description(context.Background(), Request{
		Title:           "Go Developer",
		Company:         "Acme",
		ExperienceLevel: "Senior",
	})

	if res.Outcome != ai.OutcomeFallback {
		t.Fatalf("outcome = %q, want %q", res.Outcome, ai.OutcomeFallback)
	}
	if res.Err == nil {
		t.Error("fallback result must carry the provider error")
	}
	if !strings.Contains(res.Text, "Go Developer") || !strings.Contains(res.Text, "Acme") {
		t.Errorf("static description missing request fields: %q", res.Text)
	}
}

func TestDescriptionNoProviders(t *testing.T) {
	d := New(nil, 0)
	res := d.Description(context.Background(), Request{Title: "Go Developer"})
	if res.Outcome != ai.OutcomeFallback {
		t.Fatalf("outcome = %q, want %q", res.Outcome, ai.OutcomeFallback)
	}
	if res.Text == "" {
		t.Error("static description must not be empty")
	}
}

func TestSkills(t *testing.T) {
	gen := &stubGenerator{name: "gemini", text: `REQUIRED SKILLS:
- Go
- SQL
• Docker

PREFERRED:
- Kubernetes
- Terraform`}

	d := New(nil, 0, gen)
	required, preferred, res := d.Skills(context.Background(), Request{Title: "Backend Engineer"})

	if res.Outcome != ai.OutcomeGenerated {
		t.Fatalf("outcome = %q, want %q", res.Outcome, ai.OutcomeGenerated)
	}
	if want := []string{"Go", "SQL", "Docker"}; !reflect.DeepEqual(required, want) {
		t.Errorf("required = %v, want %v", required, want)
	}
	if want := []string{"Kubernetes", "Terraform"}; !reflect.DeepEqual(preferred, want) {
		t.Errorf("preferred = %v, want %v", preferred, want)
	}
}

func TestSkillsUnparseableResponse(t *testing.T) {
	gen := &stubGenerator{name: "gemini", text: "Sure! Here are some skills for you."}

	d := New(nil, 0, gen)
	required, preferred, res := d.Skills(context.Background(), Request{Title: "Backend Engineer"})

	if res.Outcome != ai.OutcomeFallback {
		t.Fatalf("outcome = %q, want %q", res.Outcome, ai.OutcomeFallback)
	}
	if res.Err == nil {
		t.Error("unparseable response must set Err")
	}
	if len(required) == 0 || len(preferred) == 0 {
		t.Errorf("static skill lists must not be empty: %v / %v", required, preferred)
	}
}

func TestParseSkills(t *testing.T) {
	cases := []struct {
		name          string
		content       string
		wantRequired  []string
		wantPreferred []string
	}{
		{
			name:         "bullets before any section are dropped",
			content:      "- orphan\nREQUIRED:\n- Go",
			wantRequired: []string{"Go"},
		},
		{
			name:    "non-bullet lines ignored",
			content: "REQUIRED:\nGo is great\n- Go",
			wantRequired: []string{
				"Go",
			},
		},
		{
			name:          "case insensitive headers",
			content:       "required skills\n- Go\npreferred skills\n- Rust",
			wantRequired:  []string{"Go"},
			wantPreferred: []string{"Rust"},
		},
		{
			name:    "empty input",
			content: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			required, preferred := ParseSkills(tc.content)
			if !reflect.DeepEqual(required, tc.wantRequired) {
				t.Errorf("required = %v, want %v", required, tc.wantRequired)
			}
			if !reflect.DeepEqual(preferred, tc.wantPreferred) {
				t.Errorf("preferred = %v, want %v", preferred, tc.wantPreferred)
			}
		})
	}
}

func TestGenerateTruncatesDebugPreviews(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	gen := &stubGenerator{name: "gemini", text: strings.Repeat("a detailed description ", 40)}

	d := New(zap.New(core), 20, gen)
	if res := d.Description(context.Background(), Request{Title: "Go Developer"}); res.Outcome != ai.OutcomeGenerated {
		t.Fatalf("outcome = %q", res.Outcome)
	}

	previews := map[string]string{}
	for _, e := range observed.All() {
		ctx := e.ContextMap()
		for _, key := range []string{"prompt_preview", "response_preview"} {
			if v, ok := ctx[key].(string); ok {
				previews[key] = v
			}
		}
	}

	for _, key := range []string{"prompt_preview", "response_preview"} {
		got, ok := previews[key]
		if !ok {
			t.Fatalf("no debug entry carries %s", key)
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("%s = %q, want a truncated preview", key, got)
		}
		if n := len([]rune(strings.TrimSuffix(got, "..."))); n > 20 {
			t.Errorf("%s keeps %d runes, want at most 20", key, n)
		}
	}
}

func TestDraftCombinedProvenance(t *testing.T) {
	// Description succeeds, skills come back unparseable. The combined
	// result must carry the weaker fallback tag.
	gen := &stubGenerator{name: "gemini", text: "prose without bullets"}

	d := New(nil, 0, gen)
	j, res := d.Draft(context.Background(), Request{Title: "Go Developer", Company: "Acme"})

	if j.Title != "Go Developer" {
		t.Errorf("title = %q", j.Title)
	}
	if j.Description == "" {
		t.Error("description must be filled")
	}
	if len(j.SkillsRequired) == 0 {
		t.Error("skills must be filled from the static fallback")
	}
	if res.Outcome != ai.OutcomeFallback {
		t.Errorf("outcome = %q, want %q", res.Outcome, ai.OutcomeFallback)
	}
}
