package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photomind/internal/domain"
)

func TestVocabulary_DedupesAndSorts(t *testing.T) {
	got := Vocabulary([]string{"forest", "beach", " city ", "beach", "", "Beach"})
	assert.Equal(t, []string{"Beach", "beach", "city", "forest"}, got)

	assert.Empty(t, Vocabulary(nil))
}

func TestBuildPrompt_IsDeterministic(t *testing.T) {
	vocab := Vocabulary([]string{"forest", "city", "beach"})
	p1 := BuildPrompt("vacation photos", vocab, 3)
	p2 := BuildPrompt("vacation photos", Vocabulary([]string{"city", "beach", "forest", "city"}), 3)

	assert.Equal(t, p1, p2)
	assert.Contains(t, p1, `"vacation photos"`)
	assert.Contains(t, p1, "beach, city, forest")
	assert.Contains(t, p1, "at most 3 objects")
	assert.Contains(t, p1, "ONLY a JSON array")
}

func TestBuildPrompt_EmptyVocabulary(t *testing.T) {
	p := BuildPrompt("dogs", nil, 3)
	assert.Contains(t, p, "Available tags: (none)")
	assert.Contains(t, p, "[]")
}

func TestParseMatches(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    []domain.TagMatch
		wantErr bool
	}{
		{name: "plain", in: `[{"tag":"beach","confidence":90}]`, want: []domain.TagMatch{{Tag: "beach", Confidence: 90}}},
		{name: "whitespace", in: "\n  [] \n", want: []domain.TagMatch{}},
		{name: "fenced", in: "```json\n[{\"tag\":\"city\",\"confidence\":70}]\n```", want: []domain.TagMatch{{Tag: "city", Confidence: 70}}},
		{name: "bare fence", in: "```\n[]\n```", want: []domain.TagMatch{}},
		{name: "prose", in: "Sure! Here are the tags.", wantErr: true},
		{name: "object", in: `{"results":[]}`, wantErr: true},
		{name: "null", in: `null`, wantErr: true},
		{name: "truncated", in: `[{"tag":"beach"`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseMatches(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFilterStrict(t *testing.T) {
	matches := []domain.TagMatch{
		{Tag: "beach", Confidence: 95},
		{Tag: "volcano", Confidence: 90},
		{Tag: "city", Confidence: 140},
		{Tag: "forest", Confidence: 60},
		{Tag: "city", Confidence: 50},
	}
	got := filterStrict(matches, []string{"beach", "city", "forest"}, 3)
	assert.Equal(t, []domain.TagMatch{
		{Tag: "beach", Confidence: 95},
		{Tag: "forest", Confidence: 60},
		{Tag: "city", Confidence: 50},
	}, got)
}
