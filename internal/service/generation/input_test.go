package generation

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumis-app/lumis-backend/internal/domain"
)

func TestArticleInput_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ArticleInput{Prompt: "write about go"}.Validate())
	assert.ErrorIs(t, ArticleInput{Prompt: "ab"}.Validate(), domain.ErrValidation)
	assert.ErrorIs(t, ArticleInput{Prompt: "   "}.Validate(), domain.ErrValidation)
	assert.ErrorIs(t, ArticleInput{Prompt: strings.Repeat("x", maxPromptLen+1)}.Validate(), domain.ErrValidation)
}

func TestResumeInput_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ResumeInput{ResumeText: "senior go engineer, 5 years"}.Validate())
	assert.ErrorIs(t, ResumeInput{ResumeText: ""}.Validate(), domain.ErrValidation)
	assert.ErrorIs(t, ResumeInput{ResumeText: strings.Repeat("x", maxResumeLen+1)}.Validate(), domain.ErrValidation)
	assert.ErrorIs(t, ResumeInput{
		ResumeText:     "fine",
		JobDescription: strings.Repeat("x", maxResumeLen+1),
	}.Validate(), domain.ErrValidation)
}

func TestBackgroundRemovalInput_Decode(t *testing.T) {
	t.Parallel()

	payload := []byte("fake image bytes")
	encoded := base64.StdEncoding.EncodeToString(payload)

	raw, err := BackgroundRemovalInput{Image: encoded}.Decode()
	require.NoError(t, err)
	assert.Equal(t, payload, raw)

	raw, err = BackgroundRemovalInput{Image: "data:image/png;base64," + encoded}.Decode()
	require.NoError(t, err)
	assert.Equal(t, payload, raw)
}

func TestBackgroundRemovalInput_DecodeErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":         "",
		"bad base64":    "not base64!!!",
		"bare data uri": "data:image/png;base64",
		"whitespace":    "   ",
	}
	for name, image := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := BackgroundRemovalInput{Image: image}.Decode()
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
