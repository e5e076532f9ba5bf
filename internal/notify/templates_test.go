package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/models"
)

func TestTemplateForKnownTypes(t *testing.T) {
	for _, typ := range []models.NotificationType{
		models.NotificationConsultationAssignment,
		models.NotificationConsultationStatus,
		models.NotificationConsultationPriority,
	} {
		for _, loc := range []string{"en", "ru", "zh-CN"} {
			tpl, ok := TemplateFor(typ, loc)
			require.True(t, ok, "type %s locale %s", typ, loc)
			assert.NotEmpty(t, tpl.Title)
			assert.NotEmpty(t, tpl.Body)
		}
	}
}

func TestTemplateForFallsBackToDefaultLocale(t *testing.T) {
	tpl, ok := TemplateFor(models.NotificationConsultationStatus, "de")
	require.True(t, ok)
	en, _ := TemplateFor(models.NotificationConsultationStatus, "en")
	assert.Equal(t, en, tpl)
}

func TestTemplateForTemplatelessTypes(t *testing.T) {
	// message/system/announcement carry caller-supplied content. Absence is
	// an answer, not an error.
	for _, typ := range []models.NotificationType{
		models.NotificationMessage,
		models.NotificationSystem,
		models.NotificationAnnouncement,
		models.NotificationType("bogus"),
	} {
		_, ok := TemplateFor(typ, "en")
		assert.False(t, ok, "type %s", typ)
	}
}

func TestRender(t *testing.T) {
	out, err := Render("Hi {name}, case {topic} is {status}.", map[string]string{
		"name": "Aizhan", "topic": "Divorce", "status": "in_progress",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi Aizhan, case Divorce is in_progress.", out)
}

func TestRenderUnresolvedPlaceholder(t *testing.T) {
	_, err := Render("Hello {name}", map[string]string{})
	assert.ErrorIs(t, err, ErrUnresolvedPlaceholder)
}

func TestRenderLiteralBraces(t *testing.T) {
	// An unterminated brace is passed through as-is.
	out, err := Render("code {x} tail {", map[string]string{"x": "1"})
	require.NoError(t, err)
	assert.Equal(t, "code 1 tail {", out)
}
