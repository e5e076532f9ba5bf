package notify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/locale"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/models"
)

// Template is a renderable title/body pair for one notification type in one
// locale. Placeholders use the {name} form and are filled from the dispatch
// payload.
type Template struct {
	Title string
	Body  string
}

// ErrUnresolvedPlaceholder is returned by Render when the payload does not
// cover every placeholder in the template.
var ErrUnresolvedPlaceholder = errors.New("unresolved template placeholder")

// catalog maps a notification type to its per-locale templates. Types absent
// here (message, system, announcement) carry no fixed template: the caller
// supplies literal title and body instead.
var catalog = map[models.NotificationType]map[string]Template{
	models.NotificationConsultationAssignment: {
		"en": {
			Title: "New consultation assigned",
			Body:  "You have been assigned to consultation \"{topic}\" as {role} by {actor}.",
		},
		"ru": {
			Title: "Назначена новая консультация",
			Body:  "{actor} назначил(а) вас на консультацию «{topic}» в роли {role}.",
		},
		"zh-CN": {
			Title: "您有新的咨询任务",
			Body:  "{actor} 已将您指派为咨询“{topic}”的{role}。",
		},
	},
	models.NotificationConsultationStatus: {
		"en": {
			Title: "Consultation status updated",
			Body:  "Consultation \"{topic}\" is now {status}.",
		},
		"ru": {
			Title: "Статус консультации изменён",
			Body:  "Консультация «{topic}» переведена в статус {status}.",
		},
		"zh-CN": {
			Title: "咨询状态已更新",
			Body:  "咨询“{topic}”的状态已变更为{status}。",
		},
	},
	models.NotificationConsultationPriority: {
		"en": {
			Title: "Consultation priority changed",
			Body:  "{actor} set the priority of \"{topic}\" to {priority}.",
		},
		"ru": {
			Title: "Приоритет консультации изменён",
			Body:  "{actor} установил(а) приоритет «{topic}»: {priority}.",
		},
		"zh-CN": {
			Title: "咨询优先级已调整",
			Body:  "{actor} 已将“{topic}”的优先级设置为{priority}。",
		},
	},
}

// TemplateFor returns the template for a type in the given locale. The
// second result is false when the type carries no fixed template — a valid
// outcome the dispatcher handles by requiring literal content. Unknown
// types behave the same way; the registry never fails.
func TemplateFor(t models.NotificationType, loc string) (Template, bool) {
	byLocale, ok := catalog[t]
	if !ok {
		return Template{}, false
	}
	if tpl, ok := byLocale[loc]; ok {
		return tpl, true
	}
	return byLocale[locale.Default], true
}

// Render substitutes {name} placeholders in s with values from data. Every
// placeholder must resolve; a missing key is an error so that broken
// notifications are never persisted half-rendered.
func Render(s string, data map[string]string) (string, error) {
	var b strings.Builder
	for {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			b.WriteString(s)
			return b.String(), nil
		}
		end := strings.IndexByte(s[open:], '}')
		if end < 0 {
			b.WriteString(s)
			return b.String(), nil
		}
		b.WriteString(s[:open])
		key := s[open+1 : open+end]
		val, ok := data[key]
		if !ok {
			return "", fmt.Errorf("%w: {%s}", ErrUnresolvedPlaceholder, key)
		}
		b.WriteString(val)
		s = s[open+end+1:]
	}
}
