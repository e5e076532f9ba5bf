// Package notify turns domain events into persisted, per-recipient
// notifications rendered in each recipient's locale. It decides what is
// stored and for whom; transport (push, websocket, email) is someone
// else's problem.
package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/locale"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/models"
)

// ErrMissingContent is returned for a recipient when the notification type
// has no fixed template and no literal title/body was supplied.
var ErrMissingContent = errors.New("notification type has no template and no literal content was provided")

// Input describes one dispatch request. Title and Body are only consulted
// for types without a catalog template (message, system, announcement).
type Input struct {
	Type       models.NotificationType
	Recipients []uint
	Payload    map[string]string
	Title      string
	Body       string
}

// Outcome reports the per-recipient result of a dispatch. Recipients are
// independent: one failure never blocks the rest of the batch.
type Outcome struct {
	RecipientID  uint                 `json:"recipientId"`
	Notification *models.Notification `json:"-"`
	Err          error                `json:"-"`
}

// Dispatcher persists one Notification row per recipient.
type Dispatcher struct {
	db *gorm.DB
}

func NewDispatcher(db *gorm.DB) *Dispatcher {
	return &Dispatcher{db: db}
}

// Dispatch resolves each recipient's locale, renders the template (or uses
// the supplied literal content) and persists one notification per
// recipient. Render and persistence failures are collected per recipient;
// the batch always runs to completion.
func (d *Dispatcher) Dispatch(in Input) []Outcome {
	outcomes := make([]Outcome, 0, len(in.Recipients))
	if len(in.Recipients) == 0 {
		return outcomes
	}

	// One query for all recipients' stored locale preferences.
	var users []models.User
	if err := d.db.Select("id", "locale").Where("id IN ?", in.Recipients).Find(&users).Error; err != nil {
		slog.Error("Failed to load notification recipients", "error", err, "type", in.Type)
		for _, id := range in.Recipients {
			outcomes = append(outcomes, Outcome{RecipientID: id, Err: err})
		}
		return outcomes
	}
	locales := make(map[uint]string, len(users))
	for _, u := range users {
		locales[u.ID] = u.Locale
	}

	payloadJSON := ""
	if len(in.Payload) > 0 {
		raw, err := json.Marshal(in.Payload)
		if err == nil {
			payloadJSON = string(raw)
		}
	}

	for _, id := range in.Recipients {
		stored, known := locales[id]
		if !known {
			outcomes = append(outcomes, Outcome{RecipientID: id, Err: fmt.Errorf("recipient %d: %w", id, gorm.ErrRecordNotFound)})
			continue
		}
		loc := locale.Resolve([]string{stored}, locale.Default)

		title, body, err := d.render(in, loc)
		if err != nil {
			slog.Error("Failed to render notification", "error", err, "type", in.Type, "recipient_id", id, "locale", loc)
			outcomes = append(outcomes, Outcome{RecipientID: id, Err: err})
			continue
		}

		n := models.Notification{
			Type:        in.Type,
			RecipientID: id,
			Locale:      loc,
			Title:       title,
			Body:        body,
			Payload:     payloadJSON,
		}
		if err := d.db.Create(&n).Error; err != nil {
			slog.Error("Failed to persist notification", "error", err, "type", in.Type, "recipient_id", id)
			outcomes = append(outcomes, Outcome{RecipientID: id, Err: err})
			continue
		}
		outcomes = append(outcomes, Outcome{RecipientID: id, Notification: &n})
	}
	return outcomes
}

func (d *Dispatcher) render(in Input, loc string) (title, body string, err error) {
	tpl, ok := TemplateFor(in.Type, loc)
	if !ok {
		if in.Title == "" || in.Body == "" {
			return "", "", fmt.Errorf("%w: type %s", ErrMissingContent, in.Type)
		}
		return in.Title, in.Body, nil
	}
	if title, err = Render(tpl.Title, in.Payload); err != nil {
		return "", "", err
	}
	if body, err = Render(tpl.Body, in.Payload); err != nil {
		return "", "", err
	}
	return title, body, nil
}

// Failed filters outcomes down to the failures, for partial-success
// reporting to the caller.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}
