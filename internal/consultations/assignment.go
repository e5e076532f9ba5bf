// Package consultations implements the consultation lifecycle and the
// idempotent many-to-many assignment of lawyers and operators, with
// notification fan-out to newly added assignees.
package consultations

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/notify"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/models"
)

// Role selects which assignee set an operation works on.
type Role string

const (
	RoleLawyer   Role = "lawyer"
	RoleOperator Role = "operator"
)

// AssignResult reports what an Assign call changed, plus per-recipient
// notification outcomes (best effort, never part of the transaction).
type AssignResult struct {
	Added         []uint                    `json:"added"`
	Removed       []uint                    `json:"removed"`
	Status        models.ConsultationStatus `json:"status"`
	StatusChanged bool                      `json:"statusChanged"`
	Notifications []notify.Outcome          `json:"-"`
}

// Manager applies assignment diffs and status transitions on consultations.
type Manager struct {
	db         *gorm.DB
	dispatcher *notify.Dispatcher
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db, dispatcher: notify.NewDispatcher(db)}
}

// Assign replaces the assignee set of (consultation, role) with target.
// The diff is computed and persisted inside one transaction holding a row
// lock on the consultation, so concurrent calls serialize and the last
// committed target set wins. The first lawyer assignment moves a pending
// consultation to in_progress. Newly added assignees are notified after
// commit when doNotify is set; removals are silent.
func (m *Manager) Assign(consultationID uint, role Role, target []uint, actor models.User, doNotify bool) (*AssignResult, error) {
	if len(target) == 0 {
		return nil, ErrEmptySelection
	}

	var c models.Consultation
	result := &AssignResult{}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := lockConsultation(tx, &c, consultationID); err != nil {
			return err
		}
		if IsTerminal(c.Status) {
			return fmt.Errorf("%w: consultation %d is %s", ErrConsultationClosed, c.ID, c.Status)
		}

		eligible, err := eligibleSet(tx, string(role))
		if err != nil {
			return err
		}
		for _, id := range target {
			if !eligible[id] {
				return fmt.Errorf("%w: user %d for role %s", ErrIneligibleAssignee, id, role)
			}
		}

		current, err := assigneeIDs(tx, role, c.ID)
		if err != nil {
			return err
		}
		toAdd, toRemove := Diff(current, target)
		result.Added, result.Removed = toAdd, toRemove

		if err := applyDiff(tx, role, &c, actor.ID, toAdd, toRemove); err != nil {
			return err
		}

		if role == RoleLawyer {
			if err := ensurePrimaryLawyer(tx, c.ID); err != nil {
				return err
			}
			// The first lawyer on a pending consultation starts the work.
			if len(current) == 0 && len(toAdd) > 0 && c.Status == models.ConsultationPending {
				if err := Transition(&c, models.ConsultationInProgress); err != nil {
					return err
				}
				if err := tx.Model(&c).Update("status", c.Status).Error; err != nil {
					return err
				}
				result.StatusChanged = true
			}
		}
		result.Status = c.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	if doNotify {
		result.Notifications = m.notifyAssigned(&c, role, actor, result)
	}
	return result, nil
}

// SetStatus applies an explicit status change (archive/cancel) under the
// same lock discipline as Assign, so implicit and explicit transitions
// cannot race each other. The requester and all current assignees are
// notified after commit.
func (m *Manager) SetStatus(consultationID uint, to models.ConsultationStatus, actor models.User, doNotify bool) (*models.Consultation, []notify.Outcome, error) {
	var c models.Consultation
	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := lockConsultation(tx, &c, consultationID); err != nil {
			return err
		}
		if err := Transition(&c, to); err != nil {
			return err
		}
		return tx.Model(&c).Update("status", c.Status).Error
	})
	if err != nil {
		return nil, nil, err
	}

	var outcomes []notify.Outcome
	if doNotify {
		outcomes = m.dispatcher.Dispatch(notify.Input{
			Type:       models.NotificationConsultationStatus,
			Recipients: m.interestedParties(&c, actor.ID),
			Payload:    statusPayload(&c, actor),
		})
	}
	return &c, outcomes, nil
}

// SetPriority updates the priority of an open consultation and notifies the
// requester and assignees.
func (m *Manager) SetPriority(consultationID uint, priority string, actor models.User, doNotify bool) (*models.Consultation, []notify.Outcome, error) {
	switch priority {
	case models.PriorityLow, models.PriorityNormal, models.PriorityHigh, models.PriorityUrgent:
	default:
		return nil, nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidTransition, priority)
	}

	var c models.Consultation
	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := lockConsultation(tx, &c, consultationID); err != nil {
			return err
		}
		if IsTerminal(c.Status) {
			return fmt.Errorf("%w: consultation %d is %s", ErrConsultationClosed, c.ID, c.Status)
		}
		c.Priority = priority
		return tx.Model(&c).Update("priority", priority).Error
	})
	if err != nil {
		return nil, nil, err
	}

	var outcomes []notify.Outcome
	if doNotify {
		payload := statusPayload(&c, actor)
		payload["priority"] = priority
		outcomes = m.dispatcher.Dispatch(notify.Input{
			Type:       models.NotificationConsultationPriority,
			Recipients: m.interestedParties(&c, actor.ID),
			Payload:    payload,
		})
	}
	return &c, outcomes, nil
}

// Assignees returns the current lawyer and operator pivot rows for a
// consultation, for rendering.
func (m *Manager) Assignees(consultationID uint) ([]models.LawyerAssignment, []models.OperatorAssignment, error) {
	var c models.Consultation
	if err := m.db.First(&c, consultationID).Error; err != nil {
		return nil, nil, err
	}
	var lawyers []models.LawyerAssignment
	if err := m.db.Where("consultation_id = ?", consultationID).Order("assigned_at, user_id").Find(&lawyers).Error; err != nil {
		return nil, nil, err
	}
	var operators []models.OperatorAssignment
	if err := m.db.Where("consultation_id = ?", consultationID).Order("assigned_at, user_id").Find(&operators).Error; err != nil {
		return nil, nil, err
	}
	return lawyers, operators, nil
}

func lockConsultation(tx *gorm.DB, c *models.Consultation, id uint) error {
	q := tx
	// SQLite (tests) has no FOR UPDATE; its writes serialize anyway.
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q.First(c, id).Error
}

// eligibleSet loads the ids of users carrying the given role name.
func eligibleSet(tx *gorm.DB, roleName string) (map[uint]bool, error) {
	var ids []uint
	err := tx.Model(&models.User{}).
		Joins("JOIN user_roles ur ON ur.user_id = users.id").
		Joins("JOIN roles r ON r.id = ur.role_id").
		Where("r.name = ?", roleName).
		Pluck("users.id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func assigneeIDs(tx *gorm.DB, role Role, consultationID uint) ([]uint, error) {
	var ids []uint
	model := pivotModel(role)
	err := tx.Model(model).Where("consultation_id = ?", consultationID).Pluck("user_id", &ids).Error
	return ids, err
}

func pivotModel(role Role) interface{} {
	if role == RoleLawyer {
		return &models.LawyerAssignment{}
	}
	return &models.OperatorAssignment{}
}

func applyDiff(tx *gorm.DB, role Role, c *models.Consultation, actorID uint, toAdd, toRemove []uint) error {
	if len(toRemove) > 0 {
		if err := tx.Where("consultation_id = ? AND user_id IN ?", c.ID, toRemove).
			Delete(pivotModel(role)).Error; err != nil {
			return err
		}
	}
	now := time.Now()
	for _, id := range toAdd {
		var row interface{}
		if role == RoleLawyer {
			row = &models.LawyerAssignment{ConsultationID: c.ID, UserID: id, AssignedByID: actorID, AssignedAt: now}
		} else {
			row = &models.OperatorAssignment{ConsultationID: c.ID, UserID: id, AssignedByID: actorID, AssignedAt: now}
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
	}
	return nil
}

// ensurePrimaryLawyer keeps the invariant that a consultation with lawyers
// has exactly one primary. The earliest-assigned lawyer is promoted when
// the previous primary was removed by a diff.
func ensurePrimaryLawyer(tx *gorm.DB, consultationID uint) error {
	var primaries int64
	if err := tx.Model(&models.LawyerAssignment{}).
		Where("consultation_id = ? AND is_primary", consultationID).
		Count(&primaries).Error; err != nil {
		return err
	}
	if primaries > 0 {
		return nil
	}

	var first models.LawyerAssignment
	err := tx.Where("consultation_id = ?", consultationID).
		Order("assigned_at, user_id").First(&first).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil // no lawyers at all
	}
	if err != nil {
		return err
	}
	return tx.Model(&models.LawyerAssignment{}).
		Where("consultation_id = ? AND user_id = ?", consultationID, first.UserID).
		Update("is_primary", true).Error
}

func (m *Manager) notifyAssigned(c *models.Consultation, role Role, actor models.User, result *AssignResult) []notify.Outcome {
	var outcomes []notify.Outcome
	if len(result.Added) > 0 {
		outcomes = m.dispatcher.Dispatch(notify.Input{
			Type:       models.NotificationConsultationAssignment,
			Recipients: result.Added,
			Payload: map[string]string{
				"consultation_id": strconv.FormatUint(uint64(c.ID), 10),
				"topic":           c.Topic,
				"role":            string(role),
				"actor":           actor.FullName,
			},
		})
	}
	if result.StatusChanged {
		// The requester learns their consultation moved to in_progress.
		outcomes = append(outcomes, m.dispatcher.Dispatch(notify.Input{
			Type:       models.NotificationConsultationStatus,
			Recipients: []uint{c.RequesterID},
			Payload:    statusPayload(c, actor),
		})...)
	}
	if failed := notify.Failed(outcomes); len(failed) > 0 {
		slog.Warn("Some assignment notifications failed", "consultation_id", c.ID, "failed", len(failed))
	}
	return outcomes
}

// interestedParties is the requester plus every current assignee, deduped,
// excluding the acting admin.
func (m *Manager) interestedParties(c *models.Consultation, actorID uint) []uint {
	seen := map[uint]bool{actorID: true}
	var out []uint
	add := func(id uint) {
		if id != 0 && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	add(c.RequesterID)
	lawyers, operators, err := m.Assignees(c.ID)
	if err != nil {
		slog.Error("Failed to load assignees for notification", "error", err, "consultation_id", c.ID)
		return out
	}
	for _, l := range lawyers {
		add(l.UserID)
	}
	for _, o := range operators {
		add(o.UserID)
	}
	return out
}

func statusPayload(c *models.Consultation, actor models.User) map[string]string {
	return map[string]string{
		"consultation_id": strconv.FormatUint(uint64(c.ID), 10),
		"topic":           c.Topic,
		"status":          string(c.Status),
		"actor":           actor.FullName,
	}
}
