package domain

import "time"

// ModalHistory records when a given modal was last shown and last dismissed.
type ModalHistory struct {
	ShownAt     *time.Time `json:"shownAt,omitempty"`
	DismissedAt *time.Time `json:"dismissedAt,omitempty"`
}

// VisitState is the persisted per-visitor promotional state: how many
// sessions the visitor has started, the show/dismiss history of each modal,
// and a mirror of cart activity. It is created on first visit and grows for
// the life of the visitor record.
type VisitState struct {
	VisitCount   int                     `json:"visitCount"`
	Modals       map[string]ModalHistory `json:"modals,omitempty"`
	CartOpenedAt *time.Time              `json:"cartOpenedAt,omitempty"`
	CartHasItems bool                    `json:"cartHasItems"`
}

// IsFirstVisit is true only for the very first session.
func (v VisitState) IsFirstVisit() bool {
	return v.VisitCount == 1
}

// ModalHistory returns the history for modalID, zero-valued when the modal
// has never been shown.
func (v VisitState) ModalHistory(modalID string) ModalHistory {
	if v.Modals == nil {
		return ModalHistory{}
	}
	return v.Modals[modalID]
}

// SetModalHistory records history for modalID, allocating the map on first use.
func (v *VisitState) SetModalHistory(modalID string, h ModalHistory) {
	if v.Modals == nil {
		v.Modals = make(map[string]ModalHistory)
	}
	v.Modals[modalID] = h
}
