package models

type TxStatus string

const (
	TxStatusNew        TxStatus = "new"
	TxStatusClassified TxStatus = "classified"
	TxStatusIgnored    TxStatus = "ignored"
	TxStatusSent       TxStatus = "sent"
	TxStatusFailed     TxStatus = "failed"
)

type ReviewStatus string

const (
	ReviewPendingSend  ReviewStatus = "pending_send"
	ReviewAwaitingUser ReviewStatus = "awaiting_user"
	ReviewApproved     ReviewStatus = "approved"
	ReviewCancelled    ReviewStatus = "cancelled"
	ReviewWritten      ReviewStatus = "written"
	ReviewFailed       ReviewStatus = "failed"
)

var txTransitions = map[TxStatus][]TxStatus{
	TxStatusNew:        {TxStatusClassified, TxStatusIgnored},
	TxStatusClassified: {TxStatusSent, TxStatusFailed},
}

// awaiting_user -> awaiting_user covers the edit screens; the row status
// does not change while the user is editing.
var reviewTransitions = map[ReviewStatus][]ReviewStatus{
	ReviewPendingSend:  {ReviewPendingSend, ReviewAwaitingUser},
	ReviewAwaitingUser: {ReviewAwaitingUser, ReviewApproved, ReviewCancelled},
	ReviewApproved:     {ReviewWritten, ReviewFailed},
}

func (s TxStatus) CanTransition(to TxStatus) bool {
	return contains(txTransitions[s], to)
}

func (s ReviewStatus) CanTransition(to ReviewStatus) bool {
	return contains(reviewTransitions[s], to)
}

// Terminal reports whether no further transition leaves s.
func (s ReviewStatus) Terminal() bool {
	return s == ReviewWritten || s == ReviewFailed
}

// Interactive reports whether the user may still act on a review in status s.
func (s ReviewStatus) Interactive() bool {
	return s == ReviewAwaitingUser
}

func AllReviewStatuses() []ReviewStatus {
	return []ReviewStatus{
		ReviewPendingSend,
		ReviewAwaitingUser,
		ReviewApproved,
		ReviewCancelled,
		ReviewWritten,
		ReviewFailed,
	}
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
