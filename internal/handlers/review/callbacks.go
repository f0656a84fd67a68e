package review

import (
	"fmt"
	"strconv"
	"strings"
)

type action string

const (
	actionApprove   action = "APPROVE"
	actionCancel    action = "CANCEL"
	actionEditCat   action = "EDIT_CAT"
	actionEditDesc  action = "EDIT_DESC"
	actionCategory  action = "CAT"
	actionCatCancel action = "CAT_CANCEL"
)

// Telegram rejects callback data longer than this.
const maxCallbackData = 64

type callbackData struct {
	action   action
	reviewID int64
	category string
}

func encodeCallback(a action, reviewID int64) string {
	return fmt.Sprintf("%s:%d", a, reviewID)
}

func encodeCategory(reviewID int64, category string) string {
	return fmt.Sprintf("%s:%d:%s", actionCategory, reviewID, category)
}

func parseCallback(data string) (callbackData, bool) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) < 2 {
		return callbackData{}, false
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return callbackData{}, false
	}

	cb := callbackData{action: action(parts[0]), reviewID: id}
	switch cb.action {
	case actionCategory:
		if len(parts) != 3 || parts[2] == "" {
			return callbackData{}, false
		}
		cb.category = parts[2]
	case actionApprove, actionCancel, actionEditCat, actionEditDesc, actionCatCancel:
		if len(parts) != 2 {
			return callbackData{}, false
		}
	default:
		return callbackData{}, false
	}
	return cb, true
}
