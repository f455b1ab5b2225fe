// Package views contains the three application views: login, board, and
// card creation.
package views

import (
	"strings"
	"time"

	"github.com/dvieira/videoboard/internal/models"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// shortDate formats an epoch-millisecond timestamp as "2 Jan".
func shortDate(millis int64) string {
	return time.UnixMilli(millis).Format("2 Jan")
}

// mediaTypeForURL guesses the attachment kind from the URL extension.
func mediaTypeForURL(url string) models.MediaType {
	lower := strings.ToLower(url)
	for _, ext := range []string{".mp4", ".webm", ".mov", ".mkv", ".avi"} {
		if strings.HasSuffix(lower, ext) {
			return models.MediaVideo
		}
	}
	return models.MediaImage
}

// nextStatus cycles todo → doing → done → todo.
func nextStatus(s models.Status) models.Status {
	switch s {
	case models.StatusTodo:
		return models.StatusDoing
	case models.StatusDoing:
		return models.StatusDone
	default:
		return models.StatusTodo
	}
}

// localPart returns the part of an email before the @.
func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
