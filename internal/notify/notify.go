package notify

import (
	"github.com/gen2brain/beeep"

	"github.com/sonvt1710/coc-java/internal/logger"
)

func init() {
	// Set the app name for notifications
	beeep.AppName = "coc-java"
}

// Send sends a desktop notification
// Falls back gracefully if notifications aren't available
func Send(title, message string) {
	log := logger.Get()

	err := beeep.Notify(title, message, "")
	if err != nil {
		// Log the error but don't fail - notifications are a nice-to-have
		log.Debug("failed to send desktop notification", "error", err, "title", title)
	} else {
		log.Debug("desktop notification sent", "title", title)
	}
}
