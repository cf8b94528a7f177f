package notify

import (
	"strings"

	"prenota/internal/models"
)

// Render substitutes {{placeholder}} tokens in an administrator-edited
// message template with the booking's fields. Unknown placeholders are left
// in place so a typo is visible in the delivered message instead of silently
// vanishing.
func Render(template string, b *models.Booking) string {
	replacer := strings.NewReplacer(
		"{{userName}}", b.UserName,
		"{{room}}", b.Room,
		"{{date}}", b.Date,
		"{{startTime}}", b.StartTime,
		"{{endTime}}", b.EndTime,
		"{{status}}", string(b.Status),
		"{{technician}}", b.Technician,
		"{{platform}}", b.Platform,
	)
	return replacer.Replace(template)
}
