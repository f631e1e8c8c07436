package agent

import (
	"time"

	"github.com/teemow/inboxpilot/internal/mail"
)

// labelPrefix namespaces every label the agent creates so users can
// tell agent labels from their own at a glance.
const labelPrefix = "InboxPilot/"

// VIPLabel marks messages from important senders, in addition to the
// category label.
const VIPLabel = labelPrefix + "VIP"

// categoryLabels maps each category to its Gmail label.
var categoryLabels = map[mail.Category]string{
	mail.CategoryActionRequired: labelPrefix + "Action Required",
	mail.CategoryWaitingOn:      labelPrefix + "Waiting On",
	mail.CategoryFYI:            labelPrefix + "FYI",
	mail.CategoryNewsletter:     labelPrefix + "Newsletter",
	mail.CategoryPromotional:    labelPrefix + "Promotional",
	mail.CategoryPersonal:       labelPrefix + "Personal",
	mail.CategorySpam:           labelPrefix + "Spam",
}

// dueDays maps a priority to how many days out the task is due.
var dueDays = map[mail.Priority]int{
	mail.PriorityUrgent: 0,
	mail.PriorityHigh:   1,
	mail.PriorityNormal: 3,
	mail.PriorityLow:    7,
}

// dueDate returns the task due date for a priority, counted from now.
// Unknown priorities fall back to the normal window.
func dueDate(now time.Time, p mail.Priority) time.Time {
	days, ok := dueDays[p]
	if !ok {
		days = dueDays[mail.PriorityNormal]
	}
	return now.AddDate(0, 0, days)
}
