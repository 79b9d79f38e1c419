package model

import "time"

// NotificationTypeReminder is the only notification type currently emitted.
const NotificationTypeReminder = "reminder"

// BillNotification is a reminder artifact created once per bill when the
// bill has a positive reminder window. Delivery is out of scope; only the
// record shape matters here.
type BillNotification struct {
	DueDate   time.Time
	CreatedAt time.Time
	ID        string
	BillID    string
	Title     string
	Message   string
	Type      string
	IsRead    bool
}
