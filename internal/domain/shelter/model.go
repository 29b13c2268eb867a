// Package shelter holds the read-mostly entities shown around the cat
// records: cameras, activities, notifications, the company and feedback.
package shelter

import (
	"strings"
	"time"

	"cattus/internal/domain/ref"
)

type Camera struct {
	ID        ref.ID     `json:"id"`
	Name      string     `json:"name"`
	URL       string     `json:"url"`
	Thumbnail string     `json:"thumbnail,omitempty"`
	Company   ref.ID     `json:"company,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// CameraInput is the create/update body of a camera.
type CameraInput struct {
	Name      string `json:"name,omitempty"`
	URL       string `json:"url,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Company   string `json:"company,omitempty"`
}

// Activity is one sighting of a cat by a camera.
type Activity struct {
	ID        ref.ID     `json:"id"`
	Cat       ref.ID     `json:"cat"`
	Camera    ref.ID     `json:"camera"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// Duration is zero while the activity is still open.
func (a Activity) Duration() time.Duration {
	if a.EndTime == nil || a.EndTime.Before(a.StartTime) {
		return 0
	}
	return a.EndTime.Sub(a.StartTime)
}

type ActivityInput struct {
	Cat       string     `json:"cat"`
	Camera    string     `json:"camera"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// Notification.Status is true once the notification has been read.
type Notification struct {
	ID          ref.ID    `json:"id"`
	Date        time.Time `json:"date"`
	Target      ref.ID    `json:"target"`
	Origin      string    `json:"origin"`
	Status      bool      `json:"status"`
	Description string    `json:"description"`
}

func (n Notification) Unread() bool { return !n.Status }

// Unread keeps only notifications that have not been read.
func Unread(ns []Notification) []Notification {
	out := make([]Notification, 0, len(ns))
	for _, n := range ns {
		if n.Unread() {
			out = append(out, n)
		}
	}
	return out
}

type Company struct {
	ID    ref.ID `json:"id"`
	Name  string `json:"name"`
	CNPJ  string `json:"cnpj"`
	Logo  string `json:"logo,omitempty"`
	Color string `json:"color,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Feedback is a free-text message from an employee.
type Feedback struct {
	Text    string `json:"text"`
	Author  string `json:"author,omitempty"`
	Company string `json:"company,omitempty"`
}

// Valid reports whether the feedback has any text.
func (f Feedback) Valid() bool {
	return strings.TrimSpace(f.Text) != ""
}
