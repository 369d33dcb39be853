// Package notify abstracts the local notification display. Delivery is
// best effort; a failure here must never fail the caller's sweep.
package notify

import "github.com/sirupsen/logrus"

// Notification is the displayed payload.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier shows a notification keyed by the id of whatever triggered it.
type Notifier interface {
	Show(id string, n Notification) error
}

// Log is a Notifier that writes notifications to the process log. It
// stands in for the host platform's notification surface.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Show(id string, n Notification) error {
	logrus.WithFields(logrus.Fields{
		"id":    id,
		"title": n.Title,
	}).Infof("Notification: %s", n.Body)
	return nil
}
