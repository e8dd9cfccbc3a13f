// Package ui is the interactive terminal front end: a question input, role
// and region selectors, a submit control and a scrollable response panel.
//
// AppModel is the root Bubble Tea model. It is the only writer of the
// session state; network calls run as commands and report back through
// QuerySettledMsg.
package ui
