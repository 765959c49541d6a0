package boot

import (
	"context"
	"sync"
)

// Navigator is the browser surface the sequencer drives.
type Navigator interface {
	// ReplaceURL swaps the current history entry without navigating
	ReplaceURL(ctx context.Context, url string) error

	// Assign performs a full navigation, ending this page's lifecycle
	Assign(ctx context.Context, url string) error
}

// RecordingNavigator records calls instead of navigating. It is used by
// tests and the berhotctl boot command.
type RecordingNavigator struct {
	mu       sync.Mutex
	calls    []NavigatorCall
	replaced []string
	assigned []string
}

// NavigatorCall is one recorded navigator call.
type NavigatorCall struct {
	Method string // "replace" or "assign"
	URL    string
}

var _ Navigator = (*RecordingNavigator)(nil)

func (n *RecordingNavigator) ReplaceURL(_ context.Context, url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.replaced = append(n.replaced, url)
	n.calls = append(n.calls, NavigatorCall{Method: "replace", URL: url})
	return nil
}

func (n *RecordingNavigator) Assign(_ context.Context, url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.assigned = append(n.assigned, url)
	n.calls = append(n.calls, NavigatorCall{Method: "assign", URL: url})
	return nil
}

func (n *RecordingNavigator) Replaced() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.replaced...)
}

func (n *RecordingNavigator) Assigned() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.assigned...)
}

// Calls returns every call in order.
func (n *RecordingNavigator) Calls() []NavigatorCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]NavigatorCall(nil), n.calls...)
}
