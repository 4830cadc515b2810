// Package domain holds the target model: a backend endpoint a resource
// forwards traffic to.
package domain

// Target is one upstream endpoint behind a resource.
type Target struct {
	TargetID   int
	ResourceID int
	IP         string
	Method     string
	Port       int
	Protocol   string
	Enabled    bool
}
