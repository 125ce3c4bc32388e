package project

// ListOptions narrows ListProjects. Empty fields match everything.
type ListOptions struct {
	Status   string
	Function string
	Tag      string
}
