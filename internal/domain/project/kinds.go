package project

import "strconv"

// TagKind reconciles tags by value.
func TagKind(tx Tx) Kind[*Tag] {
	return Kind[*Tag]{
		Table: TableTags,
		Key:   func(t *Tag) string { return t.Value },
		New: func(projectID string, desired *Tag) *Tag {
			return &Tag{ProjectID: projectID, Value: desired.Value}
		},
		Insert: tx.InsertTag,
		Save:   tx.SaveTag,
	}
}

// ContributorKind reconciles contributors by name.
func ContributorKind(tx Tx) Kind[*Contributor] {
	return Kind[*Contributor]{
		Table: TableContributors,
		Key:   func(c *Contributor) string { return c.Name },
		New: func(projectID string, desired *Contributor) *Contributor {
			return &Contributor{ProjectID: projectID, Name: desired.Name}
		},
		Insert: tx.InsertContributor,
		Save:   tx.SaveContributor,
	}
}

// TimelineKind reconciles milestones by title and date, updating the
// description and active-step flag in place.
func TimelineKind(tx Tx) Kind[*TimelineItem] {
	return Kind[*TimelineItem]{
		Table: TableTimeline,
		Key:   timelineKey,
		New: func(projectID string, desired *TimelineItem) *TimelineItem {
			return &TimelineItem{
				ProjectID:   projectID,
				Title:       desired.Title,
				Description: desired.Description,
				Date:        desired.Date,
				StepActive:  desired.StepActive,
			}
		},
		Changed: func(existing, desired *TimelineItem) bool {
			return existing.Description != desired.Description || existing.StepActive != desired.StepActive
		},
		Apply: func(existing, desired *TimelineItem) {
			existing.Description = desired.Description
			existing.StepActive = desired.StepActive
		},
		Insert: tx.InsertTimelineItem,
		Save:   tx.SaveTimelineItem,
	}
}

// timelineKey length-prefixes the title so no title/date pair can collide
// with another, whatever characters either contains.
func timelineKey(i *TimelineItem) string {
	return strconv.Itoa(len(i.Title)) + ":" + i.Title + "|" + i.Date
}
