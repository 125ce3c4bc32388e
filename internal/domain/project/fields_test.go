package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ganot/project-registry/internal/domain/project"
)

func ptr(s string) *string { return &s }

func TestFieldsChanged(t *testing.T) {
	base := project.Fields{Title: "A", Description: "B", Status: "Active"}

	tests := []struct {
		name     string
		incoming func(f project.Fields) project.Fields
		want     []string
	}{
		{"identical", func(f project.Fields) project.Fields { return f }, nil},
		{"nil equals empty", func(f project.Fields) project.Fields { f.NTILink = ptr(""); return f }, nil},
		{"optional set", func(f project.Fields) project.Fields { f.NTILink = ptr("x"); return f }, []string{"nti_link"}},
		{"required and optional", func(f project.Fields) project.Fields {
			f.Status = "Done"
			f.PrimaryBusinessFunction = ptr("Finance")
			return f
		}, []string{"status", "primary_business_function"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incoming := tt.incoming(base)
			assert.Equal(t, tt.want, project.ChangedFields(base, incoming))
			assert.Equal(t, len(tt.want) > 0, project.FieldsChanged(base, incoming))
		})
	}
}

func TestScalarFieldNames(t *testing.T) {
	names := project.ScalarFieldNames()
	assert.Len(t, names, 13)
	assert.Equal(t, "title", names[0])
	assert.Contains(t, names, "primary_ai_benefit_category")
}

func TestFilterLive(t *testing.T) {
	a := &project.Tag{Value: "a"}
	a.StampCreate("x", fixedNow)
	b := &project.Tag{Value: "b"}
	b.StampCreate("x", fixedNow)
	b.SoftDelete("y", fixedNow)
	c := &project.Tag{Value: "c"}
	c.StampCreate("x", fixedNow)

	live := project.FilterLive([]*project.Tag{a, b, c})
	assert.Equal(t, []*project.Tag{a, c}, live)
	assert.False(t, project.IsLive(b))
	assert.Equal(t, "y", *b.UpdatedBy)
	assert.Equal(t, "x", *b.CreatedBy)
}

func TestNewProgress(t *testing.T) {
	p := project.NewProgress("p1", "Invoice OCR", "Active", 4, 1)
	assert.Equal(t, 3, p.CompletedMilestones)
	assert.InDelta(t, 75.0, p.ProgressPercentage, 0.001)

	empty := project.NewProgress("p2", "Empty", "Active", 0, 0)
	assert.Zero(t, empty.ProgressPercentage)
}
