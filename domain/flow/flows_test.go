package flow_test

import (
	"testing"

	"odtflow/bizerror"
	"odtflow/domain/flow"
	"odtflow/domain/stage"

	. "github.com/onsi/gomega"
)

func TestResolveFlow(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should resolve flow with selected areas in stored order", func(t *testing.T) {
		stages := flow.ResolveFlow([]string{"Design", "Digital"})
		Expect(stages).To(Equal([]stage.Stage{
			{Name: "Accounts", Category: stage.Intake},
			{Name: "Design", Category: stage.Production},
			{Name: "Digital", Category: stage.Production},
			{Name: "Quality Control", Category: stage.Quality},
			{Name: "Accounts (Close)", Category: stage.Closing},
			{Name: "Administration", Category: stage.Admin},
		}))
	})

	t.Run("should be deterministic and idempotent", func(t *testing.T) {
		areas := []string{"Creative", "Medical", "Traffic"}
		Expect(flow.ResolveFlow(areas)).To(Equal(flow.ResolveFlow(areas)))
	})

	t.Run("should not mutate the input areas", func(t *testing.T) {
		areas := []string{"Design"}
		flow.ResolveFlow(areas)
		Expect(areas).To(Equal([]string{"Design"}))
	})
}

func TestValidateAreas(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should accept distinct production department names", func(t *testing.T) {
		Expect(flow.ValidateAreas([]string{"Creative", "Medical", "Design", "Traffic", "Audio & Video", "Digital"})).To(BeNil())
	})

	t.Run("should reject an empty selection", func(t *testing.T) {
		Expect(flow.ValidateAreas(nil)).To(Equal(bizerror.ErrAreasInvalid))
		Expect(flow.ValidateAreas([]string{})).To(Equal(bizerror.ErrAreasInvalid))
	})

	t.Run("should reject names colliding with fixed stages", func(t *testing.T) {
		Expect(flow.ValidateAreas([]string{"Accounts"})).To(Equal(bizerror.ErrAreasInvalid))
		Expect(flow.ValidateAreas([]string{"Design", "Quality Control"})).To(Equal(bizerror.ErrAreasInvalid))
		Expect(flow.ValidateAreas([]string{"Accounts (Close)"})).To(Equal(bizerror.ErrAreasInvalid))
		Expect(flow.ValidateAreas([]string{"Administration"})).To(Equal(bizerror.ErrAreasInvalid))
		Expect(flow.ValidateAreas([]string{"Finished"})).To(Equal(bizerror.ErrAreasInvalid))
	})

	t.Run("should reject duplicated or blank names", func(t *testing.T) {
		Expect(flow.ValidateAreas([]string{"Design", "Design"})).To(Equal(bizerror.ErrAreasInvalid))
		Expect(flow.ValidateAreas([]string{""})).To(Equal(bizerror.ErrAreasInvalid))
		Expect(flow.ValidateAreas([]string{" Design"})).To(Equal(bizerror.ErrAreasInvalid))
	})
}

func TestNextStage(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should walk the flow stage by stage", func(t *testing.T) {
		stages := flow.ResolveFlow([]string{"Design"})

		next, found := flow.NextStage(stages, "Accounts")
		Expect(found).To(BeTrue())
		Expect(next).To(Equal(stage.Stage{Name: "Design", Category: stage.Production}))

		next, found = flow.NextStage(stages, "Design")
		Expect(found).To(BeTrue())
		Expect(next).To(Equal(flow.StageQualityControl))

		next, found = flow.NextStage(stages, "Accounts (Close)")
		Expect(found).To(BeTrue())
		Expect(next).To(Equal(flow.StageAdministration))
	})

	t.Run("should report the end of the flow", func(t *testing.T) {
		stages := flow.ResolveFlow([]string{"Design"})
		_, found := flow.NextStage(stages, "Administration")
		Expect(found).To(BeFalse())
	})

	t.Run("should report unknown stages", func(t *testing.T) {
		stages := flow.ResolveFlow([]string{"Design"})
		_, found := flow.NextStage(stages, "Unknown")
		Expect(found).To(BeFalse())
		Expect(flow.IndexOf(stages, "Unknown")).To(Equal(-1))
	})
}
