package stage_test

import (
	"odtflow/domain/stage"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Stage", func() {
	Describe("GateApplies", func() {
		It("should apply the quality gate to production stages only", func() {
			Expect(stage.Stage{Name: "Design", Category: stage.Production}.GateApplies()).To(BeTrue())

			Expect(stage.Stage{Name: "Accounts", Category: stage.Intake}.GateApplies()).To(BeFalse())
			Expect(stage.Stage{Name: "Quality Control", Category: stage.Quality}.GateApplies()).To(BeFalse())
			Expect(stage.Stage{Name: "Accounts (Close)", Category: stage.Closing}.GateApplies()).To(BeFalse())
			Expect(stage.Stage{Name: "Administration", Category: stage.Admin}.GateApplies()).To(BeFalse())
		})
	})

	Describe("Category", func() {
		It("should render category names", func() {
			Expect(stage.Intake.String()).To(Equal("INTAKE"))
			Expect(stage.Production.String()).To(Equal("PRODUCTION"))
			Expect(stage.Quality.String()).To(Equal("QUALITY"))
			Expect(stage.Closing.String()).To(Equal("CLOSING"))
			Expect(stage.Admin.String()).To(Equal("ADMIN"))
			Expect(stage.None.String()).To(Equal("NONE"))
			Expect(stage.Category(99).String()).To(Equal("UNKNOWN"))
		})
	})
})
