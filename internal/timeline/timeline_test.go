package timeline_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-admin/internal/core/status"
	"github.com/frahmantamala/workforce-admin/internal/timeline"
)

func TestTimeline(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Timeline Suite")
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ = Describe("Evaluate", func() {
	start := date(2024, 1, 1)
	end := date(2024, 1, 31)

	It("reports Completed regardless of dates", func() {
		h := timeline.Evaluate(start, end, status.ProjectCompleted, date(2024, 6, 1))
		Expect(h).To(Equal(timeline.Health{Label: timeline.LabelCompleted, Severity: timeline.SeveritySuccess}))
	})

	It("reports Overdue after the end date", func() {
		h := timeline.Evaluate(start, end, status.ProjectInProgress, date(2024, 2, 1))
		Expect(h.Label).To(Equal(timeline.LabelOverdue))
		Expect(h.Severity).To(Equal(timeline.SeverityError))
	})

	It("reports Not Started before the start date", func() {
		h := timeline.Evaluate(start, end, status.ProjectPlanning, date(2023, 12, 31))
		Expect(h.Label).To(Equal(timeline.LabelNotStarted))
		Expect(h.Severity).To(Equal(timeline.SeverityNeutral))
	})

	It("reports In Progress at 63% elapsed", func() {
		h := timeline.Evaluate(start, end, status.ProjectInProgress, date(2024, 1, 20))
		Expect(h).To(Equal(timeline.Health{Label: timeline.LabelInProgress, Severity: timeline.SeverityInfo}))
		Expect(timeline.ElapsedRatio(start, end, date(2024, 1, 20))).To(BeNumerically("~", 0.633, 0.001))
	})

	It("reports On Track early in the interval", func() {
		h := timeline.Evaluate(start, end, status.ProjectInProgress, date(2024, 1, 5))
		Expect(h.Label).To(Equal(timeline.LabelOnTrack))
		Expect(h.Severity).To(Equal(timeline.SeveritySuccess))
	})

	It("reports Near Deadline from 80% elapsed", func() {
		h := timeline.Evaluate(start, end, status.ProjectInProgress, date(2024, 1, 25))
		Expect(h.Label).To(Equal(timeline.LabelNearDeadline))
		Expect(h.Severity).To(Equal(timeline.SeverityWarning))
	})

	It("treats the end day itself as inside the interval", func() {
		h := timeline.Evaluate(start, end, status.ProjectInProgress, time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC))
		Expect(h.Label).To(Equal(timeline.LabelNearDeadline))
	})

	It("treats a zero-length interval as immediately due", func() {
		h := timeline.Evaluate(start, start, status.ProjectPlanning, start)
		Expect(h.Label).To(Equal(timeline.LabelNearDeadline))
	})

	It("uses the 50% boundary inclusively for In Progress", func() {
		s := date(2024, 3, 1)
		e := date(2024, 3, 11)
		h := timeline.Evaluate(s, e, status.ProjectInProgress, date(2024, 3, 6))
		Expect(h.Label).To(Equal(timeline.LabelInProgress))
	})
})
