package progress_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-admin/internal/progress"
)

func TestProgress(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Progress Suite")
}

type fakeTask struct {
	assignee int64
	done     bool
}

func (f fakeTask) AssigneeID() int64 { return f.assignee }
func (f fakeTask) IsDone() bool      { return f.done }

var _ = Describe("Aggregate", func() {
	It("returns zero for an empty list", func() {
		Expect(progress.Aggregate([]fakeTask{}, nil)).To(Equal(progress.Summary{}))
		Expect(progress.Aggregate[fakeTask](nil, nil).Percent).To(Equal(0))
	})

	It("counts done tasks across the whole project", func() {
		tasks := []fakeTask{
			{1, true}, {1, true}, {1, false}, {1, false},
			{2, true}, {2, false}, {2, false},
			{3, false}, {3, false}, {3, false},
		}
		Expect(progress.Aggregate(tasks, nil)).To(Equal(progress.Summary{Completed: 3, Total: 10, Percent: 30}))
	})

	It("narrows to one assignee", func() {
		tasks := []fakeTask{
			{7, true}, {7, true}, {7, false}, {7, false},
			{8, true}, {8, false}, {8, false}, {8, false}, {8, false}, {8, false},
		}
		assignee := int64(7)
		Expect(progress.Aggregate(tasks, &assignee)).To(Equal(progress.Summary{Completed: 2, Total: 4, Percent: 50}))
	})

	It("returns zero when the assignee has no tasks", func() {
		tasks := []fakeTask{{1, true}}
		nobody := int64(99)
		Expect(progress.Aggregate(tasks, &nobody)).To(Equal(progress.Summary{}))
	})

	It("rounds to the nearest whole percent", func() {
		tasks := []fakeTask{{1, true}, {1, true}, {1, false}}
		Expect(progress.Aggregate(tasks, nil).Percent).To(Equal(67))
	})

	It("stays within 0..100", func() {
		for n := 0; n <= 12; n++ {
			tasks := make([]fakeTask, 12)
			for i := 0; i < n; i++ {
				tasks[i].done = true
			}
			p := progress.Aggregate(tasks, nil).Percent
			Expect(p).To(BeNumerically(">=", 0))
			Expect(p).To(BeNumerically("<=", 100))
		}
	})
})
