package scheduler_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/procsched/scheduler"
)

var _ = DescribeTable("ParseCommand",
	func(name string, expected scheduler.Command) {
		cmd, err := scheduler.ParseCommand(name)

		Expect(err).NotTo(HaveOccurred())
		Expect(cmd).To(Equal(expected))
	},
	Entry("interrupt", "interrupt", scheduler.CommandInterrupt),
	Entry("error alias", "Error", scheduler.CommandFail),
	Entry("fail", " fail ", scheduler.CommandFail),
	Entry("continue", "continue", scheduler.CommandResume),
	Entry("resume", "resume", scheduler.CommandResume),
	Entry("pause", "pause", scheduler.CommandTogglePause),
	Entry("empty", "", scheduler.CommandNone),
)

var _ = Describe("ParseCommand with bad input", func() {
	It("should return ErrUnknownCommand", func() {
		_, err := scheduler.ParseCommand("reboot")

		Expect(errors.Is(err, scheduler.ErrUnknownCommand)).To(BeTrue())
	})
})
