package playback_test

import (
	"strings"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sphview/internal/playback"
)

const fourFrames = "SPHView00 1 1.0\n0.1 0.1 0\n0.2 0.2 0\n0.3 0.3 1\n0.4 0.4 1\nEND\n"

var _ = Describe("Controller run loop", func() {
	var (
		c     *playback.Controller
		ticks atomic.Int32
	)

	BeforeEach(func() {
		ticks.Store(0)
		c = playback.New(playback.FixedViewport{Width: 105, Height: 105}, playback.Options{
			Interval: 5 * time.Millisecond,
		})
		Expect(c.OpenReader(strings.NewReader(fourFrames))).To(BeTrue())
		c.OnFrameChanged(func(index, total int) {
			ticks.Add(1)
		})
		DeferCleanup(c.Close)
	})

	It("starts ready at frame 0", func() {
		Expect(c.State()).To(Equal(playback.Ready))
		Expect(c.Index()).To(Equal(0))
		Expect(c.Progress()).To(Equal("0/4"))
	})

	It("advances on its own and loops", func() {
		Expect(c.Run()).To(Succeed())
		Expect(c.State()).To(Equal(playback.Running))
		Eventually(ticks.Load).WithTimeout(2 * time.Second).Should(BeNumerically(">=", 6))
		Expect(c.Stop()).To(Succeed())
		Expect(c.Index()).To(BeNumerically("<", 4))
	})

	It("fires no ticks after Stop returns", func() {
		Expect(c.Run()).To(Succeed())
		Eventually(ticks.Load).WithTimeout(2 * time.Second).Should(BeNumerically(">=", 2))
		Expect(c.Stop()).To(Succeed())

		// An in-flight tick may still be finishing; after that nothing moves.
		time.Sleep(10 * time.Millisecond)
		stopped := ticks.Load()
		idx := c.Index()
		Consistently(ticks.Load).WithTimeout(50 * time.Millisecond).Should(Equal(stopped))
		Expect(c.Index()).To(Equal(idx))
		Expect(c.State()).To(Equal(playback.Ready))
	})

	It("keeps the index when stopped before the first tick", func() {
		slow := playback.New(playback.FixedViewport{Width: 10, Height: 10}, playback.Options{Interval: time.Minute})
		Expect(slow.OpenReader(strings.NewReader(fourFrames))).To(BeTrue())
		_, err := slow.Step()
		Expect(err).NotTo(HaveOccurred())

		Expect(slow.Run()).To(Succeed())
		Expect(slow.Stop()).To(Succeed())
		Expect(slow.Index()).To(Equal(1))
	})

	It("lets a listener stop the run", func() {
		c.OnFrameChanged(func(index, total int) {
			if index == 2 {
				c.Stop()
			}
		})
		Expect(c.Run()).To(Succeed())
		Eventually(c.State).WithTimeout(2 * time.Second).Should(Equal(playback.Ready))
		Consistently(c.Index).WithTimeout(30 * time.Millisecond).Should(Equal(2))
	})

	Context("after a failed load", func() {
		It("keeps running the old trace", func() {
			Expect(c.Run()).To(Succeed())
			Expect(c.OpenReader(strings.NewReader("FOO"))).To(BeFalse())
			Expect(c.State()).To(Equal(playback.Running))
			Expect(c.FrameCount()).To(Equal(4))
		})
	})

	Context("drawables", func() {
		It("follow the current frame", func() {
			_, err := c.Step()
			Expect(err).NotTo(HaveOccurred())
			d, err := c.DrawableAt(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.X).To(BeNumerically("~", 20, 1e-9))
			Expect(d.Y).To(BeNumerically("~", 80, 1e-9))
			Expect(d.Color).To(Equal(playback.Red))

			c.Step()
			Expect(c.Drawables()).To(HaveLen(1))
			Expect(c.Drawables()[0].Color).To(Equal(playback.Blue))
		})
	})
})
