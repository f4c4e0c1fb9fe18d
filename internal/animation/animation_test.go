package animation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/scenecore/internal/animation"
	"github.com/san-kum/scenecore/internal/vmath"
)

var _ = Describe("Curve", func() {
	It("returns 0 when empty", func() {
		Expect(animation.NewCurve().Evaluate(3)).To(Equal(0.0))
	})

	It("clamps and interpolates a two-key ramp", func() {
		c := animation.NewCurve(
			animation.Keyframe{Time: 0, Value: 0},
			animation.Keyframe{Time: 1, Value: 10},
		)
		Expect(c.Evaluate(-1)).To(Equal(0.0))
		Expect(c.Evaluate(0.5)).To(BeNumerically("~", 5, 1e-12))
		Expect(c.Evaluate(2)).To(Equal(10.0))
		Expect(c.Duration()).To(Equal(1.0))
	})

	It("picks the bracketing pair", func() {
		c := animation.NewCurve()
		c.AddKey(0, 0)
		c.AddKey(1, 10)
		c.AddKey(3, -10)
		Expect(c.Evaluate(2)).To(BeNumerically("~", 0, 1e-12))
		Expect(c.Evaluate(1)).To(BeNumerically("~", 10, 1e-12))
		Expect(c.Len()).To(Equal(3))
	})

	It("handles coincident keys without dividing by zero", func() {
		c := animation.NewCurve()
		c.AddKey(0, 1)
		c.AddKey(1, 2)
		c.AddKey(1, 5)
		c.AddKey(2, 5)
		Expect(c.Evaluate(0.5)).To(BeNumerically("~", 1.5, 1e-12))
	})

	It("returns a copy of its keys", func() {
		c := animation.NewCurve(animation.Keyframe{Time: 0, Value: 1})
		keys := c.Keys()
		keys[0].Value = 99
		Expect(c.Evaluate(0)).To(Equal(1.0))
	})
})

var _ = Describe("Clip", func() {
	var clip *animation.Clip

	BeforeEach(func() {
		clip = animation.NewClip("bob")
		clip.AddKeyframe(animation.PosY, 0, 0)
		clip.AddKeyframe(animation.PosY, 1, 2)
		clip.AddKeyframe(animation.RotY, 0, 0)
		clip.AddKeyframe(animation.RotY, 2, 4)
	})

	It("takes its duration from the longest channel", func() {
		Expect(clip.Duration()).To(Equal(2.0))
	})

	It("samples keyed channels and falls back to identity for the rest", func() {
		p := clip.Sample(0.5)
		Expect(p.Position.Y).To(BeNumerically("~", 1, 1e-12))
		Expect(p.Position.X).To(Equal(0.0))
		Expect(p.RotationY).To(BeNumerically("~", 1, 1e-12))
		Expect(p.Scale).To(Equal(vmath.V3(1, 1, 1)))
	})

	It("ignores keys on unknown channels", func() {
		clip.AddKeyframe(animation.Channel(42), 10, 1)
		Expect(clip.Duration()).To(Equal(2.0))
		Expect(clip.Curve(animation.Channel(42))).To(BeNil())
	})

	It("parses channel names", func() {
		for _, ch := range animation.Channels() {
			parsed, err := animation.ParseChannel(ch.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(ch))
		}
		_, err := animation.ParseChannel("rotX")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Controller", func() {
	var ctrl *animation.Controller

	BeforeEach(func() {
		clip := animation.NewClip("slide")
		clip.AddKeyframe(animation.PosX, 0, 0)
		clip.AddKeyframe(animation.PosX, 1, 10)

		ctrl = animation.NewController()
		ctrl.AddClip(clip)
	})

	It("starts stopped with an identity pose", func() {
		Expect(ctrl.State()).To(Equal(animation.Stopped))
		Expect(ctrl.Pose()).To(Equal(animation.IdentityPose()))
	})

	It("ignores unknown clips", func() {
		Expect(ctrl.Play("missing")).To(BeFalse())
		Expect(ctrl.State()).To(Equal(animation.Stopped))
		Expect(ctrl.Current()).To(BeEmpty())
	})

	It("advances while playing and samples the pose", func() {
		Expect(ctrl.Play("slide")).To(BeTrue())
		ctrl.Update(0.25)
		Expect(ctrl.Time()).To(BeNumerically("~", 0.25, 1e-12))
		Expect(ctrl.Pose().Position.X).To(BeNumerically("~", 2.5, 1e-12))
	})

	It("wraps to zero at the clip duration and keeps playing", func() {
		ctrl.Play("slide")
		ctrl.Update(0.5)
		ctrl.Update(0.5)
		Expect(ctrl.Time()).To(Equal(0.0))
		Expect(ctrl.State()).To(Equal(animation.Playing))
	})

	It("restarts from zero on play", func() {
		ctrl.Play("slide")
		ctrl.Update(0.5)
		ctrl.Play("slide")
		Expect(ctrl.Time()).To(Equal(0.0))
	})

	It("resets time on stop and ignores updates", func() {
		ctrl.Play("slide")
		ctrl.Update(0.5)
		ctrl.Stop()
		Expect(ctrl.Time()).To(Equal(0.0))
		ctrl.Update(0.5)
		Expect(ctrl.Time()).To(Equal(0.0))
	})

	It("holds time while paused", func() {
		ctrl.Play("slide")
		ctrl.Update(0.5)
		ctrl.Pause()
		ctrl.Update(0.25)
		Expect(ctrl.State()).To(Equal(animation.Paused))
		Expect(ctrl.Time()).To(BeNumerically("~", 0.5, 1e-12))

		ctrl.Resume()
		ctrl.Update(0.25)
		Expect(ctrl.Time()).To(BeNumerically("~", 0.75, 1e-12))
	})

	It("lists clips by name", func() {
		ctrl.AddClip(animation.NewClip("alpha"))
		Expect(ctrl.ClipNames()).To(Equal([]string{"alpha", "slide"}))
	})
})
