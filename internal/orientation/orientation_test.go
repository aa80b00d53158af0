package orientation

import (
	"testing"

	"go.viam.com/test"

	"github.com/relabs-tech/tilt_maze/internal/mpu6050"
)

// fixedBus serves a constant data window for burst reads starting at the
// requested register.
type fixedBus struct {
	regs [256]byte
}

func (b *fixedBus) Tx(addr uint16, w, r []byte) error {
	start := int(w[0])
	for i := range r {
		r[i] = b.regs[start+i]
	}
	return nil
}

func TestFromAccel(t *testing.T) {
	// Flat, +1g on Z: no tilt.
	p := FromAccel(0, 0, 1)
	test.That(t, p.Roll, test.ShouldEqual, 0.0)
	test.That(t, p.Pitch, test.ShouldEqual, 0.0)
	test.That(t, p.Yaw, test.ShouldEqual, 0.0)

	// On its side: 90° roll, pitch unaffected.
	p = FromAccel(0, 1, 0)
	test.That(t, p.Roll, test.ShouldAlmostEqual, 90.0, 1e-9)
	test.That(t, p.Pitch, test.ShouldEqual, 0.0)

	// Nose down: positive pitch by the -ax convention.
	p = FromAccel(-1, 0, 0)
	test.That(t, p.Pitch, test.ShouldAlmostEqual, 90.0, 1e-9)
}

func TestIMUSource(t *testing.T) {
	// A sensor lying on its side: +1g on Y at the ±2g range.
	bus := &fixedBus{}
	bus.regs[0x3D] = 0x40 // ay high byte, 16384

	dev := mpu6050.New(bus)
	src := NewIMUSource(dev)

	p, err := src.Next()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Roll, test.ShouldAlmostEqual, 90.0, 1e-9)
	test.That(t, p.Pitch, test.ShouldEqual, 0.0)
	test.That(t, p.Yaw, test.ShouldEqual, 0.0)
}

func TestMockSourceStaysInSweepRange(t *testing.T) {
	src := NewMockSource()
	for i := 0; i < 100; i++ {
		p, err := src.Next()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, p.Roll >= -25 && p.Roll <= 25, test.ShouldBeTrue)
		test.That(t, p.Pitch >= -25 && p.Pitch <= 25, test.ShouldBeTrue)
		test.That(t, p.Yaw, test.ShouldEqual, 0.0)
	}
}
