package mpu6050

import (
	"errors"
	"testing"
	"time"

	"go.viam.com/test"
)

var errBusStuck = errors.New("bus stuck")

// regWrite is one captured single-register write.
type regWrite struct {
	Reg, Value byte
}

// regRead is one captured write-then-read: the starting register and the
// burst length.
type regRead struct {
	Reg byte
	N   int
}

// fakeBus is an in-memory MPU6050-ish device behind the Bus interface.
// Writes land in a flat register file, reads auto-increment from the
// starting register, and every transaction is recorded in order.
type fakeBus struct {
	regs    [256]byte
	writes  []regWrite
	reads   []regRead
	txCount int

	// failFrom, when > 0, makes every transaction from that ordinal on
	// return errBusStuck.
	failFrom int
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	b.txCount++
	if addr != DefaultAddress {
		return errors.New("no ack from address")
	}
	if b.failFrom > 0 && b.txCount >= b.failFrom {
		return errBusStuck
	}
	if len(r) == 0 {
		for i := 1; i < len(w); i++ {
			b.regs[int(w[0])+i-1] = w[i]
			b.writes = append(b.writes, regWrite{Reg: w[0], Value: w[i]})
		}
		return nil
	}
	start := int(w[0])
	for i := range r {
		r[i] = b.regs[start+i]
	}
	b.reads = append(b.reads, regRead{Reg: w[0], N: len(r)})
	return nil
}

// setWord stores a big-endian signed word at reg/reg+1.
func (b *fakeBus) setWord(reg byte, v int16) {
	b.regs[reg] = byte(uint16(v) >> 8)
	b.regs[reg+1] = byte(uint16(v))
}

// setSample loads a full at-rest style data window into 0x3B..0x48.
func (b *fakeBus) setSample(ax, ay, az, temp, gx, gy, gz int16) {
	b.setWord(0x3B, ax)
	b.setWord(0x3D, ay)
	b.setWord(0x3F, az)
	b.setWord(0x41, temp)
	b.setWord(0x43, gx)
	b.setWord(0x45, gy)
	b.setWord(0x47, gz)
}

// newTestDev returns a Dev on a fake bus with sleeps captured instead of
// slept.
func newTestDev() (*Dev, *fakeBus, *[]time.Duration) {
	bus := &fakeBus{}
	d := New(bus)
	slept := &[]time.Duration{}
	d.sleep = func(t time.Duration) { *slept = append(*slept, t) }
	return d, bus, slept
}

func TestInitSequence(t *testing.T) {
	d, bus, slept := newTestDev()

	test.That(t, d.Init(), test.ShouldBeNil)

	test.That(t, bus.writes, test.ShouldResemble, []regWrite{
		{0x6B, 0x80}, // reset
		{0x6B, 0x00}, // wake, internal clock
		{0x6C, 0x00}, // all axes on
		{0x1C, 0x00}, // ±2g
		{0x1B, 0x00}, // ±250°/s
		{0x1A, 0x03}, // DLPF 44Hz
	})
	test.That(t, *slept, test.ShouldResemble, []time.Duration{
		100 * time.Millisecond,
		10 * time.Millisecond,
	})
	test.That(t, d.Initialized(), test.ShouldBeTrue)
	test.That(t, d.AccelScaleFactor(), test.ShouldEqual, 16384.0)
	test.That(t, d.GyroScaleFactor(), test.ShouldEqual, 131.0)
	test.That(t, d.Offsets(), test.ShouldResemble, Offsets{})
}

func TestInitIdempotent(t *testing.T) {
	d, bus, _ := newTestDev()

	test.That(t, d.Init(), test.ShouldBeNil)
	n := len(bus.writes)
	test.That(t, d.Init(), test.ShouldBeNil)
	test.That(t, len(bus.writes), test.ShouldEqual, n)
}

func TestInitStopsOnFirstFailure(t *testing.T) {
	// Fail each configuration write in turn; Init must bail without
	// issuing the later steps and without marking the handle initialized.
	for failAt := 1; failAt <= 6; failAt++ {
		d, bus, _ := newTestDev()
		bus.failFrom = failAt

		err := d.Init()
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, errBusStuck), test.ShouldBeTrue)
		test.That(t, d.Initialized(), test.ShouldBeFalse)
		test.That(t, bus.txCount, test.ShouldEqual, failAt)
	}
}

func TestConnection(t *testing.T) {
	d, bus, _ := newTestDev()

	bus.regs[0x75] = 0x68
	test.That(t, d.TestConnection(), test.ShouldBeNil)

	bus.regs[0x75] = 0x70
	test.That(t, d.TestConnection(), test.ShouldBeNil)

	bus.regs[0x75] = 0x71
	err := d.TestConnection()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "WHO_AM_I")

	bus.failFrom = bus.txCount + 1
	test.That(t, d.TestConnection(), test.ShouldNotBeNil)
}

func TestAccelScaleCodesAndFactors(t *testing.T) {
	want := []float64{16384, 8192, 4096, 2048}
	for code := 0; code < 4; code++ {
		d, bus, _ := newTestDev()
		test.That(t, d.SetAccelScale(AccelScale(code)), test.ShouldBeNil)
		test.That(t, bus.writes, test.ShouldResemble, []regWrite{{0x1C, byte(code) << 3}})
		test.That(t, d.AccelScaleFactor(), test.ShouldEqual, want[code])
	}
}

func TestGyroScaleCodesAndFactors(t *testing.T) {
	want := []float64{131, 65.5, 32.8, 16.4}
	for code := 0; code < 4; code++ {
		d, bus, _ := newTestDev()
		test.That(t, d.SetGyroScale(GyroScale(code)), test.ShouldBeNil)
		test.That(t, bus.writes, test.ShouldResemble, []regWrite{{0x1B, byte(code) << 3}})
		test.That(t, d.GyroScaleFactor(), test.ShouldEqual, want[code])
	}
}

func TestUnknownScalesFallBackToDefaults(t *testing.T) {
	test.That(t, AccelScale(9).Sensitivity(), test.ShouldEqual, 16384.0)
	test.That(t, GyroScale(9).Sensitivity(), test.ShouldEqual, 131.0)
}

func TestScaleFailureKeepsFactor(t *testing.T) {
	d, bus, _ := newTestDev()
	bus.failFrom = 1
	test.That(t, d.SetAccelScale(AccelScale16G), test.ShouldNotBeNil)
	test.That(t, d.AccelScaleFactor(), test.ShouldEqual, 16384.0)
}

func TestReadRawIsOneBurst(t *testing.T) {
	d, bus, _ := newTestDev()
	bus.setSample(1, 2, 3, 4, 5, 6, 7)

	raw, err := d.ReadRaw()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, raw, test.ShouldResemble, RawSample{
		Ax: 1, Ay: 2, Az: 3, Temperature: 4, Gx: 5, Gy: 6, Gz: 7,
	})
	// One transaction covering the whole 0x3B..0x48 window.
	test.That(t, bus.reads, test.ShouldResemble, []regRead{{0x3B, 14}})
}

func TestBurstDecode(t *testing.T) {
	d, bus, _ := newTestDev()
	window := []byte{
		0x01, 0x00, // ax = 256
		0x00, 0x00, // ay = 0
		0x40, 0x00, // az = 16384
		0x0B, 0xC8, // temp = 3016
		0xFF, 0xFF, // gx = -1
		0x00, 0x80, // gy = 128
		0x00, 0x01, // gz = 1
	}
	copy(bus.regs[0x3B:], window)

	data, err := d.ReadData()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, data.Ax, test.ShouldAlmostEqual, 256.0/16384.0, 1e-9)
	test.That(t, data.Ay, test.ShouldEqual, 0)
	test.That(t, data.Az, test.ShouldEqual, 1.0)
	test.That(t, data.Temperature, test.ShouldAlmostEqual, 36.53+3016.0/340.0, 1e-9)
	test.That(t, data.Gx, test.ShouldAlmostEqual, -1.0/131.0, 1e-9)
	test.That(t, data.Gy, test.ShouldAlmostEqual, 128.0/131.0, 1e-9)
	test.That(t, data.Gz, test.ShouldAlmostEqual, 1.0/131.0, 1e-9)
}

func TestOffsetsAreSubtracted(t *testing.T) {
	d, bus, _ := newTestDev()
	bus.setSample(300, 0, 16384, 0, 0, 0, 0)

	d.SetOffsets(Offsets{Ax: 100, Az: -50})

	raw, err := d.ReadRaw()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, raw.Ax, test.ShouldEqual, int16(200))
	test.That(t, raw.Az, test.ShouldEqual, int16(16434))
	// Temperature is never offset-compensated.
	test.That(t, raw.Temperature, test.ShouldEqual, int16(0))
}

func TestPartialReads(t *testing.T) {
	d, bus, _ := newTestDev()
	bus.setSample(10, -20, 30, 1234, -40, 50, -60)
	d.SetOffsets(Offsets{Ax: 1, Gz: -2})

	ax, ay, az, err := d.ReadAccelRaw()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, []int16{ax, ay, az}, test.ShouldResemble, []int16{9, -20, 30})

	gx, gy, gz, err := d.ReadGyroRaw()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, []int16{gx, gy, gz}, test.ShouldResemble, []int16{-40, 50, -58})

	temp, err := d.ReadTemperatureRaw()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, temp, test.ShouldEqual, int16(1234))

	test.That(t, bus.reads, test.ShouldResemble, []regRead{
		{0x3B, 6},
		{0x43, 6},
		{0x41, 2},
	})
}

func TestReadFailurePropagates(t *testing.T) {
	d, bus, _ := newTestDev()
	bus.failFrom = 1

	_, err := d.ReadRaw()
	test.That(t, errors.Is(err, errBusStuck), test.ShouldBeTrue)
	_, err = d.ReadData()
	test.That(t, err, test.ShouldNotBeNil)
	_, _, _, err = d.ReadAccelRaw()
	test.That(t, err, test.ShouldNotBeNil)
	_, _, _, err = d.ReadGyroRaw()
	test.That(t, err, test.ShouldNotBeNil)
	_, err = d.ReadTemperatureRaw()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCalibrateAtRest(t *testing.T) {
	d, bus, _ := newTestDev()
	// Perfectly still, flat, +1g on Z.
	bus.setSample(0, 0, 16384, 0, 0, 0, 0)

	d.Calibrate(1000)
	test.That(t, d.Offsets(), test.ShouldResemble, Offsets{})
	test.That(t, len(bus.reads), test.ShouldEqual, 1000)
}

func TestCalibrateLearnsBias(t *testing.T) {
	d, bus, _ := newTestDev()
	bus.setSample(120, -35, 16384+77, 0, 9, -4, 13)

	d.Calibrate(200)
	test.That(t, d.Offsets(), test.ShouldResemble, Offsets{
		Ax: 120, Ay: -35, Az: 77, Gx: 9, Gy: -4, Gz: 13,
	})

	// The learned offsets cancel the bias on the next read.
	raw, err := d.ReadRaw()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, raw, test.ShouldResemble, RawSample{Az: 16384})
}

func TestCalibrateDiscardsPriorOffsets(t *testing.T) {
	d, bus, _ := newTestDev()
	bus.setSample(50, 0, 16384, 0, 0, 0, 0)
	d.SetOffsets(Offsets{Ax: 9999, Gy: -9999})

	d.Calibrate(10)
	test.That(t, d.Offsets(), test.ShouldResemble, Offsets{Ax: 50})
}

func TestCalibrateZeroSamplesMeansThousand(t *testing.T) {
	d, bus, _ := newTestDev()
	bus.setSample(0, 0, 16384, 0, 0, 0, 0)

	d.Calibrate(0)
	test.That(t, len(bus.reads), test.ShouldEqual, 1000)

	bus.reads = nil
	d.Calibrate(-5)
	test.That(t, len(bus.reads), test.ShouldEqual, 1000)
}

func TestCalibrateOneGMatchesRange(t *testing.T) {
	// At ±8g a flat sensor reads 4096 on Z; the subtraction must use the
	// range's own counts-per-g, not the ±2g figure.
	d, bus, _ := newTestDev()
	test.That(t, d.SetAccelScale(AccelScale8G), test.ShouldBeNil)
	bus.setSample(0, 0, 4096, 0, 0, 0, 0)

	d.Calibrate(100)
	test.That(t, d.Offsets(), test.ShouldResemble, Offsets{})
}

func TestCalibrateCountsFailedReads(t *testing.T) {
	// Half the reads fail; failed samples still count in the divisor, so
	// the learned bias is halved.
	d, bus, _ := newTestDev()
	bus.setSample(100, 0, 16384, 0, 0, 0, 0)
	bus.failFrom = 11 // first 10 reads succeed, the rest fail

	d.Calibrate(20)
	o := d.Offsets()
	test.That(t, o.Ax, test.ShouldEqual, int16(50))
	// 10 good samples saw Z-16384 = 0, the 10 failures contribute zero.
	test.That(t, o.Az, test.ShouldEqual, int16(0))
}

func TestShutdown(t *testing.T) {
	d, bus, _ := newTestDev()
	test.That(t, d.Init(), test.ShouldBeNil)
	test.That(t, d.Initialized(), test.ShouldBeTrue)

	d.Shutdown()
	test.That(t, d.Initialized(), test.ShouldBeFalse)
	last := bus.writes[len(bus.writes)-1]
	test.That(t, last, test.ShouldResemble, regWrite{0x6B, 0x40})

	// Shutdown on a dead bus still leaves the handle uninitialized.
	d2, bus2, _ := newTestDev()
	test.That(t, d2.Init(), test.ShouldBeNil)
	bus2.failFrom = 1
	d2.Shutdown()
	test.That(t, d2.Initialized(), test.ShouldBeFalse)
}

func TestEndianRoundTrip(t *testing.T) {
	for v := -32768; v <= 32767; v++ {
		b := []byte{byte(uint16(v) >> 8), byte(uint16(v))}
		test.That(t, int16BE(b), test.ShouldEqual, int16(v))
	}
}
