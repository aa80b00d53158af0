// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package mpu6050 drives the InvenSense MPU6050 6-axis IMU over I2C.
//
// The driver covers device lifecycle (Init / TestConnection / Shutdown),
// full-scale and DLPF configuration, atomic 14-byte burst reads of the
// accel/temp/gyro window, offset calibration, and conversion from raw
// counts to g / °/s / °C. The I2C bus is an injected collaborator so the
// driver can run against real hardware (periph.io i2c.Bus) or against an
// in-memory fake in tests.
//
// The Dev is meant to be used from a single goroutine; it does no locking
// of its own.
package mpu6050

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Bus is the two-wire capability the driver needs: a combined
// write-then-read transaction with a repeated start between the phases
// (r may be nil for a plain write). periph.io's i2c.Bus satisfies it.
type Bus interface {
	Tx(addr uint16, w, r []byte) error
}

// AccelScale selects the accelerometer full-scale range. The numeric value
// is the AFS_SEL code written to bits [4:3] of ACCEL_CONFIG.
type AccelScale byte

const (
	AccelScale2G  AccelScale = 0
	AccelScale4G  AccelScale = 1
	AccelScale8G  AccelScale = 2
	AccelScale16G AccelScale = 3
)

// Sensitivity returns the LSB count per g for the range. Unknown codes fall
// back to the ±2g figure so physical-unit math stays finite.
func (s AccelScale) Sensitivity() float64 {
	switch s {
	case AccelScale2G:
		return 16384.0
	case AccelScale4G:
		return 8192.0
	case AccelScale8G:
		return 4096.0
	case AccelScale16G:
		return 2048.0
	default:
		return 16384.0
	}
}

// countsPerG is the exact integer "1 g in LSB" used by calibration. The
// float factor is not cast at runtime; every range's sensitivity is an
// exact integer anyway.
func (s AccelScale) countsPerG() int64 {
	switch s {
	case AccelScale4G:
		return 8192
	case AccelScale8G:
		return 4096
	case AccelScale16G:
		return 2048
	default:
		return 16384
	}
}

// GyroScale selects the gyroscope full-scale range. The numeric value is
// the FS_SEL code written to bits [4:3] of GYRO_CONFIG.
type GyroScale byte

const (
	GyroScale250DPS  GyroScale = 0
	GyroScale500DPS  GyroScale = 1
	GyroScale1000DPS GyroScale = 2
	GyroScale2000DPS GyroScale = 3
)

// Sensitivity returns the LSB count per °/s for the range. Unknown codes
// fall back to the ±250°/s figure.
func (s GyroScale) Sensitivity() float64 {
	switch s {
	case GyroScale250DPS:
		return 131.0
	case GyroScale500DPS:
		return 65.5
	case GyroScale1000DPS:
		return 32.8
	case GyroScale2000DPS:
		return 16.4
	default:
		return 131.0
	}
}

// DLPF selects the digital low-pass filter bandwidth, written to bits
// [2:0] of CONFIG. Bandwidths are the accelerometer figures from the
// datasheet.
type DLPF byte

const (
	DLPF260Hz DLPF = 0
	DLPF184Hz DLPF = 1
	DLPF94Hz  DLPF = 2
	DLPF44Hz  DLPF = 3
	DLPF21Hz  DLPF = 4
	DLPF10Hz  DLPF = 5
	DLPF5Hz   DLPF = 6
)

// Offsets are per-axis calibration biases in raw LSB units. They are
// subtracted from every raw reading of the six inertial axes.
type Offsets struct {
	Ax int16 `json:"ax"`
	Ay int16 `json:"ay"`
	Az int16 `json:"az"`
	Gx int16 `json:"gx"`
	Gy int16 `json:"gy"`
	Gz int16 `json:"gz"`
}

// RawSample is one offset-compensated reading in raw counts. Temperature
// is never offset-compensated.
type RawSample struct {
	Ax          int16 `json:"ax"`
	Ay          int16 `json:"ay"`
	Az          int16 `json:"az"`
	Temperature int16 `json:"temp"`
	Gx          int16 `json:"gx"`
	Gy          int16 `json:"gy"`
	Gz          int16 `json:"gz"`
}

// Sample is one reading in physical units: g for the accelerometer,
// °/s for the gyroscope, °C for the thermometer.
type Sample struct {
	Ax          float64 `json:"ax_g"`
	Ay          float64 `json:"ay_g"`
	Az          float64 `json:"az_g"`
	Gx          float64 `json:"gx_dps"`
	Gy          float64 `json:"gy_dps"`
	Gz          float64 `json:"gz_dps"`
	Temperature float64 `json:"temp_c"`
}

// Dev is an MPU6050 on an I2C bus. Create one with New, then call Init.
type Dev struct {
	bus   Bus
	addr  uint16
	sleep func(time.Duration)

	initialized      bool
	accelScale       AccelScale
	gyroScale        GyroScale
	accelScaleFactor float64
	gyroScaleFactor  float64
	offsets          Offsets
}

// New returns an uninitialized device handle on the default address 0x68.
// No bus traffic happens until Init.
func New(bus Bus) *Dev {
	return &Dev{
		bus:              bus,
		addr:             DefaultAddress,
		sleep:            time.Sleep,
		accelScale:       AccelScale2G,
		gyroScale:        GyroScale250DPS,
		accelScaleFactor: AccelScale2G.Sensitivity(),
		gyroScaleFactor:  GyroScale250DPS.Sensitivity(),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("MPU6050{addr:0x%02X, accel:±%dg, gyro:±%d°/s}",
		d.addr, []int{2, 4, 8, 16}[d.accelScale&3], []int{250, 500, 1000, 2000}[d.gyroScale&3])
}

// writeReg writes a single register: one transaction of [reg, value].
func (d *Dev) writeReg(reg, value byte) error {
	if err := d.bus.Tx(d.addr, []byte{reg, value}, nil); err != nil {
		return fmt.Errorf("mpu6050: write reg 0x%02X: %w", reg, err)
	}
	return nil
}

// readRegs burst-reads len(buf) contiguous registers starting at reg. The
// register index write and the read happen in one transaction with a
// repeated start, so the device serves a consistent latched snapshot.
func (d *Dev) readRegs(reg byte, buf []byte) error {
	if err := d.bus.Tx(d.addr, []byte{reg}, buf); err != nil {
		return fmt.Errorf("mpu6050: read %d bytes at 0x%02X: %w", len(buf), reg, err)
	}
	return nil
}

func (d *Dev) readReg(reg byte) (byte, error) {
	var buf [1]byte
	if err := d.readRegs(reg, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// Init powers up and configures the device: reset, wake on the internal
// clock, all axes enabled, ±2g / ±250°/s, 44Hz DLPF, offsets zeroed.
// Calling Init on an already-initialized handle is a no-op.
func (d *Dev) Init() error {
	if d.initialized {
		return nil
	}

	// Reset, then wait for the device to come back.
	if err := d.writeReg(regPwrMgmt1, pwrMgmt1Reset); err != nil {
		return err
	}
	d.sleep(100 * time.Millisecond)

	// Clear the sleep bit, run off the internal clock.
	if err := d.writeReg(regPwrMgmt1, pwrMgmt1Run); err != nil {
		return err
	}
	d.sleep(10 * time.Millisecond)

	// All six axes out of standby.
	if err := d.writeReg(regPwrMgmt2, 0x00); err != nil {
		return err
	}

	if err := d.SetAccelScale(AccelScale2G); err != nil {
		return err
	}
	if err := d.SetGyroScale(GyroScale250DPS); err != nil {
		return err
	}
	if err := d.SetDLPF(DLPF44Hz); err != nil {
		return err
	}

	d.offsets = Offsets{}
	d.initialized = true
	return nil
}

// Initialized reports whether Init has completed successfully.
func (d *Dev) Initialized() bool {
	return d.initialized
}

// TestConnection reads WHO_AM_I and verifies the identity byte.
func (d *Dev) TestConnection() error {
	id, err := d.readReg(regWhoAmI)
	if err != nil {
		return err
	}
	if id != whoAmIMPU6050 && id != whoAmIVariant {
		return fmt.Errorf("mpu6050: unexpected WHO_AM_I 0x%02X", id)
	}
	return nil
}

// Shutdown puts the device to sleep and marks the handle uninitialized.
// Bus errors are ignored; after Shutdown the handle always reads as not
// initialized. Closing the bus itself is the owner's job.
func (d *Dev) Shutdown() {
	_ = d.writeReg(regPwrMgmt1, pwrMgmt1Sleep)
	d.initialized = false
}

// SetAccelScale writes the accelerometer full-scale range and updates the
// cached scale factor in the same step.
func (d *Dev) SetAccelScale(s AccelScale) error {
	if err := d.writeReg(regAccelConfig, byte(s)<<3); err != nil {
		return err
	}
	d.accelScale = s
	d.accelScaleFactor = s.Sensitivity()
	return nil
}

// SetGyroScale writes the gyroscope full-scale range and updates the
// cached scale factor in the same step.
func (d *Dev) SetGyroScale(s GyroScale) error {
	if err := d.writeReg(regGyroConfig, byte(s)<<3); err != nil {
		return err
	}
	d.gyroScale = s
	d.gyroScaleFactor = s.Sensitivity()
	return nil
}

// SetDLPF writes the digital low-pass filter bandwidth.
func (d *Dev) SetDLPF(f DLPF) error {
	return d.writeReg(regConfig, byte(f))
}

// AccelScaleFactor returns the current LSB-per-g factor.
func (d *Dev) AccelScaleFactor() float64 { return d.accelScaleFactor }

// GyroScaleFactor returns the current LSB-per-(°/s) factor.
func (d *Dev) GyroScaleFactor() float64 { return d.gyroScaleFactor }

// ReadRaw burst-reads the full 14-byte data window at ACCEL_XOUT_H in a
// single transaction, so accel, temperature and gyro come from the same
// sensor-frame snapshot. Offsets are subtracted from the six inertial
// axes. On error the returned sample must be discarded.
func (d *Dev) ReadRaw() (RawSample, error) {
	var buf [14]byte
	if err := d.readRegs(regAccelXOutH, buf[:]); err != nil {
		return RawSample{}, err
	}
	return RawSample{
		Ax:          int16BE(buf[0:2]) - d.offsets.Ax,
		Ay:          int16BE(buf[2:4]) - d.offsets.Ay,
		Az:          int16BE(buf[4:6]) - d.offsets.Az,
		Temperature: int16BE(buf[6:8]),
		Gx:          int16BE(buf[8:10]) - d.offsets.Gx,
		Gy:          int16BE(buf[10:12]) - d.offsets.Gy,
		Gz:          int16BE(buf[12:14]) - d.offsets.Gz,
	}, nil
}

// ReadData reads one sample and converts it to physical units using the
// current scale factors.
func (d *Dev) ReadData() (Sample, error) {
	raw, err := d.ReadRaw()
	if err != nil {
		return Sample{}, err
	}
	return Sample{
		Ax:          float64(raw.Ax) / d.accelScaleFactor,
		Ay:          float64(raw.Ay) / d.accelScaleFactor,
		Az:          float64(raw.Az) / d.accelScaleFactor,
		Gx:          float64(raw.Gx) / d.gyroScaleFactor,
		Gy:          float64(raw.Gy) / d.gyroScaleFactor,
		Gz:          float64(raw.Gz) / d.gyroScaleFactor,
		Temperature: RawToCelsius(raw.Temperature),
	}, nil
}

// ReadAccelRaw reads only the accelerometer block (6 bytes at 0x3B),
// offset-compensated.
func (d *Dev) ReadAccelRaw() (x, y, z int16, err error) {
	var buf [6]byte
	if err := d.readRegs(regAccelXOutH, buf[:]); err != nil {
		return 0, 0, 0, err
	}
	return int16BE(buf[0:2]) - d.offsets.Ax,
		int16BE(buf[2:4]) - d.offsets.Ay,
		int16BE(buf[4:6]) - d.offsets.Az, nil
}

// ReadGyroRaw reads only the gyroscope block (6 bytes at 0x43),
// offset-compensated.
func (d *Dev) ReadGyroRaw() (x, y, z int16, err error) {
	var buf [6]byte
	if err := d.readRegs(regGyroXOutH, buf[:]); err != nil {
		return 0, 0, 0, err
	}
	return int16BE(buf[0:2]) - d.offsets.Gx,
		int16BE(buf[2:4]) - d.offsets.Gy,
		int16BE(buf[4:6]) - d.offsets.Gz, nil
}

// ReadTemperatureRaw reads the raw temperature word (2 bytes at 0x41).
func (d *Dev) ReadTemperatureRaw() (int16, error) {
	var buf [2]byte
	if err := d.readRegs(regTempOutH, buf[:]); err != nil {
		return 0, err
	}
	return int16BE(buf[:]), nil
}

// Calibrate averages samples taken with the device at rest, flat, +1g on
// the Z axis, and stores the per-axis means as offsets. samples <= 0 means
// 1000. The exact integer 1g-in-LSB for the current accel range is
// subtracted from every Z sample so the gravity vector does not end up in
// the offset. A failed read still counts toward the sample total and
// contributes zero to the sums.
func (d *Dev) Calibrate(samples int) {
	if samples <= 0 {
		samples = 1000
	}

	// Read unbiased while accumulating.
	d.offsets = Offsets{}

	oneG := d.accelScale.countsPerG()
	var sumAx, sumAy, sumAz, sumGx, sumGy, sumGz int64

	for i := 0; i < samples; i++ {
		if raw, err := d.ReadRaw(); err == nil {
			sumAx += int64(raw.Ax)
			sumAy += int64(raw.Ay)
			sumAz += int64(raw.Az) - oneG
			sumGx += int64(raw.Gx)
			sumGy += int64(raw.Gy)
			sumGz += int64(raw.Gz)
		}
		d.sleep(2 * time.Millisecond)
	}

	n := int64(samples)
	d.offsets = Offsets{
		Ax: int16(sumAx / n),
		Ay: int16(sumAy / n),
		Az: int16(sumAz / n),
		Gx: int16(sumGx / n),
		Gy: int16(sumGy / n),
		Gz: int16(sumGz / n),
	}
}

// SetOffsets replaces the calibration offsets.
func (d *Dev) SetOffsets(o Offsets) {
	d.offsets = o
}

// Offsets returns the current calibration offsets.
func (d *Dev) Offsets() Offsets {
	return d.offsets
}

// ReadRegister reads one register by address. Normal operation goes
// through the typed methods; this exists for the register debug tool.
func (d *Dev) ReadRegister(reg byte) (byte, error) {
	return d.readReg(reg)
}

// WriteRegister writes one register by address, for the register debug
// tool.
func (d *Dev) WriteRegister(reg, value byte) error {
	return d.writeReg(reg, value)
}

// int16BE decodes a big-endian signed 16-bit word.
func int16BE(b []byte) int16 {
	return int16(binary.BigEndian.Uint16(b))
}
