// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/tilt_maze/internal/config"
	"github.com/relabs-tech/tilt_maze/internal/mpu6050"
)

// OpenBus initializes periph and opens the configured I2C bus at 400kHz.
// The caller owns the closer.
func OpenBus() (i2c.BusCloser, error) {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("I2C bus open (%q): %w", cfg.I2CBus, err)
	}

	// The MPU6050 supports fast mode. Some adapters fix their speed in
	// the device tree and refuse the call; that is not fatal.
	if err := bus.SetSpeed(400 * physic.KiloHertz); err != nil {
		log.Printf("imu: could not set bus speed to 400kHz: %v", err)
	}

	return bus, nil
}

// SetupIMU creates the MPU6050 on an open bus, verifies its identity, and
// applies the configured ranges and filter. Stored offsets are loaded
// when an offsets file is configured and present.
func SetupIMU(bus i2c.Bus) (*mpu6050.Dev, error) {
	cfg := config.Get()

	dev := mpu6050.New(bus)
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("imu init: %w", err)
	}
	if err := dev.TestConnection(); err != nil {
		return nil, fmt.Errorf("imu identity: %w", err)
	}

	if err := dev.SetAccelScale(mpu6050.AccelScale(cfg.IMUAccelRange)); err != nil {
		return nil, fmt.Errorf("imu set accel range: %w", err)
	}
	log.Printf("imu: accelerometer range set to %d (±%dg)", cfg.IMUAccelRange, []int{2, 4, 8, 16}[cfg.IMUAccelRange])

	if err := dev.SetGyroScale(mpu6050.GyroScale(cfg.IMUGyroRange)); err != nil {
		return nil, fmt.Errorf("imu set gyro range: %w", err)
	}
	log.Printf("imu: gyroscope range set to %d (±%d°/s)", cfg.IMUGyroRange, []int{250, 500, 1000, 2000}[cfg.IMUGyroRange])

	if err := dev.SetDLPF(mpu6050.DLPF(cfg.IMUDLPFConfig)); err != nil {
		return nil, fmt.Errorf("imu set DLPF: %w", err)
	}
	log.Printf("imu: DLPF config set to %d", cfg.IMUDLPFConfig)

	if cfg.OffsetsFile != "" {
		stored, err := LoadOffsets(cfg.OffsetsFile)
		switch {
		case err != nil:
			log.Printf("imu: no stored offsets (%v), run calibrate to create them", err)
		case stored.AccelRange != cfg.IMUAccelRange || stored.GyroRange != cfg.IMUGyroRange:
			log.Printf("imu: stored offsets were taken at ranges %d/%d, configured %d/%d; ignoring them",
				stored.AccelRange, stored.GyroRange, cfg.IMUAccelRange, cfg.IMUGyroRange)
		default:
			dev.SetOffsets(stored.Offsets)
			log.Printf("imu: loaded offsets from %s: %+v", cfg.OffsetsFile, stored.Offsets)
		}
	}

	return dev, nil
}
