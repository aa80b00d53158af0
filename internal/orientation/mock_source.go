// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"time"
)

type mockSource struct {
	start time.Time
}

// NewMockSource creates a bench source that sweeps a gentle figure-eight
// tilt, for running the game or the monitors without an IMU attached.
func NewMockSource() Source {
	return &mockSource{start: time.Now()}
}

func (m *mockSource) Next() (Pose, error) {
	elapsed := time.Since(m.start).Seconds()

	return Pose{
		Roll:  25 * math.Sin(elapsed*0.9),
		Pitch: 25 * math.Sin(1.8*elapsed),
		Yaw:   0, // no magnetometer on this board
	}, nil
}
