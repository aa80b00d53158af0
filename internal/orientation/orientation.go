package orientation

import (
	"github.com/relabs-tech/tilt_maze/internal/mpu6050"
)

// Pose is the canonical tilt representation, in degrees.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Source is anything that can provide poses over time: the real IMU, the
// mock generator, maybe a replay source later.
type Source interface {
	Next() (Pose, error)
}

// FromAccel computes roll and pitch from an acceleration vector (any
// unit, only the ratios matter). Yaw is 0; the MPU6050 carries no
// magnetometer.
func FromAccel(ax, ay, az float64) Pose {
	return Pose{
		Roll:  mpu6050.Roll(ax, ay, az),
		Pitch: mpu6050.Pitch(ax, ay, az),
		Yaw:   0,
	}
}
