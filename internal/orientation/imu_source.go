package orientation

import (
	"fmt"

	"github.com/relabs-tech/tilt_maze/internal/mpu6050"
)

type imuSource struct {
	dev *mpu6050.Dev
}

// NewIMUSource wraps an initialized MPU6050 as an orientation.Source that
// derives roll/pitch from the accelerometer. Yaw stays 0; there is no
// magnetometer on this board.
func NewIMUSource(dev *mpu6050.Dev) Source {
	return &imuSource{dev: dev}
}

func (s *imuSource) Next() (Pose, error) {
	data, err := s.dev.ReadData()
	if err != nil {
		return Pose{}, fmt.Errorf("imu read: %w", err)
	}
	return Pose{
		Roll:  mpu6050.Roll(data.Ax, data.Ay, data.Az),
		Pitch: mpu6050.Pitch(data.Ax, data.Ay, data.Az),
		Yaw:   0,
	}, nil
}
