package app

import (
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/tilt_maze/internal/config"
)

// RunCalibration measures the rest bias of the sensor and stores it in
// the offsets file for the game and telemetry producer to pick up.
func RunCalibration() error {
	cfg := config.Get()

	bus, err := OpenBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	dev, err := SetupIMU(bus)
	if err != nil {
		return err
	}
	defer dev.Shutdown()

	samples := cfg.CalibrationSamples
	if samples <= 0 {
		samples = 1000
	}
	log.Printf("calibrate: place the board flat and keep it still, sampling %d times (~%s)",
		samples, (time.Duration(samples) * 2 * time.Millisecond).Round(time.Second))

	dev.Calibrate(samples)

	offsets := dev.Offsets()
	fmt.Printf("offsets: accel ax=%d ay=%d az=%d  gyro gx=%d gy=%d gz=%d\n",
		offsets.Ax, offsets.Ay, offsets.Az, offsets.Gx, offsets.Gy, offsets.Gz)

	if cfg.OffsetsFile == "" {
		log.Println("calibrate: no offsets_file configured, not persisting")
		return nil
	}

	stored := StoredOffsets{
		Version:    1,
		Timestamp:  time.Now(),
		AccelRange: cfg.IMUAccelRange,
		GyroRange:  cfg.IMUGyroRange,
		Offsets:    offsets,
	}
	if err := SaveOffsets(cfg.OffsetsFile, stored); err != nil {
		return err
	}
	log.Printf("calibrate: offsets written to %s", cfg.OffsetsFile)
	return nil
}
