package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/tilt_maze/internal/config"
	"github.com/relabs-tech/tilt_maze/internal/mpu6050"
	"github.com/relabs-tech/tilt_maze/internal/orientation"
)

// RunConsole prints the telemetry stream to stdout. With mock set it
// skips MQTT entirely and prints a synthetic pose sweep, which is handy
// on a desk without a broker or a board.
func RunConsole(mock bool) error {
	if mock {
		return runConsoleMock()
	}

	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	poseToken := client.Subscribe(cfg.TopicPose, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p orientation.Pose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("console: pose unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[POSE] ROLL=%6.2f  PITCH=%6.2f\n",
			p.Roll, p.Pitch,
		)
	})
	poseToken.Wait()
	if poseToken.Error() != nil {
		return poseToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicPose)

	rawToken := client.Subscribe(cfg.TopicIMURaw, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s mpu6050.RawSample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: raw unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[RAW ] ax=%6d ay=%6d az=%6d  gx=%6d gy=%6d gz=%6d  t=%6d\n",
			s.Ax, s.Ay, s.Az, s.Gx, s.Gy, s.Gz, s.Temperature,
		)
	})
	rawToken.Wait()
	if rawToken.Error() != nil {
		return rawToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicIMURaw)

	dataToken := client.Subscribe(cfg.TopicIMUData, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s mpu6050.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: sample unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[DATA] ax=%7.3fg ay=%7.3fg az=%7.3fg  gx=%8.2f gy=%8.2f gz=%8.2f dps  %5.1fC\n",
			s.Ax, s.Ay, s.Az, s.Gx, s.Gy, s.Gz, s.Temperature,
		)
	})
	dataToken.Wait()
	if dataToken.Error() != nil {
		return dataToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicIMUData)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func runConsoleMock() error {
	log.Println("console: using mock orientation source")

	src := orientation.NewMockSource()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			log.Println("console: shutting down")
			return nil
		case <-ticker.C:
			p, err := src.Next()
			if err != nil {
				log.Printf("console: mock source error: %v", err)
				continue
			}
			fmt.Printf("[POSE] ROLL=%6.2f  PITCH=%6.2f\n", p.Roll, p.Pitch)
		}
	}
}
