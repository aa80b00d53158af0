// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/relabs-tech/tilt_maze/internal/config"
	"github.com/relabs-tech/tilt_maze/internal/orientation"
)

// RunTelemetry publishes raw counts, scaled samples and the derived pose
// over MQTT so the console and web viewers can follow the board.
func RunTelemetry() error {
	log.Println("starting tilt-maze telemetry producer")

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

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDTelemetry)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)

	log.Println("connected to MQTT, starting publish loop")

	ticker := time.NewTicker(time.Duration(cfg.IMUSampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for t := range ticker.C {
		raw, err := dev.ReadRaw()
		if err != nil {
			log.Printf("telemetry: raw read: %v", err)
			continue
		}
		sample, err := dev.ReadData()
		if err != nil {
			log.Printf("telemetry: sample read: %v", err)
			continue
		}
		pose := orientation.FromAccel(sample.Ax, sample.Ay, sample.Az)

		if payload, err := json.Marshal(raw); err != nil {
			log.Printf("telemetry: raw marshal: %v", err)
		} else if token := client.Publish(cfg.TopicIMURaw, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (imu/raw): %v", token.Error())
			continue
		}

		if payload, err := json.Marshal(sample); err != nil {
			log.Printf("telemetry: sample marshal: %v", err)
		} else if token := client.Publish(cfg.TopicIMUData, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (imu/data): %v", token.Error())
			continue
		}

		if payload, err := json.Marshal(pose); err != nil {
			log.Printf("telemetry: pose marshal: %v", err)
		} else if token := client.Publish(cfg.TopicPose, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (pose): %v", token.Error())
			continue
		}

		log.Printf("%s tick: pose R=%.2f P=%.2f | accel ax=%.3f ay=%.3f az=%.3f | gyro gx=%.2f gy=%.2f gz=%.2f | temp %.1fC",
			t.Format(time.RFC3339),
			pose.Roll, pose.Pitch,
			sample.Ax, sample.Ay, sample.Az,
			sample.Gx, sample.Gy, sample.Gz,
			sample.Temperature,
		)
	}
	return nil
}
