package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/tilt_maze/internal/config"
	"github.com/relabs-tech/tilt_maze/internal/mpu6050"
	"github.com/relabs-tech/tilt_maze/internal/orientation"
)

// snapshot is what the browser sees, both on /api/* and over the socket.
type snapshot struct {
	Pose orientation.Pose `json:"pose"`
	IMU  mpu6050.Sample   `json:"imu"`
	Time string           `json:"time"`
}

// RunWeb serves the latest pose and IMU sample to browsers, fed from the
// telemetry MQTT topics.
func RunWeb() error {
	var (
		mu         sync.RWMutex
		lastPose   orientation.Pose
		lastSample mpu6050.Sample
		havePose   bool
		haveSample bool
	)

	cfg := config.Get()

	// 1) Connect to MQTT broker on the Pi
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to pose and scaled-sample topics, keep only the latest
	token := client.Subscribe(cfg.TopicPose, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p orientation.Pose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("MQTT payload unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastPose = p
		havePose = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("subscribed to MQTT topic %s", cfg.TopicPose)

	token = client.Subscribe(cfg.TopicIMUData, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s mpu6050.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("MQTT payload unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastSample = s
		haveSample = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("subscribed to MQTT topic %s", cfg.TopicIMUData)

	// 3) JSON API endpoints: latest pose and latest sample
	http.HandleFunc("/api/orientation", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !havePose {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastPose); err != nil {
			log.Printf("json encode error: %v", err)
		}
	})

	http.HandleFunc("/api/imu", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveSample {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastSample); err != nil {
			log.Printf("json encode error: %v", err)
		}
	})

	// 4) WebSocket: push a snapshot ten times a second
	upgrader := websocket.Upgrader{
		// The dashboard is served from the Pi itself, any origin is fine.
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()
		log.Printf("websocket client connected: %s", r.RemoteAddr)

		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for t := range ticker.C {
			mu.RLock()
			snap := snapshot{
				Pose: lastPose,
				IMU:  lastSample,
				Time: t.Format(time.RFC3339),
			}
			mu.RUnlock()

			if err := conn.WriteJSON(snap); err != nil {
				log.Printf("websocket client %s gone: %v", r.RemoteAddr, err)
				return
			}
		}
	})

	// 5) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
