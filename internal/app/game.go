// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/tilt_maze/internal/buttons"
	"github.com/relabs-tech/tilt_maze/internal/config"
	"github.com/relabs-tech/tilt_maze/internal/display"
	"github.com/relabs-tech/tilt_maze/internal/maze"
	"github.com/relabs-tech/tilt_maze/internal/mpu6050"
)

// RunGame is the tilt maze main loop: read the accelerometer, integrate
// the ball, render, handle the two buttons. Button B resets the ball,
// button A exits.
func RunGame() error {
	log.Println("starting tilt maze")

	cfg := config.Get()

	bus, err := OpenBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	screen, err := display.New(bus, cfg.DisplayI2CAddr)
	if err != nil {
		return fmt.Errorf("display init: %w", err)
	}
	defer func() {
		if err := screen.Halt(); err != nil {
			log.Printf("game: display halt: %v", err)
		}
	}()

	dev, err := SetupIMU(bus)
	if err != nil {
		// Tell the player on the panel, then give up.
		screen.Clear()
		screen.DrawString(5, 30, "IMU FAILED!")
		if uerr := screen.Update(); uerr != nil {
			log.Printf("game: display update: %v", uerr)
		}
		return err
	}
	defer dev.Shutdown()

	// Without stored offsets, calibrate on the spot. The board must sit
	// flat and still for a couple of seconds.
	if dev.Offsets() == (mpu6050.Offsets{}) {
		screen.Clear()
		screen.DrawString(5, 25, "HOLD STILL")
		screen.DrawString(5, 40, "CALIBRATING...")
		if err := screen.Update(); err != nil {
			log.Printf("game: display update: %v", err)
		}
		dev.Calibrate(cfg.CalibrationSamples)
		log.Printf("game: calibrated, offsets %+v", dev.Offsets())
	}

	btns, err := buttons.New(cfg.ButtonAPin, cfg.ButtonBPin)
	if err != nil {
		return err
	}

	game := maze.NewGame(maze.Default())

	ticker := time.NewTicker(time.Duration(cfg.FrameInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("game: entering main loop")
	var lastSample mpu6050.Sample

	for range ticker.C {
		select {
		case event := <-btns.Events():
			switch event {
			case buttons.ButtonA:
				log.Println("game: button A, exiting")
				return nil
			case buttons.ButtonB:
				log.Println("game: button B, new game")
				game.Reset()
			}
		default:
		}

		// A failed sample keeps the previous tilt for one frame.
		if sample, err := dev.ReadData(); err != nil {
			log.Printf("game: sample read: %v", err)
		} else {
			lastSample = sample
		}

		game.Step(lastSample.Ax, lastSample.Ay)

		if game.Won() {
			drawWinScreen(screen)
		} else {
			drawFrame(screen, game)
		}
		if err := screen.Update(); err != nil {
			log.Printf("game: display update: %v", err)
		}
	}
	return nil
}

// drawFrame renders the maze and the ball into the back buffer.
func drawFrame(s *display.Screen, g *maze.Game) {
	s.Clear()

	grid := g.Grid()
	for y := 0; y < maze.Height; y++ {
		for x := 0; x < maze.Width; x++ {
			x0, y0 := x*maze.BlockSize, y*maze.BlockSize
			switch grid[y][x] {
			case maze.Wall:
				s.FillRect(x0, y0, x0+maze.BlockSize-1, y0+maze.BlockSize-1)
			case maze.Goal:
				s.DrawRect(x0+2, y0+2, x0+maze.BlockSize-3, y0+maze.BlockSize-3)
			}
		}
	}

	bx, by := g.Position()
	s.FillCircle(int(bx), int(by), maze.BallRadius)
}

func drawWinScreen(s *display.Screen) {
	s.Clear()
	s.DrawString(35, 20, "YOU WIN!")
	s.DrawString(10, 40, "BUTTON B: NEW")
	s.DrawString(10, 50, "BUTTON A: EXIT")
}
