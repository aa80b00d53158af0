// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"strings"

	"github.com/relabs-tech/tilt_maze/internal/mpu6050"
)

// RunRegisterDump prints every known MPU6050 register with its current
// value and bit field breakdown. With write set (form "0xADDR=0xVALUE")
// it writes that register first, so a range or filter change can be
// checked on live hardware without touching the game code.
func RunRegisterDump(write string) error {
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

	if write != "" {
		var addr, value byte
		if _, err := fmt.Sscanf(write, "0x%X=0x%X", &addr, &value); err != nil {
			return fmt.Errorf("bad -write value %q, want 0xADDR=0xVALUE: %w", write, err)
		}
		if err := dev.WriteRegister(addr, value); err != nil {
			return fmt.Errorf("write 0x%02X: %w", addr, err)
		}
		log.Printf("regdump: wrote 0x%02X to register 0x%02X", value, addr)
	}

	fmt.Printf("%-6s %-14s %-4s %-6s %s\n", "ADDR", "NAME", "RW", "VALUE", "DESCRIPTION")
	fmt.Println(strings.Repeat("-", 78))

	for _, info := range mpu6050.RegisterMap() {
		value, err := dev.ReadRegister(info.Address)
		valueStr := fmt.Sprintf("0x%02X", value)
		if err != nil {
			valueStr = "ERR"
			log.Printf("regdump: read 0x%02X: %v", info.Address, err)
		}

		fmt.Printf("0x%02X   %-14s %-4s %-6s %s\n",
			info.Address, info.Name, info.Access, valueStr, info.Description)

		for _, bf := range info.BitFields {
			line := fmt.Sprintf("       [%s] %s: %s", bf.Bits, bf.Name, bf.Description)
			if bf.Values != "" {
				line += " (" + bf.Values + ")"
			}
			fmt.Println(line)
		}
	}
	return nil
}
