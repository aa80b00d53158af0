// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package mpu6050

// DefaultAddress is the 7-bit I2C address of the MPU6050 with AD0 low.
const DefaultAddress uint16 = 0x68

// Register addresses used by this driver. The full map is in RegisterMap.
const (
	regConfig      = 0x1A // DLPF_CFG in bits [2:0]
	regGyroConfig  = 0x1B // GYRO_FS_SEL in bits [4:3]
	regAccelConfig = 0x1C // ACCEL_FS_SEL in bits [4:3]
	regAccelXOutH  = 0x3B
	regTempOutH    = 0x41
	regGyroXOutH   = 0x43
	regPwrMgmt1    = 0x6B
	regPwrMgmt2    = 0x6C
	regWhoAmI      = 0x75
)

// PWR_MGMT_1 values.
const (
	pwrMgmt1Reset = 0x80
	pwrMgmt1Run   = 0x00 // clear sleep, internal 8MHz clock
	pwrMgmt1Sleep = 0x40
)

// WHO_AM_I identities. 0x68 is the documented value; 0x70 shows up on some
// MPU6050-class parts (notably MPU6500 dies sold on GY-521 style boards).
const (
	whoAmIMPU6050 = 0x68
	whoAmIVariant = 0x70
)

// BitField describes a named bit range inside a register.
type BitField struct {
	Bits        string `json:"bits"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Values      string `json:"values,omitempty"`
}

// RegisterInfo carries metadata for one register, for the register debug tool.
type RegisterInfo struct {
	Address     byte       `json:"address"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Access      string     `json:"access"` // "R", "W", "RW"
	BitFields   []BitField `json:"bit_fields,omitempty"`
}

// RegisterMap returns metadata for the MPU6050 registers this project touches.
func RegisterMap() []RegisterInfo {
	return []RegisterInfo{
		{Address: regConfig, Name: "CONFIG", Description: "Configuration (DLPF)", Access: "RW",
			BitFields: []BitField{
				{Bits: "2:0", Name: "DLPF_CFG", Description: "Digital Low Pass Filter", Values: "0=260Hz, 1=184Hz, 2=94Hz, 3=44Hz, 4=21Hz, 5=10Hz, 6=5Hz"},
			}},
		{Address: regGyroConfig, Name: "GYRO_CONFIG", Description: "Gyroscope Configuration", Access: "RW",
			BitFields: []BitField{
				{Bits: "4:3", Name: "FS_SEL", Description: "Gyro Full Scale Range", Values: "0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s"},
			}},
		{Address: regAccelConfig, Name: "ACCEL_CONFIG", Description: "Accelerometer Configuration", Access: "RW",
			BitFields: []BitField{
				{Bits: "4:3", Name: "AFS_SEL", Description: "Accel Full Scale Range", Values: "0=±2g, 1=±4g, 2=±8g, 3=±16g"},
			}},

		{Address: 0x3B, Name: "ACCEL_XOUT_H", Description: "Accelerometer X-Axis High Byte", Access: "R"},
		{Address: 0x3C, Name: "ACCEL_XOUT_L", Description: "Accelerometer X-Axis Low Byte", Access: "R"},
		{Address: 0x3D, Name: "ACCEL_YOUT_H", Description: "Accelerometer Y-Axis High Byte", Access: "R"},
		{Address: 0x3E, Name: "ACCEL_YOUT_L", Description: "Accelerometer Y-Axis Low Byte", Access: "R"},
		{Address: 0x3F, Name: "ACCEL_ZOUT_H", Description: "Accelerometer Z-Axis High Byte", Access: "R"},
		{Address: 0x40, Name: "ACCEL_ZOUT_L", Description: "Accelerometer Z-Axis Low Byte", Access: "R"},
		{Address: 0x41, Name: "TEMP_OUT_H", Description: "Temperature High Byte", Access: "R"},
		{Address: 0x42, Name: "TEMP_OUT_L", Description: "Temperature Low Byte", Access: "R"},
		{Address: 0x43, Name: "GYRO_XOUT_H", Description: "Gyroscope X-Axis High Byte", Access: "R"},
		{Address: 0x44, Name: "GYRO_XOUT_L", Description: "Gyroscope X-Axis Low Byte", Access: "R"},
		{Address: 0x45, Name: "GYRO_YOUT_H", Description: "Gyroscope Y-Axis High Byte", Access: "R"},
		{Address: 0x46, Name: "GYRO_YOUT_L", Description: "Gyroscope Y-Axis Low Byte", Access: "R"},
		{Address: 0x47, Name: "GYRO_ZOUT_H", Description: "Gyroscope Z-Axis High Byte", Access: "R"},
		{Address: 0x48, Name: "GYRO_ZOUT_L", Description: "Gyroscope Z-Axis Low Byte", Access: "R"},

		{Address: regPwrMgmt1, Name: "PWR_MGMT_1", Description: "Power Management 1", Access: "RW",
			BitFields: []BitField{
				{Bits: "7", Name: "DEVICE_RESET", Description: "Device reset", Values: "1=Reset device"},
				{Bits: "6", Name: "SLEEP", Description: "Sleep mode", Values: "0=Run, 1=Sleep"},
				{Bits: "2:0", Name: "CLKSEL", Description: "Clock source", Values: "0=Internal 8MHz"},
			}},
		{Address: regPwrMgmt2, Name: "PWR_MGMT_2", Description: "Power Management 2", Access: "RW",
			BitFields: []BitField{
				{Bits: "5", Name: "STBY_XA", Description: "X accel standby", Values: "0=Enabled, 1=Standby"},
				{Bits: "4", Name: "STBY_YA", Description: "Y accel standby", Values: "0=Enabled, 1=Standby"},
				{Bits: "3", Name: "STBY_ZA", Description: "Z accel standby", Values: "0=Enabled, 1=Standby"},
				{Bits: "2", Name: "STBY_XG", Description: "X gyro standby", Values: "0=Enabled, 1=Standby"},
				{Bits: "1", Name: "STBY_YG", Description: "Y gyro standby", Values: "0=Enabled, 1=Standby"},
				{Bits: "0", Name: "STBY_ZG", Description: "Z gyro standby", Values: "0=Enabled, 1=Standby"},
			}},

		{Address: regWhoAmI, Name: "WHO_AM_I", Description: "Device ID (0x68, or 0x70 on some parts)", Access: "R"},
	}
}
