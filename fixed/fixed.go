// Package fixed provides fixed-point arithmetic for the pixel pipelines, where
// floating point and division are too slow to use per pixel.
package fixed

//go:generate go run mkfixed.go UInt16_16 uint32
type UInt16_16 uint32

//go:generate go run mkfixed.go UInt8_8 uint16
type UInt8_8 uint16
